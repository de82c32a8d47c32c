package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoTarget is returned when a script runs without a canvas target.
	ErrNoTarget = errors.New("no paint target")
)

// ScriptError reports a failure while running a script.
type ScriptError struct {
	Source string // File path or "<string>"
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Source, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
