package app

import (
	"errors"
	"testing"
)

func TestOperationError(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{"with target", NewOperationError("export", "out.png", base), "export out.png: boom"},
		{"without target", NewOperationError("clear", "", base), "clear: boom"},
		{"no cause", NewOperationError("quit", "", nil), "quit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOperationError_Is(t *testing.T) {
	err := NewOperationError("paint", "(1, 1)", ErrNoSession)

	if !errors.Is(err, ErrNoSession) {
		t.Error("expected errors.Is to match wrapped sentinel")
	}
	if !errors.Is(err, err) {
		t.Error("expected errors.Is to match itself")
	}
	if errors.Is(err, NewOperationError("paint", "(1, 1)", ErrNoSession)) {
		t.Error("distinct wrappers should not match")
	}

	var nilErr *OperationError
	if nilErr.Error() != "" || nilErr.Unwrap() != nil || nilErr.Is(ErrQuit) {
		t.Error("nil receiver should be inert")
	}
}

func TestInitError(t *testing.T) {
	err := &InitError{Component: "backend", Err: ErrNoBackend}
	if got := err.Error(); got != "failed to initialize backend: no backend configured" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrNoBackend) {
		t.Error("expected Unwrap to expose cause")
	}
}
