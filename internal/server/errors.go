package server

import "errors"

// Protocol errors.
var (
	// ErrBadCommand is returned for frames that are not a JSON command.
	ErrBadCommand = errors.New("malformed command")

	// ErrUnknownOp is returned for an op the server does not implement.
	ErrUnknownOp = errors.New("unknown op")

	// ErrBadColor is returned when a color is not three channels 0-255.
	ErrBadColor = errors.New("color must be [r, g, b] with channels 0-255")

	// ErrServerClosed is returned by Serve after Shutdown.
	ErrServerClosed = errors.New("server closed")
)
