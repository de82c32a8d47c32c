package canvas

import (
	"errors"
	"fmt"
)

// Errors returned by canvas operations.
var (
	// ErrInvalidDimensions indicates a width or height that is not positive,
	// or a grid too large to address.
	ErrInvalidDimensions = errors.New("invalid canvas dimensions")

	// ErrOutOfBounds indicates a coordinate outside the canvas grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
)

// PointError describes a rejected coordinate together with the grid it was
// checked against.
type PointError struct {
	X, Y          int
	Width, Height int
	Err           error
}

func (e *PointError) Error() string {
	return fmt.Sprintf("(%d, %d) on %dx%d canvas: %v", e.X, e.Y, e.Width, e.Height, e.Err)
}

func (e *PointError) Unwrap() error {
	return e.Err
}
