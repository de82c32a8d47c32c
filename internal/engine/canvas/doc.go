// Package canvas provides the pixel grid at the bottom of the editing engine.
//
// A Canvas is a fixed-size, row-major grid of RGB colors. Once created it is
// never mutated: Paint returns a new Canvas when the color at a cell actually
// changes and reports "unchanged" otherwise. This lets the history package
// store canvases by pointer and share them freely between log positions.
//
// # Basic Usage
//
//	c, err := canvas.New(40, 40) // all cells white
//	if err != nil {
//		return err
//	}
//
//	next, changed, err := c.Paint(3, 4, canvas.RGB(255, 0, 0))
//	if err != nil {
//		return err // ErrOutOfBounds
//	}
//	if changed {
//		c = next
//	}
//
//	pixels := c.RawBytes() // len == 40*40*3, R,G,B order
package canvas
