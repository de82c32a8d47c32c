package canvas

import "math"

// BytesPerPixel is the number of bytes RawBytes emits per cell.
const BytesPerPixel = 3

// Canvas is an immutable width x height grid of colors.
type Canvas struct {
	width  int
	height int
	cells  []Color // row-major, len == width*height
}

// New creates a canvas with every cell set to White.
// The raw byte length width*height*BytesPerPixel must fit in an int.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if width > math.MaxInt/BytesPerPixel/height {
		return nil, ErrInvalidDimensions
	}

	cells := make([]Color, width*height)
	for i := range cells {
		cells[i] = White
	}

	return &Canvas{
		width:  width,
		height: height,
		cells:  cells,
	}, nil
}

// Width returns the number of columns.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the number of rows.
func (c *Canvas) Height() int {
	return c.height
}

// Size returns the width and height.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Len returns the number of cells.
func (c *Canvas) Len() int {
	return len(c.cells)
}

// Contains reports whether (x, y) lies on the grid.
func (c *Canvas) Contains(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// At returns the color of the cell at (x, y).
func (c *Canvas) At(x, y int) (Color, error) {
	if err := c.check(x, y); err != nil {
		return Color{}, err
	}
	return c.cells[c.index(x, y)], nil
}

// RawBytes returns the grid as a flat R,G,B byte sequence in row-major order.
// The slice is freshly allocated on every call.
func (c *Canvas) RawBytes() []byte {
	out := make([]byte, 0, len(c.cells)*BytesPerPixel)
	for _, px := range c.cells {
		out = append(out, px.R, px.G, px.B)
	}
	return out
}

// Paint computes the canvas that results from setting (x, y) to color.
//
// If the cell already holds color, Paint returns (nil, false, nil) and no new
// canvas is allocated. Otherwise it returns a copy of c with the one cell
// replaced. The receiver is never modified.
func (c *Canvas) Paint(x, y int, color Color) (*Canvas, bool, error) {
	if err := c.check(x, y); err != nil {
		return nil, false, err
	}

	idx := c.index(x, y)
	if c.cells[idx] == color {
		return nil, false, nil
	}

	cells := make([]Color, len(c.cells))
	copy(cells, c.cells)
	cells[idx] = color

	return &Canvas{
		width:  c.width,
		height: c.height,
		cells:  cells,
	}, true, nil
}

// Equal reports whether two canvases have the same size and cells.
func (c *Canvas) Equal(other *Canvas) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	if c.width != other.width || c.height != other.height {
		return false
	}
	for i := range c.cells {
		if c.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Each calls fn for every cell in row-major order.
func (c *Canvas) Each(fn func(x, y int, color Color)) {
	for i, px := range c.cells {
		fn(i%c.width, i/c.width, px)
	}
}

func (c *Canvas) index(x, y int) int {
	return y*c.width + x
}

func (c *Canvas) check(x, y int) error {
	if c.Contains(x, y) {
		return nil
	}
	return &PointError{
		X:      x,
		Y:      y,
		Width:  c.width,
		Height: c.height,
		Err:    ErrOutOfBounds,
	}
}
