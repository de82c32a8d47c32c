package canvas

import "fmt"

// Color is an 8-bit per channel RGB triple.
// Colors are plain values and compare with ==.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	White = Color{R: 255, G: 255, B: 255}
	Black = Color{}
)

// RGB creates a color from its channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// FromBytes creates a color from the first three bytes of b.
// It reports false if b holds fewer than three bytes.
func FromBytes(b []byte) (Color, bool) {
	if len(b) < 3 {
		return Color{}, false
	}
	return Color{R: b[0], G: b[1], B: b[2]}, true
}

// Hex returns the color as a "#rrggbb" string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}
