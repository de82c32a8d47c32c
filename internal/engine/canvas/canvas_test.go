package canvas

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"testing"
)

func TestNew(t *testing.T) {
	c, err := New(3, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if c.Width() != 3 || c.Height() != 2 {
		t.Errorf("size = %dx%d, want 3x2", c.Width(), c.Height())
	}
	if c.Len() != 6 {
		t.Errorf("Len() = %d, want 6", c.Len())
	}

	c.Each(func(x, y int, color Color) {
		if color != White {
			t.Errorf("cell (%d, %d) = %v, want white", x, y, color)
		}
	})
}

func TestNewInvalidDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 4},
		{"zero height", 4, 0},
		{"negative width", -1, 4},
		{"negative height", 4, -3},
		{"both zero", 0, 0},
		{"product wraps to zero", 1 << (strconv.IntSize / 2), 1 << (strconv.IntSize / 2)},
		{"max width", math.MaxInt, 2},
		{"byte length overflows", math.MaxInt/BytesPerPixel + 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.width, tt.height)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("err = %v, want ErrInvalidDimensions", err)
			}
			if c != nil {
				t.Error("expected nil canvas")
			}
		})
	}
}

func TestRawBytes(t *testing.T) {
	c, _ := New(2, 2)
	next, changed, err := c.Paint(1, 1, RGB(1, 2, 3))
	if err != nil || !changed {
		t.Fatalf("Paint = (%v, %v)", changed, err)
	}

	want := []byte{
		255, 255, 255, 255, 255, 255,
		255, 255, 255, 1, 2, 3,
	}
	if got := next.RawBytes(); !bytes.Equal(got, want) {
		t.Errorf("RawBytes() = %v, want %v", got, want)
	}
	if got := len(c.RawBytes()); got != 2*2*BytesPerPixel {
		t.Errorf("len(RawBytes()) = %d, want 12", got)
	}
}

func TestRawBytesIsCopy(t *testing.T) {
	c, _ := New(1, 1)
	raw := c.RawBytes()
	raw[0] = 0

	px, _ := c.At(0, 0)
	if px != White {
		t.Error("modifying RawBytes result changed the canvas")
	}
}

func TestPaintReturnsNewCanvas(t *testing.T) {
	c, _ := New(4, 3)
	red := RGB(255, 0, 0)

	next, changed, err := c.Paint(2, 1, red)
	if err != nil {
		t.Fatalf("Paint failed: %v", err)
	}
	if !changed {
		t.Fatal("expected change")
	}
	if next == c {
		t.Fatal("Paint returned the receiver")
	}

	got, _ := next.At(2, 1)
	if got != red {
		t.Errorf("painted cell = %v, want %v", got, red)
	}

	// Receiver untouched
	orig, _ := c.At(2, 1)
	if orig != White {
		t.Errorf("receiver cell = %v, want white", orig)
	}

	// Only one cell differs
	diff := 0
	next.Each(func(x, y int, color Color) {
		before, _ := c.At(x, y)
		if before != color {
			diff++
		}
	})
	if diff != 1 {
		t.Errorf("%d cells differ, want 1", diff)
	}

	if next.Width() != c.Width() || next.Height() != c.Height() {
		t.Error("dimensions changed")
	}
}

func TestPaintSameColorUnchanged(t *testing.T) {
	c, _ := New(2, 2)

	next, changed, err := c.Paint(0, 0, White)
	if err != nil {
		t.Fatalf("Paint failed: %v", err)
	}
	if changed || next != nil {
		t.Errorf("Paint = (%v, %v), want (nil, false)", next, changed)
	}
}

func TestPaintOutOfBounds(t *testing.T) {
	c, _ := New(3, 2)

	tests := []struct {
		name string
		x, y int
	}{
		{"x == width", 3, 0},
		{"y == height", 0, 2},
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"far away", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed, err := c.Paint(tt.x, tt.y, Black)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("err = %v, want ErrOutOfBounds", err)
			}
			if next != nil || changed {
				t.Error("out of bounds paint produced a canvas")
			}

			var pe *PointError
			if !errors.As(err, &pe) {
				t.Fatal("expected *PointError")
			}
			if pe.X != tt.x || pe.Y != tt.y || pe.Width != 3 || pe.Height != 2 {
				t.Errorf("PointError = %+v", pe)
			}
		})
	}
}

func TestAtOutOfBounds(t *testing.T) {
	c, _ := New(2, 2)
	if _, err := c.At(2, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestEqual(t *testing.T) {
	a, _ := New(2, 2)
	b, _ := New(2, 2)
	c, _ := New(2, 3)

	if !a.Equal(b) {
		t.Error("blank canvases of equal size should be equal")
	}
	if a.Equal(c) {
		t.Error("canvases of different size should differ")
	}
	if a.Equal(nil) {
		t.Error("canvas should not equal nil")
	}

	d, _, _ := a.Paint(0, 0, Black)
	if a.Equal(d) {
		t.Error("painted canvas should differ")
	}
}

func TestPaintChainKeepsDimensions(t *testing.T) {
	c, _ := New(5, 4)
	for i := 0; i < 20; i++ {
		next, changed, err := c.Paint(i%5, i/5, RGB(uint8(i), 0, 0))
		if err != nil {
			t.Fatalf("Paint %d failed: %v", i, err)
		}
		if changed {
			c = next
		}
		if c.Len() != c.Width()*c.Height() || c.Width() != 5 || c.Height() != 4 {
			t.Fatalf("dimension invariant broken after paint %d", i)
		}
	}
}

func TestColorHelpers(t *testing.T) {
	if got := RGB(255, 0, 16).Hex(); got != "#ff0010" {
		t.Errorf("Hex() = %q", got)
	}

	c, ok := FromBytes([]byte{1, 2, 3, 4})
	if !ok || c != RGB(1, 2, 3) {
		t.Errorf("FromBytes = (%v, %v)", c, ok)
	}
	if _, ok := FromBytes([]byte{1, 2}); ok {
		t.Error("FromBytes should reject short input")
	}
}
