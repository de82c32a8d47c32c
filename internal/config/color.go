package config

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/pixed/internal/engine/canvas"
)

// ParseColor parses "#rgb" or "#rrggbb" (the leading # is optional).
func ParseColor(s string) (canvas.Color, error) {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return canvas.Color{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}

	r, g, b := c.RGB255()
	return canvas.RGB(r, g, b), nil
}
