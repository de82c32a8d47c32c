package config

// DefaultPalette is the brush palette used when none is configured.
// Index 0 is the initial brush.
var DefaultPalette = []string{
	"#000000",
	"#ffffff",
	"#e53935",
	"#fb8c00",
	"#fdd835",
	"#43a047",
	"#1e88e5",
	"#8e24aa",
	"#6d4c41",
}

// defaults returns the built-in configuration layer.
func defaults() map[string]any {
	palette := make([]any, len(DefaultPalette))
	for i, c := range DefaultPalette {
		palette[i] = c
	}

	return map[string]any{
		"canvas": map[string]any{
			"width":     int64(40),
			"height":    int64(40),
			"cellWidth": int64(2),
		},
		"palette": map[string]any{
			"colors": palette,
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"server": map[string]any{
			"listen":    "",
			"advertise": false,
			"maxFrame":  int64(4096),
			"maxCells":  int64(1 << 20),
		},
		"export": map[string]any{
			"cellSize":    int64(30),
			"transparent": true,
		},
	}
}
