package config

import "github.com/dshills/pixed/internal/engine/canvas"

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration.

// CanvasConfig holds the editing surface settings.
type CanvasConfig struct {
	// Width and Height are the dimensions of a new session's canvas.
	Width  int
	Height int

	// CellWidth is the number of terminal columns drawn per pixel.
	CellWidth int
}

// PaletteConfig holds the brush palette.
type PaletteConfig struct {
	Colors []canvas.Color
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string

	// File is the log destination; empty means stderr.
	File string
}

// ServerConfig holds websocket surface settings.
type ServerConfig struct {
	// Listen is the address to serve on; empty disables the server.
	Listen string

	// Advertise announces the server over mDNS.
	Advertise bool

	// MaxFrame is the largest accepted command frame in bytes.
	MaxFrame int

	// MaxCells is the largest canvas a client may clear to.
	MaxCells int
}

// ExportConfig holds image export settings.
type ExportConfig struct {
	// CellSize is the edge length of one pixel in the exported image.
	CellSize int

	// Transparent makes white cells transparent in PNG output.
	Transparent bool
}

// Canvas returns the canvas section.
func (c *Config) Canvas() CanvasConfig {
	return CanvasConfig{
		Width:     c.intOr("canvas.width", 40),
		Height:    c.intOr("canvas.height", 40),
		CellWidth: c.intOr("canvas.cellWidth", 2),
	}
}

// Palette returns the palette section.
// An unparsable entry is reported as an error.
func (c *Config) Palette() (PaletteConfig, error) {
	raw, err := c.GetStringSlice("palette.colors")
	if err != nil {
		return PaletteConfig{}, err
	}

	colors := make([]canvas.Color, 0, len(raw))
	for _, s := range raw {
		color, err := ParseColor(s)
		if err != nil {
			return PaletteConfig{}, err
		}
		colors = append(colors, color)
	}
	return PaletteConfig{Colors: colors}, nil
}

// Logging returns the logging section.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.stringOr("logging.level", "info"),
		File:  c.stringOr("logging.file", ""),
	}
}

// Server returns the server section.
func (c *Config) Server() ServerConfig {
	return ServerConfig{
		Listen:    c.stringOr("server.listen", ""),
		Advertise: c.boolOr("server.advertise", false),
		MaxFrame:  c.intOr("server.maxFrame", 4096),
		MaxCells:  c.intOr("server.maxCells", 1<<20),
	}
}

// Export returns the export section.
func (c *Config) Export() ExportConfig {
	return ExportConfig{
		CellSize:    c.intOr("export.cellSize", 30),
		Transparent: c.boolOr("export.transparent", true),
	}
}

func (c *Config) intOr(path string, def int) int {
	v, err := c.GetInt(path)
	if err != nil {
		return def
	}
	return v
}

func (c *Config) stringOr(path string, def string) string {
	v, err := c.GetString(path)
	if err != nil {
		return def
	}
	return v
}

func (c *Config) boolOr(path string, def bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		return def
	}
	return v
}
