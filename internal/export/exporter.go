// Package export renders canvases to image and document formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/pixed/internal/engine/canvas"
)

// Format represents an export format
type Format string

const (
	// FormatPNG exports a PNG image; white cells may be transparent
	FormatPNG Format = "png"
	// FormatJPEG exports an opaque JPEG image
	FormatJPEG Format = "jpeg"
	// FormatPDF exports a single-page PDF sized to the canvas
	FormatPDF Format = "pdf"
)

// Errors returned by exporters.
var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrInvalidCellSize   = errors.New("cell size must be positive")
	ErrNilCanvas         = errors.New("nil canvas")
)

// Options controls how a canvas is rendered.
type Options struct {
	// CellSize is the edge length of one canvas cell in output pixels
	// (points for PDF).
	CellSize int

	// Transparent makes white cells transparent in PNG output and leaves
	// them unpainted in PDF output.
	Transparent bool

	// Quality is the JPEG quality, 1-100.
	Quality int
}

// DefaultOptions returns the default export options.
func DefaultOptions() Options {
	return Options{
		CellSize:    30,
		Transparent: true,
		Quality:     100,
	}
}

// Exporter interface for different export formats
type Exporter interface {
	// Export writes the canvas in the target format
	Export(w io.Writer, c *canvas.Canvas) error
	// Extension returns the recommended file extension for this format
	Extension() string
	// Name returns a human-readable name for this format
	Name() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format, opts Options) (Exporter, error) {
	if opts.CellSize <= 0 {
		return nil, ErrInvalidCellSize
	}
	switch format {
	case FormatPNG:
		return &pngExporter{opts: opts}, nil
	case FormatJPEG:
		return &jpegExporter{opts: opts}, nil
	case FormatPDF:
		return &pdfExporter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// AvailableFormats returns a list of all available export formats
func AvailableFormats() []Format {
	return []Format{FormatPNG, FormatJPEG, FormatPDF}
}

// WriteFile exports the canvas to path, choosing the format by extension.
func WriteFile(path string, c *canvas.Canvas, opts Options) (err error) {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	exp, err := NewExporter(format, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return exp.Export(f, c)
}
