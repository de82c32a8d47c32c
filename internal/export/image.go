package export

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/dshills/pixed/internal/engine/canvas"
)

// Image rasterizes c with each cell drawn as a cellSize square.
// With transparent set, white cells get zero alpha.
func Image(c *canvas.Canvas, cellSize int, transparent bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width()*cellSize, c.Height()*cellSize))

	c.Each(func(x, y int, col canvas.Color) {
		px := color.NRGBA{R: col.R, G: col.G, B: col.B, A: 0xff}
		if transparent && col == canvas.White {
			px.A = 0
		}
		fillCell(img, x*cellSize, y*cellSize, cellSize, px)
	})
	return img
}

func fillCell(img *image.NRGBA, x0, y0, size int, px color.NRGBA) {
	for y := y0; y < y0+size; y++ {
		row := img.PixOffset(x0, y)
		for x := 0; x < size; x++ {
			i := row + x*4
			img.Pix[i+0] = px.R
			img.Pix[i+1] = px.G
			img.Pix[i+2] = px.B
			img.Pix[i+3] = px.A
		}
	}
}

type pngExporter struct {
	opts Options
}

func (e *pngExporter) Export(w io.Writer, c *canvas.Canvas) error {
	if c == nil {
		return ErrNilCanvas
	}
	return png.Encode(w, Image(c, e.opts.CellSize, e.opts.Transparent))
}

func (e *pngExporter) Extension() string { return ".png" }
func (e *pngExporter) Name() string      { return "PNG image" }

type jpegExporter struct {
	opts Options
}

func (e *jpegExporter) Export(w io.Writer, c *canvas.Canvas) error {
	if c == nil {
		return ErrNilCanvas
	}
	quality := e.opts.Quality
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	// JPEG has no alpha channel
	img := Image(c, e.opts.CellSize, false)
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

func (e *jpegExporter) Extension() string { return ".jpg" }
func (e *jpegExporter) Name() string      { return "JPEG image" }
