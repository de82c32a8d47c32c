package export

import (
	"io"

	"github.com/dshills/pixed/internal/engine/canvas"
	"github.com/jung-kurt/gofpdf"
)

// pdfExporter draws each cell as a filled square on a page the size of
// the canvas, one point per output pixel.
type pdfExporter struct {
	opts Options
}

func (e *pdfExporter) Export(w io.Writer, c *canvas.Canvas) error {
	if c == nil {
		return ErrNilCanvas
	}
	size := float64(e.opts.CellSize)

	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size: gofpdf.SizeType{
			Wd: float64(c.Width()) * size,
			Ht: float64(c.Height()) * size,
		},
	})
	p.SetAutoPageBreak(false, 0)
	p.SetMargins(0, 0, 0)
	p.SetCreator("pixed", true)
	p.AddPage()

	c.Each(func(x, y int, col canvas.Color) {
		if e.opts.Transparent && col == canvas.White {
			return
		}
		p.SetFillColor(int(col.R), int(col.G), int(col.B))
		p.Rect(float64(x)*size, float64(y)*size, size, size, "F")
	})

	if err := p.Output(w); err != nil {
		return err
	}
	return p.Error()
}

func (e *pdfExporter) Extension() string { return ".pdf" }
func (e *pdfExporter) Name() string      { return "PDF document" }
