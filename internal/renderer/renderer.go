package renderer

import (
	"github.com/dshills/pixed/internal/engine/canvas"
	"github.com/dshills/pixed/internal/renderer/backend"
)

// Options configures the renderer.
type Options struct {
	// CellWidth is the number of terminal columns drawn per canvas cell.
	// Terminal cells are roughly twice as tall as wide, so 2 looks square.
	CellWidth int

	// OriginX and OriginY offset the canvas from the top-left corner.
	OriginX int
	OriginY int

	// ShowStatusLine draws a status line on the bottom row.
	ShowStatusLine bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		CellWidth:      2,
		ShowStatusLine: true,
	}
}

// View is everything needed to draw one frame.
type View struct {
	Canvas *canvas.Canvas

	// Cursor is the highlighted canvas cell.
	CursorX, CursorY int
	ShowCursor       bool

	// Status is shown on the status line when enabled.
	Status string
}

// Renderer draws canvas views onto a backend.
// It is not safe for concurrent use; the event loop owns it.
type Renderer struct {
	opts    Options
	backend backend.Backend
	width   int
	height  int
}

// New creates a new renderer drawing to the given backend.
func New(b backend.Backend, opts Options) *Renderer {
	if opts.CellWidth < 1 {
		opts.CellWidth = 1
	}
	w, h := b.Size()
	return &Renderer{
		opts:    opts,
		backend: b,
		width:   w,
		height:  h,
	}
}

// Options returns the renderer options.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetCellWidth changes the number of columns per canvas cell.
func (r *Renderer) SetCellWidth(w int) {
	if w < 1 {
		w = 1
	}
	r.opts.CellWidth = w
}

// Resize updates the known screen size.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// Size returns the screen size the renderer draws into.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Render draws a full frame and shows it.
func (r *Renderer) Render(v View) {
	r.backend.Clear()
	if v.Canvas != nil {
		r.drawCanvas(v)
	}
	if r.opts.ShowStatusLine {
		r.drawStatus(v.Status)
	}
	r.backend.HideCursor()
	r.backend.Show()
}

func (r *Renderer) drawCanvas(v View) {
	c := v.Canvas
	cw := r.opts.CellWidth

	c.Each(func(x, y int, col canvas.Color) {
		bg := backend.RGB(col.R, col.G, col.B)
		cell := backend.Cell{Rune: ' ', Style: backend.Style{Background: bg}}

		if v.ShowCursor && x == v.CursorX && y == v.CursorY {
			cell = cursorCell(col)
		}

		sy := r.opts.OriginY + y
		for i := 0; i < cw; i++ {
			sx := r.opts.OriginX + x*cw + i
			if sx >= r.width || sy >= r.canvasRows() {
				continue
			}
			r.backend.SetCell(sx, sy, cell)
		}
	})
}

// cursorCell marks the cursor with a contrasting glyph over the cell color.
func cursorCell(col canvas.Color) backend.Cell {
	fg := backend.RGB(0, 0, 0)
	if luminance(col) < 128 {
		fg = backend.RGB(255, 255, 255)
	}
	return backend.Cell{
		Rune: '+',
		Style: backend.Style{
			Foreground: fg,
			Background: backend.RGB(col.R, col.G, col.B),
			Bold:       true,
		},
	}
}

func luminance(c canvas.Color) int {
	return (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
}

// canvasRows is the number of rows available to the canvas.
func (r *Renderer) canvasRows() int {
	if r.opts.ShowStatusLine {
		return r.height - 1
	}
	return r.height
}

func (r *Renderer) drawStatus(text string) {
	if r.height < 1 {
		return
	}
	y := r.height - 1
	style := backend.Style{Reverse: true}

	col := 0
	for _, ch := range text {
		if col >= r.width {
			break
		}
		r.backend.SetCell(col, y, backend.Cell{Rune: ch, Style: style})
		col++
	}
	for ; col < r.width; col++ {
		r.backend.SetCell(col, y, backend.Cell{Rune: ' ', Style: style})
	}
}

// CellAt maps a screen position to a canvas cell.
// Returns false when the position is outside the drawn canvas area.
func (r *Renderer) CellAt(sx, sy int, c *canvas.Canvas) (x, y int, ok bool) {
	if c == nil {
		return 0, 0, false
	}
	dx := sx - r.opts.OriginX
	dy := sy - r.opts.OriginY
	if dx < 0 || dy < 0 || sy >= r.canvasRows() {
		return 0, 0, false
	}
	x = dx / r.opts.CellWidth
	y = dy
	if !c.Contains(x, y) {
		return 0, 0, false
	}
	return x, y, true
}
