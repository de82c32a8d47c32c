package app

import (
	"fmt"

	"github.com/dshills/pixed/internal/engine/canvas"
	"github.com/dshills/pixed/internal/engine/history"
	"github.com/google/uuid"
)

// Session is one editing session: a canvas history plus the brush state
// and cursor the terminal editor drives it with.
type Session struct {
	id      uuid.UUID
	history *history.History
	logger  *Logger

	palette []canvas.Color
	brush   int
	eraser  bool

	cursorX int
	cursorY int
}

// NewSession creates a session with a blank canvas of the given size.
// An empty palette falls back to a single black brush.
func NewSession(width, height int, palette []canvas.Color, logger *Logger) (*Session, error) {
	h, err := history.New(width, height)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NullLogger
	}

	id := uuid.New()
	s := &Session{
		id:      id,
		history: h,
		logger:  logger.WithField("session", id.String()),
	}
	s.SetPalette(palette)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// History returns the session's canvas history.
func (s *Session) History() *history.History {
	return s.history
}

// Canvas returns the current canvas.
func (s *Session) Canvas() *canvas.Canvas {
	return s.history.Current()
}

// Palette returns a copy of the brush palette.
func (s *Session) Palette() []canvas.Color {
	out := make([]canvas.Color, len(s.palette))
	copy(out, s.palette)
	return out
}

// SetPalette replaces the palette, keeping the brush index in range.
func (s *Session) SetPalette(colors []canvas.Color) {
	if len(colors) == 0 {
		colors = []canvas.Color{canvas.Black}
	}
	s.palette = make([]canvas.Color, len(colors))
	copy(s.palette, colors)
	if s.brush >= len(s.palette) {
		s.brush = 0
	}
}

// SelectBrush picks a palette entry and turns the eraser off.
func (s *Session) SelectBrush(index int) error {
	if index < 0 || index >= len(s.palette) {
		return fmt.Errorf("%w: %d", ErrInvalidBrush, index)
	}
	s.brush = index
	s.eraser = false
	return nil
}

// BrushIndex returns the selected palette index.
func (s *Session) BrushIndex() int {
	return s.brush
}

// Brush returns the color a paint applies.
func (s *Session) Brush() canvas.Color {
	if s.eraser {
		return canvas.White
	}
	return s.palette[s.brush]
}

// ToggleEraser switches between the brush and white.
func (s *Session) ToggleEraser() bool {
	s.eraser = !s.eraser
	return s.eraser
}

// Eraser reports whether the eraser is active.
func (s *Session) Eraser() bool {
	return s.eraser
}

// Cursor returns the cursor cell.
func (s *Session) Cursor() (x, y int) {
	return s.cursorX, s.cursorY
}

// MoveCursor moves the cursor, clamped to the canvas.
func (s *Session) MoveCursor(dx, dy int) {
	c := s.Canvas()
	s.cursorX = clamp(s.cursorX+dx, 0, c.Width()-1)
	s.cursorY = clamp(s.cursorY+dy, 0, c.Height()-1)
}

// SetCursor places the cursor on a cell. Returns false if the cell is
// outside the canvas.
func (s *Session) SetCursor(x, y int) bool {
	if !s.Canvas().Contains(x, y) {
		return false
	}
	s.cursorX = x
	s.cursorY = y
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PaintAt paints the brush color at a cell.
func (s *Session) PaintAt(x, y int) (bool, error) {
	color := s.Brush()
	changed, err := s.history.Paint(x, y, color)
	if err != nil {
		return false, NewOperationError("paint", fmt.Sprintf("(%d, %d)", x, y), err)
	}
	if changed {
		s.logger.Debug("paint (%d, %d) %s", x, y, color.Hex())
	}
	return changed, nil
}

// PaintCursor paints the brush color under the cursor.
func (s *Session) PaintCursor() (bool, error) {
	return s.PaintAt(s.cursorX, s.cursorY)
}

// Undo steps back one state.
func (s *Session) Undo() bool {
	moved := s.history.Undo()
	if moved {
		s.clampCursor()
		s.logger.Debug("undo to %d/%d", s.history.Cursor()+1, s.history.Len())
	}
	return moved
}

// Redo steps forward one state.
func (s *Session) Redo() bool {
	moved := s.history.Redo()
	if moved {
		s.clampCursor()
		s.logger.Debug("redo to %d/%d", s.history.Cursor()+1, s.history.Len())
	}
	return moved
}

// Clear appends a blank canvas of the current size.
func (s *Session) Clear() error {
	if err := s.history.Reset(); err != nil {
		return NewOperationError("clear", "", err)
	}
	s.logger.Debug("clear")
	return nil
}

// clampCursor keeps the cursor inside canvases of a different size.
func (s *Session) clampCursor() {
	s.MoveCursor(0, 0)
}

// Status renders the status line text.
func (s *Session) Status() string {
	brush := s.Brush().Hex()
	if s.eraser {
		brush = "eraser"
	}
	return fmt.Sprintf(" %d,%d  brush %s (%d)  history %d/%d  u:undo r:redo c:clear e:eraser q:quit",
		s.cursorX, s.cursorY, brush, s.brush+1, s.history.Cursor()+1, s.history.Len())
}
