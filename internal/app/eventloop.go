package app

import (
	"github.com/dshills/pixed/internal/engine/canvas"
	"github.com/dshills/pixed/internal/renderer/backend"
)

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return app.handleResize(ev)
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		return app.handleMouseEvent(ev)
	default:
		return nil
	}
}

// handleResize processes terminal resize events.
func (app *Application) handleResize(ev backend.Event) error {
	if app.renderer != nil {
		app.renderer.Resize(ev.Width, ev.Height)
	}
	return nil
}

// handleKeyEvent processes keyboard input events.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	s := app.session

	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlQ, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyUp:
		s.MoveCursor(0, -1)
	case backend.KeyDown:
		s.MoveCursor(0, 1)
	case backend.KeyLeft:
		s.MoveCursor(-1, 0)
	case backend.KeyRight:
		s.MoveCursor(1, 0)
	case backend.KeyEnter:
		return app.paintCursor()
	case backend.KeyBackspace, backend.KeyDelete:
		return app.eraseCursor()
	case backend.KeyCtrlZ:
		app.undo()
	case backend.KeyCtrlY, backend.KeyCtrlR:
		app.redo()
	case backend.KeyRune:
		return app.handleRune(ev.Rune)
	}
	return nil
}

// handleRune processes printable key bindings.
func (app *Application) handleRune(r rune) error {
	s := app.session

	switch {
	case r >= '1' && r <= '9':
		if err := s.SelectBrush(int(r - '1')); err != nil {
			app.beep()
		}
		return nil
	}

	switch r {
	case 'q':
		return ErrQuit
	case ' ':
		return app.paintCursor()
	case 'x':
		return app.eraseCursor()
	case 'u':
		app.undo()
	case 'r':
		app.redo()
	case 'c':
		return app.clear()
	case 'e':
		s.ToggleEraser()
	case 'h':
		s.MoveCursor(-1, 0)
	case 'j':
		s.MoveCursor(0, 1)
	case 'k':
		s.MoveCursor(0, -1)
	case 'l':
		s.MoveCursor(1, 0)
	}
	return nil
}

// handleMouseEvent paints while the left button is held and erases with
// the right button. The wheel cycles the palette.
func (app *Application) handleMouseEvent(ev backend.Event) error {
	s := app.session

	switch ev.MouseButton {
	case backend.MouseLeft, backend.MouseRight:
		if app.renderer == nil {
			return nil
		}
		x, y, ok := app.renderer.CellAt(ev.MouseX, ev.MouseY, s.Canvas())
		if !ok {
			return nil
		}
		s.SetCursor(x, y)
		if ev.MouseButton == backend.MouseRight {
			return app.eraseCursor()
		}
		return app.paintCursor()

	case backend.MouseWheelUp:
		app.cycleBrush(-1)
	case backend.MouseWheelDown:
		app.cycleBrush(1)
	}
	return nil
}

func (app *Application) cycleBrush(delta int) {
	s := app.session
	n := len(s.Palette())
	_ = s.SelectBrush(((s.BrushIndex()+delta)%n + n) % n)
}

func (app *Application) paintCursor() error {
	if _, err := app.session.PaintCursor(); err != nil {
		app.logger.Warn("%v", err)
		app.beep()
	}
	return nil
}

// eraseCursor paints white under the cursor without touching the brush.
func (app *Application) eraseCursor() error {
	s := app.session
	x, y := s.Cursor()
	if _, err := s.History().Paint(x, y, canvas.White); err != nil {
		app.logger.Warn("erase: %v", err)
		app.beep()
	}
	return nil
}

func (app *Application) undo() {
	if !app.session.Undo() {
		app.beep()
	}
}

func (app *Application) redo() {
	if !app.session.Redo() {
		app.beep()
	}
}

func (app *Application) clear() error {
	if err := app.session.Clear(); err != nil {
		app.logger.Warn("%v", err)
	}
	return nil
}

func (app *Application) beep() {
	if app.backend != nil {
		app.backend.Beep()
	}
}
