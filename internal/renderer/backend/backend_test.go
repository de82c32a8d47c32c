package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestNullBackendCells(t *testing.T) {
	b := NewNullBackend(10, 5)
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	red := Style{Background: RGB(255, 0, 0)}
	b.SetCell(2, 3, Cell{Rune: 'x', Style: red})

	got := b.GetCell(2, 3)
	if got.Rune != 'x' || got.Style != red {
		t.Errorf("GetCell = %+v, want x on red", got)
	}

	// Out of range writes are ignored
	b.SetCell(-1, 0, Cell{Rune: 'y'})
	b.SetCell(10, 0, Cell{Rune: 'y'})
	if got := b.GetCell(10, 0); got != EmptyCell() {
		t.Errorf("GetCell out of range = %+v, want empty", got)
	}

	b.Clear()
	if got := b.GetCell(2, 3); got != EmptyCell() {
		t.Errorf("after Clear = %+v, want empty", got)
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(4, 4)
	_ = b.Init()

	b.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: 'q'})
	ev := b.PollEvent()
	if ev.Type != EventKey || ev.Rune != 'q' {
		t.Errorf("PollEvent = %+v", ev)
	}

	b.Resize(8, 6)
	ev = b.PollEvent()
	if ev.Type != EventResize || ev.Width != 8 || ev.Height != 6 {
		t.Errorf("resize event = %+v", ev)
	}
	if w, h := b.Size(); w != 8 || h != 6 {
		t.Errorf("Size = %dx%d, want 8x6", w, h)
	}
}

func TestNullBackendCursor(t *testing.T) {
	b := NewNullBackend(4, 4)
	b.ShowCursor(1, 2)
	if x, y, vis := b.CursorPosition(); x != 1 || y != 2 || !vis {
		t.Errorf("cursor = (%d,%d,%v)", x, y, vis)
	}
	b.HideCursor()
	if _, _, vis := b.CursorPosition(); vis {
		t.Error("cursor still visible after HideCursor")
	}
}

func TestColorDefault(t *testing.T) {
	if !ColorDefault.IsDefault() {
		t.Error("ColorDefault should be default")
	}
	if RGB(0, 0, 0).IsDefault() {
		t.Error("RGB black should not be default")
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want Key
	}{
		{tcell.KeyRune, KeyRune},
		{tcell.KeyUp, KeyUp},
		{tcell.KeyCtrlZ, KeyCtrlZ},
		{tcell.KeyCtrlY, KeyCtrlY},
		{tcell.KeyBackspace2, KeyBackspace},
		{tcell.KeyF12, KeyNone},
	}

	for _, tt := range tests {
		if got := convertKey(tt.in); got != tt.want {
			t.Errorf("convertKey(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvertMouseButton(t *testing.T) {
	tests := []struct {
		in   tcell.ButtonMask
		want MouseButton
	}{
		{tcell.Button1, MouseLeft},
		{tcell.Button3, MouseRight},
		{tcell.WheelUp, MouseWheelUp},
		{tcell.ButtonNone, MouseNone},
	}

	for _, tt := range tests {
		if got := convertMouseButton(tt.in); got != tt.want {
			t.Errorf("convertMouseButton(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvertStyleRoundTrip(t *testing.T) {
	s := Style{Foreground: RGB(10, 20, 30), Background: RGB(200, 100, 50), Bold: true}
	got := convertTcellStyle(convertStyle(s))
	if got != s {
		t.Errorf("style = %+v, want %+v", got, s)
	}
}

func TestTerminalSimulation(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	term := newTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer term.Shutdown()

	screen.SetSize(20, 10)
	if w, h := term.Size(); w != 20 || h != 10 {
		t.Fatalf("Size = %dx%d, want 20x10", w, h)
	}

	term.SetCell(3, 4, Cell{Rune: 'z', Style: Style{Background: RGB(0, 0, 255)}})
	got := term.GetCell(3, 4)
	if got.Rune != 'z' {
		t.Errorf("Rune = %q, want 'z'", got.Rune)
	}
	if got.Style.Background != RGB(0, 0, 255) {
		t.Errorf("Background = %+v, want blue", got.Style.Background)
	}
}
