package history

import (
	"errors"
	"time"

	"github.com/dshills/pixed/internal/engine/canvas"
)

// ErrNilSeed is returned by NewFrom when no seed canvas is given.
var ErrNilSeed = errors.New("nil seed canvas")

// History is a branch-truncating undo/redo log of canvas snapshots.
type History struct {
	entries []entry
	cursor  int

	// now is replaceable for tests.
	now func() time.Time
}

// New creates a history seeded with one blank width x height canvas.
func New(width, height int) (*History, error) {
	c, err := canvas.New(width, height)
	if err != nil {
		return nil, err
	}
	return NewFrom(c)
}

// NewFrom creates a history seeded with an existing canvas.
func NewFrom(seed *canvas.Canvas) (*History, error) {
	if seed == nil {
		return nil, ErrNilSeed
	}
	h := &History{now: time.Now}
	h.entries = []entry{{
		canvas:      seed,
		description: describeNew(seed.Width(), seed.Height()),
		timestamp:   h.now(),
	}}
	return h, nil
}

// Current returns the canvas at the cursor.
func (h *History) Current() *canvas.Canvas {
	return h.entries[h.cursor].canvas
}

// Paint paints one cell of the current canvas.
//
// When the cell already has color nothing is recorded and Paint returns false.
// Otherwise the redo branch is discarded, the painted canvas is appended and
// the cursor moves to it. Out-of-range coordinates return canvas.ErrOutOfBounds
// and leave the log untouched.
func (h *History) Paint(x, y int, color canvas.Color) (bool, error) {
	next, changed, err := h.Current().Paint(x, y, color)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	h.push(next, describePaint(x, y, color))
	return true, nil
}

// Clear appends a blank width x height canvas as a new undoable entry.
func (h *History) Clear(width, height int) error {
	blank, err := canvas.New(width, height)
	if err != nil {
		return err
	}

	h.push(blank, describeClear(width, height))
	return nil
}

// Reset clears to a blank canvas with the current dimensions.
func (h *History) Reset() error {
	w, ht := h.Current().Size()
	return h.Clear(w, ht)
}

// Undo moves the cursor back one entry.
// At the seed entry it does nothing and returns false.
func (h *History) Undo() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	return true
}

// Redo moves the cursor forward one entry.
// At the newest entry it does nothing and returns false.
func (h *History) Redo() bool {
	if h.cursor >= len(h.entries)-1 {
		return false
	}
	h.cursor++
	return true
}

// CanUndo returns true if undo would move the cursor.
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo returns true if redo would move the cursor.
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// Len returns the number of entries in the log, including the redo branch.
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the index of the current entry.
func (h *History) Cursor() int {
	return h.cursor
}

// Entries returns info about every entry, oldest first.
func (h *History) Entries() []EntryInfo {
	result := make([]EntryInfo, len(h.entries))
	for i, e := range h.entries {
		result[i] = EntryInfo{
			Description: e.description,
			Timestamp:   e.timestamp,
			Current:     i == h.cursor,
		}
	}
	return result
}

// PeekUndo returns info about the entry Undo would move away from.
func (h *History) PeekUndo() (EntryInfo, bool) {
	if !h.CanUndo() {
		return EntryInfo{}, false
	}
	e := h.entries[h.cursor]
	return EntryInfo{Description: e.description, Timestamp: e.timestamp}, true
}

// PeekRedo returns info about the entry Redo would move to.
func (h *History) PeekRedo() (EntryInfo, bool) {
	if !h.CanRedo() {
		return EntryInfo{}, false
	}
	e := h.entries[h.cursor+1]
	return EntryInfo{Description: e.description, Timestamp: e.timestamp}, true
}

// push truncates the redo branch and appends c.
func (h *History) push(c *canvas.Canvas, description string) {
	// Clear entries after the cursor so the old branch can be collected.
	for i := h.cursor + 1; i < len(h.entries); i++ {
		h.entries[i] = entry{}
	}
	h.entries = h.entries[:h.cursor+1]

	h.entries = append(h.entries, entry{
		canvas:      c,
		description: description,
		timestamp:   h.now(),
	})
	h.cursor = len(h.entries) - 1
}
