// Package history provides undo/redo for the pixel editing engine.
//
// History is a linear log of canvas snapshots with a cursor marking the
// current state. Key concepts:
//
// # Entries
//
// Every entry is an immutable *canvas.Canvas plus a short description and the
// time it was recorded. The log always holds at least one entry, the blank
// canvas it was seeded with.
//
// # Transitions
//
// The log changes in exactly three ways:
//   - append: Paint (when the color actually changes) and Clear discard every
//     entry after the cursor, append the new canvas and move the cursor to it
//   - undo: the cursor moves back one entry, clamped at the seed entry
//   - redo: the cursor moves forward one entry, clamped at the newest entry
//
// Repainting a cell with the color it already has records nothing, so the log
// only grows on real edits.
//
//	h, _ := history.New(40, 40)
//
//	h.Paint(0, 0, canvas.RGB(255, 0, 0))
//	h.Undo()
//	h.Redo()
//
//	pixels := h.Current().RawBytes()
//
// History is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package history
