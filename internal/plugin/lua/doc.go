// Package lua runs paint scripts against a canvas history.
//
// Scripts execute in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. A global "pixel" table exposes the editing
// operations:
//
//	pixel.paint(x, y, r, g, b)  -- returns true when the canvas changed
//	pixel.undo()                -- returns true when the cursor moved
//	pixel.redo()
//	pixel.clear()               -- undoable reset to the current size
//	pixel.width(), pixel.height()
//	pixel.get(x, y)             -- returns r, g, b
//
// Example:
//
//	for x = 0, pixel.width() - 1 do
//	  pixel.paint(x, x, 255, 0, 0)
//	end
package lua
