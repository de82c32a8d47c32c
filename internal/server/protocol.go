package server

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dshills/pixed/internal/engine/canvas"
	"github.com/dshills/pixed/internal/engine/history"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Op names a client command.
type Op string

const (
	OpPaint   Op = "paint"
	OpUndo    Op = "undo"
	OpRedo    Op = "redo"
	OpClear   Op = "clear"
	OpGet     Op = "get"
	OpHistory Op = "history"
)

// FrameHeaderSize is the width and height prefix of a canvas frame.
const FrameHeaderSize = 8

// maxExactInt is the largest integer a JSON number holds exactly.
const maxExactInt = 1 << 53

// Command is a decoded client command.
type Command struct {
	Op    Op
	X, Y  int
	Color canvas.Color

	// Resize is set when a clear names its own Width and Height.
	Resize        bool
	Width, Height int
}

// CheckSize rejects a resizing clear larger than maxCells cells.
func (cmd Command) CheckSize(maxCells int) error {
	if cmd.Op != OpClear || !cmd.Resize {
		return nil
	}
	if !fitsCells(cmd.Width, cmd.Height, maxCells) {
		return fmt.Errorf("%w: %dx%d canvas exceeds %d cells", ErrBadCommand, cmd.Width, cmd.Height, maxCells)
	}
	return nil
}

// fitsCells reports whether a width x height grid has at most maxCells
// cells. Non-positive sizes are left for canvas.New to reject.
func fitsCells(width, height, maxCells int) bool {
	if width <= 0 || height <= 0 {
		return true
	}
	return width <= maxCells/height
}

// ParseCommand decodes a JSON command frame.
func ParseCommand(data []byte) (Command, error) {
	if !gjson.ValidBytes(data) {
		return Command{}, ErrBadCommand
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Command{}, ErrBadCommand
	}

	cmd := Command{Op: Op(root.Get("op").String())}
	switch cmd.Op {
	case OpPaint:
		x, okX := intField(root.Get("x"))
		y, okY := intField(root.Get("y"))
		if !okX || !okY {
			return Command{}, fmt.Errorf("%w: paint needs integer x and y", ErrBadCommand)
		}
		cmd.X, cmd.Y = x, y

		color, err := parseColor(root.Get("color"))
		if err != nil {
			return Command{}, err
		}
		cmd.Color = color

	case OpClear:
		w, h := root.Get("width"), root.Get("height")
		if w.Exists() || h.Exists() {
			width, okW := intField(w)
			height, okH := intField(h)
			if !okW || !okH {
				return Command{}, fmt.Errorf("%w: clear needs integer width and height", ErrBadCommand)
			}
			cmd.Resize = true
			cmd.Width, cmd.Height = width, height
		}

	case OpUndo, OpRedo, OpGet, OpHistory:

	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
	return cmd, nil
}

// intField returns v as an int when it is an integral JSON number.
func intField(v gjson.Result) (int, bool) {
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
		return 0, false
	}
	if v.Num < -maxExactInt || v.Num > maxExactInt {
		return 0, false
	}
	n := int64(v.Num)
	if int64(int(n)) != n {
		return 0, false
	}
	return int(n), true
}

func parseColor(v gjson.Result) (canvas.Color, error) {
	if !v.IsArray() {
		return canvas.Color{}, ErrBadColor
	}
	parts := v.Array()
	if len(parts) != 3 {
		return canvas.Color{}, ErrBadColor
	}
	var ch [3]uint8
	for i, p := range parts {
		n, ok := intField(p)
		if !ok || n < 0 || n > 255 {
			return canvas.Color{}, ErrBadColor
		}
		ch[i] = uint8(n)
	}
	return canvas.Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// Apply runs a command against a history. A failed command leaves the
// history unchanged.
func Apply(h *history.History, cmd Command) error {
	switch cmd.Op {
	case OpPaint:
		_, err := h.Paint(cmd.X, cmd.Y, cmd.Color)
		return err
	case OpUndo:
		h.Undo()
	case OpRedo:
		h.Redo()
	case OpClear:
		if cmd.Resize {
			return h.Clear(cmd.Width, cmd.Height)
		}
		return h.Reset()
	}
	return nil
}

// EncodeFrame serializes a canvas as a binary frame. Each dimension must fit
// in the 32-bit header.
func EncodeFrame(c *canvas.Canvas) ([]byte, error) {
	if uint64(c.Width()) > math.MaxUint32 || uint64(c.Height()) > math.MaxUint32 {
		return nil, fmt.Errorf("%dx%d canvas does not fit a frame header", c.Width(), c.Height())
	}
	raw := c.RawBytes()
	frame := make([]byte, FrameHeaderSize+len(raw))
	binary.BigEndian.PutUint32(frame[0:4], uint32(c.Width()))
	binary.BigEndian.PutUint32(frame[4:8], uint32(c.Height()))
	copy(frame[FrameHeaderSize:], raw)
	return frame, nil
}

// DecodeFrame splits a binary frame into dimensions and canvas bytes.
func DecodeFrame(frame []byte) (width, height int, raw []byte, err error) {
	if len(frame) < FrameHeaderSize {
		return 0, 0, nil, fmt.Errorf("frame too short: %d bytes", len(frame))
	}
	width = int(binary.BigEndian.Uint32(frame[0:4]))
	height = int(binary.BigEndian.Uint32(frame[4:8]))
	raw = frame[FrameHeaderSize:]
	if len(raw) != width*height*canvas.BytesPerPixel {
		return 0, 0, nil, fmt.Errorf("frame holds %d bytes, want %d for %dx%d",
			len(raw), width*height*canvas.BytesPerPixel, width, height)
	}
	return width, height, raw, nil
}

// ErrorReply encodes an error as a JSON text frame.
func ErrorReply(err error) []byte {
	out, _ := sjson.SetBytes([]byte(`{}`), "error", err.Error())
	return out
}

// HistoryReply describes the history position as a JSON text frame.
func HistoryReply(sessionID string, h *history.History) []byte {
	out := []byte(`{"entries":[]}`)
	out, _ = sjson.SetBytes(out, "session", sessionID)
	out, _ = sjson.SetBytes(out, "cursor", h.Cursor())
	out, _ = sjson.SetBytes(out, "length", h.Len())
	out, _ = sjson.SetBytes(out, "canUndo", h.CanUndo())
	out, _ = sjson.SetBytes(out, "canRedo", h.CanRedo())
	for _, e := range h.Entries() {
		out, _ = sjson.SetBytes(out, "entries.-1", e.Description)
	}
	return out
}
