package lua

import (
	"github.com/dshills/pixed/internal/engine/canvas"
	lua "github.com/yuin/gopher-lua"
)

// Target is the canvas history a script edits.
type Target interface {
	Current() *canvas.Canvas
	Paint(x, y int, color canvas.Color) (bool, error)
	Undo() bool
	Redo() bool
	Reset() error
}

// ModuleName is the global table scripts use.
const ModuleName = "pixel"

// Bridge exposes a Target to Lua as the pixel table.
type Bridge struct {
	target Target
}

// NewBridge creates a bridge over the given target.
func NewBridge(target Target) *Bridge {
	return &Bridge{target: target}
}

// Install registers the pixel table in L.
func (b *Bridge) Install(L *lua.LState) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"paint":  b.paint,
		"undo":   b.undo,
		"redo":   b.redo,
		"clear":  b.clear,
		"width":  b.width,
		"height": b.height,
		"get":    b.get,
	})
	L.SetGlobal(ModuleName, mod)
}

// paint(x, y, r, g, b) -> changed
func (b *Bridge) paint(L *lua.LState) int {
	x := L.CheckInt(1)
	y := L.CheckInt(2)
	color := canvas.Color{
		R: checkChannel(L, 3),
		G: checkChannel(L, 4),
		B: checkChannel(L, 5),
	}

	changed, err := b.target.Paint(x, y, color)
	if err != nil {
		L.RaiseError("paint: %v", err)
		return 0
	}
	L.Push(lua.LBool(changed))
	return 1
}

func checkChannel(L *lua.LState, n int) uint8 {
	v := L.CheckInt(n)
	if v < 0 || v > 255 {
		L.ArgError(n, "color channel must be 0-255")
	}
	return uint8(v)
}

func (b *Bridge) undo(L *lua.LState) int {
	L.Push(lua.LBool(b.target.Undo()))
	return 1
}

func (b *Bridge) redo(L *lua.LState) int {
	L.Push(lua.LBool(b.target.Redo()))
	return 1
}

func (b *Bridge) clear(L *lua.LState) int {
	if err := b.target.Reset(); err != nil {
		L.RaiseError("clear: %v", err)
	}
	return 0
}

func (b *Bridge) width(L *lua.LState) int {
	L.Push(lua.LNumber(b.target.Current().Width()))
	return 1
}

func (b *Bridge) height(L *lua.LState) int {
	L.Push(lua.LNumber(b.target.Current().Height()))
	return 1
}

// get(x, y) -> r, g, b
func (b *Bridge) get(L *lua.LState) int {
	x := L.CheckInt(1)
	y := L.CheckInt(2)

	c, err := b.target.Current().At(x, y)
	if err != nil {
		L.RaiseError("get: %v", err)
		return 0
	}
	L.Push(lua.LNumber(c.R))
	L.Push(lua.LNumber(c.G))
	L.Push(lua.LNumber(c.B))
	return 3
}
