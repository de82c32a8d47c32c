package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Printer receives output from Lua's print function.
type Printer interface {
	Info(msg string, args ...any)
}

// unsafeGlobals can load code or modules from outside the sandbox.
var unsafeGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"collectgarbage",
}

// installSandbox removes unsafe globals and redirects print.
func installSandbox(L *lua.LState, p Printer) {
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		if p != nil {
			p.Info("lua: %s", strings.Join(parts, "\t"))
		}
		return 0
	}))
}
