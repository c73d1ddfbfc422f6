package luatarget

import lua "github.com/yuin/gopher-lua"

// unsafeGlobals are base functions that load code from outside the
// target script.
var unsafeGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// newSandboxedState creates a state with only the base, table, string and
// math libraries. io, os, debug and package are never opened.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
