// Package custom runs Lua scripts as responders.
package custom

import (
	"fmt"

	"github.com/bavarder-cli/bavarder/config"
	"github.com/bavarder-cli/bavarder/constant"
	"github.com/bavarder-cli/bavarder/internal/script"
	"github.com/bavarder-cli/bavarder/util"
	libs "github.com/metafates/mangal-lua-libs"
	lua "github.com/yuin/gopher-lua"
)

// Extension of custom responder scripts.
const Extension = ".lua"

// IDfromName generates the identifier of a custom responder from its script basename.
func IDfromName(name string) string {
	return name + " custom"
}

// Load runs the script at path and returns a responder answering through its Ask function.
func Load(path string, settings config.Snapshot) (*Responder, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)
	registerSettings(state, settings)

	if err := script.Load(state, path); err != nil {
		state.Close()
		return nil, err
	}

	name := util.FileStem(path)

	if state.GetGlobal(constant.AskFn).Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.AskFn, name)
	}

	return newResponder(name, state), nil
}

// registerSettings exposes a read-only view of the settings as the global "bavarder" table.
func registerSettings(L *lua.LState, settings config.Snapshot) {
	mod := L.NewTable()
	L.SetField(mod, "version", lua.LString(constant.Version))
	L.SetField(mod, "user_agent", lua.LString(constant.UserAgent))
	L.SetField(mod, "setting", L.NewFunction(func(L *lua.LState) int {
		k := L.CheckString(1)
		if !settings.Has(k) {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(settings.String(k)))
		return 1
	}))
	L.SetGlobal(constant.Bavarder, mod)
}
