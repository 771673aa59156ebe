// Package script loads Lua responder scripts, compiling each path once per process.
package script

import (
	"sync"

	"github.com/bavarder-cli/bavarder/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var bytecodeCache sync.Map

// Compile parses and compiles the script at path, reusing an earlier result for the same path.
func Compile(path string) (*lua.FunctionProto, error) {
	if cached, ok := bytecodeCache.Load(path); ok {
		return cached.(*lua.FunctionProto), nil
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, err
	}

	bytecodeCache.Store(path, proto)
	return proto, nil
}

// Load compiles the script at path and runs its top level in L.
func Load(L *lua.LState, path string) error {
	proto, err := Compile(path)
	if err != nil {
		return err
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

// Forget drops the compiled form of path, e.g. after the script was replaced.
func Forget(path string) {
	bytecodeCache.Delete(path)
}
