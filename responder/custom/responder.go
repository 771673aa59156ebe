package custom

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bavarder-cli/bavarder/constant"
	lua "github.com/yuin/gopher-lua"
)

// Responder answers prompts by calling a Lua script.
// A Lua state is single threaded, so concurrent Ask calls are serialized.
type Responder struct {
	name  string
	mu    sync.Mutex
	state *lua.LState
}

func newResponder(name string, state *lua.LState) *Responder {
	return &Responder{
		name:  name,
		state: state,
	}
}

// Name returns the script basename.
func (r *Responder) Name() string {
	return r.name
}

// ID returns the responder ID.
func (r *Responder) ID() string {
	return IDfromName(r.name)
}

// Ask calls the script's Ask function with prompt.
func (r *Responder) Ask(ctx context.Context, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.SetContext(ctx)
	defer r.state.RemoveContext()

	reply, err := r.call(constant.AskFn, lua.LTString, lua.LString(prompt))
	if err != nil {
		return "", err
	}

	return reply.String(), nil
}

// Close releases the Lua state.
func (r *Responder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Close()
}

// call executes a global Lua function safely.
func (r *Responder) call(fn string, retType lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	luaFn := r.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	err := r.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...)

	if err != nil {
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) && apiErr.Object != nil {
			return nil, fmt.Errorf("%s: %s", r.name, apiErr.Object.String())
		}
		return nil, err
	}

	retval := r.state.Get(-1)
	r.state.Pop(1)

	if retval.Type() != retType {
		return nil, fmt.Errorf("%s returned %s, expected %s", fn, retval.Type(), retType)
	}

	return retval, nil
}
