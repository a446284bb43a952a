package host

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/kard/amdloader"
)

// LuaHost evaluates fetched module content as Lua chunks. Fetch is
// delegated to Inner (typically a FileHost or HTTPHost); Evaluate binds
// a `define` global into a fresh *lua.LState per script, which stays
// open for the factory that script defines, converting between Lua
// values and the Go values the Loader's Factory/Exports types use.
type LuaHost struct {
	Inner amd.Host

	mu sync.Mutex
}

// NewLuaHost returns a LuaHost that fetches through inner.
func NewLuaHost(inner amd.Host) *LuaHost {
	return &LuaHost{Inner: inner}
}

func (h *LuaHost) Fetch(ctx context.Context, url string) ([]byte, error) {
	return h.Inner.Fetch(ctx, url)
}

// Evaluate runs content as a Lua chunk. Scripts call define(deps,
// function(...) ... end) the same way they would in JavaScript; the
// factory's return value, if any, becomes the Module's exports.
func (h *LuaHost) Evaluate(ctx context.Context, url string, content []byte, bind amd.DefineFunc) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	// L is not closed here: the factory a script passes to define runs on
	// it later, when the Loader executes the Module.
	L := lua.NewState()

	L.SetGlobal("define", L.NewFunction(func(L *lua.LState) int {
		depsTable := L.CheckTable(1)
		fn := L.CheckFunction(2)

		var deps []string
		depsTable.ForEach(func(_ lua.LValue, v lua.LValue) {
			deps = append(deps, v.String())
		})

		factory := func(args []interface{}) (interface{}, error) {
			L.Push(fn)
			for _, arg := range args {
				L.Push(goToLua(L, arg))
			}
			if err := L.PCall(len(args), 1, nil); err != nil {
				return nil, err
			}
			ret := L.Get(-1)
			L.Pop(1)
			return luaToGo(ret), nil
		}

		if err := bind(deps, factory); err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		return 0
	}))

	if err := L.DoString(string(content)); err != nil {
		return fmt.Errorf("host: evaluating %s: %w", url, err)
	}
	return nil
}

func goToLua(L *lua.LState, v interface{}) lua.LValue {
	switch t := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(t)
	case bool:
		return lua.LBool(t)
	case int:
		return lua.LNumber(t)
	case float64:
		return lua.LNumber(t)
	case *amd.Exports:
		tbl := L.NewTable()
		for _, k := range t.Keys() {
			tbl.RawSetString(k, goToLua(L, t.Get(k)))
		}
		return tbl
	case *amd.Meta:
		tbl := L.NewTable()
		tbl.RawSetString("url", lua.LString(t.URL))
		return tbl
	case amd.RequireFunc:
		return luaRequire(L, t)
	case map[string]interface{}:
		tbl := L.NewTable()
		for k, val := range t {
			tbl.RawSetString(k, goToLua(L, val))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", t))
	}
}

// luaRequire wraps a RequireFunc as the `require` pseudo-dependency a
// Lua factory receives: require(deps, onResolved, onFailure).
func luaRequire(L *lua.LState, reqFn amd.RequireFunc) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		depsTable := L.CheckTable(1)
		onResolved := L.OptFunction(2, nil)
		onFailure := L.OptFunction(3, nil)

		var deps []string
		depsTable.ForEach(func(_ lua.LValue, v lua.LValue) {
			deps = append(deps, v.String())
		})

		reqFn(deps, func(args []interface{}) {
			if onResolved == nil {
				return
			}
			L.Push(onResolved)
			for _, a := range args {
				L.Push(goToLua(L, a))
			}
			L.PCall(len(args), 0, nil)
		}, func(err error) {
			if onFailure == nil {
				return
			}
			L.Push(onFailure)
			L.Push(lua.LString(err.Error()))
			L.PCall(1, 0, nil)
		})
		return 0
	})
}

func luaToGo(v lua.LValue) interface{} {
	switch t := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(t)
	case lua.LNumber:
		return float64(t)
	case lua.LString:
		return string(t)
	case *lua.LTable:
		m := make(map[string]interface{})
		t.ForEach(func(k, val lua.LValue) {
			m[k.String()] = luaToGo(val)
		})
		return m
	default:
		return nil
	}
}
