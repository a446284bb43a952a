package amd

import "context"

// Host is the abstraction spec.md §1 calls "an abstract fetch and
// evaluate a URL capability" — the network transport plus whatever plays
// the role of a browser's script tag. Fetch retrieves the script
// referenced by url once per call; the Loader then evaluates the content,
// through the Host's Evaluator if it implements one, or else by
// synthesizing a no-dep factory for it.
//
// Implementations live in the host subpackage: HTTPHost, FileHost,
// MemoryHost and LuaHost.
type Host interface {
	// Fetch retrieves the raw script content referenced by url. It does
	// not evaluate the content; evaluation is the Loader's job, so that
	// the binding of define calls to url stays scoped to the Loader that
	// owns it.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Evaluator is implemented by Hosts capable of running fetched content
// themselves (for example LuaHost, which uses the content as a Lua
// chunk). A Host that only implements Fetch relies on the Loader to
// synthesize a trivial no-dep factory for any content it can't execute.
type Evaluator interface {
	Evaluate(ctx context.Context, url string, content []byte, bind DefineFunc) error
}

// DefineFunc is the signature a Host's Evaluator uses to hand a decoded
// define(deps, factory) call back to the Loader that owns the current
// fetch. It is bound to a single URL for the duration of one Evaluate
// call.
type DefineFunc func(deps []string, factory Factory) error
