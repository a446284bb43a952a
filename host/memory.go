package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/kard/amdloader"
)

// MemoryHost is an in-process Host for tests and fixtures: content (or a
// Go-side factory) is registered ahead of time against a URL, instead of
// being read from disk or network. It implements amd.Evaluator so that
// registered factories run without any script syntax at all, the way
// the package's own tests build deepRace-style dependency graphs.
type MemoryHost struct {
	mu       sync.Mutex
	content  map[string][]byte
	defines  map[string]memDefine
	failures map[string]error
}

type memDefine struct {
	deps    []string
	factory amd.Factory
}

// NewMemoryHost returns an empty MemoryHost.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{
		content: make(map[string][]byte),
		defines: make(map[string]memDefine),
	}
}

// DefineModule registers a Go-side factory for url. The registered
// content is a placeholder; Evaluate ignores it and dispatches straight
// to factory.
func (h *MemoryHost) DefineModule(url string, deps []string, factory amd.Factory) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.defines[url] = memDefine{deps: deps, factory: factory}
	if _, ok := h.content[url]; !ok {
		h.content[url] = []byte("/* memory module: " + url + " */")
	}
}

// NoDefineModule registers url as a script that loads without ever
// calling define, exercising the Loader's no-define lifecycle case.
func (h *MemoryHost) NoDefineModule(url string, content []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.content[url] = content
	delete(h.defines, url)
}

// FailModule registers url as a fetch that always fails with err.
func (h *MemoryHost) FailModule(url string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.content[url] = nil
	delete(h.defines, url)
	h.fetchFailure(url, err)
}

func (h *MemoryHost) fetchFailure(url string, err error) {
	if h.failures == nil {
		h.failures = make(map[string]error)
	}
	h.failures[url] = err
}

func (h *MemoryHost) Fetch(ctx context.Context, url string) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err, ok := h.failures[url]; ok {
		return nil, err
	}
	content, ok := h.content[url]
	if !ok {
		return nil, fmt.Errorf("host: no memory module registered for %s", url)
	}
	return content, nil
}

func (h *MemoryHost) Evaluate(ctx context.Context, url string, content []byte, bind amd.DefineFunc) error {
	h.mu.Lock()
	def, ok := h.defines[url]
	h.mu.Unlock()
	if !ok {
		return nil
	}
	return bind(def.deps, def.factory)
}
