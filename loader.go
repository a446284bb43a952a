// Package amd implements the dependency graph engine of an AMD-style
// module loader: URL canonicalization, the per-module state machine,
// fetch/execute scheduling, a global total execution order across
// multiple top-level scripts, cycle resolution, and failure propagation.
//
// The HTML host page and the network transport are abstract collaborators
// this package does not implement; they're represented by the Host
// interface. See the host subpackage for concrete adapters.
package amd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Loader owns one Registry, one top-level FIFO queue, and the
// "currently loading URL" association needed to bind an anonymous define
// call to the script that issued it. All of its public methods are safe
// for concurrent use; state mutation itself is serialized by mu so the
// engine behaves as the single-threaded cooperative scheduler spec.md §5
// describes even though Host.Fetch calls run on their own goroutines.
type Loader struct {
	mu sync.Mutex

	reg      *registry
	host     Host
	cfg      Config
	logger   zerolog.Logger
	uncaught func(error)

	topLevel      topLevelScheduler
	topLevelCount int

	pendingRoots map[*Module]bool

	sem     chan struct{}
	observe func(*Module)
}

// Option configures a Loader at construction time.
type Option func(*Loader)

// WithLogger sets the zerolog.Logger a Loader reports state transitions
// to. The default is a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithConfig overrides the Loader's Config. The default is
// DefaultConfig().
func WithConfig(cfg Config) Option {
	return func(l *Loader) { l.cfg = cfg }
}

// WithUncaughtHandler sets the callback invoked for failures that have
// no registered continuation — the Go analog of spec.md §6's "re-raised
// as uncaught errors on the host window." The default logs via the
// Loader's logger.
func WithUncaughtHandler(fn func(error)) Option {
	return func(l *Loader) { l.uncaught = fn }
}

// WithTransitionObserver registers fn to be called every time a Module
// reaches a terminal state. It's the hook a devserver's Inspector uses
// to broadcast live dependency-graph updates.
func WithTransitionObserver(fn func(*Module)) Option {
	return func(l *Loader) { l.observe = fn }
}

// New creates a Loader backed by host.
func New(host Host, opts ...Option) *Loader {
	l := &Loader{
		reg:          newRegistry(),
		host:         host,
		cfg:          DefaultConfig(),
		logger:       nopLogger(),
		pendingRoots: make(map[*Module]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cfg.MaxConcurrentFetches > 0 {
		l.sem = make(chan struct{}, l.cfg.MaxConcurrentFetches)
	}
	if l.uncaught == nil {
		l.uncaught = func(err error) { l.logger.Error().Err(err).Msg("uncaught error") }
	}
	if l.observe == nil {
		l.observe = func(*Module) {}
	}
	return l
}

// Define is the loader's public entry point for a top-level script: one
// invoked directly by the host document, not discovered as someone
// else's dependency (spec.md §4.6). Each call creates a fresh anonymous
// Module identified by the document URL plus a sequence fragment, so
// that sibling top-level calls against the same document never collide
// in the Registry even though they share a referrer.
func (l *Loader) Define(deps []string, factory Factory) *Module {
	l.mu.Lock()
	defer l.mu.Unlock()

	url := fmt.Sprintf("%s#top-level-%d", l.cfg.DocumentURL, l.topLevelCount)
	l.topLevelCount++

	m := newModule(url)
	m.topLevel = true
	l.reg.modules[url] = m

	if err := l.bindDefine(m, l.cfg.DocumentURL, deps, factory); err != nil {
		m.fail(err)
		l.observe(m)
	}
	l.topLevel.enqueue(m)
	l.advanceTopLevel()
	return m
}

// bindDefine must be called with l.mu held. It resolves every
// non-pseudo specifier against referrer, interns each into the
// Registry, issues fetches for any still Initialized, and transitions m
// to WaitingForTurn.
func (l *Loader) bindDefine(m *Module, referrer string, deps []string, factory Factory) error {
	m.specifiers = append([]string(nil), deps...)
	m.deps = make([]*Module, len(deps))
	m.factory = factory

	for i, spec := range deps {
		if isPseudoSpecifier(spec) {
			continue
		}
		dep, err := l.resolveAndIntern(referrer, spec)
		if err != nil {
			return err
		}
		m.deps[i] = dep
		l.fetchIfNeeded(dep)
	}

	m.state = WaitingForTurn
	l.advanceTopLevel()
	l.pumpPendingRoots()
	return nil
}

// noDefineFactory is synthesized for a script that finishes loading
// without ever calling define (spec.md §3's lifecycle case (b)): an
// empty dependency list and a factory that returns nothing, retaining
// the Module's pre-allocated empty exports.
func noDefineFactory([]interface{}) (interface{}, error) { return nil, nil }

// resolveAndIntern resolves spec against referrer and interns the
// result. Must be called with l.mu held.
func (l *Loader) resolveAndIntern(referrer, spec string) (*Module, error) {
	url, err := Resolve(spec, referrer)
	if err != nil {
		return nil, fmt.Errorf("amd: resolving %q against %q: %w", spec, referrer, err)
	}
	return l.reg.intern(url), nil
}

// fetchIfNeeded issues a Host.Fetch for m if it's still Initialized.
// Must be called with l.mu held; per spec.md §4.3, a Module already
// Loading gets no second fetch.
func (l *Loader) fetchIfNeeded(m *Module) {
	if m.state != Initialized {
		return
	}
	m.state = Loading
	l.logFetchIssued(m.url)
	go l.runFetch(m)
}

func (l *Loader) runFetch(m *Module) {
	if l.sem != nil {
		l.sem <- struct{}{}
		defer func() { <-l.sem }()
	}

	ctx := context.Background()
	fetchCtx := ctx
	if l.cfg.FetchTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, time.Duration(l.cfg.FetchTimeoutSeconds)*time.Second)
		defer cancel()
	}
	content, err := l.host.Fetch(fetchCtx, m.url)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		m.fail(&FetchError{URL: m.url, Cause: err})
		l.logFetchFailed(m.url, err)
		l.observe(m)
		l.advanceTopLevel()
		l.pumpPendingRoots()
		return
	}
	l.evaluate(ctx, m, content)
}

// evaluate runs content for m, binding define to this Module's URL for
// the duration. If the Host can't evaluate content itself, the Module is
// treated as a script that loaded without calling define. Must be
// called with l.mu held.
func (l *Loader) evaluate(ctx context.Context, m *Module, content []byte) {
	ev, ok := l.host.(Evaluator)
	if !ok {
		l.finishNoDefine(m)
		return
	}

	called := false
	bind := func(deps []string, factory Factory) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if called {
			err := ErrDuplicateDefine
			m.fail(err)
			l.observe(m)
			return err
		}
		called = true
		return l.bindDefine(m, m.url, deps, factory)
	}

	l.mu.Unlock()
	err := ev.Evaluate(ctx, m.url, content, bind)
	l.mu.Lock()

	if err != nil {
		m.fail(&FetchError{URL: m.url, Cause: err})
		l.observe(m)
		l.advanceTopLevel()
		l.pumpPendingRoots()
		return
	}
	if !called {
		if l.cfg.StrictNoDefine {
			m.fail(&FetchError{URL: m.url, Cause: errScriptNeverCalledDefine})
			l.observe(m)
			l.advanceTopLevel()
			l.pumpPendingRoots()
			return
		}
		l.finishNoDefine(m)
	}
}

func (l *Loader) finishNoDefine(m *Module) {
	_ = l.bindDefine(m, m.url, nil, noDefineFactory)
}

// registerPendingRoot tracks mod as a freestanding execution root: a
// Module reached through a dynamic Require rather than through any
// static dependency list, which therefore has no parent whose own
// post-order traversal will ever visit it. Must be called with l.mu
// held.
func (l *Loader) registerPendingRoot(mod *Module) {
	if mod.state.Terminal() {
		return
	}
	l.pendingRoots[mod] = true
}

// pumpPendingRoots attempts to execute every pending root whose subgraph
// has become loaded, and drops terminal ones from the set. Must be
// called with l.mu held.
func (l *Loader) pumpPendingRoots() {
	for root := range l.pendingRoots {
		if root.state.Terminal() {
			delete(l.pendingRoots, root)
			continue
		}
		if !isSubgraphLoaded(root, map[*Module]bool{}) {
			continue
		}
		_ = l.executeModule(root, map[*Module]bool{})
		if root.state.Terminal() {
			delete(l.pendingRoots, root)
		}
	}
}

// surfaceUncaught reports err through the Loader's uncaught handler.
func (l *Loader) surfaceUncaught(err error) {
	l.uncaught(err)
}

// Reset is the test-only hook spec.md §6 calls define._reset(): it
// drops every interned Module and clears both the top-level queue and
// the pending-root set. It does not unload already-evaluated scripts
// from the Host.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reg.reset()
	l.topLevel.queue = nil
	l.pendingRoots = make(map[*Module]bool)
	l.topLevelCount = 0
}

// Lookup returns the Module already interned for url, if any — mainly
// useful from tests that want to assert on a dependency's state without
// going through Define/Require.
func (l *Loader) Lookup(url string) (*Module, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reg.lookup(url)
}
