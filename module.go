package amd

// Exports is the mutable container handed to every dependent of a
// Module. It is allocated once, at intern time, and its identity never
// changes for the lifetime of the Module — this is what lets cyclic
// dependents observe a partially-initialized partner. A factory's return
// value (if non-nil) replaces the *contents* of this container, not the
// container itself, so partners that captured the pointer before the
// factory ran stay in sync with whatever the factory ultimately produced.
type Exports struct {
	values map[string]interface{}
}

func newExports() *Exports {
	return &Exports{values: make(map[string]interface{})}
}

// Get returns a named export, or nil if it was never set.
func (e *Exports) Get(name string) interface{} {
	return e.values[name]
}

// Set assigns a named export. Factories call this (directly, or via a
// Go-side helper bound as the module's `exports` pseudo-dependency) to
// mutate the container in place.
func (e *Exports) Set(name string, value interface{}) {
	e.values[name] = value
}

// Keys returns the names currently set on the container.
func (e *Exports) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	return keys
}

// replaceWith overwrites the container's contents with v's fields,
// treating a factory's non-nil return value as equivalent to reassigning
// the container in place (see the Exports doc comment, and DESIGN.md's
// note on the cyclic-module open question).
func (e *Exports) replaceWith(v interface{}) {
	switch t := v.(type) {
	case nil:
		return
	case *Exports:
		if t == e {
			return
		}
		clear(e.values)
		for k, val := range t.values {
			e.values[k] = val
		}
	case map[string]interface{}:
		clear(e.values)
		for k, val := range t {
			e.values[k] = val
		}
	default:
		clear(e.values)
		e.values["default"] = v
	}
}

// Meta is the object bound to a module's `meta` pseudo-dependency.
type Meta struct {
	URL string `json:"url"`
}

// Factory is the user-supplied callable passed to define. args holds one
// entry per dependency, in the same order the dependent listed them,
// resolved per the pseudo-dependency and Exports rules of spec.md §4.5.
// A non-nil return value replaces the module's exports contents.
type Factory func(args []interface{}) (interface{}, error)

// notifyEntry is a pending continuation waiting on a Module to reach a
// terminal state. Drained in insertion order (spec.md §5).
type notifyEntry struct {
	onExecuted func(*Exports)
	onFailed   func(error)
}

// Module is one record per canonical URL, per spec.md §3.
type Module struct {
	url string

	state State

	// specifiers are the literal dependency strings as listed by define,
	// including pseudo-dependencies, in source order.
	specifiers []string
	// deps holds the resolved Module for each non-pseudo specifier,
	// indexed in parallel with specifiers (nil entries mark pseudo-deps).
	deps []*Module

	factory Factory
	exports *Exports

	notify []notifyEntry
	err    error

	// topLevel is true for Modules created by a Define call made
	// directly against a Loader (not discovered as someone else's
	// dependency). Only top-level Modules are subject to FIFO
	// serialization (spec.md §4.6).
	topLevel bool
}

func newModule(url string) *Module {
	return &Module{
		url:     url,
		state:   Initialized,
		exports: newExports(),
	}
}

// URL returns the Module's canonical URL.
func (m *Module) URL() string { return m.url }

// State returns the Module's current lifecycle state.
func (m *Module) State() State { return m.state }

// Exports returns the Module's exports container. The identity returned
// here never changes for this Module.
func (m *Module) Exports() *Exports { return m.exports }

// Err returns the captured failure, if state is Failed.
func (m *Module) Err() error { return m.err }

// addNotify appends a continuation to the Module's notify list, or fires
// it immediately if the Module is already terminal.
func (m *Module) addNotify(onExecuted func(*Exports), onFailed func(error)) {
	if m.state == Executed {
		if onExecuted != nil {
			onExecuted(m.exports)
		}
		return
	}
	if m.state == Failed {
		if onFailed != nil {
			onFailed(m.err)
		}
		return
	}
	m.notify = append(m.notify, notifyEntry{onExecuted: onExecuted, onFailed: onFailed})
}

// drainNotify fires every pending continuation, in insertion order, and
// clears the list.
func (m *Module) drainNotify() {
	pending := m.notify
	m.notify = nil
	for _, n := range pending {
		switch m.state {
		case Executed:
			if n.onExecuted != nil {
				n.onExecuted(m.exports)
			}
		case Failed:
			if n.onFailed != nil {
				n.onFailed(m.err)
			}
		}
	}
}

// fail transitions the Module to Failed with err and drains its notify
// list. Calling fail on an already-terminal Module is a no-op, since
// Executed/Failed are terminal per spec.md §3.
func (m *Module) fail(err error) {
	if m.state.Terminal() {
		return
	}
	m.state = Failed
	m.err = err
	m.drainNotify()
}
