package amd

// isSubgraphLoaded reports whether m and every transitive dependency of m
// has at least reached WaitingForTurn (or is terminal), treating any
// Module currently on the DFS stack as satisfied — that's the back-edge
// rule for cycles spec.md §4.5 describes: "cycle members are permitted
// to see each other's partially-initialized exports object."
//
// visiting is the set of Modules on the current call stack; it is not a
// memo of "already known loaded" across calls, since a Module might move
// from not-loaded to loaded between two isSubgraphLoaded calls.
func isSubgraphLoaded(m *Module, visiting map[*Module]bool) bool {
	if visiting[m] {
		return true
	}
	if m.state.Terminal() {
		return true
	}
	if m.state != WaitingForTurn {
		return false
	}
	visiting[m] = true
	defer delete(visiting, m)
	for _, dep := range m.deps {
		if dep == nil {
			continue // pseudo-dependency slot
		}
		if !isSubgraphLoaded(dep, visiting) {
			return false
		}
	}
	return true
}

// executeModule runs m's factory, after first running every dependency
// not already on the current DFS stack, in listed order. This is the
// post-order traversal of spec.md §4.5: children are visited in the
// order the parent listed them, and a node already Executed or Failed is
// never revisited, which is what makes a node shared by multiple parents
// run exactly once, the first time its subgraph completes.
//
// stack holds the Modules currently being visited, so that a cycle's
// back-edge short-circuits instead of recursing forever; the module on
// the other end of the back-edge will see this module's exports
// container as whatever it has been populated with so far (empty, if
// this is the first visit).
func (l *Loader) executeModule(m *Module, stack map[*Module]bool) error {
	if m.state == Executed {
		return nil
	}
	if m.state == Failed {
		return m.err
	}
	if stack[m] {
		// Back-edge: the cycle partner further up the stack will finish
		// us later. Don't execute, don't fail — just stop recursing.
		return nil
	}
	if m.state != WaitingForTurn {
		return nil // not yet loaded; caller must wait for more fetch events
	}

	stack[m] = true
	args := make([]interface{}, len(m.specifiers))
	for i, dep := range m.deps {
		if dep == nil {
			args[i] = l.resolvePseudoArg(m, m.specifiers[i])
			continue
		}
		if err := l.executeModule(dep, stack); err != nil || dep.state == Failed {
			delete(stack, m)
			m.fail(dep.err)
			l.logModuleFailed(m)
			l.observe(m)
			return m.err
		}
		args[i] = dep.exports
	}
	delete(stack, m)

	if m.state != WaitingForTurn {
		// A dependency visited via a back-edge may have circled back and
		// already failed or executed us as part of resolving the cycle.
		if m.state == Failed {
			return m.err
		}
		return nil
	}

	m.state = Executing
	l.logModuleExecuting(m)
	result, err := runFactory(m, args)
	if err != nil {
		m.fail(&FactoryError{URL: m.url, Cause: err})
		l.logModuleFailed(m)
		l.observe(m)
		return m.err
	}
	if result != nil {
		m.exports.replaceWith(result)
	}
	m.state = Executed
	l.logModuleExecuted(m)
	m.drainNotify()
	l.observe(m)
	return nil
}

// runFactory invokes m's factory, converting a panic into an error the
// same way a thrown JS exception would fail the Module.
func runFactory(m *Module, args []interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = &panicValue{r}
			}
		}
	}()
	if m.factory == nil {
		return nil, nil
	}
	return m.factory(args)
}

type panicValue struct{ v interface{} }

func (p *panicValue) Error() string { return "panic: " + stringify(p.v) }

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if e, ok := v.(error); ok {
		return e.Error()
	}
	return "non-string panic value"
}

// resolvePseudoArg resolves one of the three literal pseudo-dependencies
// for the Module currently executing.
func (l *Loader) resolvePseudoArg(m *Module, specifier string) interface{} {
	switch specifier {
	case "exports":
		return m.exports
	case "meta":
		return &Meta{URL: m.url}
	case "require":
		return l.newRequireFunc(m)
	default:
		return nil
	}
}
