package amd

// RequireFunc is the signature bound to a factory's `require`
// pseudo-dependency: require(deps, onResolved, onFailure). onFailure may
// be nil, in which case a failure surfaces via the Loader's uncaught
// error channel instead (spec.md §4.7).
type RequireFunc func(deps []string, onResolved func(args []interface{}), onFailure func(error))

// newRequireFunc binds a RequireFunc to requester's URL, so that
// specifiers it's given resolve relative to the requesting Module.
func (l *Loader) newRequireFunc(requester *Module) RequireFunc {
	return func(deps []string, onResolved func(args []interface{}), onFailure func(error)) {
		l.requireFor(requester.url, deps, onResolved, onFailure)
	}
}

// Require is the host-side escape hatch for code running outside of any
// factory — analogous to a script tag that calls the global `require`
// directly instead of `define`. Specifiers resolve against the Loader's
// configured document URL.
func (l *Loader) Require(deps []string, onResolved func([]interface{}), onFailure func(error)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requireFor(l.cfg.DocumentURL, deps, onResolved, onFailure)
}

// requireFor must be called with l.mu held.
func (l *Loader) requireFor(refererURL string, deps []string, onResolved func([]interface{}), onFailure func(error)) {
	mods := make([]*Module, len(deps))
	for i, spec := range deps {
		mod, err := l.resolveAndIntern(refererURL, spec)
		if err != nil {
			l.failOnce(onFailure, err)
			return
		}
		mods[i] = mod
		l.fetchIfNeeded(mod)
		l.registerPendingRoot(mod)
	}

	pending := len(mods)
	args := make([]interface{}, len(mods))
	settled := false

	settle := func() {
		if settled {
			return
		}
		settled = true
		if onResolved != nil {
			onResolved(args)
		}
	}

	if pending == 0 {
		settle()
		return
	}

	for i, mod := range mods {
		i := i
		mod.addNotify(
			func(exp *Exports) {
				if settled {
					return
				}
				args[i] = exp
				pending--
				if pending == 0 {
					settle()
				}
			},
			func(err error) {
				if settled {
					return
				}
				settled = true
				l.failOnce(onFailure, err)
			},
		)
	}
	l.pumpPendingRoots()
}

// failOnce calls onFailure if non-nil, otherwise surfaces err as an
// uncaught error. Per spec.md §4.7, onFailure fires exactly once, with
// the first failure encountered — the `settled` guard in requireFor is
// what keeps a second or third dependency failure from reaching here
// again for the same Require call.
func (l *Loader) failOnce(onFailure func(error), err error) {
	if onFailure != nil {
		onFailure(err)
		return
	}
	l.surfaceUncaught(err)
}
