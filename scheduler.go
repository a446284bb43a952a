package amd

// topLevelScheduler serializes execution of sibling top-level define
// calls so they run in source order even when their subgraphs finish
// loading out of order (spec.md §4.6). Non-top-level Modules never touch
// this queue; they execute as soon as the Graph Engine's post-order
// traversal reaches them.
type topLevelScheduler struct {
	queue []*Module
}

func (s *topLevelScheduler) enqueue(m *Module) {
	s.queue = append(s.queue, m)
}

// advanceTopLevel drains the front of the queue for as long as the front entry's
// subgraph is loaded: it executes that entry (which, being terminal
// afterwards regardless of success, unblocks the next one) and repeats.
// It stops the moment the front entry isn't loaded yet, since a later
// entry becoming ready first must still wait its turn.
func (l *Loader) advanceTopLevel() {
	for len(l.topLevel.queue) > 0 {
		front := l.topLevel.queue[0]
		if front.state.Terminal() {
			l.topLevel.queue = l.topLevel.queue[1:]
			continue
		}
		if !isSubgraphLoaded(front, map[*Module]bool{}) {
			return
		}
		l.logTopLevelTurn(front)
		if err := l.executeModule(front, map[*Module]bool{}); err != nil {
			// executeModule already transitioned front to Failed and
			// drained its notify list; surface it and move on to the
			// next entry. A top-level failure never blocks its siblings.
			l.surfaceUncaught(err)
		}
		l.topLevel.queue = l.topLevel.queue[1:]
	}
}
