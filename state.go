package amd

// State is a Module's position in its lifecycle. States advance
// monotonically; Executed and Failed are terminal.
type State int

const (
	// Initialized is the state a Module is born into when the Registry
	// first interns its URL. Nothing has been fetched yet.
	Initialized State = iota
	// Loading means the Fetcher has an outstanding request for this URL.
	Loading
	// WaitingForTurn means the script's deps/factory are known (either
	// from a define call or synthesized for a no-define script) and the
	// Module is waiting for the Scheduler to select it.
	WaitingForTurn
	// Executing means the factory is currently running.
	Executing
	// Executed means the factory returned normally. Terminal.
	Executed
	// Failed means the factory threw, a dependency failed, or the fetch
	// itself failed. Terminal.
	Failed
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Loading:
		return "loading"
	case WaitingForTurn:
		return "waiting-for-turn"
	case Executing:
		return "executing"
	case Executed:
		return "executed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is Executed or Failed.
func (s State) Terminal() bool {
	return s == Executed || s == Failed
}
