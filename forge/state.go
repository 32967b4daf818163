package forge

// StateType represents where the orchestrator is in a request's lifecycle.
type StateType int

const (
	// StateIdle indicates no request is in flight.
	StateIdle StateType = iota
	// StateValidating indicates a request is being checked and normalized.
	StateValidating
	// StateRendering indicates glyph composition is running.
	StateRendering
)

// String returns the string representation of the state.
func (s StateType) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRendering:
		return "rendering"
	default:
		return "unknown"
	}
}

// stateMachine enforces legal lifecycle transitions. Every terminal outcome
// (completion, cache hit, validation failure, timeout, render error) returns
// to idle; a request can never leave the machine stuck mid-flight.
type stateMachine struct {
	current     StateType
	transitions map[StateType][]StateType
}

func newStateMachine() *stateMachine {
	return &stateMachine{
		current: StateIdle,
		transitions: map[StateType][]StateType{
			StateIdle:       {StateValidating},
			StateValidating: {StateRendering, StateIdle},
			StateRendering:  {StateIdle},
		},
	}
}

// transition attempts to move to the given state, reporting whether the move
// was legal.
func (sm *stateMachine) transition(to StateType) bool {
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			sm.current = to
			return true
		}
	}
	return false
}

// Current returns the current state.
func (sm *stateMachine) Current() StateType {
	return sm.current
}
