package tui

// FocusTarget identifies which panel currently holds keyboard focus.
type FocusTarget int

const (
	FocusUpcoming FocusTarget = iota // Left sidebar, upcoming tournaments
	FocusTables                      // Right, tabbed tables
)

const focusCount = 2

// Next returns the next focus target in forward tab order.
func (f FocusTarget) Next() FocusTarget {
	return (f + 1) % focusCount
}

// Prev returns the previous focus target in reverse tab order.
func (f FocusTarget) Prev() FocusTarget {
	return (f + focusCount - 1) % focusCount
}

// String returns the human-readable name of the focus target.
func (f FocusTarget) String() string {
	switch f {
	case FocusUpcoming:
		return "upcoming"
	case FocusTables:
		return "tables"
	default:
		return "unknown"
	}
}

// LoadState tracks the dashboard's view of the store.
type LoadState int

const (
	StateLoading LoadState = iota // Snapshot requested, not yet answered
	StateReady                    // Last snapshot loaded
	StateFailed                   // Last snapshot failed
)

// validTransitions defines the allowed LoadState transitions.
var validTransitions = map[LoadState][]LoadState{
	StateLoading: {StateReady, StateFailed},
	StateReady:   {StateLoading},
	StateFailed:  {StateLoading},
}

// CanTransitionTo reports whether transitioning from s to next is valid.
func (s LoadState) CanTransitionTo(next LoadState) bool {
	for _, valid := range validTransitions[s] {
		if valid == next {
			return true
		}
	}
	return false
}

// Label returns a short uppercase label for the state.
func (s LoadState) Label() string {
	switch s {
	case StateLoading:
		return "LOADING"
	case StateReady:
		return "READY"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns a single-character symbol representing the state.
func (s LoadState) Symbol() string {
	switch s {
	case StateLoading:
		return "●"
	case StateReady:
		return "✓"
	case StateFailed:
		return "✗"
	default:
		return "?"
	}
}
