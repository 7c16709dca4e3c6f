package checkout

type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// IsTerminal reports whether the attempt is finished. A failed attempt is
// not: it can be submitted again with the same token.
func (s State) IsTerminal() bool {
	return s == StateSucceeded
}

// InFlight reports whether a submit is currently running.
func (s State) InFlight() bool {
	return s == StateValidating || s == StateSubmitting
}

func (s State) CanTransitionTo(next State) bool {
	switch s {
	case StateIdle, StateFailed:
		return next == StateValidating
	case StateValidating:
		// back to idle when the request never left
		return next == StateSubmitting || next == StateIdle || next == StateFailed
	case StateSubmitting:
		return next == StateSucceeded || next == StateFailed
	default:
		return false
	}
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}
