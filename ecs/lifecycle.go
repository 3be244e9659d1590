package ecs

// State is a position in the shared lifecycle state machine used by entities,
// components and worlds.
type State uint8

const (
	Uncreated State = iota
	Created
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uncreated:
		return "uncreated"
	case Created:
		return "created"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Lifecycle gates transitions Uncreated -> Created -> Destroyed. Destroyed is
// terminal and may be entered from either earlier state.
type Lifecycle struct {
	state State
}

// State returns the current state.
func (l Lifecycle) State() State {
	return l.state
}

func (l Lifecycle) Created() bool {
	return l.state == Created
}

func (l Lifecycle) Destroyed() bool {
	return l.state == Destroyed
}

// Create moves Uncreated to Created and reports whether it did.
func (l *Lifecycle) Create() bool {
	if l.state != Uncreated {
		return false
	}
	l.state = Created
	return true
}

// Destroy moves any non-terminal state to Destroyed and reports whether it did.
func (l *Lifecycle) Destroy() bool {
	if l.state == Destroyed {
		return false
	}
	l.state = Destroyed
	return true
}

// WorldState names a lifecycle state the way worlds talk about it.
func WorldState(s State) string {
	switch s {
	case Uncreated:
		return "unloaded"
	case Created:
		return "loaded"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
