package connection

import "fmt"

// Status is the externally observable summary of the connection's state.
// Exactly one value is active at any time.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusError
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// validTransitions defines the allowed status transitions. Anything not
// listed (including self-transitions like connecting -> connecting) is
// rejected centrally in transition.
var validTransitions = map[Status][]Status{
	StatusDisconnected: {StatusConnecting, StatusError},
	StatusConnecting:   {StatusConnected, StatusDisconnected},
	StatusConnected:    {StatusDisconnected},
	StatusError:        {StatusConnecting, StatusDisconnected},
}

// stateMachine holds the connection status together with the reconnect
// attempt counter as a single state record.
type stateMachine struct {
	status  Status
	attempt int
}

// transition moves to the next status, rejecting invalid transitions.
func (m *stateMachine) transition(next Status) error {
	for _, allowed := range validTransitions[m.status] {
		if next == allowed {
			m.status = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.status, next)
}
