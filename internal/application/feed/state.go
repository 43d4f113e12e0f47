package feed

import (
	"fmt"

	"github.com/erp/clerkfeed/internal/domain/shared"
)

// State is the lifecycle stage of one feed request.
type State int

const (
	StateUnauthenticated State = iota
	StateValidated
	StateStreaming
	StateComplete
	StateDenied
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateValidated:
		return "validated"
	case StateStreaming:
		return "streaming"
	case StateComplete:
		return "complete"
	case StateDenied:
		return "denied"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// IsTerminal reports whether no further transition is allowed.
func (s State) IsTerminal() bool {
	return s == StateComplete || s == StateDenied || s == StateFailed
}

var allowedTransitions = map[State][]State{
	StateUnauthenticated: {StateValidated, StateDenied},
	StateValidated:       {StateStreaming, StateFailed},
	StateStreaming:       {StateComplete, StateFailed},
}

// session tracks the state of a single request. Data is only emitted after
// StateComplete is reached.
type session struct {
	state State
}

func (s *session) advance(to State) error {
	for _, next := range allowedTransitions[s.state] {
		if next == to {
			s.state = to
			return nil
		}
	}
	return fmt.Errorf("feed session %s -> %s: %w", s.state, to, shared.ErrInvalidState)
}
