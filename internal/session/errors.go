package session

import (
	"errors"
	"fmt"
)

var (
	ErrMailboxClosed        = errors.New("session: mailbox closed")
	ErrMissingIdentityField = errors.New("session: login response missing identity field")
	ErrTransport            = errors.New("session: control channel transport failure")
)

// Phase names the bootstrap step whose mailbox delivery failed. A
// caller that wants to reconnect resumes from the failed phase instead
// of re-authenticating blindly.
type Phase string

const (
	PhaseSession       Phase = "session"
	PhaseCircuitCode   Phase = "circuit_code"
	PhaseAgentMovement Phase = "agent_movement"
)

// DeliveryError tags a failed mailbox send with its bootstrap phase.
type DeliveryError struct {
	Phase Phase
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("session: %s delivery failed: %v", e.Phase, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
