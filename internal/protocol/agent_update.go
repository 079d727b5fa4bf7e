package protocol

import (
	"fmt"

	"github.com/google/uuid"
)

// agentUpdateMinLen covers the identity prefix. The rest of the body
// (rotations, camera axes, control flags) is carried opaquely; this
// client registers the message but does not act on the tail fields.
const agentUpdateMinLen = 32

// AgentUpdate is the high-frequency avatar state report.
type AgentUpdate struct {
	AgentID   uuid.UUID
	SessionID uuid.UUID
	Tail      []byte
}

func DecodeAgentUpdate(body []byte) (*AgentUpdate, error) {
	if len(body) < agentUpdateMinLen {
		return nil, fmt.Errorf("%w: agent update needs %d bytes, got %d", ErrBodyTooShort, agentUpdateMinLen, len(body))
	}
	u := &AgentUpdate{Tail: append([]byte(nil), body[agentUpdateMinLen:]...)}
	copy(u.AgentID[:], body[0:16])
	copy(u.SessionID[:], body[16:32])
	return u, nil
}

func (u *AgentUpdate) Encode() []byte {
	buf := make([]byte, 0, agentUpdateMinLen+len(u.Tail))
	buf = append(buf, u.AgentID[:]...)
	buf = append(buf, u.SessionID[:]...)
	buf = append(buf, u.Tail...)
	return buf
}
