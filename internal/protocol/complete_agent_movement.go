package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

const completeAgentMovementLen = 36

// CompleteAgentMovement announces agent presence on an allocated
// circuit. Body: agent(16) + session(16) + circuit code(4).
type CompleteAgentMovement struct {
	AgentID     uuid.UUID
	SessionID   uuid.UUID
	CircuitCode uint32
}

func DecodeCompleteAgentMovement(body []byte) (*CompleteAgentMovement, error) {
	if len(body) < completeAgentMovementLen {
		return nil, fmt.Errorf("%w: complete agent movement needs %d bytes, got %d", ErrBodyTooShort, completeAgentMovementLen, len(body))
	}
	m := &CompleteAgentMovement{}
	copy(m.AgentID[:], body[0:16])
	copy(m.SessionID[:], body[16:32])
	m.CircuitCode = binary.LittleEndian.Uint32(body[32:36])
	return m, nil
}

func (m *CompleteAgentMovement) Encode() []byte {
	buf := make([]byte, 0, completeAgentMovementLen)
	buf = append(buf, m.AgentID[:]...)
	buf = append(buf, m.SessionID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, m.CircuitCode)
	return buf
}

func NewCompleteAgentMovementPacket(block CompleteAgentMovement) *Packet {
	return &Packet{
		Header: Header{
			ID:        CompleteAgentMovementID,
			Frequency: Low,
			Reliable:  true,
		},
		Body: &block,
	}
}
