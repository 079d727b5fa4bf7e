package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// circuitCodeLen is the exact body size: code(4) + session(16) + agent(16).
const circuitCodeLen = 36

// CircuitCode opens the simulator-side data channel after login. The
// body is fixed at 36 bytes with no optional trailing fields, so both
// short and long bodies are rejected.
type CircuitCode struct {
	Code      uint32
	SessionID uuid.UUID
	ID        uuid.UUID
}

func DecodeCircuitCode(body []byte) (*CircuitCode, error) {
	if len(body) < circuitCodeLen {
		return nil, fmt.Errorf("%w: circuit code needs %d bytes, got %d", ErrBodyTooShort, circuitCodeLen, len(body))
	}
	if len(body) > circuitCodeLen {
		return nil, fmt.Errorf("%w: circuit code is exactly %d bytes, got %d", ErrBodyLength, circuitCodeLen, len(body))
	}
	c := &CircuitCode{Code: binary.LittleEndian.Uint32(body[0:4])}
	copy(c.SessionID[:], body[4:20])
	copy(c.ID[:], body[20:36])
	return c, nil
}

func (c *CircuitCode) Encode() []byte {
	buf := make([]byte, 4, circuitCodeLen)
	binary.LittleEndian.PutUint32(buf, c.Code)
	buf = append(buf, c.SessionID[:]...)
	buf = append(buf, c.ID[:]...)
	return buf
}

// NewCircuitCodePacket wraps a circuit code block in its reliable
// low-frequency header.
func NewCircuitCodePacket(block CircuitCode) *Packet {
	return &Packet{
		Header: Header{
			ID:        CircuitCodeID,
			Frequency: Low,
			Reliable:  true,
		},
		Body: &block,
	}
}
