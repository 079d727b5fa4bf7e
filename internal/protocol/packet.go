package protocol

import "fmt"

// Body is one decoded message payload. Concrete bodies live in this
// package, one file per message; each knows its own wire layout.
type Body interface {
	Encode() []byte
}

// Packet is the unit of wire transfer: a header plus exactly one body.
type Packet struct {
	Header Header
	Body   Body
}

// FromBytes decodes a complete datagram. The header is decoded first to
// locate boundaries; if the body is zero-coded it is expanded before
// the registry dispatches on (frequency, id). Trailing acks never reach
// the body decoder.
func FromBytes(buf []byte) (*Packet, error) {
	header, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}

	bodyEnd := len(buf) - header.ackTailLen()
	body := buf[header.Size:bodyEnd]
	if header.Zerocoded {
		if body, err = ZeroDecode(body); err != nil {
			return nil, err
		}
	}

	decoded, err := decodeBody(header.Frequency, header.ID, body)
	if err != nil {
		return nil, err
	}
	return &Packet{Header: header, Body: decoded}, nil
}

// ToBytes emits header, body, and the trailing ack block when present.
func (p *Packet) ToBytes() []byte {
	body := p.Body.Encode()
	if p.Header.Zerocoded {
		body = ZeroEncode(body)
	}
	out := append(p.Header.Encode(), body...)
	if p.Header.AppendedAcks {
		for _, ack := range p.Header.AckList {
			out = append(out, byte(ack>>24), byte(ack>>16), byte(ack>>8), byte(ack))
		}
		out = append(out, byte(len(p.Header.AckList)))
	}
	return out
}

// decodeBody is the message type registry: a closed dispatch over
// (frequency, id). Adding a message means one new body file plus one
// case here; nothing else changes. An unregistered pair is an error,
// never a fallback decode.
func decodeBody(freq Frequency, id uint32, body []byte) (Body, error) {
	switch freq {
	case High:
		switch id {
		case AgentUpdateID:
			return DecodeAgentUpdate(body)
		}
	case Medium:
		switch id {
		case LoginID:
			return DecodeLoginRequest(body)
		case CoarseLocationUpdateID:
			return DecodeCoarseLocationUpdate(body)
		}
	case Low:
		switch id {
		case CircuitCodeID:
			return DecodeCircuitCode(body)
		case ChatFromSimulatorID:
			return DecodeChatFromSimulator(body)
		case DisableSimulatorID:
			return DecodeDisableSimulator(body)
		case CompleteAgentMovementID:
			return DecodeCompleteAgentMovement(body)
		case PacketAckID:
			return DecodePacketAck(body)
		}
	}
	return nil, fmt.Errorf("%w: %s/%d", ErrUnknownMessageType, freq, id)
}

// Wire identifiers, scoped to their frequency class.
const (
	AgentUpdateID uint32 = 4 // High

	LoginID                uint32 = 1 // Medium, control channel only
	CoarseLocationUpdateID uint32 = 6 // Medium

	CircuitCodeID           uint32 = 3     // Low
	ChatFromSimulatorID     uint32 = 139   // Low
	DisableSimulatorID      uint32 = 152   // Low
	CompleteAgentMovementID uint32 = 249   // Low
	PacketAckID             uint32 = 65531 // Low
)
