package protocol

import (
	"encoding/binary"
	"fmt"
)

// PacketAck acknowledges reliable packets outside the piggybacked
// ack-tail mechanism. Body: u8 count, then count little-endian u32
// sequence numbers.
type PacketAck struct {
	Packets []uint32
}

func DecodePacketAck(body []byte) (*PacketAck, error) {
	if len(body) < 1 {
		return nil, fmt.Errorf("%w: packet ack needs a count byte", ErrBodyTooShort)
	}
	count := int(body[0])
	if len(body) < 1+count*4 {
		return nil, fmt.Errorf("%w: packet ack declares %d acks in %d bytes", ErrBodyTooShort, count, len(body))
	}
	a := &PacketAck{Packets: make([]uint32, count)}
	for i := 0; i < count; i++ {
		a.Packets[i] = binary.LittleEndian.Uint32(body[1+i*4 : 5+i*4])
	}
	return a, nil
}

func (a *PacketAck) Encode() []byte {
	buf := make([]byte, 0, 1+len(a.Packets)*4)
	buf = append(buf, byte(len(a.Packets)))
	for _, seq := range a.Packets {
		buf = binary.LittleEndian.AppendUint32(buf, seq)
	}
	return buf
}

func NewPacketAckPacket(sequences []uint32) *Packet {
	return &Packet{
		Header: Header{
			ID:        PacketAckID,
			Frequency: Low,
		},
		Body: &PacketAck{Packets: sequences},
	}
}
