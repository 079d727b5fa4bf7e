package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Chat source and type codes as used on the wire.
const (
	ChatSourceSystem uint8 = 0
	ChatSourceAgent  uint8 = 1
	ChatSourceObject uint8 = 2

	ChatTypeWhisper uint8 = 0
	ChatTypeNormal  uint8 = 1
	ChatTypeShout   uint8 = 2
)

// ChatFromSimulator delivers nearby chat. Body layout: u8-length name,
// source UUID, owner UUID, source type, chat type, audible, 12 opaque
// position bytes, then a u16-LE-length message.
type ChatFromSimulator struct {
	FromName   string
	SourceID   uuid.UUID
	OwnerID    uuid.UUID
	SourceType uint8
	ChatType   uint8
	Audible    uint8
	Position   [12]byte
	Message    string
}

func DecodeChatFromSimulator(body []byte) (*ChatFromSimulator, error) {
	if len(body) < 1 {
		return nil, fmt.Errorf("%w: chat needs a name length byte", ErrBodyTooShort)
	}
	nameLen := int(body[0])
	// name + uuids(32) + three flag bytes + position(12) + message length(2)
	if len(body) < 1+nameLen+32+3+12+2 {
		return nil, fmt.Errorf("%w: chat body of %d bytes", ErrBodyTooShort, len(body))
	}
	c := &ChatFromSimulator{FromName: string(body[1 : 1+nameLen])}
	off := 1 + nameLen
	copy(c.SourceID[:], body[off:off+16])
	copy(c.OwnerID[:], body[off+16:off+32])
	off += 32
	c.SourceType = body[off]
	c.ChatType = body[off+1]
	c.Audible = body[off+2]
	off += 3
	copy(c.Position[:], body[off:off+12])
	off += 12
	msgLen := int(binary.LittleEndian.Uint16(body[off : off+2]))
	off += 2
	if len(body) < off+msgLen {
		return nil, fmt.Errorf("%w: chat message truncated", ErrBodyTooShort)
	}
	c.Message = string(body[off : off+msgLen])
	return c, nil
}

func (c *ChatFromSimulator) Encode() []byte {
	buf := make([]byte, 0, 1+len(c.FromName)+49+len(c.Message))
	buf = append(buf, byte(len(c.FromName)))
	buf = append(buf, c.FromName...)
	buf = append(buf, c.SourceID[:]...)
	buf = append(buf, c.OwnerID[:]...)
	buf = append(buf, c.SourceType, c.ChatType, c.Audible)
	buf = append(buf, c.Position[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(c.Message)))
	buf = append(buf, c.Message...)
	return buf
}
