package protocol

import (
	"encoding/binary"
	"fmt"
)

// Frequency classifies a message by how often it appears on the wire.
// The class decides how many bytes its ID occupies: High is a single
// byte, Medium and Low spend one and two 0xFF prefix bytes to escape
// out of the High ID space.
type Frequency uint8

const (
	High Frequency = iota
	Medium
	Low
)

func (f Frequency) String() string {
	switch f {
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return fmt.Sprintf("frequency(%d)", uint8(f))
	}
}

// Flag byte bit positions.
const (
	flagZerocoded    = 0x80
	flagReliable     = 0x40
	flagResent       = 0x20
	flagAppendedAcks = 0x10
)

// fixedHeaderLen covers flags(1) + sequence(4) + extra(1). At least one
// message ID byte follows.
const fixedHeaderLen = 6

// Header is the fixed+variable packet header. Sequence numbers are
// assigned by the transport at send time; a freshly built header
// carries zero. Size is the decoded byte offset where the body starts,
// derived during Decode and never written to the wire.
type Header struct {
	ID             uint32
	Frequency      Frequency
	Reliable       bool
	SequenceNumber uint32
	AppendedAcks   bool
	Zerocoded      bool
	Resent         bool
	AckList        []uint32
	Size           int
}

// Validate reports structural problems that would make Encode emit
// bytes that do not decode back to the same header.
func (h *Header) Validate() error {
	switch h.Frequency {
	case High:
		if h.ID >= 0xFF {
			return fmt.Errorf("%w: high id %d", ErrIDOutOfRange, h.ID)
		}
	case Medium:
		if h.ID >= 0xFF {
			return fmt.Errorf("%w: medium id %d", ErrIDOutOfRange, h.ID)
		}
	case Low:
		if h.ID > 0xFFFF {
			return fmt.Errorf("%w: low id %d", ErrIDOutOfRange, h.ID)
		}
	default:
		return fmt.Errorf("%w: %s", ErrIDOutOfRange, h.Frequency)
	}
	if (h.AckList != nil) != h.AppendedAcks {
		return ErrAckListMismatch
	}
	return nil
}

// Encode emits the header bytes: flags, big-endian sequence number, the
// extra-header length byte (always zero here), then the frequency-tiered
// message ID. Trailing acks are appended after the body, not here; see
// Packet.ToBytes.
func (h *Header) Encode() []byte {
	var flags byte
	if h.Zerocoded {
		flags |= flagZerocoded
	}
	if h.Reliable {
		flags |= flagReliable
	}
	if h.Resent {
		flags |= flagResent
	}
	if h.AppendedAcks {
		flags |= flagAppendedAcks
	}

	buf := make([]byte, fixedHeaderLen, fixedHeaderLen+4)
	buf[0] = flags
	binary.BigEndian.PutUint32(buf[1:5], h.SequenceNumber)
	buf[5] = 0

	switch h.Frequency {
	case High:
		buf = append(buf, byte(h.ID))
	case Medium:
		buf = append(buf, 0xFF, byte(h.ID))
	case Low:
		buf = append(buf, 0xFF, 0xFF)
		buf = binary.BigEndian.AppendUint16(buf, uint16(h.ID))
	}
	return buf
}

// DecodeHeader reads the header from the front of a raw datagram and
// locates where the body begins. It never touches body bytes. If the
// appended-acks flag is set the trailing ack block (count byte at the
// very end, 4 bytes per ack before it) is read from the tail of buf.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < fixedHeaderLen+1 {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrMalformedHeader, len(buf))
	}

	flags := buf[0]
	h := Header{
		SequenceNumber: binary.BigEndian.Uint32(buf[1:5]),
		Zerocoded:      flags&flagZerocoded != 0,
		Reliable:       flags&flagReliable != 0,
		Resent:         flags&flagResent != 0,
		AppendedAcks:   flags&flagAppendedAcks != 0,
	}

	// Extra-header bytes sit between the length byte and the message ID.
	// Nothing in this client emits them, but inbound packets may carry
	// them and they must be skipped, not rejected.
	off := fixedHeaderLen + int(buf[5])
	if off >= len(buf) {
		return Header{}, fmt.Errorf("%w: extra header overruns buffer", ErrMalformedHeader)
	}

	switch {
	case buf[off] != 0xFF:
		h.Frequency = High
		h.ID = uint32(buf[off])
		off++
	case off+1 < len(buf) && buf[off+1] != 0xFF:
		h.Frequency = Medium
		h.ID = uint32(buf[off+1])
		off += 2
	case off+3 < len(buf):
		h.Frequency = Low
		h.ID = uint32(binary.BigEndian.Uint16(buf[off+2 : off+4]))
		off += 4
	default:
		return Header{}, fmt.Errorf("%w: truncated message id", ErrMalformedHeader)
	}
	h.Size = off

	if h.AppendedAcks {
		acks, err := decodeAckTail(buf, off)
		if err != nil {
			return Header{}, err
		}
		h.AckList = acks
	}
	return h, nil
}

func decodeAckTail(buf []byte, bodyStart int) ([]uint32, error) {
	count := int(buf[len(buf)-1])
	tail := 1 + count*4
	if len(buf)-tail < bodyStart {
		return nil, fmt.Errorf("%w: ack block overruns body", ErrMalformedHeader)
	}
	acks := make([]uint32, count)
	base := len(buf) - tail
	for i := 0; i < count; i++ {
		acks[i] = binary.BigEndian.Uint32(buf[base+i*4 : base+i*4+4])
	}
	return acks, nil
}

// ackTailLen is the number of trailing bytes occupied by the ack block,
// zero when no acks are appended.
func (h *Header) ackTailLen() int {
	if !h.AppendedAcks {
		return 0
	}
	return 1 + len(h.AckList)*4
}
