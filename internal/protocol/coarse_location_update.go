package protocol

import (
	"encoding/binary"
	"fmt"
)

// CoarseLocationUpdate carries minimap positions: u8 count, count 3-byte
// region-local positions, then the viewer's own index and the tracked
// ("prey") index as little-endian i16, -1 meaning absent.
type CoarseLocationUpdate struct {
	Positions [][3]byte
	You       int16
	Prey      int16
}

func DecodeCoarseLocationUpdate(body []byte) (*CoarseLocationUpdate, error) {
	if len(body) < 1 {
		return nil, fmt.Errorf("%w: coarse location needs a count byte", ErrBodyTooShort)
	}
	count := int(body[0])
	if len(body) < 1+count*3+4 {
		return nil, fmt.Errorf("%w: coarse location declares %d positions in %d bytes", ErrBodyTooShort, count, len(body))
	}
	u := &CoarseLocationUpdate{Positions: make([][3]byte, count)}
	off := 1
	for i := 0; i < count; i++ {
		copy(u.Positions[i][:], body[off:off+3])
		off += 3
	}
	u.You = int16(binary.LittleEndian.Uint16(body[off : off+2]))
	u.Prey = int16(binary.LittleEndian.Uint16(body[off+2 : off+4]))
	return u, nil
}

func (u *CoarseLocationUpdate) Encode() []byte {
	buf := make([]byte, 0, 1+len(u.Positions)*3+4)
	buf = append(buf, byte(len(u.Positions)))
	for _, p := range u.Positions {
		buf = append(buf, p[:]...)
	}
	buf = binary.LittleEndian.AppendUint16(buf, uint16(u.You))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(u.Prey))
	return buf
}
