package protocol

// Zero-coding replaces each run of zero bytes with a 0x00 marker plus a
// one-byte run length. Runs longer than 255 repeat the marker pair.

// ZeroDecode expands a zero-coded body. A marker byte must be followed
// by its count byte; a dangling marker is a malformed body.
func ZeroDecode(src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if src[i] != 0x00 {
			out = append(out, src[i])
			continue
		}
		if i+1 >= len(src) {
			return nil, ErrZeroCode
		}
		i++
		for n := 0; n < int(src[i]); n++ {
			out = append(out, 0x00)
		}
	}
	return out, nil
}

// ZeroEncode compresses zero runs in a body. It is total: any input
// encodes, and ZeroDecode(ZeroEncode(b)) == b.
func ZeroEncode(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		if src[i] != 0x00 {
			out = append(out, src[i])
			i++
			continue
		}
		run := 0
		for i < len(src) && src[i] == 0x00 {
			run++
			i++
		}
		for run > 255 {
			out = append(out, 0x00, 0xFF)
			run -= 255
		}
		out = append(out, 0x00, byte(run))
	}
	return out
}
