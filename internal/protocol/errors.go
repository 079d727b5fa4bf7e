package protocol

import "errors"

var (
	ErrMalformedHeader    = errors.New("protocol: malformed header")
	ErrUnknownMessageType = errors.New("protocol: unknown message type")
	ErrBodyTooShort       = errors.New("protocol: body too short")
	ErrMalformedBody      = errors.New("protocol: malformed body")
	ErrBodyLength         = errors.New("protocol: unexpected body length")
	ErrZeroCode           = errors.New("protocol: truncated zero-coded run")
	ErrIDOutOfRange       = errors.New("protocol: message id out of range for frequency")
	ErrAckListMismatch    = errors.New("protocol: ack list does not match appended_acks flag")
)
