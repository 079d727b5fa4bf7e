package protocol

import (
	"encoding/json"
	"fmt"
)

// LoginRequest travels only on the local control channel; it is never
// sent to a simulator. The body is JSON so control-channel clients in
// any language can produce it without a binary marshaller.
type LoginRequest struct {
	First        string `json:"first"`
	Last         string `json:"last"`
	Passwd       string `json:"passwd"`
	Start        string `json:"start"`
	Channel      string `json:"channel"`
	AgreeToTOS   bool   `json:"agree_to_tos"`
	ReadCritical bool   `json:"read_critical"`
	URL          string `json:"url"`
}

func DecodeLoginRequest(body []byte) (*LoginRequest, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty login body", ErrBodyTooShort)
	}
	l := &LoginRequest{}
	if err := json.Unmarshal(body, l); err != nil {
		return nil, fmt.Errorf("%w: login body: %v", ErrMalformedBody, err)
	}
	return l, nil
}

func (l *LoginRequest) Encode() []byte {
	out, err := json.Marshal(l)
	if err != nil {
		// Marshal of a plain struct of strings and bools cannot fail.
		panic(err)
	}
	return out
}

func NewLoginPacket(req LoginRequest) *Packet {
	return &Packet{
		Header: Header{
			ID:        LoginID,
			Frequency: Medium,
		},
		Body: &req,
	}
}
