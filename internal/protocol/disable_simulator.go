package protocol

// DisableSimulator tells the client to drop its connection to the
// sending simulator. The message carries no body.
type DisableSimulator struct{}

func DecodeDisableSimulator(body []byte) (*DisableSimulator, error) {
	return &DisableSimulator{}, nil
}

func (d *DisableSimulator) Encode() []byte {
	return nil
}
