package session

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"
)

// uiEnvelope is the control-channel notification wire form: a JSON
// object tagging the event type, payload inlined when it is already
// JSON and base64-wrapped otherwise.
type uiEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeUiMessage renders a UiMessage for the control channel.
func EncodeUiMessage(msg UiMessage) ([]byte, error) {
	payload := json.RawMessage(msg.Payload)
	if !json.Valid(msg.Payload) {
		wrapped, err := json.Marshal(msg.Payload)
		if err != nil {
			return nil, err
		}
		payload = wrapped
	}
	return json.Marshal(uiEnvelope{Event: msg.Event, Payload: payload})
}

// DatagramNotifier sends UiMessages to a local datagram address,
// dialing lazily so the consumer may bind after the client starts.
type DatagramNotifier struct {
	network string
	addr    string

	mu   sync.Mutex
	conn net.Conn
}

var _ Notifier = (*DatagramNotifier)(nil)

func NewDatagramNotifier(network, addr string) *DatagramNotifier {
	return &DatagramNotifier{network: network, addr: addr}
}

func (n *DatagramNotifier) Notify(msg UiMessage) error {
	out, err := EncodeUiMessage(msg)
	if err != nil {
		return fmt.Errorf("session: encode ui message: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		conn, err := net.Dial(n.network, n.addr)
		if err != nil {
			return fmt.Errorf("session: dial notify channel: %w", err)
		}
		n.conn = conn
	}
	if _, err := n.conn.Write(out); err != nil {
		// Drop the cached conn so the next notify re-dials.
		n.conn.Close()
		n.conn = nil
		return fmt.Errorf("session: notify write: %w", err)
	}
	return nil
}

func (n *DatagramNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}
