package session

import (
	"context"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unnamed-mmo/metaverse-client/internal/observability"
	"github.com/unnamed-mmo/metaverse-client/internal/protocol"
)

// Control-channel event type tags.
const (
	EventLoginResponse = "login_response"
)

// UiMessage is an outbound notification for the control-channel
// consumer.
type UiMessage struct {
	Event   string
	Payload []byte
}

// Notifier delivers UiMessages back to the control channel.
type Notifier interface {
	Notify(msg UiMessage) error
}

// Session is the live, addressable simulator endpoint. Conn starts nil
// and is filled in by the transport layer once the circuit opens.
type Session struct {
	SimIP       string
	SimPort     uint16
	AgentID     uuid.UUID
	SessionID   uuid.UUID
	CircuitCode uint32
	Conn        net.Conn
}

// Snapshot is a point-in-time copy of mailbox state, taken through the
// actor loop so it never races a mutation.
type Snapshot struct {
	Session *Session
	Pending []*protocol.Packet
}

type envelope struct {
	packet   *protocol.Packet
	session  *Session
	ui       *UiMessage
	snapshot chan Snapshot
}

// Mailbox is the serialized router for session state. Producers send
// packets, session replacements, and UI notifications into one inbound
// channel; a single goroutine applies them in arrival order. Nothing
// outside that goroutine touches the session.
type Mailbox struct {
	inbox    chan envelope
	done     chan struct{}
	notifier Notifier
	log      zerolog.Logger

	// owned by the run loop
	session *Session
	pending []*protocol.Packet
}

func NewMailbox(notifier Notifier) *Mailbox {
	return &Mailbox{
		inbox:    make(chan envelope, 32),
		done:     make(chan struct{}),
		notifier: notifier,
		log:      log.With().Str("component", "mailbox").Logger(),
	}
}

// Start launches the processing loop. The loop exits when ctx is
// cancelled; sends after that fail with ErrMailboxClosed.
func (m *Mailbox) Start(ctx context.Context) {
	go m.run(ctx)
}

func (m *Mailbox) run(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-m.inbox:
			m.process(env)
		}
	}
}

func (m *Mailbox) process(env envelope) {
	switch {
	case env.packet != nil:
		observability.RecordMailboxMessage("packet")
		m.routePacket(env.packet)
	case env.session != nil:
		observability.RecordMailboxMessage("session")
		m.session = env.session
		m.log.Info().
			Str("sim_ip", env.session.SimIP).
			Uint16("sim_port", env.session.SimPort).
			Str("agent_id", env.session.AgentID.String()).
			Msg("session established")
	case env.ui != nil:
		observability.RecordMailboxMessage("ui")
		if err := m.notifier.Notify(*env.ui); err != nil {
			m.log.Warn().Err(err).Str("event", env.ui.Event).Msg("ui notify failed")
		}
	case env.snapshot != nil:
		env.snapshot <- m.stateCopy()
	}
}

// routePacket forwards to the live simulator connection when one
// exists, otherwise queues until the transport layer attaches one.
func (m *Mailbox) routePacket(pkt *protocol.Packet) {
	if m.session != nil && m.session.Conn != nil {
		if _, err := m.session.Conn.Write(pkt.ToBytes()); err != nil {
			m.log.Warn().Err(err).
				Uint32("id", pkt.Header.ID).
				Str("frequency", pkt.Header.Frequency.String()).
				Msg("simulator send failed")
		}
		return
	}
	m.pending = append(m.pending, pkt)
}

func (m *Mailbox) stateCopy() Snapshot {
	snap := Snapshot{Pending: append([]*protocol.Packet(nil), m.pending...)}
	if m.session != nil {
		dup := *m.session
		snap.Session = &dup
	}
	return snap
}

func (m *Mailbox) send(ctx context.Context, env envelope) error {
	select {
	case <-m.done:
		return ErrMailboxClosed
	default:
	}
	select {
	case m.inbox <- env:
		return nil
	case <-m.done:
		return ErrMailboxClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendPacket hands a packet to the router. The call returns once the
// mailbox accepts the message, not once it is processed.
func (m *Mailbox) SendPacket(ctx context.Context, pkt *protocol.Packet) error {
	return m.send(ctx, envelope{packet: pkt})
}

// SetSession replaces the current session state.
func (m *Mailbox) SetSession(ctx context.Context, sess Session) error {
	return m.send(ctx, envelope{session: &sess})
}

// Notify forwards a UI message to the control-channel consumer.
func (m *Mailbox) Notify(ctx context.Context, msg UiMessage) error {
	return m.send(ctx, envelope{ui: &msg})
}

// SnapshotState reads current state through the actor loop.
func (m *Mailbox) SnapshotState(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := m.send(ctx, envelope{snapshot: reply}); err != nil {
		return Snapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-m.done:
		return Snapshot{}, ErrMailboxClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}
