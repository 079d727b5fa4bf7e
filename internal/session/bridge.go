package session

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unnamed-mmo/metaverse-client/internal/login"
	"github.com/unnamed-mmo/metaverse-client/internal/observability"
	"github.com/unnamed-mmo/metaverse-client/internal/protocol"
)

// maxDatagram bounds one control-channel read.
const maxDatagram = 64 * 1024

// Bridge listens on the local control channel. Datagrams carry the
// same packet framing as the simulator protocol; login requests are
// intercepted and drive the bootstrap flow, everything else is
// forwarded to the mailbox untouched.
type Bridge struct {
	conn net.PacketConn
	auth login.Authenticator
	mbox *Mailbox
	log  zerolog.Logger

	// DefaultLoginURL fills a login request that arrives without one.
	DefaultLoginURL string
}

func NewBridge(conn net.PacketConn, auth login.Authenticator, mbox *Mailbox) *Bridge {
	return &Bridge{
		conn: conn,
		auth: auth,
		mbox: mbox,
		log:  log.With().Str("component", "bridge").Logger(),
	}
}

// Run blocks on the receive loop. A malformed datagram is logged and
// dropped, never fatal; only a transport-level receive failure ends
// the loop.
func (b *Bridge) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.conn.Close()
	}()
	b.log.Info().Str("addr", b.conn.LocalAddr().String()).Msg("control channel listening")

	buf := make([]byte, maxDatagram)
	for {
		n, _, err := b.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}

		pkt, err := protocol.FromBytes(buf[:n])
		if err != nil {
			observability.RecordPacket("error")
			b.log.Warn().Err(err).Int("bytes", n).Msg("dropping undecodable datagram")
			continue
		}
		observability.RecordPacket("ok")

		if req, ok := pkt.Body.(*protocol.LoginRequest); ok {
			// Login never reaches the mailbox as a raw packet.
			if req.URL == "" {
				req.URL = b.DefaultLoginURL
			}
			state, err := RunBootstrap(ctx, b.auth, b.mbox, *req)
			if err != nil {
				b.log.Warn().Err(err).Stringer("state", state).Msg("bootstrap failed")
			}
			continue
		}

		if err := b.mbox.SendPacket(ctx, pkt); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.log.Warn().Err(err).Uint32("id", pkt.Header.ID).Msg("mailbox forward failed")
		}
	}
}
