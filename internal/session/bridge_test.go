package session

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"

	"github.com/unnamed-mmo/metaverse-client/internal/login"
	"github.com/unnamed-mmo/metaverse-client/internal/protocol"
	"github.com/unnamed-mmo/metaverse-client/internal/testutil/testlog"
)

type bridgeHarness struct {
	bridge   *Bridge
	mbox     *Mailbox
	notifier *recordNotifier
	auth     *stubAuthenticator
	client   net.Conn
	runErr   chan error
}

func startBridge(t *testing.T, ctx context.Context, auth *stubAuthenticator) *bridgeHarness {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "ctl.sock")
	conn, err := net.ListenPacket("unixgram", sock)
	if err != nil {
		t.Fatalf("bind control socket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	notifier := &recordNotifier{}
	mbox := NewMailbox(notifier)
	mbox.Start(ctx)
	bridge := NewBridge(conn, auth, mbox)

	runErr := make(chan error, 1)
	go func() { runErr <- bridge.Run(ctx) }()

	client, err := net.Dial("unixgram", sock)
	if err != nil {
		t.Fatalf("dial control socket: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return &bridgeHarness{
		bridge:   bridge,
		mbox:     mbox,
		notifier: notifier,
		auth:     auth,
		client:   client,
		runErr:   runErr,
	}
}

func (h *bridgeHarness) pendingCount(t *testing.T, ctx context.Context) int {
	t.Helper()
	snap, err := h.mbox.SnapshotState(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return len(snap.Pending)
}

func TestBridgeDropsMalformedAndContinues(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := startBridge(t, ctx, &stubAuthenticator{})

	if _, err := h.client.Write([]byte{1, 2, 3}); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	valid := protocol.NewPacketAckPacket([]uint32{5}).ToBytes()
	if _, err := h.client.Write(valid); err != nil {
		t.Fatalf("write valid: %v", err)
	}

	waitFor(t, func() bool { return h.pendingCount(t, ctx) == 1 })
	snap, _ := h.mbox.SnapshotState(ctx)
	if _, ok := snap.Pending[0].Body.(*protocol.PacketAck); !ok {
		t.Fatalf("forwarded packet is %T", snap.Pending[0].Body)
	}
}

func TestBridgeForwardsNonLoginUnchanged(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := startBridge(t, ctx, &stubAuthenticator{})

	original := protocol.NewCircuitCodePacket(protocol.CircuitCode{Code: 31337})
	raw := original.ToBytes()
	if _, err := h.client.Write(raw); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, func() bool { return h.pendingCount(t, ctx) == 1 })
	snap, _ := h.mbox.SnapshotState(ctx)
	if got := snap.Pending[0].ToBytes(); string(got) != string(raw) {
		t.Fatalf("forwarded packet re-encodes differently")
	}
}

func TestBridgeInterceptsLogin(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := startBridge(t, ctx, &stubAuthenticator{resp: okResponse()})

	raw := protocol.NewLoginPacket(testLoginRequest()).ToBytes()
	if _, err := h.client.Write(raw); err != nil {
		t.Fatalf("write login: %v", err)
	}

	waitFor(t, func() bool {
		snap, err := h.mbox.SnapshotState(ctx)
		return err == nil && snap.Session != nil
	})

	snap, _ := h.mbox.SnapshotState(ctx)
	for _, pkt := range snap.Pending {
		if _, ok := pkt.Body.(*protocol.LoginRequest); ok {
			t.Fatalf("login packet leaked into the mailbox")
		}
	}
	if len(snap.Pending) != 2 {
		t.Fatalf("bootstrap packets: got %d want 2", len(snap.Pending))
	}
	waitFor(t, func() bool { return len(h.notifier.events()) == 1 })
}

func TestBridgeFillsDefaultLoginURL(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	auth := &stubAuthenticator{resp: okResponse()}
	h := startBridge(t, ctx, auth)
	h.bridge.DefaultLoginURL = "http://login.grid.example:8002"

	req := testLoginRequest()
	req.URL = ""
	if _, err := h.client.Write(protocol.NewLoginPacket(req).ToBytes()); err != nil {
		t.Fatalf("write login: %v", err)
	}

	waitFor(t, func() bool { return len(auth.seen()) == 1 })
	if got := auth.seen()[0].URL; got != "http://login.grid.example:8002" {
		t.Fatalf("login url: got %q", got)
	}
}

func TestBridgeFailedLoginDoesNotStopLoop(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	auth := &stubAuthenticator{err: &login.FailedError{Reason: "key"}}
	h := startBridge(t, ctx, auth)

	if _, err := h.client.Write(protocol.NewLoginPacket(testLoginRequest()).ToBytes()); err != nil {
		t.Fatalf("write login: %v", err)
	}
	waitFor(t, func() bool { return len(auth.seen()) == 1 })

	// The loop keeps serving after a rejected login.
	if _, err := h.client.Write(protocol.NewPacketAckPacket([]uint32{1}).ToBytes()); err != nil {
		t.Fatalf("write packet: %v", err)
	}
	waitFor(t, func() bool { return h.pendingCount(t, ctx) == 1 })
}

func TestBridgeTransportFailureIsFatal(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := startBridge(t, ctx, &stubAuthenticator{})

	// Close the socket underneath the loop without cancelling ctx.
	h.bridge.conn.Close()
	err := <-h.runErr
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestBridgeStopsOnContextCancel(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	h := startBridge(t, ctx, &stubAuthenticator{})

	cancel()
	if err := <-h.runErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
