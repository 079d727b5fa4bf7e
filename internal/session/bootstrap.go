package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/unnamed-mmo/metaverse-client/internal/login"
	"github.com/unnamed-mmo/metaverse-client/internal/observability"
	"github.com/unnamed-mmo/metaverse-client/internal/protocol"
)

// BootstrapState tracks the login flow. Failed is terminal and
// reachable from every non-terminal state; the flow never retries on
// its own, that policy belongs to the caller.
type BootstrapState int

const (
	StateIdle BootstrapState = iota
	StateAuthenticating
	StateCircuitAllocated
	StateAgentPresenceAnnounced
	StateActive
	StateFailed
)

func (s BootstrapState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateCircuitAllocated:
		return "circuit_allocated"
	case StateAgentPresenceAnnounced:
		return "agent_presence_announced"
	case StateActive:
		return "active"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RunBootstrap turns credentials into an established session: remote
// authentication, then in strict order a login-response notification to
// the control channel, the Session replacement, the CircuitCode packet,
// and the CompleteAgentMovement packet. Each post-auth send is awaited
// before the next so the mailbox observes them in exactly that order.
//
// The authentication call runs in its own goroutine so a hung endpoint
// never stalls the caller's loop beyond this flow; no deadline is
// imposed here, bound the passed ctx to get one.
func RunBootstrap(ctx context.Context, auth login.Authenticator, mbox *Mailbox, req protocol.LoginRequest) (BootstrapState, error) {
	logger := log.With().
		Str("component", "bootstrap").
		Str("first", req.First).
		Str("last", req.Last).
		Logger()
	logger.Info().Str("url", req.URL).Msg("authenticating")
	started := time.Now()

	type authResult struct {
		resp *login.Response
		err  error
	}
	done := make(chan authResult, 1)
	go func() {
		resp, err := auth.Login(ctx, login.Credentials{
			First:        req.First,
			Last:         req.Last,
			Password:     req.Passwd,
			Start:        req.Start,
			Channel:      req.Channel,
			AgreeToTOS:   req.AgreeToTOS,
			ReadCritical: req.ReadCritical,
			URL:          req.URL,
		})
		done <- authResult{resp: resp, err: err}
	}()

	var resp *login.Response
	select {
	case <-ctx.Done():
		observability.RecordLogin("cancelled", time.Since(started))
		return StateFailed, ctx.Err()
	case res := <-done:
		if res.err != nil {
			observability.RecordLogin("rejected", time.Since(started))
			return StateFailed, res.err
		}
		resp = res.resp
	}

	// Contract check before any state mutation: a success response
	// without the full identity set is a server-side bug, distinct
	// from bad credentials.
	if field := resp.MissingIdentityField(); field != "" {
		observability.RecordLogin("incomplete", time.Since(started))
		return StateFailed, fmt.Errorf("%w: %s", ErrMissingIdentityField, field)
	}
	observability.RecordLogin("ok", time.Since(started))

	payload, err := json.Marshal(resp)
	if err != nil {
		return StateFailed, fmt.Errorf("session: serialize login response: %w", err)
	}
	if err := mbox.Notify(ctx, UiMessage{Event: EventLoginResponse, Payload: payload}); err != nil {
		// The user-facing echo is best effort; the session itself
		// still comes up.
		logger.Warn().Err(err).Msg("login response notify failed")
	}

	if err := mbox.SetSession(ctx, Session{
		SimIP:       *resp.SimIP,
		SimPort:     *resp.SimPort,
		AgentID:     *resp.AgentID,
		SessionID:   *resp.SessionID,
		CircuitCode: resp.CircuitCode,
	}); err != nil {
		return StateFailed, &DeliveryError{Phase: PhaseSession, Err: err}
	}

	if err := mbox.SendPacket(ctx, protocol.NewCircuitCodePacket(protocol.CircuitCode{
		Code:      resp.CircuitCode,
		SessionID: *resp.SessionID,
		ID:        *resp.AgentID,
	})); err != nil {
		return StateFailed, &DeliveryError{Phase: PhaseCircuitCode, Err: err}
	}
	logger.Debug().Uint32("circuit_code", resp.CircuitCode).Msg("circuit allocated")

	if err := mbox.SendPacket(ctx, protocol.NewCompleteAgentMovementPacket(protocol.CompleteAgentMovement{
		AgentID:     *resp.AgentID,
		SessionID:   *resp.SessionID,
		CircuitCode: resp.CircuitCode,
	})); err != nil {
		return StateFailed, &DeliveryError{Phase: PhaseAgentMovement, Err: err}
	}

	logger.Info().
		Str("sim_ip", *resp.SimIP).
		Uint16("sim_port", *resp.SimPort).
		Msg("session bootstrap complete")
	return StateActive, nil
}
