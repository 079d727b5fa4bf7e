package login

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/kolo/xmlrpc"
)

// loginMethod is the XML-RPC method name every grid in the family
// exposes on its login endpoint.
const loginMethod = "login_to_simulator"

// XMLRPCAuthenticator drives the real login endpoint. A client is
// built per call because the endpoint URL arrives with the
// credentials, not at construction time.
type XMLRPCAuthenticator struct {
	// Transport overrides the HTTP round tripper, mainly for tests.
	Transport http.RoundTripper

	// Version and Platform identify this client to the grid.
	Version  string
	Platform string
}

var _ Authenticator = (*XMLRPCAuthenticator)(nil)

func (a *XMLRPCAuthenticator) Login(ctx context.Context, creds Credentials) (*Response, error) {
	client, err := xmlrpc.NewClient(creds.URL, a.Transport)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	defer client.Close()

	req := a.buildRequest(creds)

	// The xmlrpc client has no context plumbing; run the call in its
	// own goroutine and abandon it on cancellation.
	type outcome struct {
		wire wireResponse
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		var wire wireResponse
		err := client.Call(loginMethod, req, &wire)
		done <- outcome{wire: wire, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoginFailed, out.err)
		}
		return fromWire(out.wire)
	}
}

type wireRequest struct {
	First        string   `xmlrpc:"first"`
	Last         string   `xmlrpc:"last"`
	Passwd       string   `xmlrpc:"passwd"`
	Start        string   `xmlrpc:"start"`
	Channel      string   `xmlrpc:"channel"`
	Version      string   `xmlrpc:"version"`
	Platform     string   `xmlrpc:"platform"`
	MAC          string   `xmlrpc:"mac"`
	ID0          string   `xmlrpc:"id0"`
	AgreeToTOS   bool     `xmlrpc:"agree_to_tos"`
	ReadCritical bool     `xmlrpc:"read_critical"`
	Options      []string `xmlrpc:"options"`
}

type wireResponse struct {
	Login           string `xmlrpc:"login"`
	Reason          string `xmlrpc:"reason"`
	Message         string `xmlrpc:"message"`
	SimIP           string `xmlrpc:"sim_ip"`
	SimPort         int    `xmlrpc:"sim_port"`
	AgentID         string `xmlrpc:"agent_id"`
	SessionID       string `xmlrpc:"session_id"`
	SecureSessionID string `xmlrpc:"secure_session_id"`
	CircuitCode     int    `xmlrpc:"circuit_code"`
	FirstName       string `xmlrpc:"first_name"`
	LastName        string `xmlrpc:"last_name"`
	SeedCapability  string `xmlrpc:"seed_capability"`
	LookAt          string `xmlrpc:"look_at"`
}

func (a *XMLRPCAuthenticator) buildRequest(creds Credentials) wireRequest {
	version := a.Version
	if version == "" {
		version = "0.1.0"
	}
	platform := a.Platform
	if platform == "" {
		platform = "Lin"
	}
	return wireRequest{
		First:        creds.First,
		Last:         creds.Last,
		Passwd:       HashPassword(creds.Password),
		Start:        creds.Start,
		Channel:      creds.Channel,
		Version:      version,
		Platform:     platform,
		MAC:          "00:00:00:00:00:00",
		ID0:          "00:00:00:00:00:00",
		AgreeToTOS:   creds.AgreeToTOS,
		ReadCritical: creds.ReadCritical,
		Options:      []string{"inventory-root", "inventory-skeleton", "buddy-list"},
	}
}

// fromWire converts the raw XML-RPC struct into a Response, rejecting
// an explicit "login=false" as a FailedError. Identity fields that the
// endpoint omitted stay nil; the bootstrap layer decides whether that
// is fatal.
func fromWire(wire wireResponse) (*Response, error) {
	if wire.Login != "true" {
		return nil, &FailedError{Reason: wire.Reason, Message: wire.Message}
	}

	resp := &Response{
		Success:        true,
		Reason:         wire.Reason,
		Message:        wire.Message,
		CircuitCode:    uint32(wire.CircuitCode),
		FirstName:      wire.FirstName,
		LastName:       wire.LastName,
		SeedCapability: wire.SeedCapability,
		LookAt:         wire.LookAt,
	}
	if wire.SimIP != "" {
		ip := wire.SimIP
		resp.SimIP = &ip
	}
	if wire.SimPort > 0 {
		port := uint16(wire.SimPort)
		resp.SimPort = &port
	}
	if wire.AgentID != "" {
		id, err := uuid.Parse(wire.AgentID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad agent_id %q", ErrLoginFailed, wire.AgentID)
		}
		resp.AgentID = &id
	}
	if wire.SessionID != "" {
		id, err := uuid.Parse(wire.SessionID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad session_id %q", ErrLoginFailed, wire.SessionID)
		}
		resp.SessionID = &id
	}
	return resp, nil
}
