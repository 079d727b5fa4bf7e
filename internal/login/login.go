// Package login models the grid authentication exchange. The remote
// endpoint speaks XML-RPC; everything else in the client treats the
// call as opaque through the Authenticator interface.
package login

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Credentials is what a user supplies to start a session.
type Credentials struct {
	First        string
	Last         string
	Password     string
	Start        string
	Channel      string
	AgreeToTOS   bool
	ReadCritical bool
	URL          string
}

// Authenticator performs the remote login call. Implementations may
// block for arbitrary wall-clock time; callers are expected to offload.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (*Response, error)
}

// Response is the structured login result. The four identity fields
// are pointers because the endpoint omits them on failure; after a
// reported success their absence is a server-side contract violation.
type Response struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`

	SimIP       *string    `json:"sim_ip,omitempty"`
	SimPort     *uint16    `json:"sim_port,omitempty"`
	AgentID     *uuid.UUID `json:"agent_id,omitempty"`
	SessionID   *uuid.UUID `json:"session_id,omitempty"`
	CircuitCode uint32     `json:"circuit_code"`

	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	SeedCapability string `json:"seed_capability,omitempty"`
	LookAt         string `json:"look_at,omitempty"`
}

// MissingIdentityField names the first absent required field, or ""
// when the response can drive a bootstrap.
func (r *Response) MissingIdentityField() string {
	switch {
	case r.SimIP == nil || *r.SimIP == "":
		return "sim_ip"
	case r.SimPort == nil || *r.SimPort == 0:
		return "sim_port"
	case r.AgentID == nil:
		return "agent_id"
	case r.SessionID == nil:
		return "session_id"
	case r.CircuitCode == 0:
		return "circuit_code"
	}
	return ""
}

// HashPassword produces the wire form the login endpoint expects:
// "$1$" followed by the hex MD5 of the password, truncated to 16
// characters first. Already-hashed input passes through.
func HashPassword(password string) string {
	if strings.HasPrefix(password, "$1$") {
		return password
	}
	if len(password) > 16 {
		password = password[:16]
	}
	sum := md5.Sum([]byte(password))
	return "$1$" + hex.EncodeToString(sum[:])
}
