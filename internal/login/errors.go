package login

import (
	"errors"
	"fmt"
)

var ErrLoginFailed = errors.New("login: authentication failed")

// FailedError carries the endpoint's rejection detail. It wraps
// ErrLoginFailed so callers can branch on the class without losing the
// reason code ("key", "presence", "tos", ...).
type FailedError struct {
	Reason  string
	Message string
}

func (e *FailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("login: authentication failed (%s)", e.Reason)
	}
	return fmt.Sprintf("login: authentication failed (%s): %s", e.Reason, e.Message)
}

func (e *FailedError) Unwrap() error { return ErrLoginFailed }
