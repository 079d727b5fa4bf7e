// Package session owns the live simulator connection state.
//
// Ownership boundary:
// - the mailbox actor, sole mutator of session state
// - the login bootstrap flow (authenticate, circuit, agent presence)
// - the control-channel bridge feeding packets into the mailbox
package session
