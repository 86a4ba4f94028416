package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// FlowTTL bounds how long a user may take between starting sign-in and returning to the callback.
const FlowTTL = 10 * time.Minute

// A Flow carries the values binding one authorization request to its callback.
type Flow struct {
	State       string
	Nonce       string
	Verifier    string
	CallbackURL string
	IssuedAt    int64
}

// NewFlow generates fresh state, nonce, and PKCE verifier values for a sign-in
// that returns the user to callbackURL.
func NewFlow(callbackURL string, now time.Time) Flow {
	return Flow{
		State:       oauth2.GenerateVerifier(),
		Nonce:       oauth2.GenerateVerifier(),
		Verifier:    oauth2.GenerateVerifier(),
		CallbackURL: callbackURL,
		IssuedAt:    now.Unix(),
	}
}

// Check confirms state matches the Flow and that the Flow has not expired at now.
func (f Flow) Check(state string, now time.Time) error {
	if f.State == "" || subtle.ConstantTimeCompare([]byte(f.State), []byte(state)) != 1 {
		return ErrStateMismatch
	}

	if now.After(time.Unix(f.IssuedAt, 0).Add(FlowTTL)) {
		return fmt.Errorf("%w: issued %s", ErrFlowExpired, time.Unix(f.IssuedAt, 0).UTC().Format(time.RFC3339))
	}

	return nil
}
