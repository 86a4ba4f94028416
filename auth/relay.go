package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/xy-planning-network/relay"
)

// A Relay turns completed sign-ins into Artifacts.
type Relay struct {
	ex  Exchanger
	now func() time.Time
}

// A RelayOpt configures a Relay.
type RelayOpt func(*Relay)

// WithClock sets the clock a Relay checks Flow expiry against.
func WithClock(now func() time.Time) RelayOpt {
	return func(r *Relay) {
		r.now = now
	}
}

// NewRelay constructs a Relay over ex.
func NewRelay(ex Exchanger, opts ...RelayOpt) *Relay {
	r := &Relay{ex: ex, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Begin starts a sign-in that returns the user to callbackURL,
// returning the Flow to hold until the callback and the URL to send the browser to.
func (r *Relay) Begin(callbackURL string) (Flow, string) {
	f := NewFlow(callbackURL, r.now())
	return f, r.ex.AuthCodeURL(f)
}

// Create completes the sign-in f started, building a fresh Artifact from cb.
//
// Every failure wraps relay.ErrProviderExchange.
func (r *Relay) Create(ctx context.Context, cb Callback, f Flow) (Artifact, error) {
	if cb.Error != "" {
		return Artifact{}, fmt.Errorf("%w: provider returned %s: %s", relay.ErrProviderExchange, cb.Error, cb.ErrorDescription)
	}

	if err := f.Check(cb.State, r.now()); err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", relay.ErrProviderExchange, err)
	}

	if cb.Code == "" {
		return Artifact{}, fmt.Errorf("%w: %w: no code", relay.ErrProviderExchange, relay.ErrMissingData)
	}

	acct, prof, err := r.ex.Exchange(ctx, cb.Code, f)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", relay.ErrProviderExchange, err)
	}

	return Persist(Artifact{}, SignIn(acct, prof)), nil
}
