package ranger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/logger"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithLogger is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// WithHandler is an example of the second.
// The *http.Server the handler is set on may come from a later WithServer,
// so the field is updated only when the closure it returns is called.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithContext sets the context.Context whose cancellation stops the server.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if ctx == nil {
			return nil, fmt.Errorf("nil context")
		}

		rng.ctx = ctx
		return nil, nil
	}
}

// WithEnv sets the Environment the server runs in.
func WithEnv(env relay.Environment) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if err := env.Valid(); err != nil {
			return nil, fmt.Errorf("%q is not a valid environment", env)
		}

		rng.env = env
		return nil, nil
	}
}

// WithHandler constructs a followup option that, when called,
// sets the http.Handler the server serves.
func WithHandler(h http.Handler) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if h == nil {
			return nil, fmt.Errorf("nil handler")
		}

		return func() error {
			if rng.srv == nil {
				rng.srv = defaultServer(rng.ctx, loadServerConfig(DefaultBFFPort))
			}

			rng.srv.Handler = h
			rng.l.Debug(fmt.Sprintf("using handler %T", h), nil)

			return nil
		}, nil
	}
}

// WithLogger sets the logger.Logger the Ranger reports with.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if l == nil {
			return nil, fmt.Errorf("nil logger")
		}

		rng.l = l
		rng.l.Debug(fmt.Sprintf("using logger %T", l), nil)

		return nil, nil
	}
}

// WithServer sets the *http.Server Guide runs.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if s == nil {
			return nil, fmt.Errorf("nil server")
		}

		old := rng.srv
		rng.srv = s

		if old != nil && s.Handler == nil {
			rng.srv.Handler = old.Handler
		}

		return nil, nil
	}
}
