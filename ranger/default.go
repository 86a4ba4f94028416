package ranger

import (
	"context"
	"net"
	"net/http"

	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/http/session"
	"github.com/xy-planning-network/relay/logger"
)

// defaultLogger constructs a logger.Logger configured for use in the application,
// shipping warnings and errors to Sentry when a DSN is set.
func defaultLogger(cfg ServerConfig) logger.Logger {
	tl := logger.New(logger.WithEnv(cfg.Env.String()), logger.WithLevel(cfg.LogLevel))
	tl.Debug("setting up app logger", nil)
	if cfg.SentryDSN == "" {
		return tl
	}

	l := logger.NewSentryLogger(tl, cfg.SentryDSN)
	l.Debug("using SentryLogger for app logger", nil)

	return l
}

// defaultNotFound responds to unmatched routes with the JSON error envelope.
func defaultNotFound(d *resp.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Error(w, r, resp.Code(http.StatusNotFound)); err != nil {
			d.Err(w, r, err)
		}
	}
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context, cfg ServerConfig) *http.Server {
	srv := &http.Server{
		Addr:         cfg.Addr,
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}

// defaultSessionStore constructs a SessionStorer keeping sessions in cookies
// protected by keys derived from the BFFConfig's AuthSecret.
func defaultSessionStore(cfg BFFConfig) (session.SessionStorer, error) {
	keys, err := auth.DeriveKeys(cfg.AuthSecret)
	if err != nil {
		return nil, err
	}

	return session.NewStoreService(
		session.Config{
			Env:         cfg.Env,
			SessionName: DefaultSessionName,
			Keys:        keys,
		},
		session.WithMaxAge(cfg.SessionMaxAge),
	)
}
