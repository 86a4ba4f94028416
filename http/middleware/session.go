package middleware

import (
	"net/http"

	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/http/session"
	"github.com/xy-planning-network/relay/logger"
)

// InjectSession stores the session associated with the *http.Request in *http.Request.Context,
// along with the auth.Artifact it holds, if any.
// The signed-in user is bound to a request-scoped logger.Scope.
//
// A session cookie that fails to decode is logged and replaced by a brand new session.
//
// If store or ls are nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer, ls logger.Logger) Adapter {
	if store == nil || ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger.FromContext(r.Context(), ls)
			s, err := store.GetSession(r)
			if err != nil {
				l.Warn("discarding undecodable session", &logger.LogContext{Error: err})
			}

			ctx := session.NewContext(r.Context(), s)
			if a, err := s.Artifact(); err == nil {
				ctx = auth.NewContext(ctx, a)
				if scope, ok := l.(*logger.Scope); ok {
					ctx = logger.NewContext(ctx, scope.WithUser(a))
				}
			}

			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
