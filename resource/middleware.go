package resource

import (
	"net/http"
	"strings"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/http/middleware"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/logger"
)

const challenge = `Bearer error="invalid_token"`

// Authenticate requires a valid bearer token on every request.
//
// The token's *Claims are stored in the request context
// and bound to the request-scoped logger.
//
// Otherwise, Authenticate writes 401 with a WWW-Authenticate challenge and {"message"} body.
// Only a short prefix of the presented token is logged.
func Authenticate(v *Validator, d *resp.Responder, ls logger.Logger) middleware.Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger.FromContext(r.Context(), ls)
			bearer := bearerToken(r.Header)
			l.Debug("received token: "+relay.MaskToken(bearer), nil)

			claims, err := v.Validate(r.Context(), bearer)
			if err != nil {
				l.Info("authentication failed", &logger.LogContext{Error: err})

				w.Header().Set("WWW-Authenticate", challenge)
				if err := d.Error(w, r, resp.Code(http.StatusUnauthorized)); err != nil {
					d.Err(w, r, err)
				}
				return
			}

			ctx := NewContext(r.Context(), claims)
			if s, ok := l.(*logger.Scope); ok {
				ctx = logger.NewContext(ctx, s.WithUser(claims))
			}

			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize applies fn to the *Claims Authenticate stored.
// Without *Claims, Authorize writes 401; when fn returns false, 403.
func Authorize(d *resp.Responder, fn func(*Claims) bool) middleware.Adapter {
	return middleware.NewAuthorizeApplicator[*Claims](d, relay.ClaimsKey).Apply(fn)
}

// AnyValidToken authorizes every authenticated caller.
func AnyValidToken(*Claims) bool { return true }

// HasScope authorizes callers whose token grants scope.
func HasScope(scope string) func(*Claims) bool {
	return func(c *Claims) bool {
		for _, s := range strings.Fields(c.Scope) {
			if s == scope {
				return true
			}
		}

		return false
	}
}

func bearerToken(h http.Header) string {
	scheme, token, ok := strings.Cut(h.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
