package middleware

import (
	"net/http"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/logger"
)

// InjectLogger binds l to the request and its relay.RequestIDKey,
// storing the resulting logger.Scope in the *http.Request.Context.
//
// Place after RequestID.
//
// If l is nil, NoopAdapter returns and this middleware does nothing.
func InjectLogger(l logger.Logger) Adapter {
	if l == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := r.Context().Value(relay.RequestIDKey).(string)
			scope := logger.NewScope(l, r, id)
			h.ServeHTTP(w, r.WithContext(logger.NewContext(r.Context(), scope)))
		})
	}
}
