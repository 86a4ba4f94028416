package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/logger"
)

// scrubbedQueryKeys hold credentials or single-use OAuth values.
var scrubbedQueryKeys = []string{"code", "state", "token", "id_token", "access_token"}

// LogRequest logs the request's method, requested URL, and originating IP address,
// followed by the status code written and how long handling took,
// using the request-scoped logger.Logger if InjectLogger ran, or ls otherwise.
//
// LogRequest scrubs the values for the following keys:
//   - code
//   - state
//   - token
//   - id_token
//   - access_token
//
// if ls is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			for _, key := range scrubbedQueryKeys {
				relay.Mask(q, key)
			}

			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if val, ok := r.Context().Value(relay.IpAddrKey).(string); ok {
				strs = append([]string{val}, strs...)
			}

			m := httpsnoop.CaptureMetrics(h, w, r)

			strs = append(strs, fmt.Sprint(m.Code), m.Duration.String())
			logger.FromContext(r.Context(), ls).Info(strings.Join(strs, " "), nil)
		})
	}
}
