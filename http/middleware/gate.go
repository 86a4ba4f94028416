package middleware

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/http/resp"
)

// DefaultExemptions are the paths a Gate lets through without a session.
//
// Routes under /api/ enforce their own authentication.
var DefaultExemptions = []string{
	"/api/",
	"/assets/",
	"/favicon.ico",
	"/healthz",
}

// A RoutePolicy is the allow-list of paths exempt from the Gate.
//
// Patterns come in three forms:
//   - "/prefix/" exempts every path beneath it
//   - a path.Match glob such as "/public/*.png"
//   - an exact path
type RoutePolicy struct {
	exact    map[string]struct{}
	prefixes []string
	globs    []string
}

// NewRoutePolicy compiles patterns into a RoutePolicy.
//
// A pattern not starting with "/" or a malformed glob is a configuration error.
func NewRoutePolicy(patterns ...string) (RoutePolicy, error) {
	rp := RoutePolicy{exact: make(map[string]struct{})}
	for _, p := range patterns {
		if !strings.HasPrefix(p, "/") {
			return RoutePolicy{}, fmt.Errorf("%w: route pattern %q must start with /", relay.ErrBadConfig, p)
		}

		switch {
		case strings.ContainsAny(p, `*?[\`):
			if _, err := path.Match(p, ""); err != nil {
				return RoutePolicy{}, fmt.Errorf("%w: route pattern %q: %s", relay.ErrBadConfig, p, err)
			}
			rp.globs = append(rp.globs, p)
		case strings.HasSuffix(p, "/") && p != "/":
			rp.prefixes = append(rp.prefixes, p)
		default:
			rp.exact[p] = struct{}{}
		}
	}

	return rp, nil
}

// Exempt reports whether p needs no session.
func (rp RoutePolicy) Exempt(p string) bool {
	if _, ok := rp.exact[p]; ok {
		return true
	}

	for _, prefix := range rp.prefixes {
		if strings.HasPrefix(p, prefix) || p == strings.TrimSuffix(prefix, "/") {
			return true
		}
	}

	for _, g := range rp.globs {
		if ok, _ := path.Match(g, p); ok {
			return true
		}
	}

	return false
}

// Gate requires an authenticated session for every path the RoutePolicy does not exempt.
//
// A session is authenticated when InjectSession found an auth.Artifact
// holding an access token that has not expired.
// An expired artifact is stale and treated as no session at all.
//
// Without an authenticated session, Gate checks the "Accept" header of the request.
// JSON clients get 401 with a {"message"} body.
// Every other client is redirected to signInURL,
// with the requested path as the "callbackUrl" query param for GET requests.
//
// Authenticated responses are marked "Cache-Control: no-store".
func Gate(d *resp.Responder, policy RoutePolicy, signInURL string, now func() time.Time) Adapter {
	if now == nil {
		now = time.Now
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if policy.Exempt(r.URL.Path) {
				handler.ServeHTTP(w, r)
				return
			}

			if a, ok := auth.FromContext(r.Context()); ok && a.Authenticated(now()) {
				w.Header().Set("Cache-Control", "no-store")
				handler.ServeHTTP(w, r)
				return
			}

			if acceptsJson(r.Header) {
				if err := d.Error(w, r, resp.Code(http.StatusUnauthorized)); err != nil {
					d.Err(w, r, err)
				}
				return
			}

			fns := []resp.Fn{resp.Url(signInURL)}
			if r.Method == http.MethodGet {
				fns = append(fns, resp.Param("callbackUrl", r.URL.RequestURI()))
			}

			if err := d.Redirect(w, r, fns...); err != nil {
				d.Err(w, r, err)
			}
		})
	}
}
