package middleware

import (
	"net/http"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/http/resp"
)

// An AuthorizeApplicator constructs Adapters that apply custom authorization rules
// to a value of type T stored in the request Context.
type AuthorizeApplicator[T any] struct {
	d   *resp.Responder
	key relay.Key
}

// NewAuthorizeApplicator constructs an AuthorizeApplicator for type T.
// Apply methods for the constructed AuthorizeApplicator will use the Responder for error responses.
// Apply methods will use key to pull a T out of the request Context.
func NewAuthorizeApplicator[T any](d *resp.Responder, key relay.Key) AuthorizeApplicator[T] {
	return AuthorizeApplicator[T]{d: d, key: key}
}

// Apply wraps a custom function validating the authorization of a value,
// whose type is specified by T.
//
// Apply should not be used in a situation where the http.Request.Context
// in some cases stores the requisite value and others does not.
//
// If no T is found in the request Context, Apply writes 401.
// If the custom function returns false, Apply writes 403.
// Either way, Apply does not pass the request to the next handler in the middleware stack.
//
// If fn is nil, Apply returns a NoopAdapter.
func (aa AuthorizeApplicator[T]) Apply(fn func(val T) bool) Adapter {
	if fn == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			val, ok := r.Context().Value(aa.key).(T)
			if !ok {
				aa.deny(w, r, http.StatusUnauthorized)
				return
			}

			if !fn(val) {
				aa.deny(w, r, http.StatusForbidden)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

func (aa AuthorizeApplicator[T]) deny(w http.ResponseWriter, r *http.Request, code int) {
	if err := aa.d.Error(w, r, resp.Code(code)); err != nil {
		aa.d.Err(w, r, err)
	}
}
