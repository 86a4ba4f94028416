package middleware_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/http/middleware"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/http/session"
	"github.com/xy-planning-network/relay/logger"
)

func noopHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

func newTestLogger(b *bytes.Buffer) *logger.RelayLogger {
	return logger.New(logger.WithLogger(log.New(b, "", 0)), logger.WithLevel(logger.LogLevelDebug))
}

func newTestStore(t *testing.T) session.Service {
	t.Helper()

	keys, err := auth.DeriveKeys("test-secret")
	require.Nil(t, err)

	s, err := session.NewStoreService(session.Config{
		Env:         relay.Testing,
		SessionName: "relay",
		Keys:        keys,
	})
	require.Nil(t, err)

	return s
}

// withCookies copies the cookies set on w onto a new request for target.
func withCookies(w *httptest.ResponseRecorder, method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		r.AddCookie(c)
	}

	return r
}

// signedIn returns a request carrying a session cookie holding a.
func signedIn(t *testing.T, store session.Service, a auth.Artifact, method, target string) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(method, target, nil)
	s, err := store.GetSession(r)
	require.Nil(t, err)
	require.Nil(t, s.PutArtifact(w, r, a))

	return withCookies(w, method, target)
}

func newTestResponder(b *bytes.Buffer) *resp.Responder {
	return resp.NewResponder(resp.WithLogger(newTestLogger(b)))
}

func TestChain(t *testing.T) {
	// Arrange
	var order []string
	mark := func(name string) middleware.Adapter {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { order = append(order, "handler") })

	// Act
	middleware.Chain(h, mark("first"), mark("second"), middleware.NoopAdapter).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.Equal(t, []string{"first", "second", "handler"}, order)
}
