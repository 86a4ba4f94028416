package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/http/middleware"
	"github.com/xy-planning-network/relay/http/session"
)

func TestInjectSession(t *testing.T) {
	store := newTestStore(t)

	t.Run("Nil-Store", func(t *testing.T) {
		// Arrange
		var b bytes.Buffer

		// Act
		adpt := middleware.InjectSession(nil, newTestLogger(&b))

		// Assert
		w := httptest.NewRecorder()
		adpt(noopHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("New-Session", func(t *testing.T) {
		// Arrange
		var b bytes.Buffer
		var hasSession, hasArtifact bool
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasSession = session.FromContext(r.Context())
			_, hasArtifact = auth.FromContext(r.Context())
		})

		// Act
		middleware.InjectSession(store, newTestLogger(&b))(h).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		// Assert
		require.True(t, hasSession)
		require.False(t, hasArtifact)
		require.Empty(t, b.String())
	})

	t.Run("Signed-In", func(t *testing.T) {
		// Arrange
		var b bytes.Buffer
		expected := auth.Artifact{AccessToken: "at", Subject: "sub-1", Email: "test@example.com"}
		r := signedIn(t, store, expected, http.MethodGet, "/")
		var actual auth.Artifact
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actual, _ = auth.FromContext(r.Context())
		})

		// Act
		middleware.InjectSession(store, newTestLogger(&b))(h).ServeHTTP(httptest.NewRecorder(), r)

		// Assert
		require.Equal(t, expected, actual)
	})

	t.Run("Tampered", func(t *testing.T) {
		// Arrange
		var b bytes.Buffer
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "relay.0", Value: "garbage"})
		var s session.Session
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, _ = session.FromContext(r.Context())
		})

		// Act
		middleware.InjectSession(store, newTestLogger(&b))(h).ServeHTTP(httptest.NewRecorder(), r)

		// Assert
		require.True(t, s.IsNew())
		require.Contains(t, b.String(), "discarding undecodable session")
	})
}
