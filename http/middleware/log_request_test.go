package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/http/middleware"
)

func TestLogRequest(t *testing.T) {
	t.Run("Nil-Logger", func(t *testing.T) {
		// Arrange
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		// Act
		middleware.LogRequest(nil)(noopHandler()).ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Scrubbed", func(t *testing.T) {
		// Arrange
		var b bytes.Buffer
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/auth/callback/microsoft-entra-id?code=secret-code&state=secret-state&days=3", nil)
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

		// Act
		middleware.Chain(h, middleware.InjectIPAddress(), middleware.LogRequest(newTestLogger(&b))).ServeHTTP(w, r)

		// Assert
		out := b.String()
		require.Contains(t, out, "0.0.0.0 GET /api/auth/callback/microsoft-entra-id?")
		require.Contains(t, out, "code="+relay.LogMaskVal)
		require.Contains(t, out, "state="+relay.LogMaskVal)
		require.Contains(t, out, "days=3")
		require.Contains(t, out, "418")
		require.NotContains(t, out, "secret-code")
		require.NotContains(t, out, "secret-state")
	})
}
