package ranger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/logger"
	"github.com/xy-planning-network/relay/ranger"
)

func testServerConfig() ranger.ServerConfig {
	return ranger.ServerConfig{
		Env:          relay.Testing,
		LogLevel:     logger.LogLevelError,
		Addr:         "127.0.0.1:0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
}

func newTestLogger(b *bytes.Buffer) logger.Logger {
	return logger.New(logger.WithLogger(log.New(b, "", 0)), logger.WithLevel(logger.LogLevelDebug))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

func TestNew(t *testing.T) {
	t.Run("No-Handler", func(t *testing.T) {
		// Act
		rng, err := ranger.New()

		// Assert
		require.ErrorIs(t, err, relay.ErrBadConfig)
		require.Nil(t, rng)
	})

	t.Run("Bad-Env", func(t *testing.T) {
		// Act
		_, err := ranger.New(ranger.WithEnv("LOCAL"), ranger.WithHandler(okHandler()))

		// Assert
		require.ErrorIs(t, err, relay.ErrBadConfig)
	})

	t.Run("Handler-Before-Server", func(t *testing.T) {
		// Arrange
		b := new(bytes.Buffer)
		srv := &http.Server{Addr: "127.0.0.1:0"}

		// Act
		rng, err := ranger.New(
			ranger.WithHandler(okHandler()),
			ranger.WithServer(srv),
			ranger.WithLogger(newTestLogger(b)),
			ranger.WithEnv(relay.Testing),
		)

		// Assert
		require.Nil(t, err)
		require.NotNil(t, srv.Handler)
		require.Equal(t, relay.Testing, rng.EmitEnv())
		require.Contains(t, b.String(), "using handler")
	})
}

func TestGuide(t *testing.T) {
	t.Run("Context-Cancelled", func(t *testing.T) {
		// Arrange
		ctx, cancel := context.WithCancel(context.Background())
		rng, err := ranger.New(
			ranger.WithContext(ctx),
			ranger.WithLogger(newTestLogger(new(bytes.Buffer))),
			ranger.WithServer(&http.Server{Addr: "127.0.0.1:0"}),
			ranger.WithHandler(okHandler()),
		)
		require.Nil(t, err)

		done := make(chan error, 1)
		go func() { done <- rng.Guide() }()

		// Act
		cancel()

		// Assert
		select {
		case err := <-done:
			require.Nil(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("Guide did not return")
		}
	})

	t.Run("Address-In-Use", func(t *testing.T) {
		// Arrange
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.Nil(t, err)
		defer ln.Close()

		rng, err := ranger.New(
			ranger.WithLogger(newTestLogger(new(bytes.Buffer))),
			ranger.WithServer(&http.Server{Addr: ln.Addr().String()}),
			ranger.WithHandler(okHandler()),
		)
		require.Nil(t, err)

		// Act
		err = rng.Guide()

		// Assert
		require.ErrorContains(t, err, "could not listen")
	})
}

func TestNewAPI(t *testing.T) {
	// Arrange
	keys := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"keys":[]}`))
	}))
	defer keys.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rng, err := ranger.NewAPI(ctx, ranger.APIConfig{
		ServerConfig:  testServerConfig(),
		ClientID:      "backend-client",
		TenantID:      "tenant",
		JWKSURL:       keys.URL,
		AllowedOrigin: ranger.DefaultCORSOrigin,
	})
	require.Nil(t, err)
	h := rng.Handler()

	t.Run("Health", func(t *testing.T) {
		// Act
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Requires-Bearer", func(t *testing.T) {
		// Act
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weatherforecast", nil))

		// Assert
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("Preflight", func(t *testing.T) {
		// Arrange
		r := httptest.NewRequest(http.MethodOptions, "/weatherforecast", nil)
		r.Header.Set("Origin", ranger.DefaultCORSOrigin)
		r.Header.Set("Access-Control-Request-Method", http.MethodGet)
		r.Header.Set("Access-Control-Request-Headers", "Authorization")

		// Act
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, ranger.DefaultCORSOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Not-Found", func(t *testing.T) {
		// Act
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

		// Assert
		require.Equal(t, http.StatusNotFound, w.Code)
		require.JSONEq(t, `{"message":"Not Found"}`, w.Body.String())
	})
}

func TestNewBFF(t *testing.T) {
	// Arrange
	var issuer string
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"issuer":                                issuer,
			"authorization_endpoint":                issuer + "/authorize",
			"token_endpoint":                        issuer + "/token",
			"jwks_uri":                              issuer + "/keys",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	}))
	defer idp.Close()
	issuer = idp.URL

	base, err := url.Parse("http://localhost:3000")
	require.Nil(t, err)

	rng, err := ranger.NewBFF(context.Background(), ranger.BFFConfig{
		ServerConfig: testServerConfig(),
		Provider: auth.Config{
			ClientID:        "frontend-client",
			ClientSecret:    "frontend-secret",
			Issuer:          issuer,
			BackendClientID: "backend-client",
			RedirectURL:     "http://localhost:3000/api/auth/callback/" + auth.ProviderID,
		},
		AuthSecret:    "a-long-random-secret",
		APIBaseURL:    "http://localhost:5000",
		BaseURL:       base,
		SessionMaxAge: ranger.DefaultSessionMaxAge,
	})
	require.Nil(t, err)
	h := rng.Handler()

	t.Run("Sign-In", func(t *testing.T) {
		// Act
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/signin", nil))

		// Assert
		require.Equal(t, http.StatusFound, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.Nil(t, err)
		require.True(t, strings.HasPrefix(loc.String(), issuer+"/authorize"))

		q := loc.Query()
		require.Equal(t, "frontend-client", q.Get("client_id"))
		require.Equal(t, "S256", q.Get("code_challenge_method"))
		require.NotEmpty(t, q.Get("code_challenge"))
		require.NotEmpty(t, q.Get("nonce"))
		require.NotEmpty(t, q.Get("state"))
		require.Contains(t, q.Get("scope"), "api://backend-client/API.Read")
	})

	t.Run("Session-Without-Cookie", func(t *testing.T) {
		// Act
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{}`, w.Body.String())
	})

	t.Run("Weather-Without-Session", func(t *testing.T) {
		// Act
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/weather", nil))

		// Assert
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Bad-Config", func(t *testing.T) {
		// Act
		_, err := ranger.NewBFF(context.Background(), ranger.BFFConfig{ServerConfig: testServerConfig()})

		// Assert
		require.ErrorIs(t, err, relay.ErrBadConfig)
	})
}
