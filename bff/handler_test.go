package bff_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/auth/mocks"
	"github.com/xy-planning-network/relay/bff"
	"github.com/xy-planning-network/relay/http/middleware"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/http/router"
	"github.com/xy-planning-network/relay/http/session"
	"github.com/xy-planning-network/relay/logger"
	"github.com/xy-planning-network/relay/proxy"
)

var testNow = time.Unix(1800000000, 0)

const (
	testToken   = "access-token-value"
	testAuthURL = "https://login.example.com/tenant/oauth2/v2.0/authorize"
)

type testApp struct {
	ex      *mocks.MockExchanger
	flows   []auth.Flow
	handler http.Handler
	logs    *bytes.Buffer
	store   session.Service
}

func newTestApp(t *testing.T, backend http.Handler) *testApp {
	t.Helper()

	app := &testApp{logs: new(bytes.Buffer)}
	l := logger.New(logger.WithLogger(log.New(app.logs, "", 0)), logger.WithLevel(logger.LogLevelDebug))

	keys, err := auth.DeriveKeys("test-secret")
	require.Nil(t, err)

	app.store, err = session.NewStoreService(session.Config{
		Env:         relay.Testing,
		SessionName: "relay",
		Keys:        keys,
	})
	require.Nil(t, err)

	ctrl := gomock.NewController(t)
	app.ex = mocks.NewMockExchanger(ctrl)
	app.ex.EXPECT().
		AuthCodeURL(gomock.Any()).
		DoAndReturn(func(f auth.Flow) string {
			app.flows = append(app.flows, f)
			return testAuthURL + "?state=" + f.State
		}).
		AnyTimes()

	if backend == nil {
		backend = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	p, err := proxy.NewClient(srv.URL, proxy.WithHTTPClient(srv.Client()), proxy.WithLogger(l))
	require.Nil(t, err)

	d := resp.NewResponder(resp.WithLogger(l))
	now := func() time.Time { return testNow }

	h, err := bff.NewHandler(bff.Config{
		Responder: d,
		Relay:     auth.NewRelay(app.ex, auth.WithClock(now)),
		Sessions:  app.store,
		Proxy:     p,
		Logger:    l,
		Now:       now,
	})
	require.Nil(t, err)

	policy, err := middleware.NewRoutePolicy(middleware.DefaultExemptions...)
	require.Nil(t, err)

	rt := router.New(relay.Testing, nil)
	rt.OnEveryRequest(
		middleware.RequestID(),
		middleware.InjectLogger(l),
		middleware.InjectSession(app.store, l),
		middleware.Gate(d, policy, bff.SignInPath, now),
	)
	rt.HandleRoutes(h.Routes())
	app.handler = rt

	return app
}

func (app *testApp) serve(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.handler.ServeHTTP(w, r)
	return w
}

// signedIn returns a request carrying a session cookie holding a.
func (app *testApp) signedIn(t *testing.T, a auth.Artifact, method, target string) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(method, target, nil)
	s, err := app.store.GetSession(r)
	require.Nil(t, err)
	require.Nil(t, s.PutArtifact(w, r, a))

	return withCookies(w, method, target)
}

// withCookies copies the live cookies set on w onto a new request for target.
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

// expired reports whether w expires the cookie named name.
func expired(w *httptest.ResponseRecorder, name string) bool {
	for _, c := range w.Result().Cookies() {
		if c.Name == name && c.MaxAge < 0 {
			return true
		}
	}

	return false
}

func testArtifact(expiresAt int64) auth.Artifact {
	return auth.Persist(auth.Artifact{}, auth.SignIn(
		auth.Account{Provider: auth.ProviderID, AccessToken: testToken, ExpiresAt: expiresAt},
		auth.Profile{Subject: "sub-1", Name: "Ada Lovelace", Email: "ada@example.com", Roles: []string{"Reader"}},
	))
}

func TestNewHandler(t *testing.T) {
	// Arrange
	tcs := []struct {
		name string
		cfg  bff.Config
	}{
		{"Empty", bff.Config{}},
		{"No-Proxy", bff.Config{
			Responder: resp.NewResponder(),
			Relay:     auth.NewRelay(nil),
			Logger:    logger.New(),
		}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			h, err := bff.NewHandler(tc.cfg)

			// Assert
			require.ErrorIs(t, err, relay.ErrBadConfig)
			require.Nil(t, h)
		})
	}
}

func TestHealth(t *testing.T) {
	// Arrange
	app := newTestApp(t, nil)

	// Act
	w := app.serve(httptest.NewRequest(http.MethodGet, bff.HealthPath, nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSignIn(t *testing.T) {
	t.Run("Redirects-To-Provider", func(t *testing.T) {
		// Arrange
		app := newTestApp(t, nil)
		r := httptest.NewRequest(http.MethodGet, bff.SignInPath+"?callbackUrl=%2Fweather%3Fdays%3D3", nil)

		// Act
		w := app.serve(r)

		// Assert
		require.Equal(t, http.StatusFound, w.Code)
		require.Len(t, app.flows, 1)
		require.Equal(t, "/weather?days=3", app.flows[0].CallbackURL)
		require.Equal(t, testAuthURL+"?state="+app.flows[0].State, w.Header().Get("Location"))
		require.Equal(t, "no-store", w.Header().Get("Cache-Control"))

		var flowCookie bool
		for _, c := range w.Result().Cookies() {
			if c.Name == "relay-flow.0" {
				flowCookie = true
				require.True(t, c.HttpOnly)
				require.Equal(t, http.SameSiteLaxMode, c.SameSite)
			}
		}
		require.True(t, flowCookie)
	})

	t.Run("Defaults-Callback", func(t *testing.T) {
		// Arrange
		app := newTestApp(t, nil)

		// Act
		app.serve(httptest.NewRequest(http.MethodGet, bff.SignInPath, nil))

		// Assert
		require.Len(t, app.flows, 1)
		require.Equal(t, "/", app.flows[0].CallbackURL)
	})

	t.Run("Rejects-Foreign-Callback", func(t *testing.T) {
		for _, cb := range []string{"https://evil.example.com/", "//evil.example.com/"} {
			// Arrange
			app := newTestApp(t, nil)
			target := bff.SignInPath + "?" + url.Values{"callbackUrl": {cb}}.Encode()

			// Act
			w := app.serve(httptest.NewRequest(http.MethodGet, target, nil))

			// Assert
			require.Equal(t, http.StatusFound, w.Code)
			require.Len(t, app.flows, 1)
			require.Equal(t, "/", app.flows[0].CallbackURL, cb)
		}
	})

	t.Run("Reports-Earlier-Failure", func(t *testing.T) {
		// Arrange
		app := newTestApp(t, nil)

		// Act
		w := app.serve(httptest.NewRequest(http.MethodGet, bff.SignInPath+"?error=Callback", nil))

		// Assert
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.JSONEq(t, `{"message":"Sign in failed","details":"Callback"}`, w.Body.String())
		require.Empty(t, app.flows)
	})
}

func TestCallback(t *testing.T) {
	// begin starts a sign-in and returns the response carrying its flow cookie.
	begin := func(t *testing.T, app *testApp) (*httptest.ResponseRecorder, auth.Flow) {
		t.Helper()

		w := app.serve(httptest.NewRequest(http.MethodGet, bff.SignInPath+"?callbackUrl=%2Fdashboard", nil))
		require.Len(t, app.flows, 1)

		return w, app.flows[0]
	}

	t.Run("Signs-In", func(t *testing.T) {
		// Arrange
		app := newTestApp(t, nil)
		started, f := begin(t, app)
		e := auth.SignIn(
			auth.Account{Provider: auth.ProviderID, AccessToken: testToken, ExpiresAt: testNow.Add(time.Hour).Unix()},
			auth.Profile{Subject: "sub-1", Name: "Ada Lovelace", Email: "ada@example.com"},
		)
		app.ex.EXPECT().Exchange(gomock.Any(), "the-code", f).Return(*e.Account, *e.Profile, nil)

		target := bff.CallbackPath + "?" + url.Values{"code": {"the-code"}, "state": {f.State}}.Encode()

		// Act
		w := app.serve(withCookies(started, http.MethodGet, target))

		// Assert
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/dashboard", w.Header().Get("Location"))
		require.True(t, expired(w, "relay-flow.0"))
		require.Contains(t, app.logs.String(), "signed in")
		require.NotContains(t, app.logs.String(), testToken)

		// Act
		view := app.serve(withCookies(w, http.MethodGet, bff.SessionPath))

		// Assert
		require.Equal(t, http.StatusOK, view.Code)
		require.JSONEq(t, `{"user":{"name":"Ada Lovelace","email":"ada@example.com","roles":[]}}`, view.Body.String())
	})

	t.Run("Accepts-Form-Post", func(t *testing.T) {
		// Arrange
		app := newTestApp(t, nil)
		started, f := begin(t, app)
		e := testArtifact(testNow.Add(time.Hour).Unix())
		app.ex.EXPECT().
			Exchange(gomock.Any(), "the-code", f).
			Return(auth.Account{AccessToken: e.AccessToken, ExpiresAt: e.ExpiresAt}, auth.Profile{Subject: e.Subject}, nil)

		form := url.Values{"code": {"the-code"}, "state": {f.State}}.Encode()
		r := httptest.NewRequest(http.MethodPost, bff.CallbackPath, bytes.NewBufferString(form))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range started.Result().Cookies() {
			r.AddCookie(c)
		}

		// Act
		w := app.serve(r)

		// Assert
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("Missing-Flow", func(t *testing.T) {
		// Arrange
		app := newTestApp(t, nil)
		target := bff.CallbackPath + "?code=the-code&state=whatever"

		// Act
		w := app.serve(httptest.NewRequest(http.MethodGet, target, nil))

		// Assert
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, bff.SignInPath+"?error="+bff.ErrCodeSession, w.Header().Get("Location"))
	})

	t.Run("State-Mismatch", func(t *testing.T) {
		// Arrange
		app := newTestApp(t, nil)
		started, _ := begin(t, app)
		target := bff.CallbackPath + "?code=the-code&state=forged"

		// Act
		w := app.serve(withCookies(started, http.MethodGet, target))

		// Assert
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, bff.SignInPath+"?error="+bff.ErrCodeCallback, w.Header().Get("Location"))
		require.True(t, expired(w, "relay-flow.0"))
	})

	t.Run("Access-Denied", func(t *testing.T) {
		// Arrange
		app := newTestApp(t, nil)
		started, f := begin(t, app)
		target := bff.CallbackPath + "?" + url.Values{
			"error":             {"access_denied"},
			"error_description": {"the user declined"},
			"state":             {f.State},
		}.Encode()

		// Act
		w := app.serve(withCookies(started, http.MethodGet, target))

		// Assert
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, bff.SignInPath+"?error="+bff.ErrCodeAccessDenied, w.Header().Get("Location"))
	})
}

func TestSignOut(t *testing.T) {
	// Arrange
	app := newTestApp(t, nil)
	r := app.signedIn(t, testArtifact(testNow.Add(time.Hour).Unix()), http.MethodPost, bff.SignOutPath)

	// Act
	w := app.serve(r)

	// Assert
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	require.True(t, expired(w, "relay.0"))

	t.Run("Get-Not-Allowed", func(t *testing.T) {
		// Act
		w := app.serve(httptest.NewRequest(http.MethodGet, bff.SignOutPath, nil))

		// Assert
		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestSession(t *testing.T) {
	tcs := []struct {
		name     string
		artifact *auth.Artifact
		expected string
	}{
		{"Signed-Out", nil, `{}`},
		{"Signed-In", ptr(testArtifact(testNow.Add(time.Hour).Unix())), `{"user":{"name":"Ada Lovelace","email":"ada@example.com","roles":["Reader"]}}`},
		{"Expired", ptr(testArtifact(testNow.Add(-time.Minute).Unix())), `{"error":"AccessTokenExpired"}`},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			app := newTestApp(t, nil)
			r := httptest.NewRequest(http.MethodGet, bff.SessionPath, nil)
			if tc.artifact != nil {
				r = app.signedIn(t, *tc.artifact, http.MethodGet, bff.SessionPath)
			}

			// Act
			w := app.serve(r)

			// Assert
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			require.JSONEq(t, tc.expected, w.Body.String())
			require.NotContains(t, w.Body.String(), testToken)
		})
	}
}

func TestWeather(t *testing.T) {
	const forecast = `[{"date":"2027-01-16","temperatureC":21,"temperatureF":69,"summary":"Mild"}]`

	t.Run("Forwards", func(t *testing.T) {
		// Arrange
		var bearer, path string
		app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer = r.Header.Get("Authorization")
			path = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(forecast))
		}))
		r := app.signedIn(t, testArtifact(testNow.Add(time.Hour).Unix()), http.MethodGet, bff.WeatherPath)

		// Act
		w := app.serve(r)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, forecast, w.Body.String())
		require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		require.Equal(t, "Bearer "+testToken, bearer)
		require.Equal(t, bff.ForecastPath, path)
	})

	t.Run("Signed-Out", func(t *testing.T) {
		// Arrange
		var called bool
		app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

		// Act
		w := app.serve(httptest.NewRequest(http.MethodGet, bff.WeatherPath, nil))

		// Assert
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.JSONEq(t,
			`{"message":"Unauthorized: Missing authentication token or backend access token."}`,
			w.Body.String(),
		)
		require.False(t, called)
	})

	t.Run("Upstream-Error", func(t *testing.T) {
		// Arrange
		app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"title":"Forbidden"}`))
		}))
		r := app.signedIn(t, testArtifact(testNow.Add(time.Hour).Unix()), http.MethodGet, bff.WeatherPath)

		// Act
		w := app.serve(r)

		// Assert
		require.Equal(t, http.StatusForbidden, w.Code)
		require.JSONEq(t, `{"message":"Error from backend API: Forbidden","details":"{\"title\":\"Forbidden\"}"}`, w.Body.String())
	})

	t.Run("Not-JSON", func(t *testing.T) {
		// Arrange
		app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		}))
		r := app.signedIn(t, testArtifact(testNow.Add(time.Hour).Unix()), http.MethodGet, bff.WeatherPath)

		// Act
		w := app.serve(r)

		// Assert
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.JSONEq(t, `{"message":"Internal Server Error while contacting backend API"}`, w.Body.String())
	})
}

func ptr[T any](v T) *T { return &v }
