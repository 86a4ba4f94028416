package bff

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/http/req"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/http/router"
	"github.com/xy-planning-network/relay/http/session"
	"github.com/xy-planning-network/relay/logger"
	"github.com/xy-planning-network/relay/proxy"
)

const (
	SignInPath   = "/api/auth/signin"
	CallbackPath = "/api/auth/callback/" + auth.ProviderID
	SignOutPath  = "/api/auth/signout"
	SessionPath  = "/api/auth/session"
	WeatherPath  = "/api/weather"
	HealthPath   = "/healthz"

	// ForecastPath is where the resource server serves forecasts.
	ForecastPath = "/weatherforecast"
)

// Error codes sent to the sign-in route when a callback fails.
const (
	ErrCodeAccessDenied = "AccessDenied"
	ErrCodeCallback     = "Callback"
	ErrCodeSession      = "SessionRequired"
)

// ExpiredTag marks the client view of a session whose access token has expired.
const ExpiredTag = "AccessTokenExpired"

// A Forwarder relays a request to the resource server.
type Forwarder interface {
	Forward(ctx context.Context, a auth.Artifact, resourcePath string) (proxy.Result, error)
}

// A Config provides the collaborators a Handler needs.
type Config struct {
	Responder *resp.Responder
	Relay     *auth.Relay
	Sessions  session.SessionStorer
	Proxy     Forwarder
	Logger    logger.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// A Handler serves the BFF's routes.
type Handler struct {
	d        *resp.Responder
	l        logger.Logger
	now      func() time.Time
	p        *req.Parser
	proxy    Forwarder
	relay    *auth.Relay
	sessions session.SessionStorer
}

// NewHandler constructs a Handler from cfg.
func NewHandler(cfg Config) (*Handler, error) {
	var missing []string
	if cfg.Responder == nil {
		missing = append(missing, "responder")
	}
	if cfg.Relay == nil {
		missing = append(missing, "relay")
	}
	if cfg.Sessions == nil {
		missing = append(missing, "session store")
	}
	if cfg.Proxy == nil {
		missing = append(missing, "proxy")
	}
	if cfg.Logger == nil {
		missing = append(missing, "logger")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", relay.ErrBadConfig, strings.Join(missing, ", "))
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Handler{
		d:        cfg.Responder,
		l:        cfg.Logger,
		now:      now,
		p:        req.NewParser(),
		proxy:    cfg.Proxy,
		relay:    cfg.Relay,
		sessions: cfg.Sessions,
	}, nil
}

// Routes lists the BFF's routes.
func (h *Handler) Routes() []router.Route {
	return []router.Route{
		{Path: SignInPath, Method: http.MethodGet, Handler: h.SignIn},
		{Path: CallbackPath, Method: http.MethodGet, Handler: h.Callback},
		{Path: CallbackPath, Method: http.MethodPost, Handler: h.Callback},
		{Path: SignOutPath, Method: http.MethodPost, Handler: h.SignOut},
		{Path: SessionPath, Method: http.MethodGet, Handler: h.Session},
		{Path: WeatherPath, Method: http.MethodGet, Handler: h.Weather},
		{Path: HealthPath, Method: http.MethodGet, Handler: h.Health},
	}
}

// Health reports the server is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Json(w, r, resp.Data(map[string]string{"status": "ok"})); err != nil {
		h.d.Err(w, r, err)
	}
}

func (h *Handler) logger(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.l)
}

// session retrieves the Session InjectSession stored, or reads it from the request.
func (h *Handler) session(r *http.Request) (session.Session, error) {
	if s, ok := session.FromContext(r.Context()); ok {
		return s, nil
	}

	return h.sessions.GetSession(r)
}
