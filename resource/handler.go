package resource

import (
	"net/http"

	"github.com/xy-planning-network/relay/http/middleware"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/http/router"
	"github.com/xy-planning-network/relay/logger"
)

// A Handler serves the resource server's endpoints.
type Handler struct {
	d *resp.Responder
	f *Forecaster
	l logger.Logger
	v *Validator
}

// NewHandler constructs a Handler.
func NewHandler(d *resp.Responder, v *Validator, f *Forecaster, l logger.Logger) *Handler {
	if f == nil {
		f = NewForecaster(nil, nil)
	}

	return &Handler{d: d, f: f, l: l, v: v}
}

// Routes lists the resource server's routes.
//
// /weatherforecast requires a bearer token; any valid one suffices.
func (h *Handler) Routes() []router.Route {
	return []router.Route{
		{Path: "/healthz", Method: http.MethodGet, Handler: h.Health},
		{
			Path:    "/weatherforecast",
			Method:  http.MethodGet,
			Handler: h.WeatherForecast,
			Middlewares: []middleware.Adapter{
				Authenticate(h.v, h.d, h.l),
				Authorize(h.d, AnyValidToken),
			},
		},
	}
}

// Health reports the server is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Json(w, r, resp.Data(map[string]string{"status": "ok"})); err != nil {
		h.d.Err(w, r, err)
	}
}

// WeatherForecast writes five days of sample forecasts.
func (h *Handler) WeatherForecast(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Json(w, r, resp.NoStore(), resp.Data(h.f.Next())); err != nil {
		h.d.Err(w, r, err)
	}
}
