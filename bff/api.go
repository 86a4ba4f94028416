package bff

import (
	"errors"
	"net/http"

	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/proxy"
)

// Session writes the client-safe view of the session.
//
// Without a session the view is {}.
// A session whose access token expired carries only the ExpiredTag error.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	view := auth.ClientView{}
	if a, ok := auth.FromContext(r.Context()); ok {
		a = auth.Persist(a, auth.Read)
		switch {
		case a.Authenticated(h.now()):
			view = auth.Project(a)
		case a.Stale(h.now()):
			view.Error = ExpiredTag
		}
	}

	if err := h.d.Json(w, r, resp.NoStore(), resp.Data(view)); err != nil {
		h.d.Err(w, r, err)
	}
}

// Weather forwards to the resource server's forecast with the signed-in user's access token,
// passing its JSON through unmodified.
func (h *Handler) Weather(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.FromContext(r.Context())

	res, err := h.proxy.Forward(r.Context(), a, ForecastPath)
	if err != nil {
		h.proxyErr(w, r, err)
		return
	}

	if err := h.d.Raw(w, r, res.Body, resp.NoStore()); err != nil {
		h.d.Err(w, r, err)
	}
}

func (h *Handler) proxyErr(w http.ResponseWriter, r *http.Request, err error) {
	var pe *proxy.Error
	if !errors.As(err, &pe) {
		h.d.Err(w, r, err, resp.NoStore())
		return
	}

	if err := h.d.Error(w, r,
		resp.Code(pe.Status),
		resp.Message(pe.Message),
		resp.Details(pe.Details),
		resp.NoStore(),
	); err != nil {
		h.d.Err(w, r, err)
	}
}
