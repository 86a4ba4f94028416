package bff

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/http/req"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/logger"
)

type signInParams struct {
	CallbackURL string `schema:"callbackUrl" validate:"omitempty,relpath"`
	Error       string `schema:"error"`
}

// SignIn starts a sign-in, redirecting the browser to the identity provider.
//
// A callbackUrl that is not a same-origin path is replaced with "/".
// When an earlier attempt failed, as signalled by ?error=, SignIn responds 401
// instead of starting over, so a broken provider cannot loop the browser.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	l := h.logger(r)

	var params signInParams
	if err := h.p.ParseQueryParams(r.URL.Query(), &params); err != nil {
		var verrs req.ValidationErrors
		if !errors.As(err, &verrs) || !verrs.Only("callbackUrl") {
			h.d.Err(w, r, err, resp.Code(http.StatusBadRequest))
			return
		}

		l.Warn("ignoring callbackUrl", &logger.LogContext{Error: err})
		params.CallbackURL = ""
	}

	if params.Error != "" {
		err := h.d.Error(w, r,
			resp.Code(http.StatusUnauthorized),
			resp.Message("Sign in failed"),
			resp.Details([]byte(params.Error)),
			resp.NoStore(),
		)
		if err != nil {
			h.d.Err(w, r, err)
		}
		return
	}

	if params.CallbackURL == "" {
		params.CallbackURL = "/"
	}

	fs, err := h.sessions.GetFlow(r)
	if err != nil {
		l.Warn("replacing undecodable sign-in flow", &logger.LogContext{Error: err})
	}

	f, authURL := h.relay.Begin(params.CallbackURL)
	if err := fs.PutFlow(w, r, f); err != nil {
		h.d.Err(w, r, err)
		return
	}

	l.Debug("redirecting to identity provider", nil)
	if err := h.d.Redirect(w, r, resp.Url(authURL), resp.NoStore()); err != nil {
		h.d.Err(w, r, err)
	}
}

// Callback completes a sign-in, storing the new auth.Artifact in the session
// and redirecting the browser to where it started.
//
// The sign-in flow is single use; Callback expires it whatever the outcome.
// On failure, Callback redirects to the sign-in route with ?error= set.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	l := h.logger(r)

	var cb auth.Callback
	if err := h.p.ParseForm(r, &cb); err != nil {
		l.Error("parsing sign-in callback", &logger.LogContext{Error: err})
		h.failSignIn(w, r, ErrCodeCallback)
		return
	}

	fs, err := h.sessions.GetFlow(r)
	if err != nil {
		l.Warn("undecodable sign-in flow", &logger.LogContext{Error: err})
	}

	f, flowErr := fs.Flow()
	if err := fs.Delete(w, r); err != nil {
		l.Error("expiring sign-in flow", &logger.LogContext{Error: err})
	}

	if flowErr != nil {
		l.Warn("callback without sign-in flow", &logger.LogContext{Error: flowErr})
		h.failSignIn(w, r, ErrCodeSession)
		return
	}

	a, err := h.relay.Create(r.Context(), cb, f)
	if err != nil {
		l.Error("completing sign-in", &logger.LogContext{Error: err})

		code := ErrCodeCallback
		if cb.Error == "access_denied" {
			code = ErrCodeAccessDenied
		}
		h.failSignIn(w, r, code)
		return
	}

	s, err := h.session(r)
	if err != nil {
		l.Warn("replacing undecodable session", &logger.LogContext{Error: err})
	}

	if err := s.PutArtifact(w, r, a); err != nil {
		h.d.Err(w, r, err)
		return
	}

	l.Info("signed in", &logger.LogContext{
		User: a,
		Data: map[string]any{"access_token": relay.MaskToken(a.AccessToken)},
	})

	dest := f.CallbackURL
	if !req.IsRelativePath(dest) {
		dest = "/"
	}

	if err := h.d.Redirect(w, r, resp.Url(dest), resp.NoStore()); err != nil {
		h.d.Err(w, r, err)
	}
}

// SignOut expires the session and redirects the browser to "/".
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		h.logger(r).Warn("signing out undecodable session", &logger.LogContext{Error: err})
	}

	if err := s.Delete(w, r); err != nil {
		h.d.Err(w, r, err)
		return
	}

	if err := h.d.Redirect(w, r, resp.ToRoot(), resp.Code(http.StatusSeeOther)); err != nil {
		h.d.Err(w, r, err)
	}
}

func (h *Handler) failSignIn(w http.ResponseWriter, r *http.Request, code string) {
	err := h.d.Redirect(w, r, resp.Url(SignInPath+"?"+url.Values{"error": {code}}.Encode()), resp.NoStore())
	if err != nil {
		h.d.Err(w, r, err)
	}
}
