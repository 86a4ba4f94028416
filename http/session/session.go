package session

import (
	"context"
	"net/http"

	gorilla "github.com/gorilla/sessions"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/auth"
)

// keys used internal to specific implementations of different interfaces.
const (
	artifactKey = "relay-artifact"
	flowKey     = "relay-flow"
)

// The Sessionable wraps methods for basic adding values to, deleting, and getting values from a session
// associated with an *http.Request and saving those to the session store.
type Sessionable interface {
	Delete(w http.ResponseWriter, r *http.Request) error
	Get(key string) any
	Save(w http.ResponseWriter, r *http.Request) error
	Set(w http.ResponseWriter, r *http.Request, key string, val any) error
}

// The ArtifactSessionable wraps methods for adding, removing, and retrieving
// the auth.Artifact of a signed-in user.
type ArtifactSessionable interface {
	Artifact() (auth.Artifact, error)
	ClearArtifact(w http.ResponseWriter, r *http.Request) error
	PutArtifact(w http.ResponseWriter, r *http.Request, a auth.Artifact) error
}

// The FlowSessionable wraps methods for holding the auth.Flow of a sign-in in progress.
type FlowSessionable interface {
	Flow() (auth.Flow, error)
	PutFlow(w http.ResponseWriter, r *http.Request, f auth.Flow) error
}

// The RelaySessionable composes session's major interfaces.
type RelaySessionable interface {
	ArtifactSessionable
	FlowSessionable
	Sessionable
}

// A Session lightly wraps a gorilla.Session.
type Session struct {
	s *gorilla.Session
}

var _ RelaySessionable = Session{}

// NewSession wraps g.
func NewSession(g *gorilla.Session) Session { return Session{s: g} }

// Artifact retrieves the auth.Artifact stored in the session.
//
// ErrNoArtifact returns when none is stored,
// ErrNotValid when the stored value is not an auth.Artifact.
func (s Session) Artifact() (auth.Artifact, error) {
	val, ok := s.s.Values[artifactKey]
	if !ok {
		return auth.Artifact{}, ErrNoArtifact
	}

	a, ok := val.(auth.Artifact)
	if !ok {
		return auth.Artifact{}, ErrNotValid
	}

	return a, nil
}

// ClearArtifact removes the auth.Artifact from the session.
func (s Session) ClearArtifact(w http.ResponseWriter, r *http.Request) error {
	delete(s.s.Values, artifactKey)
	return s.Save(w, r)
}

// Delete removes a session by making the MaxAge negative.
func (s Session) Delete(w http.ResponseWriter, r *http.Request) error {
	s.s.Options.MaxAge = -1
	return s.Save(w, r)
}

// Flow retrieves the auth.Flow stored in the session.
func (s Session) Flow() (auth.Flow, error) {
	val, ok := s.s.Values[flowKey]
	if !ok {
		return auth.Flow{}, ErrNoFlow
	}

	f, ok := val.(auth.Flow)
	if !ok {
		return auth.Flow{}, ErrNotValid
	}

	return f, nil
}

// Get retrieves a value from the session according to the key passed in.
func (s Session) Get(key string) any {
	return s.s.Values[key]
}

// IsNew reports whether the session was created for this request.
func (s Session) IsNew() bool { return s.s.IsNew }

// PutArtifact stores a in the session.
func (s Session) PutArtifact(w http.ResponseWriter, r *http.Request, a auth.Artifact) error {
	s.s.Values[artifactKey] = a
	return s.Save(w, r)
}

// PutFlow stores f in the session.
func (s Session) PutFlow(w http.ResponseWriter, r *http.Request, f auth.Flow) error {
	s.s.Values[flowKey] = f
	return s.Save(w, r)
}

// Save wraps gorilla.Session.Save, saving the session in the request.
func (s Session) Save(w http.ResponseWriter, r *http.Request) error { return s.s.Save(r, w) }

// Set stores a value according to the key passed in on the session.
func (s Session) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	s.s.Values[key] = val
	return s.Save(w, r)
}

// NewContext stores s in ctx.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, relay.SessionKey, s)
}

// FromContext retrieves the Session stored in ctx.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(relay.SessionKey).(Session)
	return s, ok
}
