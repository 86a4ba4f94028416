package auth

import (
	"encoding/gob"
	"time"
)

func init() {
	gob.Register(Artifact{})
	gob.Register(Flow{})
}

// An Artifact is the server-held record of a signed-in user.
//
// AccessToken and RefreshToken never leave the server.
type Artifact struct {
	AccessToken  string
	RefreshToken string

	// ExpiresAt is the access token's expiry as unix seconds.
	ExpiresAt int64

	Roles []string

	// Error tags a problem with the session the browser should know about.
	Error string

	Subject string
	Name    string
	Email   string
}

// Authenticated reports whether the Artifact holds an access token that has not expired at now.
func (a Artifact) Authenticated(now time.Time) bool {
	return a.AccessToken != "" && a.ExpiresAt > now.Unix()
}

// Stale reports whether the Artifact holds an access token that has expired at now.
func (a Artifact) Stale(now time.Time) bool {
	return a.AccessToken != "" && !a.Authenticated(now)
}

// GetID returns the subject of the signed-in user.
func (a Artifact) GetID() string { return a.Subject }

// GetEmail returns the email address of the signed-in user, or the subject when no email is known.
func (a Artifact) GetEmail() string {
	if a.Email != "" {
		return a.Email
	}
	return a.Subject
}

// Persist folds e into a.
//
// Only a sign-in event, carrying both an Account and a Profile, changes the Artifact.
// Every other event returns a unchanged.
// The returned Artifact never shares its Roles with the Event.
func Persist(a Artifact, e Event) Artifact {
	if e.Account == nil || e.Profile == nil {
		return a
	}

	a.AccessToken = e.Account.AccessToken
	a.ExpiresAt = e.Account.ExpiresAt
	a.RefreshToken = e.Account.RefreshToken

	a.Roles = make([]string, len(e.Profile.Roles))
	copy(a.Roles, e.Profile.Roles)

	a.Subject = e.Profile.Subject
	a.Name = e.Profile.Name
	a.Email = e.Profile.Email

	return a
}

// A ClientView is the part of a session a browser may see.
type ClientView struct {
	User  *ViewUser `json:"user,omitempty"`
	Error string    `json:"error,omitempty"`
}

// A ViewUser describes the signed-in user to the browser.
type ViewUser struct {
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles"`
}

// Project derives the ClientView of a.
//
// An Artifact without an access token projects no user.
func Project(a Artifact) ClientView {
	v := ClientView{Error: a.Error}
	if a.AccessToken == "" {
		return v
	}

	roles := make([]string, len(a.Roles))
	copy(roles, a.Roles)

	v.User = &ViewUser{
		Name:  a.Name,
		Email: a.Email,
		Roles: roles,
	}

	return v
}
