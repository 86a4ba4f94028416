package auth

import (
	"context"
)

// ProviderID names the identity provider in callback URLs.
const ProviderID = "microsoft-entra-id"

//go:generate mockgen -destination=mocks/mock_exchanger.go -package=mocks -source=auth.go Exchanger

// An Exchanger starts and completes an authorization code flow with an identity provider.
type Exchanger interface {
	// AuthCodeURL is where the browser is sent to sign in for the Flow.
	AuthCodeURL(f Flow) string

	// Exchange trades an authorization code for the provider's account tokens
	// and the profile asserted by its ID token.
	Exchange(ctx context.Context, code string, f Flow) (Account, Profile, error)
}

// An Account holds the tokens issued by the identity provider.
type Account struct {
	Provider     string
	AccessToken  string
	RefreshToken string
	IDToken      string

	// ExpiresAt is the access token's expiry as unix seconds.
	ExpiresAt int64
}

// A Profile holds the claims of the identity provider's ID token.
type Profile struct {
	Subject string
	Name    string
	Email   string
	Roles   []string
}

// A Callback is what the identity provider sends back to the redirect URL.
type Callback struct {
	Code             string `schema:"code"`
	State            string `schema:"state"`
	Error            string `schema:"error"`
	ErrorDescription string `schema:"error_description"`
}

// An Event is the input to Persist.
//
// A sign-in event carries both Account and Profile.
// Reading an existing session is an Event carrying neither.
type Event struct {
	Account *Account
	Profile *Profile
}

// SignIn builds the Event produced by a completed sign-in.
func SignIn(acct Account, prof Profile) Event {
	return Event{Account: &acct, Profile: &prof}
}

// Read is the Event produced when an existing session is accessed.
var Read = Event{}
