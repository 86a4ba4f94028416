package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/xy-planning-network/relay"
	"golang.org/x/oauth2"
)

// EntraAuthority is the Microsoft Entra ID login host.
const EntraAuthority = "https://login.microsoftonline.com"

// A Config provides the values needed to construct a Provider.
type Config struct {
	ClientID     string
	ClientSecret string

	// TenantID selects the Entra ID tenant whose v2.0 issuer is used
	// when Issuer is empty.
	TenantID string

	// Issuer overrides the OpenID Connect issuer URL.
	Issuer string

	// BackendClientID names the resource server's app registration.
	// It builds the default API scope.
	BackendClientID string

	// APIScope overrides the scope requested for the resource server.
	APIScope string

	// RedirectURL is the absolute callback URL registered with the provider.
	RedirectURL string

	// HTTPClient is used for discovery, key fetches, and token exchange.
	// Defaults to a pooled cleanhttp client.
	HTTPClient *http.Client
}

// IssuerURL resolves the OpenID Connect issuer for c.
func (c Config) IssuerURL() string {
	if c.Issuer != "" {
		return strings.TrimSuffix(c.Issuer, "/")
	}

	return EntraAuthority + "/" + c.TenantID + "/v2.0"
}

// Scopes lists the scopes requested at sign-in.
func (c Config) Scopes() []string {
	api := c.APIScope
	if api == "" {
		api = "api://" + c.BackendClientID + "/API.Read"
	}

	return []string{oidc.ScopeOpenID, "profile", "email", api}
}

func (c Config) validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if c.Issuer == "" && c.TenantID == "" {
		missing = append(missing, "tenant ID or issuer")
	}
	if c.APIScope == "" && c.BackendClientID == "" {
		missing = append(missing, "backend client ID or API scope")
	}
	if c.RedirectURL == "" {
		missing = append(missing, "redirect URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", relay.ErrBadConfig, strings.Join(missing, ", "))
	}

	return nil
}

// Provider is an Exchanger backed by an OpenID Connect issuer.
type Provider struct {
	client   *http.Client
	config   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewProvider discovers the issuer's endpoints and keys.
//
// Discovery makes a request to the issuer; ctx bounds it.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := cfg.HTTPClient
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}

	p, err := oidc.NewProvider(oidc.ClientContext(ctx, client), cfg.IssuerURL())
	if err != nil {
		return nil, fmt.Errorf("%w: discovering %s: %s", relay.ErrBadConfig, cfg.IssuerURL(), err)
	}

	return &Provider{
		client: client,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     p.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes(),
		},
		verifier: p.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// AuthCodeURL is where the browser is sent to sign in for f.
func (p *Provider) AuthCodeURL(f Flow) string {
	return p.config.AuthCodeURL(
		f.State,
		oidc.Nonce(f.Nonce),
		oauth2.S256ChallengeOption(f.Verifier),
	)
}

type idClaims struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	PreferredUsername string   `json:"preferred_username"`
	Roles             []string `json:"roles"`
}

// Exchange trades code for tokens, verifies the ID token against f's nonce,
// and reads the user's profile from it.
func (p *Provider) Exchange(ctx context.Context, code string, f Flow) (Account, Profile, error) {
	ctx = oidc.ClientContext(ctx, p.client)

	tok, err := p.config.Exchange(ctx, code, oauth2.VerifierOption(f.Verifier))
	if err != nil {
		return Account{}, Profile{}, err
	}

	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return Account{}, Profile{}, ErrNoIDToken
	}

	idt, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return Account{}, Profile{}, err
	}

	if idt.Nonce != f.Nonce {
		return Account{}, Profile{}, ErrNonceMismatch
	}

	var c idClaims
	if err := idt.Claims(&c); err != nil {
		return Account{}, Profile{}, err
	}

	email := c.Email
	if email == "" {
		email = c.PreferredUsername
	}

	acct := Account{
		Provider:     ProviderID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		IDToken:      raw,
	}
	if !tok.Expiry.IsZero() {
		acct.ExpiresAt = tok.Expiry.Unix()
	}

	prof := Profile{
		Subject: idt.Subject,
		Name:    c.Name,
		Email:   email,
		Roles:   c.Roles,
	}

	return acct, prof, nil
}
