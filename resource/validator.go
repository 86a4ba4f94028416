package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/auth"
)

var (
	ErrNoToken         = errors.New("no bearer token")
	ErrInvalidIssuer   = errors.New("invalid issuer")
	ErrInvalidAudience = errors.New("invalid audience")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenNotYet     = errors.New("token not valid yet")
)

// A ValidatorConfig provides the values a Validator checks tokens against.
type ValidatorConfig struct {
	// Issuer is the exact "iss" tokens must carry,
	// e.g., https://login.microsoftonline.com/{tenant}/v2.0
	Issuer string

	// ClientID is the resource server's app registration.
	// Tokens must name it, or its api:// URI, in "aud".
	ClientID string

	Keys KeySource
}

// IssuerFor builds the Microsoft Entra ID v2.0 issuer for tenantID.
func IssuerFor(tenantID string) string {
	return auth.EntraAuthority + "/" + tenantID + "/v2.0"
}

// A Validator checks bearer tokens.
type Validator struct {
	audiences []string
	issuer    string
	keys      KeySource
	now       func() time.Time
	parser    *jwt.Parser
}

// A ValidatorOpt configures a Validator.
type ValidatorOpt func(*Validator)

// WithValidatorClock sets the clock "exp" and "nbf" are compared against.
func WithValidatorClock(now func() time.Time) ValidatorOpt {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator constructs a Validator from cfg.
func NewValidator(cfg ValidatorConfig, opts ...ValidatorOpt) (*Validator, error) {
	var missing []string
	if cfg.Issuer == "" {
		missing = append(missing, "issuer")
	}
	if cfg.ClientID == "" {
		missing = append(missing, "client ID")
	}
	if cfg.Keys == nil {
		missing = append(missing, "key source")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", relay.ErrBadConfig, strings.Join(missing, ", "))
	}

	v := &Validator{
		audiences: []string{cfg.ClientID, "api://" + cfg.ClientID},
		issuer:    strings.TrimSuffix(cfg.Issuer, "/"),
		keys:      cfg.Keys,
		now:       time.Now,
		parser:    jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithoutClaimsValidation()),
	}
	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Validate verifies bearer and returns its claims.
//
// Every failure wraps relay.ErrUnauthorized.
func (v *Validator) Validate(ctx context.Context, bearer string) (*Claims, error) {
	if bearer == "" {
		return nil, fmt.Errorf("%w: %w", relay.ErrUnauthorized, ErrNoToken)
	}

	claims := new(Claims)
	_, err := v.parser.ParseWithClaims(bearer, claims, func(t *jwt.Token) (any, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errors.New("token header missing kid")
		}

		return v.keys.Key(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", relay.ErrUnauthorized, err)
	}

	if err := v.validateClaims(claims); err != nil {
		return nil, fmt.Errorf("%w: %w", relay.ErrUnauthorized, err)
	}

	return claims, nil
}

func (v *Validator) validateClaims(c *Claims) error {
	if c.Issuer != v.issuer {
		return fmt.Errorf("%w: %q", ErrInvalidIssuer, c.Issuer)
	}

	var audOK bool
	for _, aud := range v.audiences {
		if c.VerifyAudience(aud, true) {
			audOK = true
			break
		}
	}
	if !audOK {
		return ErrInvalidAudience
	}

	now := v.now()
	if c.ExpiresAt == nil || !c.VerifyExpiresAt(now, true) {
		return ErrTokenExpired
	}

	if !c.VerifyNotBefore(now, false) {
		return ErrTokenNotYet
	}

	return nil
}
