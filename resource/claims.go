package resource

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
	"github.com/xy-planning-network/relay"
)

// Claims are the access token claims the resource server reads.
type Claims struct {
	jwt.RegisteredClaims

	Name              string   `json:"name,omitempty"`
	PreferredUsername string   `json:"preferred_username,omitempty"`
	Roles             []string `json:"roles,omitempty"`

	// Scope is the space-delimited list of delegated scopes.
	Scope string `json:"scp,omitempty"`
}

// GetID identifies the token's subject in logs.
func (c *Claims) GetID() string { return c.Subject }

// GetEmail returns the subject's username, typically an email address.
func (c *Claims) GetEmail() string { return c.PreferredUsername }

// NewContext stores c in ctx.
func NewContext(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, relay.ClaimsKey, c)
}

// FromContext retrieves the *Claims Authenticate stored in ctx.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(relay.ClaimsKey).(*Claims)
	return c, ok && c != nil
}
