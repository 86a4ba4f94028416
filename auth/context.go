package auth

import (
	"context"

	"github.com/xy-planning-network/relay"
)

// NewContext stores a in ctx.
func NewContext(ctx context.Context, a Artifact) context.Context {
	return context.WithValue(ctx, relay.ArtifactKey, a)
}

// FromContext retrieves the Artifact stored in ctx.
func FromContext(ctx context.Context) (Artifact, bool) {
	a, ok := ctx.Value(relay.ArtifactKey).(Artifact)
	return a, ok
}
