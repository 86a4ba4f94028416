package resource

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/xy-planning-network/relay"
)

const registerTimeout = 5 * time.Second

// A KeySource resolves the public key that signed a token.
type KeySource interface {
	Key(ctx context.Context, kid string) (any, error)
}

// A JWKSource is a KeySource backed by a JSON Web Key Set URL.
// The set is fetched on first use and refreshed in the background afterwards.
type JWKSource struct {
	cache *jwk.Cache
	url   string

	mu         sync.Mutex
	registered bool
}

// NewJWKSource constructs a JWKSource for the set published at url.
//
// ctx bounds the background refresh; cancel it to stop refreshing.
// A nil client uses a pooled cleanhttp client.
func NewJWKSource(ctx context.Context, url string, client *http.Client) (*JWKSource, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: JWKS URL cannot be empty", relay.ErrBadConfig)
	}

	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}

	cache, err := jwk.NewCache(ctx, httprc.NewClient(httprc.WithHTTPClient(client)))
	if err != nil {
		return nil, fmt.Errorf("%w: creating JWKS cache: %s", relay.ErrBadConfig, err)
	}

	return &JWKSource{cache: cache, url: url}, nil
}

// Key finds kid in the key set.
func (s *JWKSource) Key(ctx context.Context, kid string) (any, error) {
	if err := s.register(ctx); err != nil {
		return nil, err
	}

	set, err := s.cache.Lookup(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("looking up JWKS: %w", err)
	}

	key, ok := set.LookupKeyID(kid)
	if !ok {
		return nil, fmt.Errorf("%w: key ID %q not in JWKS", relay.ErrNotExist, kid)
	}

	var raw any
	if err := jwk.Export(key, &raw); err != nil {
		return nil, fmt.Errorf("exporting key %q: %w", kid, err)
	}

	return raw, nil
}

// register adds the URL to the cache once it can be fetched.
// A failed attempt is retried on the next call.
func (s *JWKSource) register(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registered {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, registerTimeout)
	defer cancel()

	if err := s.cache.Register(ctx, s.url); err != nil {
		return fmt.Errorf("registering JWKS URL: %w", err)
	}

	s.registered = true
	return nil
}

// DiscoverJWKSURL reads the JWKS URL out of issuer's OpenID Connect discovery document.
func DiscoverJWKSURL(ctx context.Context, issuer string, client *http.Client) (string, error) {
	if client != nil {
		ctx = oidc.ClientContext(ctx, client)
	}

	p, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return "", fmt.Errorf("%w: discovering %s: %s", relay.ErrBadConfig, issuer, err)
	}

	var doc struct {
		JWKSURL string `json:"jwks_uri"`
	}
	if err := p.Claims(&doc); err != nil || doc.JWKSURL == "" {
		return "", fmt.Errorf("%w: %s publishes no jwks_uri", relay.ErrBadConfig, issuer)
	}

	return doc.JWKSURL, nil
}
