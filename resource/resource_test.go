package resource_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay/resource"
)

const (
	testClientID = "backend-client"
	testKeyID    = "test-key-1"
)

// fakeKeys publishes one RSA key over TLS, along with a discovery document.
type fakeKeys struct {
	*httptest.Server
	key     *rsa.PrivateKey
	fetches int32
}

func newFakeKeys(t *testing.T) *fakeKeys {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	fk := &fakeKeys{key: key}

	pub, err := jwk.Import(&key.PublicKey)
	require.NoError(t, err)
	require.NoError(t, pub.Set(jwk.KeyIDKey, testKeyID))
	require.NoError(t, pub.Set(jwk.AlgorithmKey, "RS256"))
	require.NoError(t, pub.Set(jwk.KeyUsageKey, "sig"))
	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 fk.URL,
			"authorization_endpoint": fk.URL + "/authorize",
			"token_endpoint":         fk.URL + "/token",
			"jwks_uri":               fk.URL + "/keys",
		})
	})
	mux.HandleFunc("/keys", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fk.fetches, 1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(set)
	})

	fk.Server = httptest.NewTLSServer(mux)
	t.Cleanup(fk.Close)

	return fk
}

func (fk *fakeKeys) issuer() string { return fk.URL + "/tenant/v2.0" }

func (fk *fakeKeys) source(t *testing.T) *resource.JWKSource {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	src, err := resource.NewJWKSource(ctx, fk.URL+"/keys", fk.Client())
	require.NoError(t, err)

	return src
}

func (fk *fakeKeys) validator(t *testing.T, now time.Time) *resource.Validator {
	t.Helper()

	v, err := resource.NewValidator(
		resource.ValidatorConfig{Issuer: fk.issuer(), ClientID: testClientID, Keys: fk.source(t)},
		resource.WithValidatorClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	return v
}

// sign produces a token over claims, tweaked by mod.
func (fk *fakeKeys) sign(t *testing.T, now time.Time, mod func(jwt.MapClaims, *jwt.Token)) string {
	t.Helper()

	claims := jwt.MapClaims{
		"iss":                fk.issuer(),
		"aud":                testClientID,
		"sub":                "sub-1",
		"iat":                now.Unix(),
		"nbf":                now.Add(-time.Minute).Unix(),
		"exp":                now.Add(time.Hour).Unix(),
		"preferred_username": "ada@example.com",
		"roles":              []string{"Reader"},
		"scp":                "API.Read",
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = testKeyID
	if mod != nil {
		mod(claims, tok)
	}

	raw, err := tok.SignedString(fk.key)
	require.NoError(t, err)

	return raw
}
