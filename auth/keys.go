package auth

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/xy-planning-network/relay"
	"golang.org/x/crypto/hkdf"
)

const keyLen = 32

var (
	authKeyInfo    = []byte("relay session authentication key")
	encryptKeyInfo = []byte("relay session encryption key")
)

// SessionKeys are the keys securing session cookies.
type SessionKeys struct {
	// AuthKey signs cookies with HMAC-SHA256.
	AuthKey []byte

	// EncryptKey encrypts cookies with AES-256.
	EncryptKey []byte
}

// DeriveKeys expands secret into independent authentication and encryption keys.
//
// An empty secret is a configuration error.
func DeriveKeys(secret string) (SessionKeys, error) {
	if secret == "" {
		return SessionKeys{}, fmt.Errorf("%w: AUTH_SECRET cannot be empty", relay.ErrBadConfig)
	}

	ak, err := expand(secret, authKeyInfo)
	if err != nil {
		return SessionKeys{}, err
	}

	ek, err := expand(secret, encryptKeyInfo)
	if err != nil {
		return SessionKeys{}, err
	}

	return SessionKeys{AuthKey: ak, EncryptKey: ek}, nil
}

func expand(secret string, info []byte) ([]byte, error) {
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, info), key); err != nil {
		return nil, fmt.Errorf("%w: deriving session key: %s", relay.ErrUnexpected, err)
	}

	return key, nil
}
