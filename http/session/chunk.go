package session

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/securecookie"
	gorilla "github.com/gorilla/sessions"
)

const (
	// defaultChunkSize keeps each cookie, with its name and attributes, under the 4096 byte browser limit.
	defaultChunkSize = 3800

	// maxChunks bounds how many cookies one session may span.
	maxChunks = 10
)

// A ChunkedStore is a gorilla.Store keeping each session in authenticated, encrypted cookies,
// splitting values too large for one cookie across name.0, name.1, and so on.
//
// Provider access tokens commonly exceed what fits in a single cookie.
type ChunkedStore struct {
	Codecs    []securecookie.Codec
	Options   *gorilla.Options
	chunkSize int
}

var _ gorilla.Store = (*ChunkedStore)(nil)

// NewChunkedStore returns a new ChunkedStore.
//
// Keys are defined in pairs to allow key rotation, as in gorilla.NewCookieStore:
// the first key of a pair authenticates, the second encrypts.
func NewChunkedStore(keyPairs ...[]byte) *ChunkedStore {
	cs := &ChunkedStore{
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &gorilla.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		chunkSize: defaultChunkSize,
	}

	for _, c := range cs.Codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxLength(0)
		}
	}

	cs.MaxAge(cs.Options.MaxAge)
	return cs
}

// Get returns a session for the given name after adding it to the registry.
func (s *ChunkedStore) Get(r *http.Request, name string) (*gorilla.Session, error) {
	return gorilla.GetRegistry(r).Get(s, name)
}

// New returns a session for the given name without adding it to the registry.
//
// A session whose chunks fail authentication or decryption is returned empty
// alongside the decoding error.
func (s *ChunkedStore) New(r *http.Request, name string) (*gorilla.Session, error) {
	session := gorilla.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	val, n := readChunks(r, name)
	if n == 0 {
		return session, nil
	}

	err := securecookie.DecodeMulti(name, val, &session.Values, s.Codecs...)
	if err == nil {
		session.IsNew = false
	}

	return session, err
}

// Save writes the session across as many cookies as it needs,
// expiring chunks left over from a larger previous value.
//
// A negative MaxAge expires every chunk.
func (s *ChunkedStore) Save(r *http.Request, w http.ResponseWriter, session *gorilla.Session) error {
	name := session.Name()
	_, existing := readChunks(r, name)

	if session.Options.MaxAge < 0 {
		expireChunks(w, name, 0, existing, session.Options)
		return nil
	}

	encoded, err := securecookie.EncodeMulti(name, session.Values, s.Codecs...)
	if err != nil {
		return err
	}

	chunks := split(encoded, s.chunkSize)
	if len(chunks) > maxChunks {
		return ErrTooLarge
	}

	for i, c := range chunks {
		http.SetCookie(w, gorilla.NewCookie(chunkName(name, i), c, session.Options))
	}

	expireChunks(w, name, len(chunks), existing, session.Options)
	return nil
}

// MaxAge sets the maximum age for the store and the underlying cookie implementation.
// Individual sessions can be deleted by setting Options.MaxAge = -1 for that session.
func (s *ChunkedStore) MaxAge(age int) {
	s.Options.MaxAge = age

	for _, c := range s.Codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

func chunkName(name string, i int) string {
	return name + "." + strconv.Itoa(i)
}

// readChunks joins consecutive chunks starting at name.0,
// returning the joined value and how many chunks were found.
func readChunks(r *http.Request, name string) (string, int) {
	var b strings.Builder
	n := 0
	for ; n < maxChunks; n++ {
		c, err := r.Cookie(chunkName(name, n))
		if err != nil {
			break
		}
		b.WriteString(c.Value)
	}

	return b.String(), n
}

func expireChunks(w http.ResponseWriter, name string, from, to int, opts *gorilla.Options) {
	expired := *opts
	expired.MaxAge = -1
	for i := from; i < to; i++ {
		http.SetCookie(w, gorilla.NewCookie(chunkName(name, i), "", &expired))
	}
}

func split(s string, size int) []string {
	if s == "" {
		return []string{""}
	}

	chunks := make([]string, 0, len(s)/size+1)
	for len(s) > size {
		chunks = append(chunks, s[:size])
		s = s[size:]
	}

	return append(chunks, s)
}
