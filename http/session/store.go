package session

import (
	"fmt"
	"net/http"

	gorilla "github.com/gorilla/sessions"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/auth"
)

const (
	defaultMaxAge = 86400 * 30 // 30 days

	flowSuffix = "-flow"
)

// The SessionStorer defines methods for retrieving the sessions of the given *http.Request.
type SessionStorer interface {
	// GetSession retrieves the session holding the signed-in user's artifact.
	GetSession(r *http.Request) (Session, error)

	// GetFlow retrieves the short-lived session holding a sign-in in progress.
	GetFlow(r *http.Request) (Session, error)
}

// A Service wraps a gorilla.Store to manage constructing a new one
// and accessing the sessions contained in it.
//
// Service implements SessionStorer.
type Service struct {
	// The authentication key.
	ak []byte

	// The encryption key.
	ek []byte

	// The name this Service's sessions are stored under.
	sn string

	// The environment the Service is operating within.
	env relay.Environment

	// The number of seconds a session is valid.
	maxAge int

	// how the Service actually implements storing sessions.
	store gorilla.Store

	// how the Service stores sign-ins in progress.
	flowStore gorilla.Store
}

// A Config provides the required values
type Config struct {
	Env relay.Environment

	// The name sessions are stored under.
	// Also the prefix of every cookie name.
	SessionName string

	// Keys authenticate and encrypt every cookie.
	Keys auth.SessionKeys
}

func validateConfig(c Config) error {
	if err := c.Env.Valid(); err != nil {
		return fmt.Errorf("%w: %q is not a valid environment", relay.ErrBadConfig, c.Env)
	}

	if c.SessionName == "" {
		return fmt.Errorf("%w: SessionName cannot be %q", relay.ErrBadConfig, c.SessionName)
	}

	if len(c.Keys.AuthKey) == 0 {
		return fmt.Errorf("%w: authentication key cannot be empty", relay.ErrBadConfig)
	}

	switch len(c.Keys.EncryptKey) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: encryption key must be 16, 24, or 32 bytes", relay.ErrBadConfig)
	}

	return nil
}

// NewStoreService initiates cookie storage for user web sessions
// with the provided config.
func NewStoreService(cfg Config, opts ...ServiceOpt) (Service, error) {
	if err := validateConfig(cfg); err != nil {
		return Service{}, err
	}

	s := Service{
		ak:     cfg.Keys.AuthKey,
		ek:     cfg.Keys.EncryptKey,
		env:    cfg.Env,
		maxAge: defaultMaxAge,
		sn:     cfg.SessionName,
	}

	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return Service{}, fmt.Errorf("%w: %s", relay.ErrBadConfig, err)
		}
	}

	if s.store == nil {
		if err := WithCookie()(&s); err != nil {
			return Service{}, fmt.Errorf("%w: %s", relay.ErrBadConfig, err)
		}
	}

	return s, nil
}

// GetSession retrieves the Session for the *http.Request,
// or creates a brand new one.
//
// A cookie that fails to decode yields a brand new Session alongside the error.
func (s Service) GetSession(r *http.Request) (Session, error) {
	session, err := s.store.Get(r, s.sn)
	return Session{s: session}, err
}

// GetFlow retrieves the sign-in flow Session for the *http.Request,
// or creates a brand new one.
func (s Service) GetFlow(r *http.Request) (Session, error) {
	session, err := s.flowStore.Get(r, s.sn+flowSuffix)
	return Session{s: session}, err
}

// A ServiceOpt configures the provided *Service,
// returning an error if unable to.
type ServiceOpt func(*Service) error

// WithCookie configures the Service to back session storage with chunked cookies.
func WithCookie() ServiceOpt {
	return func(s *Service) error {
		c := NewChunkedStore(s.ak, s.ek)
		c.Options.Secure = s.env.SecureCookies()
		c.MaxAge(s.maxAge)
		s.store = c

		f := NewChunkedStore(s.ak, s.ek)
		f.Options.Secure = s.env.SecureCookies()
		f.MaxAge(int(auth.FlowTTL.Seconds()))
		s.flowStore = f
		return nil
	}
}

// WithMaxAge sets the time-to-live of a session.
//
// Call before other options so this value is available.
//
// Otherwise, the Service uses defaultMaxAge.
func WithMaxAge(secs int) ServiceOpt {
	return func(s *Service) error {
		if secs <= 0 {
			return fmt.Errorf("max age must be positive, got %d", secs)
		}
		s.maxAge = secs
		return nil
	}
}
