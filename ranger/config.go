package ranger

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/bff"
	"github.com/xy-planning-network/relay/logger"
	"github.com/xy-planning-network/relay/resource"
)

const (
	// Shared
	environmentEnvVar         = "ENVIRONMENT"
	logLevelEnvVar            = "LOG_LEVEL"
	portEnvVar                = "PORT"
	sentryDsnEnvVar           = "SENTRY_DSN"
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 15 * time.Second

	// BFF
	entraClientIDEnvVar        = "AUTH_MICROSOFT_ENTRA_ID_ID"
	entraSecretEnvVar          = "AUTH_MICROSOFT_ENTRA_ID_SECRET"
	entraTenantEnvVar          = "AUTH_MICROSOFT_ENTRA_ID_TENANT_ID"
	entraBackendClientIDEnvVar = "AUTH_MICROSOFT_ENTRA_ID_BACKEND_CLIENT_ID"
	issuerEnvVar               = "AUTH_ISSUER"
	apiScopeEnvVar             = "BACKEND_API_SCOPE"
	authSecretEnvVar           = "AUTH_SECRET"
	apiBaseURLEnvVar           = "API_BASE_URL"
	baseURLEnvVar              = "BASE_URL"
	DefaultBaseURL             = "http://localhost:3000"
	clientDirEnvVar            = "CLIENT_DIST_DIR"
	sessionMaxAgeEnvVar        = "SESSION_MAX_AGE"
	DefaultSessionMaxAge       = 30 * 24 * 60 * 60
	DefaultBFFPort             = ":3000"
	DefaultSessionName         = "relay"

	// Resource server
	azureClientIDEnvVar  = "AZURE_AD_CLIENT_ID"
	azureTenantEnvVar    = "AZURE_AD_TENANT_ID"
	azureAuthorityEnvVar = "AZURE_AD_AUTHORITY"
	azureJWKSURLEnvVar   = "AZURE_AD_JWKS_URL"
	corsOriginEnvVar     = "CORS_ALLOWED_ORIGIN"
	DefaultCORSOrigin    = "http://localhost:3000"
	DefaultAPIPort       = ":5000"
)

// A ServerConfig holds the settings both servers share.
type ServerConfig struct {
	Env       relay.Environment
	LogLevel  logger.LogLevel
	SentryDSN string

	// Addr is the address the server listens on, e.g., ":3000".
	Addr         string
	IdleTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func loadServerConfig(defaultAddr string) ServerConfig {
	return ServerConfig{
		Env:          relay.EnvVarOrEnv(environmentEnvVar, relay.Development),
		LogLevel:     envVarOrLogLevel(logLevelEnvVar, logger.LogLevelInfo),
		SentryDSN:    relay.EnvVarOrString(sentryDsnEnvVar, ""),
		Addr:         envVarOrPort(portEnvVar, defaultAddr),
		IdleTimeout:  relay.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  relay.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: relay.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
}

// A BFFConfig provides everything the BFF server needs.
type BFFConfig struct {
	ServerConfig

	// Provider configures sign-in. Its RedirectURL is derived from BaseURL.
	Provider auth.Config

	// AuthSecret is expanded into the keys protecting session cookies.
	AuthSecret string

	// APIBaseURL is the resource server's origin.
	APIBaseURL string

	// BaseURL is the origin browsers reach the BFF at.
	BaseURL *url.URL

	// ClientDir optionally holds a built web client to serve.
	ClientDir string

	// SessionMaxAge is how long, in seconds, a session cookie lives.
	SessionMaxAge int
}

// LoadBFFConfig reads a BFFConfig from the environment.
//
// Environment variables set in a .env file in the working directory are available.
func LoadBFFConfig() (BFFConfig, error) {
	var req required

	cfg := BFFConfig{
		ServerConfig: loadServerConfig(DefaultBFFPort),
		Provider: auth.Config{
			ClientID:     req.get(entraClientIDEnvVar),
			ClientSecret: req.get(entraSecretEnvVar),
			Issuer:       relay.EnvVarOrString(issuerEnvVar, ""),
			APIScope:     relay.EnvVarOrString(apiScopeEnvVar, ""),
		},
		AuthSecret:    req.get(authSecretEnvVar),
		APIBaseURL:    req.get(apiBaseURLEnvVar),
		BaseURL:       relay.EnvVarOrURL(baseURLEnvVar, DefaultBaseURL),
		ClientDir:     relay.EnvVarOrString(clientDirEnvVar, ""),
		SessionMaxAge: relay.EnvVarOrInt(sessionMaxAgeEnvVar, DefaultSessionMaxAge),
	}

	if cfg.Provider.Issuer == "" {
		cfg.Provider.TenantID = req.get(entraTenantEnvVar)
	}
	if cfg.Provider.APIScope == "" {
		cfg.Provider.BackendClientID = req.get(entraBackendClientIDEnvVar)
	}

	if len(req) > 0 {
		return cfg, fmt.Errorf("%w: missing %s", relay.ErrBadConfig, strings.Join(req, ", "))
	}

	if cfg.BaseURL == nil {
		return cfg, fmt.Errorf("%w: %s is not a URL", relay.ErrBadConfig, baseURLEnvVar)
	}
	cfg.Provider.RedirectURL = cfg.BaseURL.JoinPath(bff.CallbackPath).String()

	return cfg, cfg.Validate()
}

// Validate reports the first problem with c.
func (c BFFConfig) Validate() error {
	if err := c.Env.Valid(); err != nil {
		return fmt.Errorf("%w: %q is not a valid environment", relay.ErrBadConfig, c.Env)
	}

	if c.AuthSecret == "" {
		return fmt.Errorf("%w: missing %s", relay.ErrBadConfig, authSecretEnvVar)
	}

	if u, err := url.ParseRequestURI(c.APIBaseURL); err != nil || u.Host == "" {
		return fmt.Errorf("%w: %s %q is not absolute", relay.ErrBadConfig, apiBaseURLEnvVar, c.APIBaseURL)
	}

	if c.BaseURL == nil || c.BaseURL.Host == "" {
		return fmt.Errorf("%w: %s is not absolute", relay.ErrBadConfig, baseURLEnvVar)
	}

	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", relay.ErrBadConfig, sessionMaxAgeEnvVar, c.SessionMaxAge)
	}

	return nil
}

// An APIConfig provides everything the resource server needs.
type APIConfig struct {
	ServerConfig

	// ClientID is the resource server's app registration.
	ClientID string

	// TenantID selects the Entra ID tenant whose tokens are accepted
	// when Authority is empty.
	TenantID string

	// Authority overrides the issuer tokens must carry.
	Authority string

	// JWKSURL skips discovering the issuer's signing keys.
	JWKSURL string

	// AllowedOrigin is the web client's origin permitted by CORS.
	AllowedOrigin string
}

// LoadAPIConfig reads an APIConfig from the environment.
//
// Environment variables set in a .env file in the working directory are available.
func LoadAPIConfig() (APIConfig, error) {
	var req required

	cfg := APIConfig{
		ServerConfig:  loadServerConfig(DefaultAPIPort),
		ClientID:      req.get(azureClientIDEnvVar),
		Authority:     relay.EnvVarOrString(azureAuthorityEnvVar, ""),
		JWKSURL:       relay.EnvVarOrString(azureJWKSURLEnvVar, ""),
		AllowedOrigin: relay.EnvVarOrString(corsOriginEnvVar, DefaultCORSOrigin),
	}

	if cfg.Authority == "" {
		cfg.TenantID = req.get(azureTenantEnvVar)
	}

	if len(req) > 0 {
		return cfg, fmt.Errorf("%w: missing %s", relay.ErrBadConfig, strings.Join(req, ", "))
	}

	return cfg, cfg.Validate()
}

// Issuer is the exact "iss" accepted tokens carry.
func (c APIConfig) Issuer() string {
	if c.Authority != "" {
		return strings.TrimSuffix(c.Authority, "/")
	}

	return resource.IssuerFor(c.TenantID)
}

// Validate reports the first problem with c.
func (c APIConfig) Validate() error {
	if err := c.Env.Valid(); err != nil {
		return fmt.Errorf("%w: %q is not a valid environment", relay.ErrBadConfig, c.Env)
	}

	if c.ClientID == "" {
		return fmt.Errorf("%w: missing %s", relay.ErrBadConfig, azureClientIDEnvVar)
	}

	if c.Authority == "" && c.TenantID == "" {
		return fmt.Errorf("%w: missing %s or %s", relay.ErrBadConfig, azureTenantEnvVar, azureAuthorityEnvVar)
	}

	if c.JWKSURL != "" {
		if u, err := url.ParseRequestURI(c.JWKSURL); err != nil || u.Host == "" {
			return fmt.Errorf("%w: %s %q is not absolute", relay.ErrBadConfig, azureJWKSURLEnvVar, c.JWKSURL)
		}
	}

	return nil
}
