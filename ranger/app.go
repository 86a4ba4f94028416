package ranger

import (
	"context"
	"math/rand"
	"time"

	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/bff"
	"github.com/xy-planning-network/relay/http/client"
	"github.com/xy-planning-network/relay/http/middleware"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/http/router"
	"github.com/xy-planning-network/relay/proxy"
	"github.com/xy-planning-network/relay/resource"
)

// discoveryTimeout bounds fetching an issuer's discovery document at startup.
const discoveryTimeout = 15 * time.Second

// NewBFF assembles the Backend-for-Frontend from cfg.
//
// NewBFF discovers the identity provider's endpoints, so it makes network requests.
// Options passed in are applied after the defaults NewBFF builds.
func NewBFF(ctx context.Context, cfg BFFConfig, opts ...RangerOption) (*Ranger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := defaultLogger(cfg.ServerConfig)
	d := resp.NewResponder(resp.WithLogger(l))

	store, err := defaultSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	pcfg := cfg.Provider
	if pcfg.HTTPClient == nil {
		pcfg.HTTPClient = client.New(client.DefaultTimeout)
	}

	dctx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()

	provider, err := auth.NewProvider(dctx, pcfg)
	if err != nil {
		return nil, err
	}
	l.Info("discovered identity provider at "+pcfg.IssuerURL(), nil)

	api, err := proxy.NewClient(cfg.APIBaseURL, proxy.WithLogger(l))
	if err != nil {
		return nil, err
	}

	h, err := bff.NewHandler(bff.Config{
		Responder: d,
		Relay:     auth.NewRelay(provider),
		Sessions:  store,
		Proxy:     api,
		Logger:    l,
	})
	if err != nil {
		return nil, err
	}

	policy, err := middleware.NewRoutePolicy(middleware.DefaultExemptions...)
	if err != nil {
		return nil, err
	}

	rt := router.New(cfg.Env, middleware.LogRequest(l))
	rt.OnEveryRequest(
		middleware.RateLimit(middleware.NewVisitors()),
		middleware.ForceHTTPS(cfg.Env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.InjectLogger(l),
		middleware.LogRequest(l),
		middleware.InjectSession(store, l),
		middleware.Gate(d, policy, bff.SignInPath, time.Now),
	)
	rt.HandleRoutes(h.Routes())
	rt.HandleNotFound(defaultNotFound(d))
	if cfg.ClientDir != "" {
		rt.Client(cfg.ClientDir)
	}

	defaults := []RangerOption{
		WithContext(ctx),
		WithEnv(cfg.Env),
		WithLogger(l),
		WithServer(defaultServer(ctx, cfg.ServerConfig)),
		WithHandler(rt),
	}

	return New(append(defaults, opts...)...)
}

// NewAPI assembles the resource server from cfg.
//
// Without a JWKS URL, NewAPI discovers it from the issuer, making a network request.
// The signing keys themselves are fetched on first use and refreshed until ctx is cancelled.
func NewAPI(ctx context.Context, cfg APIConfig, opts ...RangerOption) (*Ranger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := defaultLogger(cfg.ServerConfig)
	d := resp.NewResponder(resp.WithLogger(l))
	c := client.New(client.DefaultTimeout)

	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		dctx, cancel := context.WithTimeout(ctx, discoveryTimeout)
		defer cancel()

		var err error
		if jwksURL, err = resource.DiscoverJWKSURL(dctx, cfg.Issuer(), c); err != nil {
			return nil, err
		}
	}
	l.Info("validating tokens issued by "+cfg.Issuer()+" for "+cfg.ClientID, nil)

	keys, err := resource.NewJWKSource(ctx, jwksURL, c)
	if err != nil {
		return nil, err
	}

	v, err := resource.NewValidator(resource.ValidatorConfig{
		Issuer:   cfg.Issuer(),
		ClientID: cfg.ClientID,
		Keys:     keys,
	})
	if err != nil {
		return nil, err
	}

	f := resource.NewForecaster(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
	h := resource.NewHandler(d, v, f, l)

	rt := router.New(cfg.Env, middleware.LogRequest(l))
	rt.OnEveryRequest(
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.InjectLogger(l),
		middleware.LogRequest(l),
	)
	rt.HandleRoutes(h.Routes())
	rt.HandleNotFound(defaultNotFound(d))

	defaults := []RangerOption{
		WithContext(ctx),
		WithEnv(cfg.Env),
		WithLogger(l),
		WithServer(defaultServer(ctx, cfg.ServerConfig)),
		// CORS wraps the router so preflight requests never reach route matching.
		WithHandler(middleware.CORS(cfg.AllowedOrigin)(rt)),
	}

	return New(append(defaults, opts...)...)
}
