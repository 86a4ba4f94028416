package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/http/middleware"
)

const assetsPath = "/assets/"

// A Route maps a path and HTTP method to an [http.HandlerFunc].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
type Route struct {
	Path        string
	Method      string
	Handler     http.HandlerFunc
	Middlewares []middleware.Adapter
}

// Router routes requests for resources to their handlers.
type Router struct {
	Env           relay.Environment
	everyReqStack []middleware.Adapter
	logReq        middleware.Adapter
	r             *mux.Router
}

// New constructs a [*Router] for the given environment.
//
// logReq logs requests the Router serves outside of its Routes,
// such as static files and unmatched paths.
func New(env relay.Environment, logReq middleware.Adapter) *Router {
	if logReq == nil {
		logReq = middleware.NoopAdapter
	}

	return &Router{Env: env, logReq: logReq, r: mux.NewRouter()}
}

// Assets serves the files in dir under /assets/ with a long-lived "Cache-Control" header.
func (r *Router) Assets(dir string) {
	r.r.PathPrefix(assetsPath).Handler(middleware.Chain(
		http.StripPrefix(assetsPath, http.FileServer(http.Dir(dir))),
		cacheControlMiddleware(),
		r.logReq,
	))
}

// Client serves the built web client found in dir for every path no other Route matches.
// The middlewares added by OnEveryRequest apply, so a gate placed there protects the client.
//
// Call Client after registering all other Routes.
func (r *Router) Client(dir string) {
	r.r.PathPrefix("/").Methods(http.MethodGet, http.MethodHead).Handler(middleware.Chain(
		middleware.ReportPanic(r.Env)(http.FileServer(http.Dir(dir))),
		r.everyReqStack...,
	))
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [http.HandlerFunc] as the default function
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler http.HandlerFunc) {
	r.r.NotFoundHandler = middleware.Chain(
		middleware.ReportPanic(r.Env)(handler),
		r.logReq,
	)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := make([]middleware.Adapter, 0, len(r.everyReqStack)+len(middlewares)+len(route.Middlewares))
		mws = append(mws, r.everyReqStack...)
		mws = append(mws, middlewares...)
		mws = append(mws, route.Middlewares...)
		handler := middleware.Chain(middleware.ReportPanic(r.Env)(route.Handler), mws...)
		r.r.Handle(route.Path, handler).Methods(route.Method)
	}
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/api/auth") handles requests to endpoints like /api/auth/signin
func (r *Router) Subrouter(prefix string) *Router {
	stack := make([]middleware.Adapter, len(r.everyReqStack))
	copy(stack, r.everyReqStack)

	return &Router{
		Env:           r.Env,
		r:             r.r.PathPrefix(prefix).Subrouter(),
		logReq:        r.logReq,
		everyReqStack: stack,
	}
}

// cacheControlMiddleware helps by adding a "Cache-Control" header to the response.
func cacheControlMiddleware() middleware.Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "max-age=2592000") // 30 days
			handler.ServeHTTP(w, r)
		})
	}
}
