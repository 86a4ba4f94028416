/*
Package router wraps [mux.Router] with relay's middleware conventions.

A [Router] leverages a standardized data model - a [Route] -
when registering how requests should be routed.
A path and an HTTP method comprise a [Route].
An implementation of [http.Handler] is the function called when a request matches a Route.
Before a request gets to a handler, though,
the middlewares added through OnEveryRequest are called, followed by those on the Route,
in the order they appear.

Many routes share identical middleware stacks,
and small errors registering a route can expose a resource unintentionally.
A [Router] registers many logically associated Routes in a single call through HandleRoutes.

Beyond Routes, a [Router] can serve a directory of static assets through Assets
and the built web client through Client.
*/
package router
