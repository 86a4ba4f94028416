/*
The middleware package defines what a middleware is in relay and a set of basic middlewares.

The available middlewares are:
  - AuthorizeApplicator
  - CORS
  - ForceHTTPS
  - Gate
  - InjectIPAddress
  - InjectLogger
  - InjectSession
  - LogRequest
  - RateLimit
  - ReportPanic
  - RequestID

The BFF chains them like so:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.ReportPanic(env),
		middleware.RateLimit(vs),
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.InjectLogger(log),
		middleware.LogRequest(log),
		middleware.InjectSession(sessionStore, log),
		middleware.Gate(responder, policy, "/api/auth/signin", time.Now),
	}
*/
package middleware
