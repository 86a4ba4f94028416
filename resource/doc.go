/*
Package resource is the bearer-protected resource server.

A [Validator] checks RS256 access tokens against the identity provider's published keys,
which a [JWKSource] keeps cached and refreshed in the background.
[Authenticate] turns a valid token into [*Claims] on the request context
and answers everything else with 401 and a WWW-Authenticate challenge.

The server exposes GET /weatherforecast, a sample endpoint any valid token may call.
*/
package resource
