/*
Package proxy relays a signed-in user's request to the resource server.

A [Client] reads the access token out of an [auth.Artifact],
presents it as a bearer credential, and hands back the resource server's
JSON unmodified. The browser never sees the token.

Failures come back as an [*Error] whose Kind decides the response:

  - Unauthorized: the artifact holds no access token; no request is made
  - Upstream: the resource server answered with a non-2xx status, which is forwarded
  - Internal: the request failed or the body was not JSON
*/
package proxy
