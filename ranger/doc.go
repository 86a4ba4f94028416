/*
Package ranger initializes and manages relay's servers with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type.
[NewBFF] and [NewAPI] assemble a [Ranger] for the Backend-for-Frontend and the resource server
from a [BFFConfig] or [APIConfig], which [LoadBFFConfig] and [LoadAPIConfig] read from the environment.

[*Ranger.Guide] begins the web server.
Stop that web server with [*Ranger.Shutdown],
cancel the context.Context passed to [WithContext],
or send a signal [*Ranger.Guide] listens for.

# Configuration

Environment variables ought to be set in a file called ".env"
found at the same directory the server is executed from.

Both servers read:
  - ENVIRONMENT: the environment the server is running in; default: DEVELOPMENT; cf. [relay.Environment]
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - PORT: the port the server should listen on
  - SENTRY_DSN: the Sentry DSN warnings and errors are reported to
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout for writing HTTP responses; default: 15s

The BFF reads:
  - API_BASE_URL: the resource server's origin; required
  - AUTH_ISSUER: the OpenID Connect issuer; replaces AUTH_MICROSOFT_ENTRA_ID_TENANT_ID
  - AUTH_MICROSOFT_ENTRA_ID_BACKEND_CLIENT_ID: the resource server's client ID, naming the API scope requested at sign-in
  - AUTH_MICROSOFT_ENTRA_ID_ID: the BFF's client ID; required
  - AUTH_MICROSOFT_ENTRA_ID_SECRET: the BFF's client secret; required
  - AUTH_MICROSOFT_ENTRA_ID_TENANT_ID: the Entra ID tenant users sign in to
  - AUTH_SECRET: the secret session cookie keys are derived from; required
  - BACKEND_API_SCOPE: the API scope requested at sign-in; replaces AUTH_MICROSOFT_ENTRA_ID_BACKEND_CLIENT_ID
  - BASE_URL: the origin browsers reach the BFF at; default: http://localhost:3000
  - CLIENT_DIST_DIR: a directory holding a built web client to serve
  - PORT: default: :3000
  - SESSION_MAX_AGE: the lifetime of a session cookie in seconds; default: 30 days

The resource server reads:
  - AZURE_AD_AUTHORITY: the issuer tokens must carry; replaces AZURE_AD_TENANT_ID
  - AZURE_AD_CLIENT_ID: the resource server's client ID, which tokens must name as audience; required
  - AZURE_AD_JWKS_URL: where signing keys are published; default: discovered from the issuer
  - AZURE_AD_TENANT_ID: the Entra ID tenant whose tokens are accepted
  - CORS_ALLOWED_ORIGIN: the web client's origin; default: http://localhost:3000
  - PORT: default: :5000
*/
package ranger
