package relay

type Key string

const (
	// ArtifactKey stashes the session artifact decoded for an HTTP request.
	ArtifactKey Key = "ArtifactKey"

	// ClaimsKey stashes the validated bearer token claims on the resource server.
	ClaimsKey Key = "ClaimsKey"

	// IpAddrKey stashes the IP address of an HTTP request being handled.
	IpAddrKey Key = "IpAddrKey"

	// LoggerKey stashes the request-scoped logger.
	LoggerKey Key = "LoggerKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the session associated with an HTTP request.
	SessionKey Key = "SessionKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "relay context key: " + string(k)
}
