package relay

import "errors"

var (
	ErrBadConfig      = errors.New("bad config")
	ErrBadFormat      = errors.New("bad format")
	ErrMissingData    = errors.New("missing data")
	ErrNotExist       = errors.New("not exist")
	ErrNotImplemented = errors.New("not implemented")
	ErrNotValid       = errors.New("invalid")
	ErrUnexpected     = errors.New("unexpected")

	// ErrProviderExchange signals the identity provider rejected an authorization code
	// or could not be reached while exchanging it.
	ErrProviderExchange = errors.New("provider exchange failed")

	// ErrUnauthorized signals a missing, invalid, or expired credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstream signals the resource server answered with a non-2xx status.
	ErrUpstream = errors.New("upstream error")

	// ErrInternal signals a network or parsing failure that is not the caller's fault.
	ErrInternal = errors.New("internal error")
)
