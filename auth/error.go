package auth

import "errors"

var (
	ErrFlowExpired   = errors.New("sign-in flow expired")
	ErrNoIDToken     = errors.New("no id_token in token response")
	ErrNonceMismatch = errors.New("nonce mismatch")
	ErrStateMismatch = errors.New("state mismatch")
)
