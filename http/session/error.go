package session

import "errors"

var (
	ErrNotValid   = errors.New("not valid")
	ErrNoArtifact = errors.New("no artifact")
	ErrNoFlow     = errors.New("no sign-in flow")
	ErrTooLarge   = errors.New("session too large")
)
