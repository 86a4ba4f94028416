package proxy

import (
	"fmt"
	"net/http"

	"github.com/xy-planning-network/relay"
)

// A Kind classifies why a Forward failed.
type Kind string

const (
	Unauthorized Kind = "unauthorized"
	Upstream     Kind = "upstream"
	Internal     Kind = "internal"
)

const (
	unauthorizedMsg = "Unauthorized: Missing authentication token or backend access token."
	upstreamMsgTmpl = "Error from backend API: %s"
	internalMsg     = "Internal Server Error while contacting backend API"
)

// An Error describes a failed Forward in terms fit for the browser.
//
// Message and Details are safe to respond with.
// The cause, if any, is only for logging.
type Error struct {
	Kind    Kind
	Status  int
	Message string

	// Details is the resource server's raw response body.
	Details []byte

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.cause)
	}

	return e.Message
}

// Unwrap exposes the relay sentinel matching e.Kind, along with the cause.
func (e *Error) Unwrap() []error {
	var sentinel error
	switch e.Kind {
	case Unauthorized:
		sentinel = relay.ErrUnauthorized
	case Upstream:
		sentinel = relay.ErrUpstream
	default:
		sentinel = relay.ErrInternal
	}

	if e.cause == nil {
		return []error{sentinel}
	}

	return []error{sentinel, e.cause}
}

func errUnauthorized() *Error {
	return &Error{Kind: Unauthorized, Status: http.StatusUnauthorized, Message: unauthorizedMsg}
}

func errUpstream(res *http.Response, body []byte) *Error {
	return &Error{
		Kind:    Upstream,
		Status:  res.StatusCode,
		Message: fmt.Sprintf(upstreamMsgTmpl, reasonPhrase(res)),
		Details: body,
	}
}

func errInternal(cause error) *Error {
	return &Error{Kind: Internal, Status: http.StatusInternalServerError, Message: internalMsg, cause: cause}
}
