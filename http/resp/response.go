package resp

import (
	"fmt"
	"net/http"
	"net/url"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	w       http.ResponseWriter
	r       *http.Request
	code    int
	data    any
	details any
	err     error
	msg     string
	url     *url.URL
}

// An ErrorBody is the envelope written by Responder.Error.
type ErrorBody struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		r.code = c
		return nil
	}
}

// Data stores the provided value for writing to the client.
//
// Used with Responder.Json.
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// Details attaches raw to the error envelope as a string, verbatim.
//
// Used with Responder.Error.
func Details(raw []byte) Fn {
	return func(_ Responder, r *Response) error {
		if len(raw) == 0 {
			return nil
		}

		r.details = string(raw)
		return nil
	}
}

// Err sets the status code http.StatusInternalServerError, unless a code is already set,
// and logs the error.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		if e != nil {
			r.err = e
			d.loggerFor(r.r).Error(e.Error(), newLogContext(r.r, e, r.data))
		}

		if r.code == 0 {
			if err := Code(http.StatusInternalServerError)(d, r); err != nil {
				return err
			}
		}

		return nil
	}
}

// Message sets the message of the error envelope.
//
// Used with Responder.Error.
func Message(msg string) Fn {
	return func(_ Responder, r *Response) error {
		r.msg = msg
		return nil
	}
}

// NoStore forbids any cache from storing the response.
func NoStore() Fn {
	return func(_ Responder, r *Response) error {
		r.w.Header().Set("Cache-Control", "no-store")
		return nil
	}
}

// Param adds the query parameter to the response's URL.
//
// Used with Responder.Redirect.
func Param(key, val string) Fn {
	return func(_ Responder, r *Response) error {
		if r.url == nil {
			return fmt.Errorf("%w: Url() has not been called", ErrMissingData)
		}

		q := r.url.Query()
		q.Add(key, val)
		r.url.RawQuery = q.Encode()
		return nil
	}
}

// ToRoot calls URL with the Responder's default, root URL.
func ToRoot() Fn {
	return func(d Responder, r *Response) error {
		if d.rootUrl == nil {
			r.url = &url.URL{Path: "/"}
			return nil
		}

		u := *d.rootUrl
		r.url = &u
		return nil
	}
}

// Url parses raw the URL string and sets it in the *Response if successful.
//
// Used with Responder.Redirect.
func Url(u string) Fn {
	return func(_ Responder, r *Response) error {
		parsed, err := url.ParseRequestURI(u)
		if err != nil {
			return fmt.Errorf("%w: u is not a valid URL: %v", ErrInvalid, err)
		}
		r.url = parsed
		return nil
	}
}
