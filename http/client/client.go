// Package client builds the outbound *http.Client relay servers share.
package client

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// DefaultTimeout bounds a whole outbound exchange, reading the body included.
const DefaultTimeout = 10 * time.Second

// New constructs an *http.Client over a pooled transport
// that never shares state with http.DefaultTransport.
//
// A timeout of zero or less uses DefaultTimeout.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Transport: cleanhttp.DefaultPooledTransport(),
		Timeout:   timeout,
	}
}
