package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/auth"
	"github.com/xy-planning-network/relay/http/client"
	"github.com/xy-planning-network/relay/logger"
)

// maxBody caps how much of a resource server response is read.
const maxBody = 1 << 20

// A Result is a successful response from the resource server.
type Result struct {
	Status int

	// Body is the JSON payload, unmodified.
	Body []byte
}

// A Client forwards requests to the resource server at a base URL.
type Client struct {
	base   *url.URL
	client *http.Client
	logger logger.Logger
}

// A ClientOpt configures a Client.
type ClientOpt func(*Client)

// WithHTTPClient replaces the default client.New(0).
func WithHTTPClient(c *http.Client) ClientOpt {
	return func(cl *Client) {
		if c != nil {
			cl.client = c
		}
	}
}

// WithLogger sets the fallback logger.Logger used when the context carries none.
func WithLogger(l logger.Logger) ClientOpt {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// NewClient constructs a Client forwarding to baseURL.
func NewClient(baseURL string, opts ...ClientOpt) (*Client, error) {
	u, err := url.ParseRequestURI(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q is not absolute", relay.ErrBadConfig, baseURL)
	}

	c := &Client{base: u, client: client.New(0), logger: logger.New()}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Forward calls resourcePath on the resource server on behalf of the user a belongs to.
//
// ctx is the inbound request's context, so an abandoned request cancels the call.
// Every failure is an *Error.
func (c *Client) Forward(ctx context.Context, a auth.Artifact, resourcePath string) (Result, error) {
	if a.AccessToken == "" {
		return Result{}, errUnauthorized()
	}

	l := logger.FromContext(ctx, c.logger)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(resourcePath), nil)
	if err != nil {
		l.Error("building backend request", &logger.LogContext{Error: err})
		return Result{}, errInternal(err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.AccessToken)
	req.Header.Set("Cache-Control", "no-store")

	res, err := c.client.Do(req)
	if err != nil {
		l.Error("contacting backend API", &logger.LogContext{Error: err})
		return Result{}, errInternal(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		l.Error("reading backend response", &logger.LogContext{Error: err})
		return Result{}, errInternal(err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		pe := errUpstream(res, body)
		l.Warn(fmt.Sprintf("backend API error: %s", res.Status), &logger.LogContext{
			Data: map[string]any{"status": res.StatusCode, "body": string(body)},
		})
		return Result{}, pe
	}

	if !json.Valid(body) {
		err := errors.New("backend response is not JSON")
		l.Error(err.Error(), &logger.LogContext{Data: map[string]any{"status": res.StatusCode}})
		return Result{}, errInternal(err)
	}

	return Result{Status: res.StatusCode, Body: body}, nil
}

// resolve joins p onto the base URL's path, keeping p's query.
func (c *Client) resolve(p string) string {
	u := *c.base
	path, query, _ := strings.Cut(p, "?")
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	u.RawQuery = query

	return u.String()
}

// reasonPhrase pulls the reason out of a status line like "404 Not Found".
func reasonPhrase(res *http.Response) string {
	if reason := strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)+" "); reason != "" && reason != res.Status {
		return reason
	}

	return http.StatusText(res.StatusCode)
}
