package logger

import (
	"encoding"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strings"

	"github.com/xy-planning-network/relay"
)

var (
	_ encoding.TextMarshaler = LogContext{}

	// scrubbedHeaders carry credentials and never reach a log line.
	scrubbedHeaders = []string{"Authorization", "Cookie", "Set-Cookie"}

	// scrubbedParams carry single-use OAuth values and never reach a log line.
	scrubbedParams = []string{"code", "state", "token", "id_token", "access_token", "refresh_token"}
)

// LogUser is the interface exposing attributes of a user to a LogContext.
type LogUser interface {
	// GetID retrieves the identity provider's subject for a user.
	GetID() string

	// GetEmail retrieves the email address of the user.
	// If not available, an ID should be returned.
	GetEmail() string
}

// A LogContext provides additional information and configuration
// for a [Logger] method that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller overrides the caller file and line number with the provided value.
	//
	// Caller is not logged in the text of a LogContext.
	Caller string

	// Data is any information pertinent at the time of the logging event.
	Data map[string]any

	// Error is the error that may or may not have instigated a logging event.
	Error error

	// Request is the *http.Request that may or may not have been open during the logging event.
	Request *http.Request

	// RequestID correlates every logging event emitted while handling one request.
	RequestID string

	// LogUser is the user whose session was active during the logging event.
	User LogUser
}

// merge layers lc over base, preferring values set on lc.
// Data maps are combined key by key.
func (lc *LogContext) merge(base LogContext) *LogContext {
	out := base
	if lc == nil {
		return &out
	}

	if lc.Caller != "" {
		out.Caller = lc.Caller
	}

	if lc.Error != nil {
		out.Error = lc.Error
	}

	if lc.Request != nil {
		out.Request = lc.Request
	}

	if lc.RequestID != "" {
		out.RequestID = lc.RequestID
	}

	if lc.User != nil {
		out.User = lc.User
	}

	if len(base.Data) > 0 || len(lc.Data) > 0 {
		out.Data = make(map[string]any, len(base.Data)+len(lc.Data))
		for k, v := range base.Data {
			out.Data[k] = v
		}
		for k, v := range lc.Data {
			out.Data[k] = v
		}
	}

	return &out
}

// MarshalText converts LogContext into a JSON representation,
// eliminating zero-value fields or fields not requiring logging.
//
// Credential-bearing headers and OAuth query or form values are masked.
//
// Values in LogContext.Data that cannot be represented in JSON will cause an error to be thrown.
//
// MarshalText implements [encoding.TextMarshaler].
func (lc LogContext) MarshalText() ([]byte, error) {
	m := make(map[string]any)
	if lc.Data != nil {
		m["data"] = lc.Data
	}

	if lc.Error != nil {
		m["error"] = lc.Error.Error()
	}

	if lc.RequestID != "" {
		m["requestId"] = lc.RequestID
	}

	if lc.Request != nil {
		r := make(map[string]any)
		r["method"] = lc.Request.Method
		r["url"] = scrubURL(lc.Request.URL)
		r["header"] = scrubHeader(lc.Request.Header)

		if lc.Request.Form != nil {
			r["form"] = scrubValues(lc.Request.Form)
		}

		m["request"] = r
	}

	if lc.User != nil {
		u := make(map[string]any)
		if id := lc.User.GetID(); id != "" {
			u["id"] = id
		}
		if email := lc.User.GetEmail(); email != "" {
			u["email"] = email
		}
		if len(u) > 0 {
			m["user"] = u
		}
	}

	return json.Marshal(m)
}

// String stringifies LogContext as a JSON representation of it.
func (lc LogContext) String() string {
	b, err := lc.MarshalText()
	if err != nil {
		return ""
	}
	return string(b)
}

// CurrentCaller retrieves the caller for the caller of CurrentCaller,
// formatted for using as a value in LogContext.Caller.
func CurrentCaller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf(callerTmpl, immediateFilepath(file), line)
}

func scrubHeader(h http.Header) http.Header {
	out := h.Clone()
	if out == nil {
		return http.Header{}
	}

	for _, key := range scrubbedHeaders {
		if out.Get(key) != "" {
			out.Set(key, relay.LogMaskVal)
		}
	}

	return out
}

func scrubURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	cp := *u
	q := cp.Query()
	if len(q) > 0 {
		cp.RawQuery = scrubValues(q).Encode()
	}

	return cp.String()
}

func scrubValues(vals url.Values) url.Values {
	out := make(url.Values, len(vals))
	for k, v := range vals {
		out[k] = append([]string(nil), v...)
	}

	for _, key := range scrubbedParams {
		relay.Mask(out, key)
	}

	return out
}

// immediateFilepath trims a file path down to its parent directory and file name.
func immediateFilepath(file string) string {
	parts := strings.Split(file, "/")
	if len(parts) < 2 {
		return file
	}

	return strings.Join(parts[len(parts)-2:], "/")
}
