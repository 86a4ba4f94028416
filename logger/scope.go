package logger

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/relay"
)

// A Scope is a Logger bound to the values of a single request.
//
// Every LogContext passed to a Scope is layered over the bound values,
// so handlers need not repeat the request or its ID on each call.
type Scope struct {
	base Logger
	lc   LogContext
}

// NewScope binds r and requestID to l.
func NewScope(l Logger, r *http.Request, requestID string) *Scope {
	if sl, ok := l.(SkipLogger); ok {
		l = sl.AddSkip(sl.Skip() + 1)
	}

	return &Scope{base: l, lc: LogContext{Request: r, RequestID: requestID}}
}

// WithUser returns a copy of the Scope also bound to u.
func (s *Scope) WithUser(u LogUser) *Scope {
	cp := *s
	cp.lc.User = u
	return &cp
}

// Debug writes a debug log.
func (s *Scope) Debug(msg string, ctx *LogContext) { s.base.Debug(msg, ctx.merge(s.lc)) }

// Error writes an error log.
func (s *Scope) Error(msg string, ctx *LogContext) { s.base.Error(msg, ctx.merge(s.lc)) }

// Fatal writes a fatal log.
func (s *Scope) Fatal(msg string, ctx *LogContext) { s.base.Fatal(msg, ctx.merge(s.lc)) }

// Info writes an info log.
func (s *Scope) Info(msg string, ctx *LogContext) { s.base.Info(msg, ctx.merge(s.lc)) }

// Warn writes a warning log.
func (s *Scope) Warn(msg string, ctx *LogContext) { s.base.Warn(msg, ctx.merge(s.lc)) }

// LogLevel returns the LogLevel of the underlying Logger.
func (s *Scope) LogLevel() LogLevel { return s.base.LogLevel() }

// NewContext stores l in ctx.
func NewContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, relay.LoggerKey, l)
}

// FromContext retrieves the Logger stored in ctx,
// falling back to fallback when none is present.
func FromContext(ctx context.Context, fallback Logger) Logger {
	if l, ok := ctx.Value(relay.LoggerKey).(Logger); ok && l != nil {
		return l
	}

	return fallback
}
