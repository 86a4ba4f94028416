/*
Package logger provides logging for the relay services by defining the required behavior in [Logger]
and providing an implementation of it with [RelayLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
An implementation of Logger may be initialized at a certain [LogLevel]
and only emit messages at or above that level of importance.
For example, [RelayLogger] accepts a [LogLevel],
and if initialized with [LogLevelWarn],
only [*RelayLogger.Warn], [*RelayLogger.Error], and [*RelayLogger.Fatal] produce messages.

# RelayLogger

Log messages emitted by [RelayLogger] are composed of a few parts:
	- timestamp
	- log level
	- call site
	- message
	- log context

Here's an example:
	2026/04/28 15:55:21 [INFO] proxy/proxy.go:71 'backend responded' log_context: {"requestId":"9b1d...","data":{"status":200}}

The log context is a JSON-encoded [*LogContext].
Authorization, Cookie, and Set-Cookie headers are masked,
as are OAuth values such as code and state found in a query string or form.

# Scope

A [Scope] binds a request and its ID to a Logger.
Middleware places a Scope in the request context with [NewContext];
handlers retrieve it with [FromContext].

# SkipLogger

Sometimes, especially with internal packages, the file and line number in a log needs to be configurable.
[SkipLogger] provides additional configuration functionality by setting the number of frames to skip
back in order to reach the desired caller.
*/
package logger
