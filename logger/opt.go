package logger

import "log"

// A LoggerOptFn is a functional option configuring a RelayLogger when constructing a new one.
type LoggerOptFn func(*RelayLogger)

// WithEnv sets the environment RelayLogger is operating in.
func WithEnv(env string) LoggerOptFn {
	return func(l *RelayLogger) {
		l.env = env
	}
}

// WithLevel sets the log level RelayLogger uses.
// An unknown level leaves the default in place.
func WithLevel(level LogLevel) LoggerOptFn {
	return func(l *RelayLogger) {
		if level == LogLevelUnk {
			return
		}
		l.ll = level
	}
}

// WithLogger sets the log.Logger RelayLogger uses.
func WithLogger(log *log.Logger) LoggerOptFn {
	return func(l *RelayLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) LoggerOptFn {
	return func(l *RelayLogger) {
		l.skip = skip
	}
}
