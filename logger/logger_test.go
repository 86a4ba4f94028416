package logger_test

import (
	"bytes"
	"io"
	"log"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay/logger"
)

var (
	logLevelRegexp = regexp.MustCompile(`\[[A-Z]+\]`)
	fpRegexp       = regexp.MustCompile(`logger/[a-z_]+\.go:\d+`)
	msgRegexp      = regexp.MustCompile(`'(.*)'`)
)

func newTestLogger(w io.Writer) *log.Logger {
	return log.New(w, "", 0)
}

func TestNewLogLevel(t *testing.T) {
	tcs := []struct {
		in       string
		expected logger.LogLevel
	}{
		{"DEBUG", logger.LogLevelDebug},
		{"INFO", logger.LogLevelInfo},
		{"WARN", logger.LogLevelWarn},
		{"ERROR", logger.LogLevelError},
		{"FATAL", logger.LogLevelFatal},
		{"verbose", logger.LogLevelUnk},
	}

	for _, tc := range tcs {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.expected, logger.NewLogLevel(tc.in))
		})
	}
}

func TestRelayLoggerLevels(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	l := logger.New(logger.WithLogger(newTestLogger(buf)), logger.WithLevel(logger.LogLevelWarn))

	// Act
	l.Debug("quiet", nil)
	l.Info("quiet", nil)

	// Assert
	require.Empty(t, buf.String())

	// Act
	l.Warn("loud", nil)

	// Assert
	out := buf.String()
	require.Equal(t, "[WARN]", logLevelRegexp.FindString(out))
	require.Equal(t, "'loud'", msgRegexp.FindString(out))
	require.Regexp(t, fpRegexp, out)
}

func TestRelayLoggerUnknownLevelKeepsDefault(t *testing.T) {
	// Arrange + Act
	l := logger.New(logger.WithLevel(logger.NewLogLevel("nope")))

	// Assert
	require.Equal(t, logger.LogLevelInfo, l.LogLevel())
}

func TestRelayLoggerCaller(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	l := logger.New(logger.WithLogger(newTestLogger(buf)))

	// Act
	l.Info("with caller", &logger.LogContext{Caller: "somewhere/else.go:12"})

	// Assert
	require.Contains(t, buf.String(), "somewhere/else.go:12")
	require.NotContains(t, buf.String(), "log_context: {\"")
}

func TestRelayLoggerAddSkip(t *testing.T) {
	// Arrange
	l := logger.New()

	// Act
	sl := l.AddSkip(3)

	// Assert
	require.Equal(t, 0, l.Skip())
	require.Equal(t, 3, sl.Skip())
}

func TestNewSentryLoggerWithoutDSN(t *testing.T) {
	// Arrange
	l := logger.New()

	// Act
	got := logger.NewSentryLogger(l, "")

	// Assert
	require.Same(t, l, got)
}
