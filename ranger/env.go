package ranger

import (
	"os"
	"strings"

	"github.com/xy-planning-network/relay/logger"
)

// envVarOrLogLevel gets the environment variable from the provided key,
// creates a logger.LogLevel from the retrieved value,
// or returns the provided default logger.LogLevel
// if the value is an unknown logger.LogLevel.
func envVarOrLogLevel(key string, def logger.LogLevel) logger.LogLevel {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	ll := logger.NewLogLevel(val)
	if ll == logger.LogLevelUnk {
		return def
	}

	return ll
}

// envVarOrPort gets the environment variable from the provided key
// as a listen address, prefixing a bare port number with ":".
func envVarOrPort(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}

	if !strings.Contains(val, ":") {
		val = ":" + val
	}

	return val
}

// required collects the names of unset environment variables.
type required []string

// get returns the value of key, noting key when it is unset.
func (req *required) get(key string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		*req = append(*req, key)
	}

	return val
}
