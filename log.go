package relay

import "net/url"

const (
	LogMaskVal = "xxxxxx"

	// tokenPrefixLen is how many leading characters of a credential may appear in logs.
	tokenPrefixLen = 10
)

// Mask replaces every value under key in vals with LogMaskVal.
func Mask(vals url.Values, key string) {
	if _, ok := vals[key]; !ok {
		return
	}

	vals[key] = []string{LogMaskVal}
}

// MaskToken shortens a credential to a fixed-length prefix fit for logging.
//
// Credentials no longer than the prefix are masked entirely.
func MaskToken(token string) string {
	if token == "" {
		return "(none)"
	}

	if len(token) <= tokenPrefixLen {
		return LogMaskVal
	}

	return token[:tokenPrefixLen] + "..."
}
