package errors

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	redactedMarker   = "[REDACTED]"
	maxRedactedRunes = 500
	envNamePrefix    = "SHOPPING_"
)

var (
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+\S+`)

	// Env variable names match as a whole first and are left intact.
	sensitivePattern = regexp.MustCompile(`\b` + envNamePrefix + `[A-Z0-9_]+\b|(?i:(?:api[\s_-]?key|token|password|secret|credential)s?)`)
)

// Redact masks credential-looking substrings and caps the message at 500 characters.
// Everything that leaves the process as an error string goes through here.
func Redact(msg string) string {
	if msg == "" {
		return msg
	}
	out := bearerPattern.ReplaceAllString(msg, redactedMarker)
	out = sensitivePattern.ReplaceAllStringFunc(out, func(match string) string {
		if strings.HasPrefix(match, envNamePrefix) {
			return match
		}
		return redactedMarker
	})
	if utf8.RuneCountInString(out) <= maxRedactedRunes {
		return out
	}
	runes := []rune(out)
	return string(runes[:maxRedactedRunes-3]) + "..."
}

// RedactError is Redact over err.Error(); nil yields "".
func RedactError(err error) string {
	if err == nil {
		return ""
	}
	return Redact(err.Error())
}
