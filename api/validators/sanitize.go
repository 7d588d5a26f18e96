package validators

import (
	"strings"
	"unicode/utf8"
)

// dangerousChars are removed from free text before it reaches a retailer.
const dangerousChars = `<>'"\`

var stripDangerous = strings.NewReplacer("<", "", ">", "", "'", "", `"`, "", `\`, "")

// SanitizeString strips dangerous characters, trims and caps input at maxLen runes.
// The result is trimmed again after truncation so sanitizing twice is a no-op.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(stripDangerous.Replace(input))
	if maxLen > 0 && utf8.RuneCountInString(trimmed) > maxLen {
		trimmed = strings.TrimSpace(string([]rune(trimmed)[:maxLen]))
	}
	return trimmed
}

func containsDangerous(s string) bool {
	return strings.ContainsAny(s, dangerousChars)
}
