package transport

import (
	"regexp"
	"sort"
	"unicode/utf8"
)

const (
	MaxArrayLength  = 1000
	MaxObjectKeys   = 100
	MaxStringLength = 10000
	maxDepth        = 32
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptTagPattern   = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
	jsURIPattern       = regexp.MustCompile(`(?i)javascript\s*:`)
)

// SanitizeJSON returns a copy of a decoded JSON tree with script-like content
// stripped and sizes capped. Object keys beyond the cap are dropped in sorted
// order so the result is deterministic.
func SanitizeJSON(v any) any {
	return sanitizeValue(v, 0)
}

func sanitizeValue(v any, depth int) any {
	if depth > maxDepth {
		return nil
	}
	switch val := v.(type) {
	case string:
		return SanitizeString(val)
	case []any:
		n := len(val)
		if n > MaxArrayLength {
			n = MaxArrayLength
		}
		out := make([]any, 0, n)
		for _, item := range val[:n] {
			out = append(out, sanitizeValue(item, depth+1))
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) > MaxObjectKeys {
			keys = keys[:MaxObjectKeys]
		}
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			out[SanitizeString(k)] = sanitizeValue(val[k], depth+1)
		}
		return out
	default:
		return val
	}
}

// SanitizeString strips script blocks and javascript: URIs and caps the length.
func SanitizeString(s string) string {
	out := scriptBlockPattern.ReplaceAllString(s, "")
	out = scriptTagPattern.ReplaceAllString(out, "")
	out = jsURIPattern.ReplaceAllString(out, "")
	if utf8.RuneCountInString(out) > MaxStringLength {
		out = string([]rune(out)[:MaxStringLength])
	}
	return out
}
