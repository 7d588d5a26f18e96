package shopping

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
	"github.com/asif-amar/shopping-mcp/pkg/transport"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxLabelLength       = 100
	MaxRating            = 5

	DefaultCurrency = "ILS"
)

// SanitizeProduct returns a copy of p that is safe to hand to callers: markup is
// stripped, text is trimmed and length-capped, numbers are clamped and URLs with
// any scheme other than http/https are dropped.
func SanitizeProduct(p Product) Product {
	out := p
	out.ID = strings.TrimSpace(p.ID)
	out.Title = cleanText(p.Title, MaxTitleLength)
	out.Description = cleanText(p.Description, MaxDescriptionLength)
	out.Category = cleanText(p.Category, MaxLabelLength)
	out.Brand = cleanText(p.Brand, MaxLabelLength)
	out.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if out.Currency == "" {
		out.Currency = DefaultCurrency
	}
	out.Price = clampNonNegative(p.Price)
	out.ImageURL = SafeURL(p.ImageURL)
	out.URL = SafeURL(p.URL)

	if p.Rating != nil {
		rating := *p.Rating
		switch {
		case math.IsNaN(rating) || rating < 0:
			rating = 0
		case rating > MaxRating:
			rating = MaxRating
		}
		out.Rating = &rating
	}
	if p.ReviewCount != nil {
		count := *p.ReviewCount
		if count < 0 {
			count = 0
		}
		out.ReviewCount = &count
	}
	return out
}

// SanitizeCartItem applies the same text and URL rules to a cart line.
func SanitizeCartItem(item CartItem) CartItem {
	out := item
	out.ProductTitle = cleanText(item.ProductTitle, MaxTitleLength)
	out.Variant = cleanText(item.Variant, MaxTitleLength)
	out.ImageURL = SafeURL(item.ImageURL)
	out.UnitPrice = clampNonNegative(item.UnitPrice)
	out.TotalPrice = clampNonNegative(item.TotalPrice)
	out.Quantity = clampNonNegative(item.Quantity)
	return out
}

// DecorateTitle appends suffix to a cleaned name, shortening the name rather than
// the suffix so the result stays within MaxTitleLength.
func DecorateTitle(name, suffix string) string {
	suffix = cleanText(suffix, MaxTitleLength)
	if suffix == "" {
		return cleanText(name, MaxTitleLength)
	}
	room := MaxTitleLength - utf8.RuneCountInString(suffix) - 1
	name = cleanText(name, max(room, 0))
	if name == "" {
		return suffix
	}
	return name + " " + suffix
}

// SafeURL keeps absolute http and https URLs and returns "" for anything else.
func SafeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return parsed.String()
	default:
		return ""
	}
}

var (
	htmlTagPattern = regexp.MustCompile(`<[^<>]*>`)
	angleBrackets  = strings.NewReplacer("<", "", ">", "")
)

func cleanText(s string, limit int) string {
	s = htmlTagPattern.ReplaceAllString(transport.SanitizeString(s), " ")
	s = angleBrackets.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:limit]))
}

func clampNonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected failure")
	}
	return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unexpected failure: %v", rec))
}
