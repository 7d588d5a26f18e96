package validators

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/asif-amar/shopping-mcp/internal/shopping"
	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
)

const (
	MaxQueryLength    = 200
	MinQueryLength    = 2
	MaxIDLength       = 100
	MaxCategoryLength = 100
	MaxVariantLength  = 200
	MaxQuantity       = 100
	MaxPrice          = 1_000_000
)

var productIDPatterns = map[shopping.Website]*regexp.Regexp{
	shopping.WebsiteRamiLevy:  regexp.MustCompile(`^\d+$`),
	shopping.WebsiteShufersal: regexp.MustCompile(`^P_\d+$`),
}

func invalid(format string, args ...any) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(format, args...))
}

// ValidateSearchQuery returns the sanitized query.
func ValidateSearchQuery(query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", invalid("search query is required")
	}
	sanitized := SanitizeString(query, MaxQueryLength)
	if sanitized == "" {
		return "", invalid("search query is empty after sanitization")
	}
	if utf8.RuneCountInString(sanitized) < MinQueryLength {
		return "", invalid("search query must be at least %d characters", MinQueryLength)
	}
	return sanitized, nil
}

// ValidateProductID checks length and, for known websites, the retailer's id shape.
// Unknown websites only get the length check.
func ValidateProductID(id, website string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", invalid("product id is required")
	}
	if utf8.RuneCountInString(id) > MaxIDLength {
		return "", invalid("product id must be at most %d characters", MaxIDLength)
	}
	w, ok := shopping.ParseWebsite(website)
	if !ok {
		return id, nil
	}
	if pattern, ok := productIDPatterns[w]; ok && !pattern.MatchString(id) {
		return "", invalid("invalid product id format for %s", w)
	}
	return id, nil
}

func ValidateCartItemID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", invalid("cart item id is required")
	}
	if utf8.RuneCountInString(id) > MaxIDLength {
		return "", invalid("cart item id must be at most %d characters", MaxIDLength)
	}
	if containsDangerous(id) {
		return "", invalid("cart item id contains invalid characters")
	}
	return id, nil
}

// ValidateQuantity accepts whole numbers in [0, 100]. Zero is valid because it
// means "remove" in update flows; add-to-cart enforces >= 1 on the request schema.
func ValidateQuantity(quantity float64) (int, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity != math.Trunc(quantity) {
		return 0, invalid("quantity must be an integer")
	}
	if quantity < 0 {
		return 0, invalid("quantity must not be negative")
	}
	if quantity > MaxQuantity {
		return 0, invalid("quantity must be at most %d", MaxQuantity)
	}
	return int(quantity), nil
}

func ValidatePriceRange(minPrice, maxPrice float64) error {
	for _, v := range []float64{minPrice, maxPrice} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("price bounds must be numbers")
		}
	}
	if minPrice < 0 || maxPrice < 0 {
		return invalid("price bounds must not be negative")
	}
	if minPrice > maxPrice {
		return invalid("minimum price must not exceed maximum price")
	}
	if maxPrice > MaxPrice {
		return invalid("maximum price must be at most %d", MaxPrice)
	}
	return nil
}

// ValidateCategory is optional: an empty input yields "" and no error.
func ValidateCategory(category string) (string, error) {
	return validateOptionalText("category", category, MaxCategoryLength)
}

// ValidateVariant is optional: an empty input yields "" and no error.
func ValidateVariant(variant string) (string, error) {
	return validateOptionalText("variant", variant, MaxVariantLength)
}

func validateOptionalText(field, value string, maxLen int) (string, error) {
	if value == "" {
		return "", nil
	}
	sanitized := SanitizeString(value, maxLen)
	if sanitized == "" {
		return "", invalid("%s is empty after sanitization", field)
	}
	return sanitized, nil
}
