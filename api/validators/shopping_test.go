package validators

import (
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
)

func TestValidateSearchQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "milk", want: "milk"},
		{name: "strips dangerous", input: `  <b>"milk"</b> \ 3% `, want: "bmilk/b  3%"},
		{name: "empty", input: "", wantErr: true},
		{name: "only whitespace", input: "   ", wantErr: true},
		{name: "only dangerous", input: `<>'"\`, wantErr: true},
		{name: "too short", input: " a ", wantErr: true},
		{name: "short after strip", input: "<a>", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateSearchQuery(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if code := pkgerrors.CodeOf(err); code != pkgerrors.CodeValidation {
					t.Fatalf("expected validation code, got %s", code)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidateSearchQueryTruncatesAndIsIdempotent(t *testing.T) {
	long := strings.Repeat("ab ", 150)
	first, err := ValidateSearchQuery(long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len([]rune(first)); n > MaxQueryLength {
		t.Fatalf("expected at most %d runes, got %d", MaxQueryLength, n)
	}

	for _, input := range []string{first, "  חלב 3% ", `"milk" <script>`} {
		once, err := ValidateSearchQuery(input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", input, err)
		}
		twice, err := ValidateSearchQuery(once)
		if err != nil {
			t.Fatalf("unexpected error on second pass for %q: %v", once, err)
		}
		if once != twice {
			t.Fatalf("sanitization not idempotent: %q -> %q", once, twice)
		}
	}
}

func TestValidateProductID(t *testing.T) {
	tests := []struct {
		id      string
		website string
		wantErr bool
	}{
		{"7290000042435", "ramilevy", false},
		{"729-000", "ramilevy", true},
		{"P_12345", "shufersal", false},
		{"12345", "shufersal", true},
		{"anything-goes", "somewhere", false},
		{"", "ramilevy", true},
		{strings.Repeat("1", 101), "ramilevy", true},
		{strings.Repeat("x", 101), "somewhere", true},
	}
	for _, tc := range tests {
		_, err := ValidateProductID(tc.id, tc.website)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ValidateProductID(%q, %q) error = %v, wantErr %v", tc.id, tc.website, err, tc.wantErr)
		}
	}
}

func TestValidateCartItemID(t *testing.T) {
	valid := []string{"rl_123", "rl_123_unavailable", "P_1"}
	for _, id := range valid {
		if _, err := ValidateCartItemID(id); err != nil {
			t.Fatalf("expected %q valid, got %v", id, err)
		}
	}
	invalidIDs := []string{"", "rl<1>", "rl'1", `rl"1`, `rl\1`, strings.Repeat("r", 101)}
	for _, id := range invalidIDs {
		if _, err := ValidateCartItemID(id); err == nil {
			t.Fatalf("expected %q invalid", id)
		}
	}
}

func TestValidateQuantity(t *testing.T) {
	for _, q := range []float64{-1, 101, 2.5, math.NaN(), math.Inf(1)} {
		if _, err := ValidateQuantity(q); err == nil {
			t.Fatalf("expected quantity %v invalid", q)
		}
	}
	for _, q := range []float64{0, 1, 100} {
		got, err := ValidateQuantity(q)
		if err != nil {
			t.Fatalf("expected quantity %v valid, got %v", q, err)
		}
		if float64(got) != q {
			t.Fatalf("expected %v, got %d", q, got)
		}
	}
}

func TestValidatePriceRange(t *testing.T) {
	if err := ValidatePriceRange(10, 5); err == nil {
		t.Fatal("expected min > max invalid")
	}
	if err := ValidatePriceRange(0, 1_000_001); err == nil {
		t.Fatal("expected max above cap invalid")
	}
	if err := ValidatePriceRange(-1, 5); err == nil {
		t.Fatal("expected negative min invalid")
	}
	if err := ValidatePriceRange(math.NaN(), 5); err == nil {
		t.Fatal("expected NaN invalid")
	}
	if err := ValidatePriceRange(0, 1_000_000); err != nil {
		t.Fatalf("expected range valid, got %v", err)
	}
	if err := ValidatePriceRange(5, 5); err != nil {
		t.Fatalf("expected equal bounds valid, got %v", err)
	}
}

func TestValidateCategoryAndVariant(t *testing.T) {
	if got, err := ValidateCategory(""); err != nil || got != "" {
		t.Fatalf("expected empty category accepted, got %q %v", got, err)
	}
	if _, err := ValidateCategory(`<>"`); err == nil {
		t.Fatal("expected category empty after sanitization to fail")
	}
	got, err := ValidateCategory(strings.Repeat("c", 150))
	if err != nil || len(got) != MaxCategoryLength {
		t.Fatalf("expected category capped at %d, got %d %v", MaxCategoryLength, len(got), err)
	}
	got, err = ValidateVariant(" 1L <bottle> ")
	if err != nil || got != "1L bottle" {
		t.Fatalf("unexpected variant %q %v", got, err)
	}
	got, err = ValidateVariant(strings.Repeat("v", 250))
	if err != nil || len(got) != MaxVariantLength {
		t.Fatalf("expected variant capped at %d, got %d %v", MaxVariantLength, len(got), err)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/search?limit=20&page=x", nil)

	limit, err := ParseQueryInt(req, "limit", 10, 1, 50)
	if err != nil || limit != 20 {
		t.Fatalf("expected limit 20, got %d %v", limit, err)
	}
	if _, err := ParseQueryInt(req, "page", 1, 1, 100); err == nil {
		t.Fatal("expected non-numeric page to fail")
	}
	def, err := ParseQueryInt(req, "missing", 7, 1, 100)
	if err != nil || def != 7 {
		t.Fatalf("expected default 7, got %d %v", def, err)
	}
}
