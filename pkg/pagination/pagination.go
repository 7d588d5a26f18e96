package pagination

const (
	// DefaultLimit is the page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many products one search page can request upstream.
	MaxLimit = 50
)

// Params holds 1-based page pagination inputs.
type Params struct {
	Limit int
	Page  int
}

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize returns params with the limit bounded and the page at least 1.
func Normalize(limit, page int) Params {
	return Params{Limit: NormalizeLimit(limit), Page: max(page, 1)}
}

// Offset is the zero-based index of the first row on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// HasMore reports whether rows remain after this page given a total row count.
func (p Params) HasMore(total int) bool {
	return p.Page*p.Limit < total
}

// Truncate caps items at the page size.
func Truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
