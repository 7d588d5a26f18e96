package shopping

import (
	"strings"
	"time"
)

// Website identifies a supported retailer.
type Website string

const (
	WebsiteRamiLevy  Website = "ramilevy"
	WebsiteShufersal Website = "shufersal"
)

var websites = []Website{WebsiteRamiLevy, WebsiteShufersal}

// Websites lists every retailer key in a stable order.
func Websites() []Website {
	out := make([]Website, len(websites))
	copy(out, websites)
	return out
}

// ParseWebsite normalizes a retailer key. The second return is false for unknown keys.
func ParseWebsite(raw string) (Website, bool) {
	candidate := Website(strings.ToLower(strings.TrimSpace(raw)))
	for _, w := range websites {
		if w == candidate {
			return w, true
		}
	}
	return "", false
}

func (w Website) String() string {
	return string(w)
}

// Product is the retailer-neutral product shape. IDs are only unique per retailer.
type Product struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency"`
	ImageURL     string   `json:"image_url,omitempty"`
	Availability bool     `json:"availability"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewCount  *int     `json:"review_count,omitempty"`
	Category     string   `json:"category,omitempty"`
	Brand        string   `json:"brand,omitempty"`
	URL          string   `json:"url,omitempty"`
}

// DiscountTier is a "buy ThresholdQty for BundlePrice" rule. From/To are advisory;
// Active is the upstream's own judgement of whether the sale is running.
type DiscountTier struct {
	ThresholdQty     int
	BundlePrice      float64
	MaxDiscountedQty *int
	ClubOnly         bool
	Active           bool
	From             time.Time
	To               time.Time
}

// CartItem is a single cart line. ID is retailer-prefixed; ProductID is the raw
// upstream id used to rebuild update payloads. Quantity is fractional for
// weighed goods.
type CartItem struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	ProductTitle string  `json:"product_title"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	TotalPrice   float64 `json:"total_price"`
	Variant      string  `json:"variant,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
}

// Cart counts every item in TotalItems but prices only purchasable ones in TotalPrice.
type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems float64    `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
	Currency   string     `json:"currency"`
}

type SearchOptions struct {
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Page     int
}

// Matches applies the category and price filters to a product. Adapters whose
// upstream cannot filter use it on the returned page.
func (o SearchOptions) Matches(p Product) bool {
	if o.Category != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(o.Category)) {
		return false
	}
	if o.MinPrice != nil && p.Price < *o.MinPrice {
		return false
	}
	if o.MaxPrice != nil && p.Price > *o.MaxPrice {
		return false
	}
	return true
}

// SearchResult is one page of products. TotalCount is the upstream total unless
// client-side filters dropped items, in which case it counts this page only.
// HasMore always follows the upstream paging.
type SearchResult struct {
	Products   []Product `json:"products"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	HasMore    bool      `json:"has_more"`
}

// AddToCartOutcome carries either the resulting cart line or, for retailers that
// only acknowledge the mutation, a confirmation message.
type AddToCartOutcome struct {
	Item    *CartItem `json:"item,omitempty"`
	Message string    `json:"message,omitempty"`
}
