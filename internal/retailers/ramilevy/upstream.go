package ramilevy

import (
	"math"

	"github.com/asif-amar/shopping-mcp/internal/shopping"
)

// Wire shapes. Upstream sends numbers as strings often enough that everything
// goes through transport.Decode's weak typing.

type catalogResponse struct {
	Data  []catalogItem `json:"data"`
	Total int           `json:"total"`
}

type catalogItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Brand       string      `json:"brand"`
	Price       priceField  `json:"price"`
	Images      imagesField `json:"images"`
	Department  nameField   `json:"department"`
	InStock     *bool       `json:"in_stock"`
	Sale        []saleEntry `json:"sale"`
}

type priceField struct {
	Price float64 `json:"price"`
}

type imagesField struct {
	Small    string `json:"small"`
	Original string `json:"original"`
}

type nameField struct {
	Name string `json:"name"`
}

type saleEntry struct {
	Active   *bool   `json:"active"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	MaxInDoc float64 `json:"max_in_doc"`
	Club     bool    `json:"club"`
	From     string  `json:"from"`
	To       string  `json:"to"`
}

type cartResponse struct {
	Items []cartLine `json:"items"`
}

type cartLine struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Quantity float64     `json:"quantity"`
	Price    float64     `json:"price"`
	Image    string      `json:"image"`
	Stores   []string    `json:"stores"`
	Sale     []saleEntry `json:"sale"`
}

type cartPush struct {
	Store  string             `json:"store"`
	IsClub int                `json:"isClub"`
	Items  map[string]float64 `json:"items"`
}

// tiers converts sale entries. Entries without an explicit active flag are
// treated as running; a non-positive cap means uncapped.
func tiers(entries []saleEntry) []shopping.DiscountTier {
	if len(entries) == 0 {
		return nil
	}
	out := make([]shopping.DiscountTier, 0, len(entries))
	for _, e := range entries {
		tier := shopping.DiscountTier{
			ThresholdQty: int(math.Round(e.Quantity)),
			BundlePrice:  e.Price,
			ClubOnly:     e.Club,
			Active:       e.Active == nil || *e.Active,
			From:         parseDate(e.From),
			To:           parseDate(e.To),
		}
		if e.MaxInDoc > 0 {
			capQty := int(math.Round(e.MaxInDoc))
			tier.MaxDiscountedQty = &capQty
		}
		out = append(out, tier)
	}
	return out
}

// quantityOf keeps the upstream amount as is; only unusable values become zero.
func quantityOf(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}
	return raw
}

func isWholeUnits(qty float64) bool {
	return qty == math.Trunc(qty) && qty <= math.MaxInt32
}
