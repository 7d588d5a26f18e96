package ramilevy

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/asif-amar/shopping-mcp/internal/shopping"
)

// PriceQuote is what a shopper actually pays for a cart line.
type PriceQuote struct {
	UnitPrice      float64
	TotalPrice     float64
	SaleAnnotation string
	// Discounted reports whether a tier was applied. A potential-sale hint
	// alone leaves it false.
	Discounted bool
}

// CalculateBestPrice picks the cheapest applicable bundle tier for quantity units.
// Units that do not fill a whole bundle, and units beyond a tier's cap, are charged
// at the regular price. Club-only tiers are applied like any other and only
// flagged in the annotation, since membership is not known here.
func CalculateBestPrice(regularUnitPrice float64, quantity int, tiers []shopping.DiscountTier) PriceQuote {
	if quantity < 0 {
		quantity = 0
	}
	regularTotal := regularUnitPrice * float64(quantity)
	regular := PriceQuote{UnitPrice: regularUnitPrice, TotalPrice: regularTotal}
	if quantity == 0 || len(tiers) == 0 {
		return regular
	}

	var (
		best      *shopping.DiscountTier
		bestTotal = regularTotal
	)
	for i := range tiers {
		tier := &tiers[i]
		if !tierValid(tier) || quantity < tier.ThresholdQty {
			continue
		}
		total := tierTotal(regularUnitPrice, quantity, tier)
		if total < bestTotal {
			best = tier
			bestTotal = total
		}
	}

	if best != nil {
		return PriceQuote{
			UnitPrice:      bestTotal / float64(quantity),
			TotalPrice:     bestTotal,
			SaleAnnotation: appliedAnnotation(best, regularTotal-bestTotal),
			Discounted:     true,
		}
	}

	if potential := bestPotentialTier(quantity, tiers); potential != nil {
		regular.SaleAnnotation = potentialAnnotation(potential, effectiveThreshold(potential)-quantity)
	}
	return regular
}

func tierValid(tier *shopping.DiscountTier) bool {
	return tier.Active && tier.ThresholdQty > 0 && tier.BundlePrice > 0
}

func tierTotal(regularUnitPrice float64, quantity int, tier *shopping.DiscountTier) float64 {
	if tier.MaxDiscountedQty != nil {
		discounted := min(quantity, *tier.MaxDiscountedQty)
		if discounted < 0 {
			discounted = 0
		}
		fullBundles := discounted / tier.ThresholdQty
		leftover := discounted % tier.ThresholdQty
		remainder := quantity - discounted
		return float64(fullBundles)*tier.BundlePrice +
			float64(leftover)*regularUnitPrice +
			float64(remainder)*regularUnitPrice
	}
	fullBundles := quantity / tier.ThresholdQty
	leftover := quantity % tier.ThresholdQty
	return float64(fullBundles)*tier.BundlePrice + float64(leftover)*regularUnitPrice
}

func effectiveThreshold(tier *shopping.DiscountTier) int {
	if tier.MaxDiscountedQty != nil {
		return min(tier.ThresholdQty, *tier.MaxDiscountedQty)
	}
	return tier.ThresholdQty
}

// bestPotentialTier returns the tier with the lowest bundle unit price that the
// shopper could still reach by adding units.
func bestPotentialTier(quantity int, tiers []shopping.DiscountTier) *shopping.DiscountTier {
	var (
		best     *shopping.DiscountTier
		bestUnit = math.Inf(1)
	)
	for i := range tiers {
		tier := &tiers[i]
		if !tierValid(tier) {
			continue
		}
		if tier.MaxDiscountedQty != nil && quantity >= *tier.MaxDiscountedQty {
			continue
		}
		if quantity >= effectiveThreshold(tier) {
			continue
		}
		unit := tier.BundlePrice / float64(tier.ThresholdQty)
		if unit < bestUnit {
			best = tier
			bestUnit = unit
		}
	}
	return best
}

func appliedAnnotation(tier *shopping.DiscountTier, savings float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sale: %d for %s, you save %s", tier.ThresholdQty, formatMoney(tier.BundlePrice), formatMoney(savings))
	b.WriteString(tierNotes(tier))
	return b.String()
}

func potentialAnnotation(tier *shopping.DiscountTier, missing int) string {
	var b strings.Builder
	unit := "unit"
	if missing != 1 {
		unit = "units"
	}
	fmt.Fprintf(&b, "Add %d more %s for the sale: %d for %s", missing, unit, tier.ThresholdQty, formatMoney(tier.BundlePrice))
	b.WriteString(tierNotes(tier))
	return b.String()
}

func tierNotes(tier *shopping.DiscountTier) string {
	var notes []string
	if tier.ClubOnly {
		notes = append(notes, "club members only")
	}
	if tier.MaxDiscountedQty != nil {
		notes = append(notes, fmt.Sprintf("up to %d units", *tier.MaxDiscountedQty))
	}
	if len(notes) == 0 {
		return ""
	}
	return " (" + strings.Join(notes, ", ") + ")"
}

// formatMoney rounds for display only.
func formatMoney(amount float64) string {
	return "₪" + decimal.NewFromFloat(amount).StringFixed(2)
}
