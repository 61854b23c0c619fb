package pos

import (
	"github.com/shopspring/decimal"
)

// Discount evaluator. Discounts stack permissively and order never matters;
// the sum is clamped so a stack can never produce a refund.

var hundred = decimal.NewFromInt(100)

// EligibleDiscounts filters the reference set to discounts whose
// minimum-spend threshold (if any) is satisfied by subtotal.
func EligibleDiscounts(subtotal decimal.Decimal, discounts []Discount) []Discount {
	out := make([]Discount, 0, len(discounts))
	for _, d := range discounts {
		if d.EligibleAt(subtotal) {
			out = append(out, d)
		}
	}
	return out
}

// ComputeDiscount sums the contribution of each selected id. Ids not in
// the reference set, and ids whose discount is ineligible at subtotal,
// contribute zero. The result is clamped to [0, subtotal].
func ComputeDiscount(subtotal decimal.Decimal, discounts []Discount, selected []string) decimal.Decimal {
	byID := make(map[string]Discount, len(discounts))
	for _, d := range discounts {
		byID[d.ID] = d
	}

	total := decimal.Zero
	for _, id := range selected {
		d, ok := byID[id]
		if !ok || !d.EligibleAt(subtotal) {
			continue
		}
		switch d.Kind {
		case DiscountPercentage:
			total = total.Add(subtotal.Mul(d.Value).Div(hundred))
		case DiscountFixed:
			total = total.Add(d.Value)
		}
	}

	if total.IsNegative() {
		return decimal.Zero
	}
	if total.GreaterThan(subtotal) {
		return subtotal
	}
	return total
}
