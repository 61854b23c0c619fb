package pos

import (
	"github.com/shopspring/decimal"
)

// Pricing calculator: pure functions over a cart snapshot plus discount
// reference data. Totals are recomputed from current state on every read;
// nothing here caches a subtotal or total as an independent field.

// AddonsCost sums per-unit addon price times quantity over a config.
func AddonsCost(cfg AddonConfig) (decimal.Decimal, error) {
	total := decimal.Zero
	for kind, qty := range cfg {
		if qty == 0 {
			continue
		}
		unit, err := AddonUnitPrice(kind)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total, nil
}

// LineTotal is (unit price + addons cost) * quantity.
func LineTotal(item LineItem) (decimal.Decimal, error) {
	addons, err := AddonsCost(item.Addons)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return item.UnitPrice.Add(addons).Mul(decimal.NewFromInt(int64(item.Quantity))), nil
}

// Subtotal sums LineTotal over all line items.
func Subtotal(items []LineItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		line, err := LineTotal(item)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(line)
	}
	return total, nil
}

// DiscountAmount computes the discount for the selected ids, clamped to
// [0, subtotal].
func DiscountAmount(subtotal decimal.Decimal, discounts []Discount, selected []string) decimal.Decimal {
	return ComputeDiscount(subtotal, discounts, selected)
}

// GrandTotal is max(0, subtotal - discount). Never negative.
func GrandTotal(items []LineItem, discounts []Discount, selected []string) (decimal.Decimal, error) {
	subtotal, err := Subtotal(items)
	if err != nil {
		return decimal.Decimal{}, err
	}
	total := subtotal.Sub(DiscountAmount(subtotal, discounts, selected))
	if total.IsNegative() {
		return decimal.Zero, nil
	}
	return total, nil
}
