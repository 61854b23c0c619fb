package sales

import (
	"strings"

	"github.com/DASH1324/bleu-pos/internal/pos"
)

// SaleItem is one line of the submission body. Price is the snapshotted
// unit price; the Sales Service recomputes totals server-side, so only
// the raw facts travel.
type SaleItem struct {
	Name     string         `json:"name"`
	Quantity int            `json:"quantity"`
	Price    float64        `json:"price"`
	Category string         `json:"category"`
	Addons   map[string]int `json:"addons"`
}

// Sale is the full submission body for POST /auth/sales/.
type Sale struct {
	CartItems        []SaleItem `json:"cartItems"`
	OrderType        string     `json:"orderType"`
	PaymentMethod    string     `json:"paymentMethod"`
	AppliedDiscounts []string   `json:"appliedDiscounts"`
}

// BuildPayload serializes the cart for submission. The discount list sent
// is the resolved applied set: blank ids dropped, unknown ids dropped,
// ids re-checked for eligibility at the current subtotal. Staged picker
// state never reaches the wire.
func BuildPayload(cart *pos.Cart, discounts []pos.Discount) (Sale, error) {
	items := cart.Items()

	sale := Sale{
		CartItems:        make([]SaleItem, 0, len(items)),
		OrderType:        string(cart.OrderType()),
		PaymentMethod:    string(cart.PaymentMethod()),
		AppliedDiscounts: []string{},
	}

	for _, item := range items {
		addons := make(map[string]int, len(pos.AddonKinds))
		for _, kind := range pos.AddonKinds {
			addons[string(kind)] = item.Addons[kind]
		}
		sale.CartItems = append(sale.CartItems, SaleItem{
			Name:     item.Product,
			Quantity: item.Quantity,
			Price:    item.UnitPrice.InexactFloat64(),
			Category: item.Category,
			Addons:   addons,
		})
	}

	subtotal, err := cart.Subtotal()
	if err != nil {
		return Sale{}, err
	}
	byID := make(map[string]pos.Discount, len(discounts))
	for _, d := range discounts {
		byID[d.ID] = d
	}
	for _, id := range cart.AppliedDiscounts() {
		if strings.TrimSpace(id) == "" {
			continue
		}
		if d, ok := byID[id]; ok && d.EligibleAt(subtotal) {
			sale.AppliedDiscounts = append(sale.AppliedDiscounts, id)
		}
	}

	return sale, nil
}
