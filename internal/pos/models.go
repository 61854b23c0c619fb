package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductAvailable   ProductStatus = "Available"
	ProductUnavailable ProductStatus = "Unavailable"
)

// Product is read-only reference data from the Catalog Service. Products
// are keyed by name upstream; Name is the identity used for cart merging.
type Product struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ProductType string          `json:"product_type"`
	Sizes       []string        `json:"sizes,omitempty"`
	Status      ProductStatus   `json:"status"`
	ImageURL    string          `json:"image_url,omitempty"`
}

type OrderType string

const (
	OrderDineIn  OrderType = "Dine in"
	OrderTakeOut OrderType = "Take out"
)

func (t OrderType) Valid() bool {
	return t == OrderDineIn || t == OrderTakeOut
}

type PaymentMethod string

const (
	PayCash    PaymentMethod = "Cash"
	PayEWallet PaymentMethod = "E-Wallet"
)

func (m PaymentMethod) Valid() bool {
	return m == PayCash || m == PayEWallet
}

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "Percentage"
	DiscountFixed      DiscountKind = "Fixed"
)

// Discount is an immutable reference snapshot fetched once per session.
// MinSpend zero means no minimum-spend threshold.
type Discount struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Kind        DiscountKind    `json:"kind"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description,omitempty"`
	MinSpend    decimal.Decimal `json:"min_spend"`
}

// EligibleAt reports whether the discount may contribute at the given
// subtotal.
func (d Discount) EligibleAt(subtotal decimal.Decimal) bool {
	return d.MinSpend.LessThanOrEqual(subtotal)
}

// LineItem is one cart entry. UnitPrice is snapshotted at add time so a
// catalog change mid-order cannot reprice items already rung up.
type LineItem struct {
	ID        uuid.UUID       `json:"id"`
	Product   string          `json:"product"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Addons    AddonConfig     `json:"addons"`
}
