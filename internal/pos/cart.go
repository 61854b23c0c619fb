package pos

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Cart owns the ordered line items plus the order-level fields of one
// in-progress order. Insertion order is display order. A Cart is not safe
// for concurrent use; the owning terminal session serializes all access.
type Cart struct {
	items   []LineItem
	order   OrderType
	payment PaymentMethod
	applied []string
	unit    currency.Unit

	onEmptyChange func(empty bool)
}

func NewCart() *Cart {
	return &Cart{
		order:   OrderDineIn,
		payment: PayCash,
		unit:    DefaultCurrency,
	}
}

// OnEmptyChange registers a callback fired whenever the cart transitions
// between empty and non-empty. Drives the container open/close in the UI.
func (c *Cart) OnEmptyChange(fn func(empty bool)) { c.onEmptyChange = fn }

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) Currency() currency.Unit { return c.unit }

// Items returns a deep copy; callers can never mutate the cart through it.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	for i, item := range c.items {
		out[i] = item
		out[i].Addons = item.Addons.Clone()
	}
	return out
}

func (c *Cart) OrderType() OrderType { return c.order }

func (c *Cart) SetOrderType(t OrderType) error {
	if !t.Valid() {
		return fmt.Errorf("invalid order type %q", t)
	}
	c.order = t
	return nil
}

func (c *Cart) PaymentMethod() PaymentMethod { return c.payment }

func (c *Cart) SetPaymentMethod(m PaymentMethod) error {
	if !m.Valid() {
		return fmt.Errorf("invalid payment method %q", m)
	}
	c.payment = m
	return nil
}

// AppliedDiscounts returns a copy of the applied discount ids.
func (c *Cart) AppliedDiscounts() []string {
	return append([]string(nil), c.applied...)
}

// replaceApplied swaps the applied set wholesale. Only the discount picker
// commit path calls this; the applied set is never edited element-wise.
func (c *Cart) replaceApplied(ids []string) {
	c.applied = append([]string(nil), ids...)
}

// Subtotal recomputes the cart subtotal from the current line items.
func (c *Cart) Subtotal() (decimal.Decimal, error) {
	return Subtotal(c.items)
}

// AddItem appends a line item for product, or merges into an existing item
// with the same product and an equal addon config. Returns the id of the
// line item holding the added quantity.
func (c *Cart) AddItem(product Product, quantity int, addons AddonConfig) (uuid.UUID, error) {
	if product.Status == ProductUnavailable {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
	}
	if quantity < 1 {
		return uuid.Nil, fmt.Errorf("quantity %d must be >= 1", quantity)
	}
	if err := addons.Validate(); err != nil {
		return uuid.Nil, err
	}
	if addons.IsZero() {
		addons = nil
	}

	for i := range c.items {
		if c.items[i].Product == product.Name && c.items[i].Addons.Equal(addons) {
			c.items[i].Quantity += quantity
			return c.items[i].ID, nil
		}
	}

	item := LineItem{
		ID:        uuid.New(),
		Product:   product.Name,
		Category:  product.Category,
		UnitPrice: product.Price,
		Quantity:  quantity,
		Addons:    addons.Clone(),
	}
	wasEmpty := len(c.items) == 0
	c.items = append(c.items, item)
	if wasEmpty {
		c.notifyEmpty(false)
	}
	return item.ID, nil
}

// UpdateQuantity adjusts a line item's quantity by delta, which may be
// negative. A result <= 0 removes the item entirely.
func (c *Cart) UpdateQuantity(id uuid.UUID, delta int) error {
	i := c.index(id)
	if i < 0 {
		return ErrLineItemNotFound
	}
	if c.items[i].Quantity+delta <= 0 {
		c.removeAt(i)
		return nil
	}
	c.items[i].Quantity += delta
	return nil
}

// RemoveItem removes a line item unconditionally.
func (c *Cart) RemoveItem(id uuid.UUID) error {
	i := c.index(id)
	if i < 0 {
		return ErrLineItemNotFound
	}
	c.removeAt(i)
	return nil
}

// SetAddons replaces one line item's addon config. If the new config makes
// the item equivalent to another line item for the same product, the two
// are merged: quantities summed into the surviving item, the edited item
// removed. The merge invariant holds after every edit, not only on add.
func (c *Cart) SetAddons(id uuid.UUID, cfg AddonConfig) error {
	i := c.index(id)
	if i < 0 {
		return ErrLineItemNotFound
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.IsZero() {
		cfg = nil
	}

	for j := range c.items {
		if j == i {
			continue
		}
		if c.items[j].Product == c.items[i].Product && c.items[j].Addons.Equal(cfg) {
			c.items[j].Quantity += c.items[i].Quantity
			c.removeAt(i)
			return nil
		}
	}
	c.items[i].Addons = cfg.Clone()
	return nil
}

// Clear empties the cart and resets every order-level field: order type
// back to dine-in, payment back to cash, discounts back to none. Runs
// after a confirmed successful submission or when the session closes.
func (c *Cart) Clear() {
	wasEmpty := len(c.items) == 0
	c.items = nil
	c.order = OrderDineIn
	c.payment = PayCash
	c.applied = nil
	if !wasEmpty {
		c.notifyEmpty(true)
	}
}

// Item returns a copy of one line item.
func (c *Cart) Item(id uuid.UUID) (LineItem, bool) {
	i := c.index(id)
	if i < 0 {
		return LineItem{}, false
	}
	item := c.items[i]
	item.Addons = item.Addons.Clone()
	return item, true
}

func (c *Cart) index(id uuid.UUID) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
	if len(c.items) == 0 {
		c.notifyEmpty(true)
	}
}

func (c *Cart) notifyEmpty(empty bool) {
	if c.onEmptyChange != nil {
		c.onEmptyChange(empty)
	}
}
