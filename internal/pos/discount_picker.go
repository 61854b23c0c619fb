package pos

// DiscountPicker stages discount selection against the live cart subtotal.
// The cart's applied set is only ever replaced wholesale by Commit, never
// mutated element-by-element from outside.
type DiscountPicker struct {
	cart      *Cart
	discounts []Discount
	open      bool
	staged    []string
}

func NewDiscountPicker(cart *Cart, discounts []Discount) *DiscountPicker {
	return &DiscountPicker{cart: cart, discounts: discounts}
}

func (p *DiscountPicker) IsOpen() bool { return p.open }

// Staged returns a copy of the staged ids.
func (p *DiscountPicker) Staged() []string {
	return append([]string(nil), p.staged...)
}

// Open copies the applied set into staged state.
func (p *DiscountPicker) Open() error {
	if p.open {
		return ErrPickerOpen
	}
	p.staged = p.cart.AppliedDiscounts()
	p.open = true
	return nil
}

// Toggle flips membership of id in the staged set. Ids that are unknown or
// currently ineligible at the live subtotal are a no-op: the UI may show
// them, but they can never be staged.
func (p *DiscountPicker) Toggle(id string) error {
	if !p.open {
		return ErrPickerClosed
	}
	d, ok := p.find(id)
	if !ok {
		return nil
	}
	subtotal, err := p.cart.Subtotal()
	if err != nil {
		return err
	}
	if !d.EligibleAt(subtotal) {
		return nil
	}
	for i, staged := range p.staged {
		if staged == id {
			p.staged = append(p.staged[:i], p.staged[i+1:]...)
			return nil
		}
	}
	p.staged = append(p.staged, id)
	return nil
}

// Commit replaces the cart's applied set with the staged set and closes.
// Eligibility is re-checked here: line items may have changed while the
// picker was open, so any staged id that has become ineligible is dropped
// silently rather than blocking submission.
func (p *DiscountPicker) Commit() error {
	if !p.open {
		return ErrPickerClosed
	}
	subtotal, err := p.cart.Subtotal()
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(p.staged))
	for _, id := range p.staged {
		if d, ok := p.find(id); ok && d.EligibleAt(subtotal) {
			kept = append(kept, id)
		}
	}
	p.cart.replaceApplied(kept)
	p.reset()
	return nil
}

// Cancel discards staged state, leaving the applied set untouched. Safe to
// call when already closed.
func (p *DiscountPicker) Cancel() {
	p.reset()
}

func (p *DiscountPicker) find(id string) (Discount, bool) {
	for _, d := range p.discounts {
		if d.ID == id {
			return d, true
		}
	}
	return Discount{}, false
}

func (p *DiscountPicker) reset() {
	p.open = false
	p.staged = nil
}
