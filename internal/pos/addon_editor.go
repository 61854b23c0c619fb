package pos

import "github.com/google/uuid"

// AddonEditor stages addon edits for one line item. Closed -> Open ->
// Closed; the staged config only reaches the cart through Commit.
type AddonEditor struct {
	cart   *Cart
	open   bool
	target uuid.UUID
	staged AddonConfig
}

func NewAddonEditor(cart *Cart) *AddonEditor {
	return &AddonEditor{cart: cart}
}

func (e *AddonEditor) IsOpen() bool { return e.open }

func (e *AddonEditor) Target() uuid.UUID { return e.target }

// Staged returns a copy of the staged config.
func (e *AddonEditor) Staged() AddonConfig { return e.staged.Clone() }

// Open copies the target item's current addon config into staged state.
// Opening while already open is refused; the caller must close first so a
// staged edit can never silently land on the wrong item.
func (e *AddonEditor) Open(id uuid.UUID) error {
	if e.open {
		return ErrEditorOpen
	}
	item, ok := e.cart.Item(id)
	if !ok {
		return ErrLineItemNotFound
	}
	e.target = id
	e.staged = item.Addons.Clone()
	e.open = true
	return nil
}

// Adjust sets the staged quantity for one kind, clamped to >= 0.
func (e *AddonEditor) Adjust(kind AddonKind, quantity int) error {
	if !e.open {
		return ErrEditorClosed
	}
	if _, err := AddonUnitPrice(kind); err != nil {
		return err
	}
	if quantity < 0 {
		quantity = 0
	}
	e.staged[kind] = quantity
	return nil
}

// Commit writes the staged config back into the cart and closes. The
// editor closes even when the write fails (the target may have been
// removed since Open); the staged state is gone either way.
func (e *AddonEditor) Commit() error {
	if !e.open {
		return ErrEditorClosed
	}
	err := e.cart.SetAddons(e.target, e.staged)
	e.reset()
	return err
}

// Cancel discards staged state without touching the cart. Safe to call
// when already closed.
func (e *AddonEditor) Cancel() {
	e.reset()
}

func (e *AddonEditor) reset() {
	e.open = false
	e.target = uuid.Nil
	e.staged = nil
}
