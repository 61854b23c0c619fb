package sales

import (
	"context"
	"errors"

	"github.com/DASH1324/bleu-pos/internal/pos"
)

type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

var validNext = map[State]map[State]bool{
	StateIdle:       {StateValidating: true},
	StateValidating: {StateSubmitting: true, StateFailed: true},
	StateSubmitting: {StateSucceeded: true, StateFailed: true},
	StateSucceeded:  {StateIdle: true},
	StateFailed:     {StateIdle: true},
}

func CanTransition(from, to State) bool {
	return validNext[from][to]
}

// ErrSubmitInFlight guards against a double-fire of the submit action
// while an exchange is outstanding, which would ring up a duplicate sale.
var ErrSubmitInFlight = errors.New("submission already in progress")

// SaleCreator is the single network exchange a workflow needs.
type SaleCreator interface {
	CreateSale(ctx context.Context, token string, sale Sale) (int64, error)
}

// Workflow drives one cart through validation and submission. On success
// the cart is cleared and the server sale id recorded; on any failure the
// cart is left exactly as it was so the cashier can retry without
// re-entering the order. Either way the workflow returns to idle.
type Workflow struct {
	client SaleCreator
	state  State

	lastSaleID int64
	lastErr    error
}

func NewWorkflow(client SaleCreator) *Workflow {
	return &Workflow{client: client, state: StateIdle}
}

func (w *Workflow) State() State { return w.state }

// LastSaleID is the sale id from the most recent successful submission.
func (w *Workflow) LastSaleID() int64 { return w.lastSaleID }

// LastError is the outcome of the most recent failed submission.
func (w *Workflow) LastError() error { return w.lastErr }

// Submit validates, builds the payload, and performs the exchange.
func (w *Workflow) Submit(ctx context.Context, token string, cart *pos.Cart, discounts []pos.Discount) (int64, error) {
	if w.state == StateSubmitting {
		return 0, ErrSubmitInFlight
	}

	w.transition(StateValidating)
	if cart.Len() == 0 {
		w.fail(pos.ErrEmptyCart)
		return 0, pos.ErrEmptyCart
	}

	payload, err := BuildPayload(cart, discounts)
	if err != nil {
		w.fail(err)
		return 0, err
	}

	w.transition(StateSubmitting)
	saleID, err := w.client.CreateSale(ctx, token, payload)
	if err != nil {
		w.fail(err)
		return 0, err
	}

	cart.Clear()
	w.lastSaleID = saleID
	w.lastErr = nil
	w.transition(StateSucceeded)
	w.transition(StateIdle)
	return saleID, nil
}

func (w *Workflow) fail(err error) {
	w.lastErr = err
	w.transition(StateFailed)
	w.transition(StateIdle)
}

func (w *Workflow) transition(to State) {
	if CanTransition(w.state, to) {
		w.state = to
	}
}
