package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DASH1324/bleu-pos/internal/pos"
	"github.com/DASH1324/bleu-pos/internal/sales"
)

type fakeSaleCreator struct {
	calls  int
	gotTok string
	got    sales.Sale
	saleID int64
	err    error
}

func (f *fakeSaleCreator) CreateSale(_ context.Context, token string, sale sales.Sale) (int64, error) {
	f.calls++
	f.gotTok = token
	f.got = sale
	return f.saleID, f.err
}

func TestWorkflow_EmptyCart(t *testing.T) {
	creator := &fakeSaleCreator{saleID: 1}
	w := sales.NewWorkflow(creator)
	cart := pos.NewCart()

	_, err := w.Submit(t.Context(), "tok", cart, nil)
	require.ErrorIs(t, err, pos.ErrEmptyCart)

	// Validation failed before any exchange: submit was never invoked.
	assert.Equal(t, 0, creator.calls)
	assert.Equal(t, sales.StateIdle, w.State())
	assert.ErrorIs(t, w.LastError(), pos.ErrEmptyCart)
}

func TestWorkflow_SuccessClearsCart(t *testing.T) {
	creator := &fakeSaleCreator{saleID: 777}
	w := sales.NewWorkflow(creator)

	cart := pos.NewCart()
	_, err := cart.AddItem(product("Iced Mocha", "140", t), 2, nil)
	require.NoError(t, err)
	require.NoError(t, cart.SetOrderType(pos.OrderTakeOut))
	require.NoError(t, cart.SetPaymentMethod(pos.PayEWallet))

	saleID, err := w.Submit(t.Context(), "tok-9", cart, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(777), saleID)
	assert.Equal(t, int64(777), w.LastSaleID())
	assert.Equal(t, "tok-9", creator.gotTok)
	assert.Equal(t, sales.StateIdle, w.State())

	// Cart fully reset: items gone, order-level fields back to defaults.
	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, pos.OrderDineIn, cart.OrderType())
	assert.Equal(t, pos.PayCash, cart.PaymentMethod())
	assert.Empty(t, cart.AppliedDiscounts())
}

func TestWorkflow_FailureLeavesCartIntact(t *testing.T) {
	creator := &fakeSaleCreator{err: pos.ErrSessionExpired}
	w := sales.NewWorkflow(creator)

	cart := pos.NewCart()
	_, err := cart.AddItem(product("Iced Mocha", "140", t), 2, nil)
	require.NoError(t, err)
	subtotalBefore, err := cart.Subtotal()
	require.NoError(t, err)

	_, err = w.Submit(t.Context(), "tok", cart, nil)
	require.ErrorIs(t, err, pos.ErrSessionExpired)
	assert.Equal(t, sales.StateIdle, w.State())

	// Nothing the cashier typed is lost.
	assert.Equal(t, 1, cart.Len())
	subtotalAfter, err := cart.Subtotal()
	require.NoError(t, err)
	assert.True(t, subtotalBefore.Equal(subtotalAfter))

	// Explicit retry works once the failure is resolved.
	creator.err = nil
	creator.saleID = 12
	saleID, err := w.Submit(t.Context(), "tok", cart, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), saleID)
	assert.Equal(t, 2, creator.calls)
}

func TestWorkflow_Transitions(t *testing.T) {
	assert.True(t, sales.CanTransition(sales.StateIdle, sales.StateValidating))
	assert.True(t, sales.CanTransition(sales.StateValidating, sales.StateSubmitting))
	assert.True(t, sales.CanTransition(sales.StateSubmitting, sales.StateSucceeded))
	assert.True(t, sales.CanTransition(sales.StateSubmitting, sales.StateFailed))
	assert.False(t, sales.CanTransition(sales.StateIdle, sales.StateSubmitting))
	assert.False(t, sales.CanTransition(sales.StateSucceeded, sales.StateSubmitting))
}
