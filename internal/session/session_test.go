package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DASH1324/bleu-pos/internal/pos"
	"github.com/DASH1324/bleu-pos/internal/sales"
	"github.com/DASH1324/bleu-pos/internal/session"
)

type stubCreator struct {
	gotToken string
}

func (s *stubCreator) CreateSale(_ context.Context, token string, _ sales.Sale) (int64, error) {
	s.gotToken = token
	return 42, nil
}

func testMenu() []pos.Product {
	return []pos.Product{
		{Name: "Iced Mocha", Price: decimal.NewFromInt(140), Category: "Specialty Coffee", ProductType: "Drink", Status: pos.ProductAvailable},
		{Name: "Croissant", Price: decimal.NewFromInt(95), Category: "Pastry", ProductType: "Food", Status: pos.ProductAvailable},
	}
}

func TestSession_New(t *testing.T) {
	creator := &stubCreator{}
	s := session.New(session.Context{Token: "tok", Cashier: "ana"}, testMenu(), nil, creator)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, 0, s.Cart.Len())
	assert.Equal(t, map[string][]string{
		"DRINKS": {"Specialty Coffee"},
		"FOODS":  {"Pastry"},
	}, s.Groups)

	p, ok := s.Product("Croissant")
	require.True(t, ok)
	assert.Equal(t, "Pastry", p.Category)
	_, ok = s.Product("Nope")
	assert.False(t, ok)
}

func TestSession_SubmitUsesOwnCredential(t *testing.T) {
	creator := &stubCreator{}
	s := session.New(session.Context{Token: "tok-77"}, testMenu(), nil, creator)

	p, _ := s.Product("Iced Mocha")
	require.NoError(t, s.Do(func() error {
		_, err := s.Cart.AddItem(p, 1, nil)
		return err
	}))

	saleID, err := s.Submit(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(42), saleID)
	assert.Equal(t, "tok-77", creator.gotToken)
	assert.Equal(t, 0, s.Cart.Len())
}

// blockingCreator holds its one exchange open until released, so a test
// can observe the session mid-submission.
type blockingCreator struct {
	calls   int
	started chan struct{}
	release chan struct{}
}

func (c *blockingCreator) CreateSale(_ context.Context, _ string, _ sales.Sale) (int64, error) {
	c.calls++
	close(c.started)
	<-c.release
	return 77, nil
}

func TestSession_SubmitRefusedWhileInFlight(t *testing.T) {
	creator := &blockingCreator{started: make(chan struct{}), release: make(chan struct{})}
	s := session.New(session.Context{Token: "tok"}, testMenu(), nil, creator)

	p, _ := s.Product("Iced Mocha")
	require.NoError(t, s.Do(func() error {
		_, err := s.Cart.AddItem(p, 1, nil)
		return err
	}))

	var firstID int64
	var firstErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		firstID, firstErr = s.Submit(context.Background())
	}()
	<-creator.started

	// Second checkout while the first exchange is on the wire: refused
	// immediately, never queued behind the lock.
	_, err := s.Submit(context.Background())
	require.ErrorIs(t, err, sales.ErrSubmitInFlight)

	close(creator.release)
	<-done
	require.NoError(t, firstErr)
	assert.Equal(t, int64(77), firstID)
	assert.Equal(t, 1, creator.calls)
}

func TestSession_DoSerializesMutations(t *testing.T) {
	s := session.New(session.Context{Token: "tok"}, testMenu(), nil, &stubCreator{})
	p, _ := s.Product("Iced Mocha")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(func() error {
				_, err := s.Cart.AddItem(p, 1, nil)
				return err
			})
		}()
	}
	wg.Wait()

	// Same product, same config: everything merged into one line item.
	require.Equal(t, 1, s.Cart.Len())
	assert.Equal(t, 50, s.Cart.Items()[0].Quantity)
}

func TestManager(t *testing.T) {
	m := session.NewManager()
	s := session.New(session.Context{Token: "tok"}, nil, nil, &stubCreator{})

	m.Put(s)
	assert.Equal(t, 1, m.Len())

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	m.Delete(s.ID)
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}
