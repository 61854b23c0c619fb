package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/DASH1324/bleu-pos/internal/catalog"
	"github.com/DASH1324/bleu-pos/internal/pos"
	"github.com/DASH1324/bleu-pos/internal/sales"
)

// Context carries the authenticated identity a terminal session runs
// under: the bearer credential and the claims that came with it. It is
// injected explicitly into every upstream call; nothing in the engine
// reads ambient storage.
type Context struct {
	Token   string
	Cashier string
	Role    string
}

// Session is one terminal's order-entry session: the cart, its two
// staging editors, the reference-data snapshots taken at open, and the
// submission workflow. Every mutation funnels through Do, so no command
// ever observes a cart another command left half-updated.
type Session struct {
	ID     uuid.UUID
	Auth   Context
	Cart   *pos.Cart
	Editor *pos.AddonEditor
	Picker *pos.DiscountPicker
	Flow   *sales.Workflow

	// Immutable snapshots for the lifetime of the session.
	Menu   []pos.Product
	Groups map[string][]string
	Offers []pos.Discount

	mu         sync.Mutex
	submitting atomic.Bool
}

func New(auth Context, menu []pos.Product, offers []pos.Discount, creator sales.SaleCreator) *Session {
	cart := pos.NewCart()
	return &Session{
		ID:     uuid.New(),
		Auth:   auth,
		Cart:   cart,
		Editor: pos.NewAddonEditor(cart),
		Picker: pos.NewDiscountPicker(cart, offers),
		Flow:   sales.NewWorkflow(creator),
		Menu:   menu,
		Groups: catalog.Groups(menu),
		Offers: offers,
	}
}

// Do runs one engine command under the session's single-writer lock.
func (s *Session) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Product looks a product up in the menu snapshot by its name.
func (s *Session) Product(name string) (pos.Product, bool) {
	for _, p := range s.Menu {
		if p.Name == name {
			return p, true
		}
	}
	return pos.Product{}, false
}

// Submit runs the submission workflow under the session lock, using the
// session's own bearer credential. A checkout that arrives while another
// is still on the wire is refused up front: waiting on the lock would
// queue a second exchange and ring up a duplicate sale.
func (s *Session) Submit(ctx context.Context) (int64, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return 0, sales.ErrSubmitInFlight
	}
	defer s.submitting.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Flow.Submit(ctx, s.Auth.Token, s.Cart, s.Offers)
}
