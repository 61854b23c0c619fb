package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/DASH1324/bleu-pos/internal/catalog"
	"github.com/DASH1324/bleu-pos/internal/pos"
	"github.com/DASH1324/bleu-pos/internal/promos"
	"github.com/DASH1324/bleu-pos/internal/sales"
	"github.com/DASH1324/bleu-pos/internal/session"
)

// TerminalHandler exposes the order-entry engine to the cashier UI. Every
// command in here is one engine operation run under the session lock.
type TerminalHandler struct {
	Sessions *session.Manager
	Catalog  *catalog.Client
	Promos   *promos.Client
	Sales    sales.SaleCreator
	Service  string
}

func (h *TerminalHandler) Register(r *chi.Mux) {
	r.Post("/sessions", h.openSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Delete("/", h.closeSession)
		r.Get("/cart", h.getCart)
		r.Post("/items", h.addItem)
		r.Patch("/items/{itemID}", h.updateQuantity)
		r.Delete("/items/{itemID}", h.removeItem)
		r.Put("/order-type", h.setOrderType)
		r.Put("/payment-method", h.setPaymentMethod)
		r.Post("/addons/open", h.openAddonEditor)
		r.Put("/addons/adjust", h.adjustAddon)
		r.Post("/addons/commit", h.commitAddons)
		r.Post("/addons/cancel", h.cancelAddons)
		r.Post("/discounts/open", h.openDiscountPicker)
		r.Post("/discounts/toggle", h.toggleDiscount)
		r.Post("/discounts/commit", h.commitDiscounts)
		r.Post("/discounts/cancel", h.cancelDiscounts)
		r.Post("/checkout", h.checkout)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errStatus(err), map[string]string{"error": err.Error()})
}

// errStatus maps engine error kinds to HTTP statuses. SessionExpired gets
// its own 401 so the UI can route to re-authentication.
func errStatus(err error) int {
	switch {
	case errors.Is(err, pos.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, pos.ErrLineItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, pos.ErrEmptyCart), errors.Is(err, pos.ErrProductUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pos.ErrEditorOpen), errors.Is(err, pos.ErrEditorClosed),
		errors.Is(err, pos.ErrPickerOpen), errors.Is(err, pos.ErrPickerClosed),
		errors.Is(err, sales.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, pos.ErrSubmissionFailed),
		errors.Is(err, pos.ErrCatalogFetchFailed),
		errors.Is(err, pos.ErrDiscountFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

type openSessionReq struct {
	Cashier string `json:"cashier"`
	Role    string `json:"role"`
}

type openSessionResp struct {
	SessionID   string                            `json:"session_id"`
	Cashier     string                            `json:"cashier,omitempty"`
	Menu        []pos.Product                     `json:"menu"`
	Groups      map[string][]string               `json:"groups"`
	Discounts   []pos.Discount                    `json:"discounts"`
	AddonPrices map[pos.AddonKind]decimal.Decimal `json:"addon_prices"`
}

func (h *TerminalHandler) openSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
		return
	}
	var req openSessionReq
	_ = json.NewDecoder(r.Body).Decode(&req) // body is optional

	var menu []pos.Product
	var offers []pos.Discount

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		menu, err = h.Catalog.Fetch(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		offers, err = h.Promos.Fetch(gctx, token)
		if err != nil && !errors.Is(err, pos.ErrSessionExpired) {
			// Keep selling on the statutory defaults when the discount
			// service is down.
			log.Printf("%s: discount fetch failed, using defaults: %v", h.Service, err)
			offers = promos.Defaults()
			err = nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, err)
		return
	}

	s := session.New(session.Context{Token: token, Cashier: req.Cashier, Role: req.Role}, menu, offers, h.Sales)
	s.Cart.OnEmptyChange(func(empty bool) {
		log.Printf("%s: session %s cart empty=%v", h.Service, s.ID, empty)
	})
	h.Sessions.Put(s)

	writeJSON(w, http.StatusCreated, openSessionResp{
		SessionID:   s.ID.String(),
		Cashier:     req.Cashier,
		Menu:        menu,
		Groups:      s.Groups,
		Discounts:   offers,
		AddonPrices: pos.AddonPrices(),
	})
}

func (h *TerminalHandler) closeSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.Sessions.Delete(s.ID)
	w.WriteHeader(http.StatusNoContent)
}

type cartItemView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Addons    pos.AddonConfig `json:"addons"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type cartView struct {
	Items            []cartItemView  `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Discount         decimal.Decimal `json:"discount"`
	Total            decimal.Decimal `json:"total"`
	TotalDisplay     string          `json:"total_display"`
	OrderType        string          `json:"order_type"`
	PaymentMethod    string          `json:"payment_method"`
	AppliedDiscounts []string        `json:"applied_discounts"`
}

// respondCart recomputes every total from current state; nothing is read
// from a stored figure.
func (h *TerminalHandler) respondCart(w http.ResponseWriter, s *session.Session) {
	var view cartView
	err := s.Do(func() error {
		items := s.Cart.Items()
		view.Items = make([]cartItemView, 0, len(items))
		for _, item := range items {
			line, err := pos.LineTotal(item)
			if err != nil {
				return err
			}
			view.Items = append(view.Items, cartItemView{
				ID:        item.ID.String(),
				Name:      item.Product,
				Category:  item.Category,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
				Addons:    item.Addons.Clone(),
				LineTotal: line,
			})
		}

		subtotal, err := s.Cart.Subtotal()
		if err != nil {
			return err
		}
		applied := s.Cart.AppliedDiscounts()
		discount := pos.DiscountAmount(subtotal, s.Offers, applied)
		total, err := pos.GrandTotal(items, s.Offers, applied)
		if err != nil {
			return err
		}

		view.Subtotal = subtotal
		view.Discount = discount
		view.Total = total
		view.TotalDisplay = pos.FormatAmount(s.Cart.Currency(), total)
		view.OrderType = string(s.Cart.OrderType())
		view.PaymentMethod = string(s.Cart.PaymentMethod())
		view.AppliedDiscounts = applied
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *TerminalHandler) getCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respondCart(w, s)
}

type addItemReq struct {
	Product  string          `json:"product"`
	Quantity int             `json:"quantity"`
	Addons   pos.AddonConfig `json:"addons"`
}

func (h *TerminalHandler) addItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	err := s.Do(func() error {
		product, found := s.Product(req.Product)
		if !found {
			return errors.New("product not in menu: " + req.Product)
		}
		_, err := s.Cart.AddItem(product, req.Quantity, req.Addons)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.respondCart(w, s)
}

type quantityReq struct {
	Delta int `json:"delta"`
}

func (h *TerminalHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}
	var req quantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := s.Do(func() error { return s.Cart.UpdateQuantity(itemID, req.Delta) }); err != nil {
		writeError(w, err)
		return
	}
	h.respondCart(w, s)
}

func (h *TerminalHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}
	if err := s.Do(func() error { return s.Cart.RemoveItem(itemID) }); err != nil {
		writeError(w, err)
		return
	}
	h.respondCart(w, s)
}

func (h *TerminalHandler) setOrderType(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		OrderType string `json:"order_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := s.Do(func() error { return s.Cart.SetOrderType(pos.OrderType(req.OrderType)) }); err != nil {
		writeError(w, err)
		return
	}
	h.respondCart(w, s)
}

func (h *TerminalHandler) setPaymentMethod(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := s.Do(func() error { return s.Cart.SetPaymentMethod(pos.PaymentMethod(req.PaymentMethod)) }); err != nil {
		writeError(w, err)
		return
	}
	h.respondCart(w, s)
}

func (h *TerminalHandler) openAddonEditor(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}
	var staged pos.AddonConfig
	if err := s.Do(func() error {
		if err := s.Editor.Open(itemID); err != nil {
			return err
		}
		staged = s.Editor.Staged()
		return nil
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"staged": staged})
}

func (h *TerminalHandler) adjustAddon(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Kind     string `json:"kind"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	var staged pos.AddonConfig
	if err := s.Do(func() error {
		if err := s.Editor.Adjust(pos.AddonKind(req.Kind), req.Quantity); err != nil {
			return err
		}
		staged = s.Editor.Staged()
		return nil
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"staged": staged})
}

func (h *TerminalHandler) commitAddons(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Do(func() error { return s.Editor.Commit() }); err != nil {
		writeError(w, err)
		return
	}
	h.respondCart(w, s)
}

func (h *TerminalHandler) cancelAddons(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	_ = s.Do(func() error { s.Editor.Cancel(); return nil })
	h.respondCart(w, s)
}

func (h *TerminalHandler) openDiscountPicker(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var staged []string
	if err := s.Do(func() error {
		if err := s.Picker.Open(); err != nil {
			return err
		}
		staged = s.Picker.Staged()
		return nil
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"staged": staged})
}

func (h *TerminalHandler) toggleDiscount(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		DiscountID string `json:"discount_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	var staged []string
	if err := s.Do(func() error {
		if err := s.Picker.Toggle(req.DiscountID); err != nil {
			return err
		}
		staged = s.Picker.Staged()
		return nil
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"staged": staged})
}

func (h *TerminalHandler) commitDiscounts(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Do(func() error { return s.Picker.Commit() }); err != nil {
		writeError(w, err)
		return
	}
	h.respondCart(w, s)
}

func (h *TerminalHandler) cancelDiscounts(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	_ = s.Do(func() error { s.Picker.Cancel(); return nil })
	h.respondCart(w, s)
}

func (h *TerminalHandler) checkout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	saleID, err := s.Submit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("%s: session %s sale %d submitted", h.Service, s.ID, saleID)
	writeJSON(w, http.StatusCreated, map[string]int64{"saleId": saleID})
}

func (h *TerminalHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return nil, false
	}
	s, ok := h.Sessions.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return s, true
}
