package promos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DASH1324/bleu-pos/internal/pos"
	"github.com/DASH1324/bleu-pos/internal/redisx"
)

// Client fetches discount reference data from the Discount Service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Cache   *redisx.Cache
}

func NewClient(baseURL string, cache *redisx.Cache) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Cache:   cache,
	}
}

// Upstream wire shape: value lives in PercentageValue or FixedValue
// depending on DiscountType.
type discountOut struct {
	DiscountID      int              `json:"DiscountID"`
	DiscountName    string           `json:"DiscountName"`
	Description     *string          `json:"Description"`
	DiscountType    string           `json:"DiscountType"`
	PercentageValue *decimal.Decimal `json:"PercentageValue"`
	FixedValue      *decimal.Decimal `json:"FixedValue"`
	MinimumSpend    *decimal.Decimal `json:"MinimumSpend"`
	Status          string           `json:"Status"`
}

// Fetch returns the active discounts, cache-first.
func (c *Client) Fetch(ctx context.Context, token string) ([]pos.Discount, error) {
	var cached []pos.Discount
	if c.Cache.GetJSON(ctx, redisx.KeyDiscountSnapshot, &cached) && len(cached) > 0 {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/discounts/?active_only=true", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pos.ErrDiscountFetchFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pos.ErrDiscountFetchFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, pos.ErrSessionExpired
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", pos.ErrDiscountFetchFailed, resp.StatusCode)
	}

	var raw []discountOut
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", pos.ErrDiscountFetchFailed, err)
	}

	discounts := normalize(raw)
	c.Cache.SetJSON(ctx, redisx.KeyDiscountSnapshot, discounts, redisx.TTLMenuSnapshot)
	return discounts, nil
}

func normalize(raw []discountOut) []pos.Discount {
	out := make([]pos.Discount, 0, len(raw))
	for _, r := range raw {
		d := pos.Discount{
			ID:   strconv.Itoa(r.DiscountID),
			Name: r.DiscountName,
			Kind: pos.DiscountKind(r.DiscountType),
		}
		if r.Description != nil {
			d.Description = *r.Description
		}
		switch d.Kind {
		case pos.DiscountPercentage:
			if r.PercentageValue != nil {
				d.Value = *r.PercentageValue
			}
		case pos.DiscountFixed:
			if r.FixedValue != nil {
				d.Value = *r.FixedValue
			}
		default:
			continue // unknown kind, never let it price anything
		}
		if r.MinimumSpend != nil {
			d.MinSpend = *r.MinimumSpend
		}
		out = append(out, d)
	}
	return out
}

// Defaults is the built-in fallback list used when the Discount Service is
// unreachable, mirroring the Sales Service authority table. The terminal
// keeps selling with the standard statutory discounts available.
func Defaults() []pos.Discount {
	return []pos.Discount{
		{ID: "SENIOR_CITIZEN", Name: "Senior Citizen", Kind: pos.DiscountPercentage, Value: decimal.NewFromInt(20)},
		{ID: "PWD", Name: "PWD", Kind: pos.DiscountPercentage, Value: decimal.NewFromInt(20)},
		{ID: "PROMO_10_OFF", Name: "10% Off", Kind: pos.DiscountPercentage, Value: decimal.NewFromInt(10), MinSpend: decimal.NewFromInt(500)},
	}
}
