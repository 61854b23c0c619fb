package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/DASH1324/bleu-pos/internal/pos"
	"github.com/DASH1324/bleu-pos/internal/redisx"
)

// Shown when the catalog has no image for a product.
const PlaceholderImage = "https://images.unsplash.com/photo-1509042239860-f550ce710b93"

// Client fetches the product catalog from the Catalog Service and shapes
// it into engine reference data. Snapshots are cached in redis (optional)
// so a store full of terminals does not hammer the upstream on every
// session open.
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

// Upstream wire shapes. The details endpoint carries pricing and
// availability; the products endpoint carries image URLs. Joined by name.
type productDetail struct {
	ProductName     string   `json:"ProductName"`
	Description     string   `json:"Description"`
	Price           float64  `json:"Price"`
	ProductCategory string   `json:"ProductCategory"`
	ProductTypeName string   `json:"ProductTypeName"`
	Status          string   `json:"Status"`
	Sizes           []string `json:"Sizes"`
}

type productImage struct {
	ProductName  string `json:"ProductName"`
	ProductImage string `json:"ProductImage"`
}

// Fetch returns the normalized catalog, cache-first. Both upstream
// endpoints are fetched in parallel.
func (c *Client) Fetch(ctx context.Context, token string) ([]pos.Product, error) {
	var cached []pos.Product
	if c.Cache.GetJSON(ctx, redisx.KeyCatalogSnapshot, &cached) && len(cached) > 0 {
		return cached, nil
	}

	var details []productDetail
	var images []productImage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.getJSON(gctx, "/is_products/products/details/", token, &details) })
	g.Go(func() error { return c.getJSON(gctx, "/is_products/products/", token, &images) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products := normalize(details, images)
	c.Cache.SetJSON(ctx, redisx.KeyCatalogSnapshot, products, redisx.TTLMenuSnapshot)
	return products, nil
}

func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", pos.ErrCatalogFetchFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", pos.ErrCatalogFetchFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pos.ErrSessionExpired
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: %s returned status %d", pos.ErrCatalogFetchFailed, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", pos.ErrCatalogFetchFailed, path, err)
	}
	return nil
}

func normalize(details []productDetail, images []productImage) []pos.Product {
	imageByName := make(map[string]string, len(images))
	for _, img := range images {
		imageByName[img.ProductName] = img.ProductImage
	}

	products := make([]pos.Product, 0, len(details))
	for _, d := range details {
		image := imageByName[d.ProductName]
		if image == "" {
			image = PlaceholderImage
		}
		products = append(products, pos.Product{
			Name:        d.ProductName,
			Description: d.Description,
			Price:       decimal.NewFromFloat(d.Price),
			Category:    d.ProductCategory,
			ProductType: d.ProductTypeName,
			Sizes:       d.Sizes,
			Status:      pos.ProductStatus(d.Status),
			ImageURL:    image,
		})
	}
	return products
}

// Groups derives the sidebar grouping: uppercased product type (plural)
// mapped to its categories in first-seen order.
func Groups(products []pos.Product) map[string][]string {
	groups := make(map[string][]string)
	for _, p := range products {
		group := strings.ToUpper(p.ProductType) + "S"
		if !slices.Contains(groups[group], p.Category) {
			groups[group] = append(groups[group], p.Category)
		}
	}
	return groups
}
