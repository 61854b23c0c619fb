package sales

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/DASH1324/bleu-pos/internal/pos"
)

// Client performs the submission exchange with the Sales Service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type createSaleResp struct {
	SaleID int64  `json:"saleId"`
	Detail string `json:"detail"`
}

// CreateSale posts one sale and returns the server-assigned sale id. The
// call is made exactly once; retrying is the caller's (the cashier's)
// explicit decision. 401/403 map to the session-expired kind so the UI
// can route to re-authentication instead of a generic retry prompt.
func (c *Client) CreateSale(ctx context.Context, token string, sale Sale) (int64, error) {
	body, err := json.Marshal(sale)
	if err != nil {
		return 0, fmt.Errorf("%w: encode: %v", pos.ErrSubmissionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/sales/", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", pos.ErrSubmissionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", pos.ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	var out createSaleResp
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return 0, pos.ErrSessionExpired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		if decodeErr == nil && out.Detail != "" {
			return 0, fmt.Errorf("%w: %s", pos.ErrSubmissionFailed, out.Detail)
		}
		return 0, fmt.Errorf("%w: status %d", pos.ErrSubmissionFailed, resp.StatusCode)
	case decodeErr != nil:
		return 0, fmt.Errorf("%w: decode: %v", pos.ErrSubmissionFailed, decodeErr)
	}

	return out.SaleID, nil
}
