package grouporder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
)

// Client fetches shared orders from the order-lookup service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a lookup client for the service at baseURL. A nil
// httpClient gets a sensible default.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// OrderByToken resolves a share token to its order record. A missing
// token maps to domain.ErrNotFound.
func (c *Client) OrderByToken(ctx context.Context, shareToken string) (*domain.SharedOrder, error) {
	endpoint := fmt.Sprintf("%s/v1/group-orders/%s", c.baseURL, url.PathEscape(shareToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup order: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("lookup order: unexpected status %s", resp.Status)
	}

	var order domain.SharedOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}
