// Package coingecko fetches spot USD quotes from the public CoinGecko
// simple-price endpoint.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"
)

// DefaultBaseURL is the public CoinGecko API root.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Client fetches underlying-asset price quotes. Quotes are best effort: a
// failed fetch is a skipped candle sample, so there is no retry here.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client. An empty baseURL selects the public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CurrentPrice returns the current USD price for a symbol (a CoinGecko coin
// id such as "ethereum" or "bitcoin").
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("coingecko: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("coingecko: fetch price %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("coingecko: fetch price %s: HTTP %d", symbol, resp.StatusCode)
	}

	// Response shape: {"<symbol>": {"usd": <float>}}
	var quotes map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return 0, fmt.Errorf("coingecko: decode price %s: %w", symbol, err)
	}

	usd, ok := quotes[symbol]["usd"]
	if !ok {
		return 0, fmt.Errorf("coingecko: price %s: %w", symbol, domain.ErrNotFound)
	}
	return usd, nil
}

var _ domain.QuoteSource = (*Client)(nil)
