// Package kalshi is the REST client for the Kalshi exchange API. It covers
// the event/market fetch used to discover near-expiry markets and order
// submission against /portfolio/orders.
package kalshi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"
)

const (
	// requestTimeout bounds every HTTP call; there is no other cancellation
	// mechanism in the poll cycle.
	requestTimeout = 10 * time.Second

	// maxRetries is the number of additional attempts after the first for
	// transient server errors on fetches.
	maxRetries = 3
)

// Client is the Kalshi REST client. Authentication is a static bearer token;
// when no token is configured the Authorization header is omitted.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger

	// retryBase is the first backoff delay; doubles per retry.
	retryBase time.Duration
	now       func() time.Time
}

// NewClient creates a Client for the given API root, e.g.
// "https://api.elections.kalshi.com/trade-api/v2".
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger:    logger.With(slog.String("component", "kalshi")),
		retryBase: time.Second,
		now:       time.Now,
	}
}

// GetEvents fetches event data for a series ticker via the GetEvents
// endpoint. Transient server errors (500, 502, 503, 504) are retried up to
// three times with exponential backoff; anything else fails immediately.
func (c *Client) GetEvents(ctx context.Context, seriesTicker string, withNestedMarkets bool) (EventData, error) {
	params := url.Values{}
	params.Set("series_ticker", seriesTicker)
	if withNestedMarkets {
		params.Set("with_nested_markets", "true")
	}

	body, err := c.doGetWithRetry(ctx, "/events?"+params.Encode())
	if err != nil {
		return EventData{}, fmt.Errorf("kalshi: get events %s: %w", seriesTicker, err)
	}

	var data EventData
	if err := json.Unmarshal(body, &data); err != nil {
		return EventData{}, fmt.Errorf("kalshi: decode events: %w", err)
	}

	c.logger.DebugContext(ctx, "fetched events",
		slog.String("series", seriesTicker),
		slog.Int("events", len(data.Events)),
		slog.Int("top_level_markets", len(data.Markets)),
	)
	return data, nil
}

// HourlyMarkets fetches all markets for a series and keeps only those that
// are not finalized and close within the next hours hours. The lower time
// bound is strict (a market closing exactly now is excluded), the upper
// bound inclusive. Records with a missing or unparseable close_time are
// skipped rather than failing the fetch.
func (c *Client) HourlyMarkets(ctx context.Context, seriesTicker string, hours int) ([]domain.Market, error) {
	data, err := c.GetEvents(ctx, seriesTicker, true)
	if err != nil {
		return nil, err
	}

	now := c.now().UTC()
	horizon := time.Duration(hours) * time.Hour

	var records []MarketRecord
	if len(data.Markets) > 0 {
		records = data.Markets
	} else {
		for _, ev := range data.Events {
			records = append(records, ev.Markets...)
		}
	}

	var markets []domain.Market
	for _, rec := range records {
		m, ok := normalize(rec)
		if !ok {
			continue
		}
		if m.Finalized() || !m.ClosesWithin(now, horizon) {
			continue
		}
		markets = append(markets, m)
	}

	c.logger.InfoContext(ctx, "hourly markets filtered",
		slog.String("series", seriesTicker),
		slog.Int("hours", hours),
		slog.Int("total", len(records)),
		slog.Int("kept", len(markets)),
	)
	return markets, nil
}

// PlaceOrder submits an order via /portfolio/orders. An empty ClientOrderID
// gets a UUID so the exchange-side idempotency key is always present. Order
// submission is never retried; transient-error retry applies to fetches only.
func (c *Client) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderConfirmation, error) {
	if req.Ticker == "" || req.Count <= 0 {
		return domain.OrderConfirmation{}, domain.ErrInvalidOrder
	}
	if req.ClientOrderID == "" {
		req.ClientOrderID = uuid.NewString()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("kalshi: marshal order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/portfolio/orders", bytes.NewReader(payload))
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("kalshi: create order request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("kalshi: place order %s: %w", req.Ticker, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("kalshi: read order response: %w", err)
	}
	if err := checkStatus(resp.StatusCode, body); err != nil {
		// The response body carries the rejection reason; keep it attached.
		return domain.OrderConfirmation{}, fmt.Errorf("kalshi: place order %s: %w", req.Ticker, err)
	}

	var decoded orderResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("kalshi: decode order response: %w", err)
	}

	c.logger.InfoContext(ctx, "order placed",
		slog.String("ticker", req.Ticker),
		slog.String("side", string(req.Side)),
		slog.String("order_id", decoded.Order.OrderID),
		slog.String("status", decoded.Order.Status),
	)
	return domain.OrderConfirmation{
		OrderID: decoded.Order.OrderID,
		Ticker:  decoded.Order.Ticker,
		Status:  decoded.Order.Status,
		Side:    domain.Side(decoded.Order.Side),
		Action:  decoded.Order.Action,
	}, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doGetWithRetry issues a GET and retries on the transient server statuses
// with exponential backoff (base retryBase, doubling each attempt).
func (c *Client) doGetWithRetry(ctx context.Context, path string) ([]byte, error) {
	backoff := c.retryBase

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http request: %w", err)
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("read response: %w", readErr)
		}

		if retryable(resp.StatusCode) && attempt < maxRetries {
			c.logger.WarnContext(ctx, "transient server error, retrying",
				slog.Int("status", resp.StatusCode),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		if err := checkStatus(resp.StatusCode, body); err != nil {
			return nil, err
		}
		return body, nil
	}
}

// setHeaders applies the standard JSON headers and the bearer token when one
// is configured.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// retryable reports whether the status is one of the transient server errors
// worth retrying.
func retryable(status int) bool {
	switch status {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// checkStatus maps non-2xx HTTP status codes to errors, decoding the API
// error envelope when present.
func checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var apiErr errorResponse
	_ = json.Unmarshal(body, &apiErr)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s (%s)", domain.ErrUnauthorized, apiErr.Message, apiErr.Code)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s (%s)", domain.ErrRateLimited, apiErr.Message, apiErr.Code)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s (%s)", domain.ErrNotFound, apiErr.Message, apiErr.Code)
	default:
		if apiErr.Message != "" {
			return fmt.Errorf("HTTP %d: %s (%s)", statusCode, apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("HTTP %d: %s", statusCode, bytes.TrimSpace(body))
	}
}

// normalize converts a raw MarketRecord into a domain Market. It returns
// false when the close_time is missing or unparseable; such records are
// excluded from results, not fatal.
func normalize(rec MarketRecord) (domain.Market, bool) {
	if rec.CloseTime == "" {
		return domain.Market{}, false
	}
	// RFC 3339 covers the "Z" UTC suffix the API uses.
	closeTime, err := time.Parse(time.RFC3339, rec.CloseTime)
	if err != nil {
		return domain.Market{}, false
	}
	return domain.Market{
		Ticker:    rec.Ticker,
		Status:    rec.Status,
		CloseTime: closeTime.UTC(),
		YesBid:    rec.YesBid,
		NoBid:     rec.NoBid,
	}, true
}

// Compile-time interface checks.
var (
	_ domain.MarketSource = (*Client)(nil)
	_ domain.OrderPlacer  = (*Client)(nil)
)
