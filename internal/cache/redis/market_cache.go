package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"
)

// MarketCache implements domain.MarketCache. Each fetched hourly-market list
// is stored as a JSON blob at "hourly:{series}:{hours}" with a short TTL so
// repeated polls within a refresh window reuse the same snapshot.
type MarketCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMarketCache creates a MarketCache with the given entry TTL.
func NewMarketCache(c *Client, ttl time.Duration) *MarketCache {
	return &MarketCache{rdb: c.Underlying(), ttl: ttl}
}

func hourlyKey(seriesTicker string, hours int) string {
	return "hourly:" + seriesTicker + ":" + strconv.Itoa(hours)
}

// GetHourly returns the cached market list for a series, or
// domain.ErrNotFound when the entry is missing or expired.
func (mc *MarketCache) GetHourly(ctx context.Context, seriesTicker string, hours int) ([]domain.Market, error) {
	raw, err := mc.rdb.Get(ctx, hourlyKey(seriesTicker, hours)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get hourly %s: %w", seriesTicker, err)
	}

	var markets []domain.Market
	if err := json.Unmarshal(raw, &markets); err != nil {
		return nil, fmt.Errorf("redis: decode hourly %s: %w", seriesTicker, err)
	}
	return markets, nil
}

// SetHourly stores the market list for a series under the cache TTL.
func (mc *MarketCache) SetHourly(ctx context.Context, seriesTicker string, hours int, markets []domain.Market) error {
	raw, err := json.Marshal(markets)
	if err != nil {
		return fmt.Errorf("redis: encode hourly %s: %w", seriesTicker, err)
	}
	if err := mc.rdb.Set(ctx, hourlyKey(seriesTicker, hours), raw, mc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set hourly %s: %w", seriesTicker, err)
	}
	return nil
}

var _ domain.MarketCache = (*MarketCache)(nil)
