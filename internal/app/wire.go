package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/cache/redis"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/config"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/notify"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/platform/coingecko"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/platform/kalshi"
)

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	Markets domain.MarketSource
	Quotes  domain.QuoteSource
	Orders  domain.OrderPlacer

	// Cache is nil when Redis is disabled; the orchestrator then fetches
	// markets directly every cycle.
	Cache domain.MarketCache

	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Exchange and quote clients ---
	kalshiClient := kalshi.NewClient(cfg.Kalshi.BaseURL, cfg.Kalshi.ApiKey, logger)
	deps.Markets = kalshiClient
	deps.Orders = kalshiClient
	deps.Quotes = coingecko.NewClient(cfg.Coingecko.BaseURL)

	// --- Redis market cache (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close failed", slog.String("error", err.Error()))
			}
		})
		deps.Cache = redis.NewMarketCache(redisClient, cfg.Poll.CacheTTL.Duration)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.New(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
