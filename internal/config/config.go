// Package config defines the top-level configuration for the trading
// assistant and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by KALSHIBOT_* environment variables.
type Config struct {
	Kalshi    KalshiConfig    `toml:"kalshi"`
	Coingecko CoingeckoConfig `toml:"coingecko"`
	Trading   TradingConfig   `toml:"trading"`
	Candles   CandleConfig    `toml:"candles"`
	Poll      PollConfig      `toml:"poll"`
	Redis     RedisConfig     `toml:"redis"`
	Server    ServerConfig    `toml:"server"`
	Notify    NotifyConfig    `toml:"notify"`
	Mode      string          `toml:"mode"`
	LogLevel  string          `toml:"log_level"`
}

// KalshiConfig holds Kalshi exchange API parameters.
type KalshiConfig struct {
	ApiKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// CoingeckoConfig holds the spot-price API endpoint.
type CoingeckoConfig struct {
	BaseURL string `toml:"base_url"`
}

// TradingConfig holds the entry/exit thresholds and risk limits.
type TradingConfig struct {
	EntryPriceLow   float64  `toml:"entry_price_low"`
	EntryPriceHigh  float64  `toml:"entry_price_high"`
	ExitPriceProfit float64  `toml:"exit_price_profit"`
	ExitPriceLoss   float64  `toml:"exit_price_loss"`
	TradeSize       int      `toml:"trade_size"`
	ProfitGoal      float64  `toml:"profit_goal"`
	MaxDrawdown     float64  `toml:"max_drawdown"`
	AutoTrade       bool     `toml:"auto_trade"`
	Series          []string `toml:"series"`
	HorizonHours    int      `toml:"horizon_hours"`
}

// CandleConfig holds the underlying-asset sampling parameters.
type CandleConfig struct {
	Symbol   string   `toml:"symbol"`
	Interval duration `toml:"interval"`
}

// PollConfig holds the poll-loop timing parameters.
type PollConfig struct {
	RefreshInterval duration `toml:"refresh_interval"`
	CacheTTL        duration `toml:"cache_ttl"`
}

// RedisConfig holds Redis connection parameters for the market cache.
// The cache is optional; when disabled, every cycle hits the exchange API.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Kalshi: KalshiConfig{
			BaseURL: "https://api.elections.kalshi.com/trade-api/v2",
		},
		Coingecko: CoingeckoConfig{
			BaseURL: "https://api.coingecko.com/api/v3",
		},
		Trading: TradingConfig{
			EntryPriceLow:   0.30,
			EntryPriceHigh:  0.80,
			ExitPriceProfit: 0.90,
			ExitPriceLoss:   0.15,
			TradeSize:       10,
			ProfitGoal:      100.0,
			MaxDrawdown:     50.0,
			AutoTrade:       false,
			Series:          []string{"KXETHD", "KXETH", "KXBTCD", "KXBTC"},
			HorizonHours:    1,
		},
		Candles: CandleConfig{
			Symbol:   "ethereum",
			Interval: duration{5 * time.Minute},
		},
		Poll: PollConfig{
			RefreshInterval: duration{15 * time.Second},
			CacheTTL:        duration{30 * time.Second},
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Events: []string{"order_placed", "order_failed", "trading_halted", "error"},
		},
		Mode:     "monitor",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"trade":   true,
	"monitor": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: trade, monitor)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Kalshi — credentials are only mandatory when orders can be placed.
	if c.Kalshi.BaseURL == "" {
		errs = append(errs, "kalshi: base_url must not be empty")
	}
	if strings.ToLower(c.Mode) == "trade" && c.Kalshi.ApiKey == "" {
		errs = append(errs, "kalshi: api_key is required for trade mode")
	}

	// Coingecko
	if c.Coingecko.BaseURL == "" {
		errs = append(errs, "coingecko: base_url must not be empty")
	}

	// Trading thresholds
	if c.Trading.EntryPriceLow < 0 || c.Trading.EntryPriceLow > 1 {
		errs = append(errs, fmt.Sprintf("trading: entry_price_low must be in [0,1], got %v", c.Trading.EntryPriceLow))
	}
	if c.Trading.EntryPriceHigh < 0 || c.Trading.EntryPriceHigh > 1 {
		errs = append(errs, fmt.Sprintf("trading: entry_price_high must be in [0,1], got %v", c.Trading.EntryPriceHigh))
	}
	if c.Trading.EntryPriceLow > c.Trading.EntryPriceHigh {
		errs = append(errs, "trading: entry_price_low must not exceed entry_price_high")
	}
	if c.Trading.ExitPriceProfit < 0 || c.Trading.ExitPriceProfit > 1 {
		errs = append(errs, fmt.Sprintf("trading: exit_price_profit must be in [0,1], got %v", c.Trading.ExitPriceProfit))
	}
	if c.Trading.ExitPriceLoss < 0 || c.Trading.ExitPriceLoss > 1 {
		errs = append(errs, fmt.Sprintf("trading: exit_price_loss must be in [0,1], got %v", c.Trading.ExitPriceLoss))
	}
	if c.Trading.TradeSize < 1 {
		errs = append(errs, "trading: trade_size must be >= 1")
	}
	if c.Trading.ProfitGoal <= 0 {
		errs = append(errs, "trading: profit_goal must be > 0")
	}
	if c.Trading.MaxDrawdown <= 0 {
		errs = append(errs, "trading: max_drawdown must be > 0")
	}
	if len(c.Trading.Series) == 0 {
		errs = append(errs, "trading: series must not be empty")
	}
	if c.Trading.HorizonHours < 1 {
		errs = append(errs, "trading: horizon_hours must be >= 1")
	}

	// Candles
	if c.Candles.Symbol == "" {
		errs = append(errs, "candles: symbol must not be empty")
	}
	if c.Candles.Interval.Duration <= 0 {
		errs = append(errs, "candles: interval must be > 0")
	}

	// Poll
	if c.Poll.RefreshInterval.Duration <= 0 {
		errs = append(errs, "poll: refresh_interval must be > 0")
	}
	if c.Poll.CacheTTL.Duration <= 0 {
		errs = append(errs, "poll: cache_ttl must be > 0")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
