package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies KALSHIBOT_* environment variable overrides, and
// returns the final Config. A missing config file is not an error; the
// defaults plus environment overrides are used instead. The returned Config
// has NOT been validated; the caller should invoke Config.Validate() after
// Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known KALSHIBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Kalshi ──
	setStr(&cfg.Kalshi.ApiKey, "KALSHIBOT_KALSHI_API_KEY")
	setStr(&cfg.Kalshi.ApiKey, "KALSHI_API_KEY") // compatibility alias
	setStr(&cfg.Kalshi.BaseURL, "KALSHIBOT_KALSHI_BASE_URL")
	setStr(&cfg.Kalshi.BaseURL, "KALSHI_BASE_URL") // compatibility alias

	// ── Coingecko ──
	setStr(&cfg.Coingecko.BaseURL, "KALSHIBOT_COINGECKO_BASE_URL")

	// ── Trading ──
	setFloat64(&cfg.Trading.EntryPriceLow, "KALSHIBOT_TRADING_ENTRY_PRICE_LOW")
	setFloat64(&cfg.Trading.EntryPriceHigh, "KALSHIBOT_TRADING_ENTRY_PRICE_HIGH")
	setFloat64(&cfg.Trading.ExitPriceProfit, "KALSHIBOT_TRADING_EXIT_PRICE_PROFIT")
	setFloat64(&cfg.Trading.ExitPriceLoss, "KALSHIBOT_TRADING_EXIT_PRICE_LOSS")
	setInt(&cfg.Trading.TradeSize, "KALSHIBOT_TRADING_TRADE_SIZE")
	setFloat64(&cfg.Trading.ProfitGoal, "KALSHIBOT_TRADING_PROFIT_GOAL")
	setFloat64(&cfg.Trading.MaxDrawdown, "KALSHIBOT_TRADING_MAX_DRAWDOWN")
	setBool(&cfg.Trading.AutoTrade, "KALSHIBOT_TRADING_AUTO_TRADE")
	setStringSlice(&cfg.Trading.Series, "KALSHIBOT_TRADING_SERIES")
	setInt(&cfg.Trading.HorizonHours, "KALSHIBOT_TRADING_HORIZON_HOURS")

	// ── Candles ──
	setStr(&cfg.Candles.Symbol, "KALSHIBOT_CANDLES_SYMBOL")
	setDuration(&cfg.Candles.Interval, "KALSHIBOT_CANDLES_INTERVAL")

	// ── Poll ──
	setDuration(&cfg.Poll.RefreshInterval, "KALSHIBOT_POLL_REFRESH_INTERVAL")
	setDuration(&cfg.Poll.CacheTTL, "KALSHIBOT_POLL_CACHE_TTL")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "KALSHIBOT_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "KALSHIBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "KALSHIBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "KALSHIBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "KALSHIBOT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "KALSHIBOT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "KALSHIBOT_REDIS_TLS_ENABLED")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "KALSHIBOT_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "KALSHIBOT_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "KALSHIBOT_SERVER_CORS_ORIGINS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "KALSHIBOT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "KALSHIBOT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "KALSHIBOT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "KALSHIBOT_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "KALSHIBOT_MODE")
	setStr(&cfg.LogLevel, "KALSHIBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
