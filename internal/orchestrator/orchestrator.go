// Package orchestrator runs the poll cycle: fetch near-expiry markets, feed
// the candle series, publish dashboard state, and (when auto-trading is on)
// walk the markets through the entry decision and order submission.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/candle"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/notify"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/strategy"
)

// Config holds the orchestrator's runtime parameters.
type Config struct {
	Series          []string // series tickers scanned each cycle
	HorizonHours    int      // markets closing within this many hours qualify
	Symbol          string   // underlying asset quoted each cycle
	CandleInterval  time.Duration
	RefreshInterval time.Duration
	TradeSize       int
	ProfitGoal      float64
	MaxDrawdown     float64
	AutoTrade       bool
	EventLogSize    int
}

// Deps are the orchestrator's collaborators. Cache and Publisher are
// optional; Notifier with no senders is a no-op.
type Deps struct {
	Markets   domain.MarketSource
	Quotes    domain.QuoteSource
	Orders    domain.OrderPlacer
	Cache     domain.MarketCache
	Publisher domain.StatePublisher
	Notifier  *notify.Notifier
}

// Orchestrator owns the account state: cumulative PnL, open positions, the
// candle series, and the per-cycle event log. All of it is mutated only by
// the single Run goroutine; outside readers get immutable snapshots through
// DashboardState. The auto-trading toggle is the one cross-goroutine flag.
type Orchestrator struct {
	cfg        Config
	thresholds strategy.Thresholds
	deps       Deps
	logger     *slog.Logger

	series      *candle.Series
	pnl         float64
	positions   map[string]domain.Position
	lastMarkets []domain.Market
	events      []string
	halted      bool

	autoTrade atomic.Bool
	state     atomic.Pointer[domain.DashboardState]
	now       func() time.Time
}

// New creates an Orchestrator. Run must be called to start the poll loop.
func New(cfg Config, thresholds strategy.Thresholds, deps Deps, logger *slog.Logger) *Orchestrator {
	if cfg.EventLogSize <= 0 {
		cfg.EventLogSize = 100
	}
	o := &Orchestrator{
		cfg:        cfg,
		thresholds: thresholds,
		deps:       deps,
		logger:     logger.With(slog.String("component", "orchestrator")),
		series:     candle.NewSeries(cfg.CandleInterval),
		positions:  make(map[string]domain.Position),
		now:        time.Now,
	}
	o.autoTrade.Store(cfg.AutoTrade)
	return o
}

// Run executes poll cycles at the configured refresh interval until the
// context is cancelled. The first cycle runs immediately.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.InfoContext(ctx, "orchestrator started",
		slog.Any("series", o.cfg.Series),
		slog.String("symbol", o.cfg.Symbol),
		slog.Duration("refresh_interval", o.cfg.RefreshInterval),
		slog.Bool("auto_trade", o.autoTrade.Load()),
	)
	defer o.logger.Info("orchestrator stopped")

	ticker := time.NewTicker(o.cfg.RefreshInterval)
	defer ticker.Stop()

	o.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			o.runCycle(ctx)
		}
	}
}

// runCycle is one iteration: fetch markets, sample the underlying price,
// render, then trade. Every failure inside degrades to a skipped market or
// a skipped sample; nothing here stops the loop.
func (o *Orchestrator) runCycle(ctx context.Context) {
	markets := o.fetchAllMarkets(ctx)
	o.lastMarkets = markets

	o.samplePrice(ctx)

	o.publishSnapshot()

	if o.autoTrade.Load() {
		o.tradeCycle(ctx, markets)
	}
}

// fetchAllMarkets collects hourly markets across the configured series,
// going through the TTL cache when one is wired. Per-series failures are
// logged and skipped.
func (o *Orchestrator) fetchAllMarkets(ctx context.Context) []domain.Market {
	var all []domain.Market
	for _, series := range o.cfg.Series {
		markets, err := o.hourlyMarkets(ctx, series)
		if err != nil {
			o.logger.WarnContext(ctx, "market fetch failed",
				slog.String("series", series),
				slog.String("error", err.Error()),
			)
			o.addEvent("fetch %s failed: %v", series, err)
			continue
		}
		all = append(all, markets...)
	}
	o.logger.InfoContext(ctx, "markets loaded",
		slog.Int("count", len(all)),
		slog.Int("series", len(o.cfg.Series)),
	)
	return all
}

func (o *Orchestrator) hourlyMarkets(ctx context.Context, series string) ([]domain.Market, error) {
	if o.deps.Cache != nil {
		cached, err := o.deps.Cache.GetHourly(ctx, series, o.cfg.HorizonHours)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			o.logger.WarnContext(ctx, "market cache read failed, fetching directly",
				slog.String("series", series),
				slog.String("error", err.Error()),
			)
		}
	}

	markets, err := o.deps.Markets.HourlyMarkets(ctx, series, o.cfg.HorizonHours)
	if err != nil {
		return nil, err
	}

	if o.deps.Cache != nil {
		if err := o.deps.Cache.SetHourly(ctx, series, o.cfg.HorizonHours, markets); err != nil {
			o.logger.WarnContext(ctx, "market cache write failed",
				slog.String("series", series),
				slog.String("error", err.Error()),
			)
		}
	}
	return markets, nil
}

// samplePrice fetches one underlying quote and folds it into the candle
// series. A failed fetch skips the sample for this cycle.
func (o *Orchestrator) samplePrice(ctx context.Context) {
	price, err := o.deps.Quotes.CurrentPrice(ctx, o.cfg.Symbol)
	if err != nil {
		o.logger.WarnContext(ctx, "price fetch failed",
			slog.String("symbol", o.cfg.Symbol),
			slog.String("error", err.Error()),
		)
		o.addEvent("price fetch for %s failed: %v", o.cfg.Symbol, err)
		return
	}
	o.series.Record(price, o.now().UTC())
}

// tradeCycle walks the fetched markets through the entry decision and
// submits orders. It halts for the remainder of the run once cumulative PnL
// crosses the profit goal or the drawdown limit; the check happens at the
// start of the cycle, not mid-cycle.
func (o *Orchestrator) tradeCycle(ctx context.Context, markets []domain.Market) {
	if o.halted {
		return
	}
	if o.pnl >= o.cfg.ProfitGoal {
		o.halt(ctx, fmt.Sprintf("profit goal reached: pnl=%.2f >= %.2f", o.pnl, o.cfg.ProfitGoal))
		return
	}
	if o.pnl <= -o.cfg.MaxDrawdown {
		o.halt(ctx, fmt.Sprintf("max drawdown reached: pnl=%.2f <= -%.2f", o.pnl, o.cfg.MaxDrawdown))
		return
	}

	for _, m := range markets {
		if m.Ticker == "" || (m.YesBid == nil && m.NoBid == nil) {
			continue
		}

		side, price, ok := o.thresholds.ChooseSide(m.YesBid, m.NoBid)
		if !ok {
			o.logger.DebugContext(ctx, "no action",
				slog.String("ticker", m.Ticker),
			)
			o.addEvent("no action for %s", m.Ticker)
			continue
		}
		o.placeEntry(ctx, m.Ticker, side, price)
	}
}

// placeEntry submits a buy order for the chosen side and records the
// position on success. Prices are converted from the [0,1] bid fraction to
// integer cents. Failures are reported, never retried here; transient-error
// retry already happened inside the market client.
func (o *Orchestrator) placeEntry(ctx context.Context, ticker string, side domain.Side, price float64) {
	cents := int(price * 100)

	req := domain.OrderRequest{
		Action:        "buy",
		ClientOrderID: "order_" + strings.ReplaceAll(ticker, "-", "_"),
		Count:         o.cfg.TradeSize,
		Side:          side,
		Ticker:        ticker,
		Type:          "Market",
	}
	if side == domain.SideYes {
		req.YesPriceCents = cents
	} else {
		req.NoPriceCents = cents
	}

	o.logger.InfoContext(ctx, "placing order",
		slog.String("ticker", ticker),
		slog.String("side", string(side)),
		slog.Float64("price", price),
		slog.Int("count", o.cfg.TradeSize),
	)

	conf, err := o.deps.Orders.PlaceOrder(ctx, req)
	if err != nil {
		o.logger.ErrorContext(ctx, "order placement failed",
			slog.String("ticker", ticker),
			slog.String("error", err.Error()),
		)
		o.addEvent("order failed for %s: %v", ticker, err)
		o.notify(ctx, notify.EventOrderFailed, "Order failed",
			fmt.Sprintf("%s %s @ %.2f: %v", ticker, side, price, err))
		return
	}

	o.positions[ticker] = domain.Position{
		Ticker:     ticker,
		Side:       side,
		EntryPrice: price,
		Quantity:   o.cfg.TradeSize,
		OpenedAt:   o.now().UTC(),
	}
	o.addEvent("order placed on %s side %s at %.2f", ticker, side, price)
	o.notify(ctx, notify.EventOrderPlaced, "Order placed",
		fmt.Sprintf("%s %s @ %.2f x%d (order %s)", ticker, side, price, o.cfg.TradeSize, conf.OrderID))
}

// halt stops new entries for the remainder of the run.
func (o *Orchestrator) halt(ctx context.Context, reason string) {
	o.halted = true
	o.logger.WarnContext(ctx, "trading halted", slog.String("reason", reason))
	o.addEvent("trading halted: %s", reason)
	o.notify(ctx, notify.EventTradingHalted, "Trading halted", reason)
}

func (o *Orchestrator) notify(ctx context.Context, event, title, message string) {
	if o.deps.Notifier == nil {
		return
	}
	if err := o.deps.Notifier.Notify(ctx, event, title, message); err != nil {
		o.logger.WarnContext(ctx, "notify failed", slog.String("error", err.Error()))
	}
}

// addEvent appends a timestamped line to the bounded per-cycle event log.
func (o *Orchestrator) addEvent(format string, args ...any) {
	line := o.now().UTC().Format("15:04:05") + " " + fmt.Sprintf(format, args...)
	o.events = append(o.events, line)
	if overflow := len(o.events) - o.cfg.EventLogSize; overflow > 0 {
		o.events = append([]string(nil), o.events[overflow:]...)
	}
}

// publishSnapshot freezes the current account state into a DashboardState
// and hands it to the render collaborator.
func (o *Orchestrator) publishSnapshot() {
	positions := make(map[string]domain.Position, len(o.positions))
	for k, v := range o.positions {
		positions[k] = v
	}
	events := make([]string, len(o.events))
	copy(events, o.events)
	markets := make([]domain.Market, len(o.lastMarkets))
	copy(markets, o.lastMarkets)

	st := domain.DashboardState{
		Symbol:        o.cfg.Symbol,
		Candles:       o.series.Snapshot(),
		CumulativePnL: o.pnl,
		Positions:     positions,
		Markets:       markets,
		RecentEvents:  events,
		AutoTrading:   o.autoTrade.Load(),
		Halted:        o.halted,
		UpdatedAt:     o.now().UTC(),
	}
	o.state.Store(&st)

	if o.deps.Publisher != nil {
		o.deps.Publisher.PublishState(st)
	}
}

// DashboardState returns the snapshot from the most recent cycle. Safe to
// call from any goroutine.
func (o *Orchestrator) DashboardState() domain.DashboardState {
	if st := o.state.Load(); st != nil {
		return *st
	}
	return domain.DashboardState{
		Symbol:    o.cfg.Symbol,
		Positions: map[string]domain.Position{},
	}
}

// SetAutoTrading flips the auto-trading toggle at runtime.
func (o *Orchestrator) SetAutoTrading(enabled bool) {
	o.autoTrade.Store(enabled)
	o.logger.Info("auto-trading toggled", slog.Bool("enabled", enabled))
}

// AutoTrading reports whether auto-trading is currently enabled.
func (o *Orchestrator) AutoTrading() bool {
	return o.autoTrade.Load()
}
