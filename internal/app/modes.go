package app

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/config"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/orchestrator"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/server"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/server/handler"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/server/ws"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/strategy"
)

// TradeMode runs the full poll loop with order placement governed by the
// auto_trade setting and the runtime toggle.
func (a *App) TradeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting trade mode")
	return a.runBot(ctx, deps, a.cfg.Trading.AutoTrade)
}

// MonitorMode runs the same poll loop but never places orders, regardless of
// configuration. Useful for watching markets and candles with no risk.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting monitor mode, order placement disabled")
	return a.runBot(ctx, deps, false)
}

// runBot builds the orchestrator and, when enabled, the dashboard server and
// WebSocket hub, then supervises them under one errgroup until the context is
// cancelled.
func (a *App) runBot(ctx context.Context, deps *Dependencies, autoTrade bool) error {
	g, ctx := errgroup.WithContext(ctx)

	var hub *ws.Hub
	if a.cfg.Server.Enabled {
		hub = ws.NewHub(a.logger)
		g.Go(func() error {
			return hub.Run(ctx)
		})
	}

	thresholds := strategy.Thresholds{
		EntryLow:   a.cfg.Trading.EntryPriceLow,
		EntryHigh:  a.cfg.Trading.EntryPriceHigh,
		ExitProfit: a.cfg.Trading.ExitPriceProfit,
		ExitLoss:   a.cfg.Trading.ExitPriceLoss,
	}

	odeps := orchestrator.Deps{
		Markets:  deps.Markets,
		Quotes:   deps.Quotes,
		Orders:   deps.Orders,
		Cache:    deps.Cache,
		Notifier: deps.Notifier,
	}
	if hub != nil {
		odeps.Publisher = hub
	}

	orch := orchestrator.New(
		orchestrator.Config{
			Series:          a.cfg.Trading.Series,
			HorizonHours:    a.cfg.Trading.HorizonHours,
			Symbol:          a.cfg.Candles.Symbol,
			CandleInterval:  a.cfg.Candles.Interval.Duration,
			RefreshInterval: a.cfg.Poll.RefreshInterval.Duration,
			TradeSize:       a.cfg.Trading.TradeSize,
			ProfitGoal:      a.cfg.Trading.ProfitGoal,
			MaxDrawdown:     a.cfg.Trading.MaxDrawdown,
			AutoTrade:       autoTrade,
		},
		thresholds,
		odeps,
		a.logger,
	)
	g.Go(func() error {
		return orch.Run(ctx)
	})

	if a.cfg.Server.Enabled {
		srv := a.buildServer(deps, orch, hub)
		g.Go(func() error {
			return srv.Start()
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// buildServer assembles the HTTP handlers around the orchestrator.
func (a *App) buildServer(deps *Dependencies, orch *orchestrator.Orchestrator, hub *ws.Hub) *server.Server {
	handlers := server.Handlers{
		Health: handler.NewHealthHandler(a.logger),
		Status: handler.NewStatusHandler(
			a.cfg.Mode,
			a.cfg.Candles.Symbol,
			time.Now().UTC(),
			orch,
			orch,
		),
		State:   handler.NewStateHandler(orch),
		Config:  handler.NewConfigHandler(configView(a.cfg)),
		Trading: handler.NewTradingHandler(orch, a.logger),
	}

	return server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
	}, handlers, hub, a.logger)
}

// configView builds the redacted config exposed at /api/config.
func configView(cfg *config.Config) handler.ConfigView {
	return handler.ConfigView{
		Series:          cfg.Trading.Series,
		HorizonHours:    cfg.Trading.HorizonHours,
		Symbol:          cfg.Candles.Symbol,
		EntryPriceLow:   cfg.Trading.EntryPriceLow,
		EntryPriceHigh:  cfg.Trading.EntryPriceHigh,
		ExitPriceProfit: cfg.Trading.ExitPriceProfit,
		ExitPriceLoss:   cfg.Trading.ExitPriceLoss,
		TradeSize:       cfg.Trading.TradeSize,
		ProfitGoal:      cfg.Trading.ProfitGoal,
		MaxDrawdown:     cfg.Trading.MaxDrawdown,
		RefreshInterval: cfg.Poll.RefreshInterval.Duration.String(),
		CandleInterval:  cfg.Candles.Interval.Duration.String(),
	}
}
