package orchestrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"
	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/strategy"
)

// --------------------------------------------------------------------------
// Collaborator stubs
// --------------------------------------------------------------------------

type stubMarkets struct {
	markets []domain.Market
	err     error
	calls   int
}

func (s *stubMarkets) HourlyMarkets(ctx context.Context, seriesTicker string, hours int) ([]domain.Market, error) {
	s.calls++
	return s.markets, s.err
}

type stubQuotes struct {
	price float64
	err   error
}

func (s *stubQuotes) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	return s.price, s.err
}

type stubOrders struct {
	requests []domain.OrderRequest
	err      error
}

func (s *stubOrders) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderConfirmation, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return domain.OrderConfirmation{}, s.err
	}
	return domain.OrderConfirmation{
		OrderID: "ord-" + req.Ticker,
		Ticker:  req.Ticker,
		Status:  "resting",
		Side:    req.Side,
		Action:  req.Action,
	}, nil
}

type stubCache struct {
	data map[string][]domain.Market
	sets int
}

func (s *stubCache) GetHourly(ctx context.Context, seriesTicker string, hours int) ([]domain.Market, error) {
	if m, ok := s.data[seriesTicker]; ok {
		return m, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCache) SetHourly(ctx context.Context, seriesTicker string, hours int, markets []domain.Market) error {
	if s.data == nil {
		s.data = make(map[string][]domain.Market)
	}
	s.data[seriesTicker] = markets
	s.sets++
	return nil
}

type stubPublisher struct {
	states []domain.DashboardState
}

func (s *stubPublisher) PublishState(st domain.DashboardState) {
	s.states = append(s.states, st)
}

// --------------------------------------------------------------------------
// Fixtures
// --------------------------------------------------------------------------

func bid(v float64) *float64 { return &v }

func testConfig() Config {
	return Config{
		Series:          []string{"KXETHD"},
		HorizonHours:    1,
		Symbol:          "ethereum",
		CandleInterval:  5 * time.Minute,
		RefreshInterval: 15 * time.Second,
		TradeSize:       10,
		ProfitGoal:      100,
		MaxDrawdown:     50,
		AutoTrade:       true,
	}
}

func testThresholds() strategy.Thresholds {
	return strategy.Thresholds{
		EntryLow:   0.30,
		EntryHigh:  0.80,
		ExitProfit: 0.90,
		ExitLoss:   0.15,
	}
}

func newTestOrchestrator(cfg Config, deps Deps) *Orchestrator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	o := New(cfg, testThresholds(), deps, logger)
	o.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return o
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestCyclePlacesEntriesForQualifyingMarkets(t *testing.T) {
	markets := &stubMarkets{markets: []domain.Market{
		{Ticker: "KXETHD-A", YesBid: bid(0.35)},
		{Ticker: "KXETHD-B", NoBid: bid(0.55)},
		{Ticker: "KXETHD-C", YesBid: bid(0.95)}, // outside the entry band
		{Ticker: "KXETHD-D"},                    // no bids at all
		{YesBid: bid(0.40)},                     // missing ticker
	}}
	orders := &stubOrders{}
	o := newTestOrchestrator(testConfig(), Deps{
		Markets: markets,
		Quotes:  &stubQuotes{price: 3400},
		Orders:  orders,
	})

	o.runCycle(context.Background())

	require.Len(t, orders.requests, 2)

	first := orders.requests[0]
	assert.Equal(t, "buy", first.Action)
	assert.Equal(t, "order_KXETHD_A", first.ClientOrderID)
	assert.Equal(t, 10, first.Count)
	assert.Equal(t, domain.SideYes, first.Side)
	assert.Equal(t, 35, first.YesPriceCents)
	assert.Zero(t, first.NoPriceCents)

	second := orders.requests[1]
	assert.Equal(t, domain.SideNo, second.Side)
	assert.Equal(t, "order_KXETHD_B", second.ClientOrderID)
	assert.Equal(t, 55, second.NoPriceCents)
	assert.Zero(t, second.YesPriceCents)

	assert.Len(t, o.positions, 2)
	pos := o.positions["KXETHD-A"]
	assert.Equal(t, domain.SideYes, pos.Side)
	assert.Equal(t, 0.35, pos.EntryPrice)
	assert.Equal(t, 10, pos.Quantity)
}

func TestCycleOneOrderPerQualifyingMarket(t *testing.T) {
	markets := &stubMarkets{markets: []domain.Market{
		{Ticker: "KXETHD-A", YesBid: bid(0.35)},
		{Ticker: "KXETHD-B", NoBid: bid(0.20)},
	}}
	orders := &stubOrders{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Wider entry band so both bids qualify.
	o := New(testConfig(), strategy.Thresholds{
		EntryLow:   0.10,
		EntryHigh:  0.80,
		ExitProfit: 0.90,
		ExitLoss:   0.05,
	}, Deps{
		Markets: markets,
		Quotes:  &stubQuotes{price: 3400},
		Orders:  orders,
	}, logger)

	o.runCycle(context.Background())

	require.Len(t, orders.requests, 2)
	assert.Equal(t, domain.SideYes, orders.requests[0].Side)
	assert.Equal(t, domain.SideNo, orders.requests[1].Side)
	assert.Len(t, o.positions, 2)
}

func TestCycleNoOrdersWhenAutoTradeOff(t *testing.T) {
	cfg := testConfig()
	cfg.AutoTrade = false
	orders := &stubOrders{}
	o := newTestOrchestrator(cfg, Deps{
		Markets: &stubMarkets{markets: []domain.Market{{Ticker: "A", YesBid: bid(0.40)}}},
		Quotes:  &stubQuotes{price: 3400},
		Orders:  orders,
	})

	o.runCycle(context.Background())
	assert.Empty(t, orders.requests)

	o.SetAutoTrading(true)
	o.runCycle(context.Background())
	assert.Len(t, orders.requests, 1)
}

func TestHaltOnProfitGoalIsSticky(t *testing.T) {
	orders := &stubOrders{}
	o := newTestOrchestrator(testConfig(), Deps{
		Markets: &stubMarkets{markets: []domain.Market{{Ticker: "A", YesBid: bid(0.40)}}},
		Quotes:  &stubQuotes{price: 3400},
		Orders:  orders,
	})
	o.pnl = 100 // exactly at the goal

	o.runCycle(context.Background())
	assert.Empty(t, orders.requests)
	assert.True(t, o.halted)

	// Dropping back under the goal does not resume trading.
	o.pnl = 0
	o.runCycle(context.Background())
	assert.Empty(t, orders.requests)
}

func TestHaltOnMaxDrawdown(t *testing.T) {
	orders := &stubOrders{}
	o := newTestOrchestrator(testConfig(), Deps{
		Markets: &stubMarkets{markets: []domain.Market{{Ticker: "A", YesBid: bid(0.40)}}},
		Quotes:  &stubQuotes{price: 3400},
		Orders:  orders,
	})
	o.pnl = -50

	o.runCycle(context.Background())
	assert.Empty(t, orders.requests)
	assert.True(t, o.halted)
}

func TestCacheHitSkipsFetch(t *testing.T) {
	markets := &stubMarkets{}
	cache := &stubCache{data: map[string][]domain.Market{
		"KXETHD": {{Ticker: "CACHED", YesBid: bid(0.40)}},
	}}
	orders := &stubOrders{}
	o := newTestOrchestrator(testConfig(), Deps{
		Markets: markets,
		Quotes:  &stubQuotes{price: 3400},
		Orders:  orders,
		Cache:   cache,
	})

	o.runCycle(context.Background())

	assert.Zero(t, markets.calls)
	require.Len(t, orders.requests, 1)
	assert.Equal(t, "CACHED", orders.requests[0].Ticker)
}

func TestCacheMissFetchesAndStores(t *testing.T) {
	markets := &stubMarkets{markets: []domain.Market{{Ticker: "FRESH", YesBid: bid(0.40)}}}
	cache := &stubCache{}
	o := newTestOrchestrator(testConfig(), Deps{
		Markets: markets,
		Quotes:  &stubQuotes{price: 3400},
		Orders:  &stubOrders{},
		Cache:   cache,
	})

	o.runCycle(context.Background())

	assert.Equal(t, 1, markets.calls)
	assert.Equal(t, 1, cache.sets)
	assert.Len(t, cache.data["KXETHD"], 1)
}

func TestOrderFailureRecordsNoPosition(t *testing.T) {
	orders := &stubOrders{err: errors.New("insufficient balance")}
	o := newTestOrchestrator(testConfig(), Deps{
		Markets: &stubMarkets{markets: []domain.Market{{Ticker: "A", YesBid: bid(0.40)}}},
		Quotes:  &stubQuotes{price: 3400},
		Orders:  orders,
	})

	o.runCycle(context.Background())

	assert.Len(t, orders.requests, 1)
	assert.Empty(t, o.positions)
}

func TestFailedQuoteSkipsSample(t *testing.T) {
	o := newTestOrchestrator(testConfig(), Deps{
		Markets: &stubMarkets{},
		Quotes:  &stubQuotes{err: errors.New("rate limited")},
		Orders:  &stubOrders{},
	})

	o.runCycle(context.Background())
	assert.Zero(t, o.series.Len())

	o.deps.Quotes = &stubQuotes{price: 3400}
	o.runCycle(context.Background())
	assert.Equal(t, 1, o.series.Len())
}

func TestMarketFetchFailureDegradesToEmptyCycle(t *testing.T) {
	orders := &stubOrders{}
	o := newTestOrchestrator(testConfig(), Deps{
		Markets: &stubMarkets{err: errors.New("HTTP 500")},
		Quotes:  &stubQuotes{price: 3400},
		Orders:  orders,
	})

	o.runCycle(context.Background())

	assert.Empty(t, orders.requests)
	assert.NotEmpty(t, o.events, "fetch failure shows up in the event log")
}

func TestSnapshotPublishedEveryCycle(t *testing.T) {
	pub := &stubPublisher{}
	o := newTestOrchestrator(testConfig(), Deps{
		Markets:   &stubMarkets{markets: []domain.Market{{Ticker: "A", YesBid: bid(0.35)}}},
		Quotes:    &stubQuotes{price: 3400},
		Orders:    &stubOrders{},
		Publisher: pub,
	})

	o.runCycle(context.Background())

	require.Len(t, pub.states, 1)
	st := pub.states[0]
	assert.Equal(t, "ethereum", st.Symbol)
	assert.Len(t, st.Markets, 1)
	assert.Len(t, st.Candles, 1)
	assert.True(t, st.AutoTrading)

	got := o.DashboardState()
	assert.Equal(t, st.Symbol, got.Symbol)
	assert.Len(t, got.Candles, 1)
}

func TestDashboardStateBeforeFirstCycle(t *testing.T) {
	o := newTestOrchestrator(testConfig(), Deps{
		Markets: &stubMarkets{},
		Quotes:  &stubQuotes{price: 1},
		Orders:  &stubOrders{},
	})

	st := o.DashboardState()
	assert.Equal(t, "ethereum", st.Symbol)
	assert.NotNil(t, st.Positions)
	assert.Empty(t, st.Candles)
}

func TestEventLogBounded(t *testing.T) {
	cfg := testConfig()
	cfg.EventLogSize = 5
	o := newTestOrchestrator(cfg, Deps{
		Markets: &stubMarkets{},
		Quotes:  &stubQuotes{price: 1},
		Orders:  &stubOrders{},
	})

	for i := 0; i < 20; i++ {
		o.addEvent("event %d", i)
	}
	require.Len(t, o.events, 5)
	assert.Contains(t, o.events[4], "event 19")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshInterval = 10 * time.Millisecond
	o := newTestOrchestrator(cfg, Deps{
		Markets: &stubMarkets{},
		Quotes:  &stubQuotes{price: 1},
		Orders:  &stubOrders{},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
