package domain

import "context"

// MarketSource fetches the open near-expiry markets for one series. A fetch
// is a fresh snapshot each time; callers may layer a short-TTL cache on top.
type MarketSource interface {
	HourlyMarkets(ctx context.Context, seriesTicker string, hours int) ([]Market, error)
}

// QuoteSource returns the current USD price of an underlying asset symbol.
type QuoteSource interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// OrderPlacer submits orders to the exchange.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderConfirmation, error)
}

// MarketCache dedups hourly-market fetches within a refresh window.
type MarketCache interface {
	GetHourly(ctx context.Context, seriesTicker string, hours int) ([]Market, error)
	SetHourly(ctx context.Context, seriesTicker string, hours int, markets []Market) error
}

// StatePublisher receives the dashboard snapshot after every poll cycle.
type StatePublisher interface {
	PublishState(state DashboardState)
}
