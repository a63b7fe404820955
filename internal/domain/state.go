package domain

import "time"

// DashboardState is the per-cycle snapshot the orchestrator hands to the
// render collaborators (WebSocket hub, REST state endpoint). It is an
// immutable copy; consumers never see the orchestrator's live state.
type DashboardState struct {
	Symbol        string              `json:"symbol"`
	Candles       []Candle            `json:"candles"`
	CumulativePnL float64             `json:"cumulative_pnl"`
	Positions     map[string]Position `json:"positions"`
	Markets       []Market            `json:"markets"`
	RecentEvents  []string            `json:"recent_events"`
	AutoTrading   bool                `json:"auto_trading"`
	Halted        bool                `json:"halted"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
