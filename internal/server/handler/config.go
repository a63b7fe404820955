package handler

import (
	"net/http"
)

// ConfigView is the redacted configuration exposed to the dashboard.
// Credentials never appear here.
type ConfigView struct {
	Series          []string `json:"series"`
	HorizonHours    int      `json:"horizon_hours"`
	Symbol          string   `json:"symbol"`
	EntryPriceLow   float64  `json:"entry_price_low"`
	EntryPriceHigh  float64  `json:"entry_price_high"`
	ExitPriceProfit float64  `json:"exit_price_profit"`
	ExitPriceLoss   float64  `json:"exit_price_loss"`
	TradeSize       int      `json:"trade_size"`
	ProfitGoal      float64  `json:"profit_goal"`
	MaxDrawdown     float64  `json:"max_drawdown"`
	RefreshInterval string   `json:"refresh_interval"`
	CandleInterval  string   `json:"candle_interval"`
}

// ConfigHandler serves the redacted runtime configuration.
type ConfigHandler struct {
	view ConfigView
}

// NewConfigHandler creates a ConfigHandler for the given view.
func NewConfigHandler(view ConfigView) *ConfigHandler {
	return &ConfigHandler{view: view}
}

// GetConfig responds with the trading parameters the bot is running with.
// GET /api/config
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view)
}
