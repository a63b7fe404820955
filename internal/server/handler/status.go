package handler

import (
	"net/http"
	"time"
)

// StatusHandler serves the backend status (mode, symbol, uptime) for the
// dashboard.
type StatusHandler struct {
	Mode      string
	Symbol    string
	StartedAt time.Time

	controller TradingController
	state      StateProvider
}

// NewStatusHandler creates a StatusHandler with the given runtime metadata.
func NewStatusHandler(mode, symbol string, startedAt time.Time, controller TradingController, state StateProvider) *StatusHandler {
	return &StatusHandler{
		Mode:       mode,
		Symbol:     symbol,
		StartedAt:  startedAt,
		controller: controller,
		state:      state,
	}
}

// GetStatus responds with the current backend mode and trading status.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st := h.state.DashboardState()
	uptime := int64(time.Since(h.StartedAt).Seconds())
	if uptime < 0 {
		uptime = 0
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"mode":           h.Mode,
		"symbol":         h.Symbol,
		"uptime_seconds": uptime,
		"auto_trading":   h.controller.AutoTrading(),
		"halted":         st.Halted,
		"cumulative_pnl": st.CumulativePnL,
		"open_positions": len(st.Positions),
	})
}
