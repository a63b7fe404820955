package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// TradingController toggles automated order placement at runtime.
type TradingController interface {
	SetAutoTrading(enabled bool)
	AutoTrading() bool
}

// TradingHandler serves the auto-trading toggle endpoint.
type TradingHandler struct {
	controller TradingController
	logger     *slog.Logger
}

// NewTradingHandler creates a TradingHandler with the given controller.
func NewTradingHandler(controller TradingController, logger *slog.Logger) *TradingHandler {
	return &TradingHandler{controller: controller, logger: logger}
}

// SetTrading enables or disables automated trading.
// POST /api/trading
func (h *TradingHandler) SetTrading(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "missing required field: enabled")
		return
	}

	h.controller.SetAutoTrading(*req.Enabled)
	h.logger.InfoContext(r.Context(), "auto-trading toggled via api",
		slog.Bool("enabled", *req.Enabled),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"auto_trading": h.controller.AutoTrading(),
	})
}
