package handler

import (
	"net/http"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"
)

// StateProvider exposes the most recent dashboard snapshot.
type StateProvider interface {
	DashboardState() domain.DashboardState
}

// StateHandler serves read-only views of the bot's current state.
type StateHandler struct {
	provider StateProvider
}

// NewStateHandler creates a StateHandler backed by the given provider.
func NewStateHandler(provider StateProvider) *StateHandler {
	return &StateHandler{provider: provider}
}

// GetState responds with the full dashboard snapshot from the latest cycle.
// GET /api/state
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.DashboardState())
}

// ListMarkets responds with the near-expiry markets from the latest cycle.
// GET /api/markets
func (h *StateHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	st := h.provider.DashboardState()
	markets := st.Markets
	if markets == nil {
		markets = []domain.Market{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"markets": markets,
		"count":   len(markets),
	})
}
