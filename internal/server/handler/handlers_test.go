package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"
)

type fakeState struct {
	state domain.DashboardState
}

func (f *fakeState) DashboardState() domain.DashboardState { return f.state }

type fakeController struct {
	enabled bool
}

func (f *fakeController) SetAutoTrading(enabled bool) { f.enabled = enabled }
func (f *fakeController) AutoTrading() bool           { return f.enabled }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler(testLogger())
	rec := httptest.NewRecorder()

	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestGetState(t *testing.T) {
	provider := &fakeState{state: domain.DashboardState{
		Symbol:        "ethereum",
		CumulativePnL: 12.5,
		Positions:     map[string]domain.Position{},
	}}
	h := NewStateHandler(provider)
	rec := httptest.NewRecorder()

	h.GetState(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ethereum", body["symbol"])
	assert.Equal(t, 12.5, body["cumulative_pnl"])
}

func TestListMarkets(t *testing.T) {
	yes := 0.35
	provider := &fakeState{state: domain.DashboardState{
		Markets: []domain.Market{{Ticker: "KXETHD-A", YesBid: &yes}},
	}}
	h := NewStateHandler(provider)
	rec := httptest.NewRecorder()

	h.ListMarkets(rec, httptest.NewRequest(http.MethodGet, "/api/markets", nil))

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
}

func TestListMarketsEmpty(t *testing.T) {
	h := NewStateHandler(&fakeState{})
	rec := httptest.NewRecorder()

	h.ListMarkets(rec, httptest.NewRequest(http.MethodGet, "/api/markets", nil))

	body := decodeBody(t, rec)
	assert.Equal(t, float64(0), body["count"])
	assert.NotNil(t, body["markets"], "empty list, not null")
}

func TestSetTrading(t *testing.T) {
	controller := &fakeController{}
	h := NewTradingHandler(controller, testLogger())
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPost, "/api/trading", strings.NewReader(`{"enabled": true}`))
	h.SetTrading(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, controller.enabled)
	assert.Equal(t, true, decodeBody(t, rec)["auto_trading"])
}

func TestSetTradingRejectsBadBody(t *testing.T) {
	h := NewTradingHandler(&fakeController{}, testLogger())

	rec := httptest.NewRecorder()
	h.SetTrading(rec, httptest.NewRequest(http.MethodPost, "/api/trading", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.SetTrading(rec, httptest.NewRequest(http.MethodPost, "/api/trading", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "enabled")
}

func TestGetStatus(t *testing.T) {
	controller := &fakeController{enabled: true}
	provider := &fakeState{state: domain.DashboardState{
		Halted:        true,
		CumulativePnL: -3,
		Positions:     map[string]domain.Position{"A": {}},
	}}
	h := NewStatusHandler("trade", "ethereum", time.Now().Add(-time.Minute), controller, provider)
	rec := httptest.NewRecorder()

	h.GetStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	body := decodeBody(t, rec)
	assert.Equal(t, "trade", body["mode"])
	assert.Equal(t, "ethereum", body["symbol"])
	assert.Equal(t, true, body["auto_trading"])
	assert.Equal(t, true, body["halted"])
	assert.Equal(t, float64(1), body["open_positions"])
	assert.GreaterOrEqual(t, body["uptime_seconds"], float64(60))
}

func TestGetConfig(t *testing.T) {
	h := NewConfigHandler(ConfigView{
		Series:    []string{"KXETHD"},
		Symbol:    "ethereum",
		TradeSize: 10,
	})
	rec := httptest.NewRecorder()

	h.GetConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	body := decodeBody(t, rec)
	assert.Equal(t, "ethereum", body["symbol"])
	assert.Equal(t, float64(10), body["trade_size"])
}
