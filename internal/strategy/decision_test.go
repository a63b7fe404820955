package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"
)

func defaultThresholds() Thresholds {
	return Thresholds{
		EntryLow:   0.30,
		EntryHigh:  0.80,
		ExitProfit: 0.90,
		ExitLoss:   0.15,
	}
}

func bid(v float64) *float64 { return &v }

func TestShouldEnter(t *testing.T) {
	th := defaultThresholds()

	tests := []struct {
		name  string
		price float64
		want  bool
	}{
		{"below band", 0.29, false},
		{"lower bound inclusive", 0.30, true},
		{"inside band", 0.55, true},
		{"upper bound inclusive", 0.80, true},
		{"above band", 0.81, false},
		{"zero", 0.0, false},
		{"one", 1.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.ShouldEnter(tt.price))
		})
	}
}

func TestShouldExit(t *testing.T) {
	th := defaultThresholds()

	assert.Equal(t, ExitProfit, th.ShouldExit(0.95, 0.50))
	assert.Equal(t, ExitProfit, th.ShouldExit(0.90, 0.50), "profit bound is inclusive")
	assert.Equal(t, ExitLoss, th.ShouldExit(0.10, 0.50))
	assert.Equal(t, ExitLoss, th.ShouldExit(0.15, 0.50), "loss bound is inclusive")
	assert.Equal(t, ExitNone, th.ShouldExit(0.50, 0.50))
}

func TestShouldExitProfitWinsOnOverlap(t *testing.T) {
	// Degenerate thresholds where a price satisfies both rules.
	th := Thresholds{ExitProfit: 0.20, ExitLoss: 0.50}
	assert.Equal(t, ExitProfit, th.ShouldExit(0.30, 0.40))
}

func TestShouldExitIgnoresEntryPrice(t *testing.T) {
	th := defaultThresholds()
	assert.Equal(t, th.ShouldExit(0.95, 0.10), th.ShouldExit(0.95, 0.99))
	assert.Equal(t, th.ShouldExit(0.50, 0.10), th.ShouldExit(0.50, 0.99))
}

func TestChooseSide(t *testing.T) {
	th := defaultThresholds()

	tests := []struct {
		name      string
		yesBid    *float64
		noBid     *float64
		wantSide  domain.Side
		wantPrice float64
		wantOK    bool
	}{
		{"only yes qualifies", bid(0.40), bid(0.90), domain.SideYes, 0.40, true},
		{"only no qualifies", bid(0.10), bid(0.60), domain.SideNo, 0.60, true},
		{"both qualify cheaper yes", bid(0.35), bid(0.65), domain.SideYes, 0.35, true},
		{"both qualify cheaper no", bid(0.70), bid(0.32), domain.SideNo, 0.32, true},
		{"equal bids pick yes", bid(0.40), bid(0.40), domain.SideYes, 0.40, true},
		{"neither qualifies", bid(0.10), bid(0.90), "", 0, false},
		{"missing yes bid", nil, bid(0.50), domain.SideNo, 0.50, true},
		{"missing no bid", bid(0.50), nil, domain.SideYes, 0.50, true},
		{"both missing", nil, nil, "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, price, ok := th.ChooseSide(tt.yesBid, tt.noBid)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantSide, side)
				assert.Equal(t, tt.wantPrice, price)
			}
		})
	}
}
