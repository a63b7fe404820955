package domain

import (
	"strings"
	"time"
)

// Side identifies which side of a binary market an order or position is on.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Market is an immutable snapshot of a Kalshi market as of one fetch. No
// identity persists across polls except the ticker. Bids are fractions in
// [0,1]; a nil bid means the side had no quote in the snapshot.
type Market struct {
	Ticker    string    `json:"ticker"`
	Status    string    `json:"status"`
	CloseTime time.Time `json:"close_time"`
	YesBid    *float64  `json:"yes_bid,omitempty"`
	NoBid     *float64  `json:"no_bid,omitempty"`
}

// Finalized reports whether the market has been finalized. Kalshi is not
// consistent about status casing, so the comparison is case-insensitive.
func (m Market) Finalized() bool {
	return strings.EqualFold(m.Status, "finalized")
}

// ClosesWithin reports whether the market closes after now and no later than
// now+horizon. The lower bound is strict, the upper bound inclusive.
func (m Market) ClosesWithin(now time.Time, horizon time.Duration) bool {
	if !m.CloseTime.After(now) {
		return false
	}
	return !m.CloseTime.After(now.Add(horizon))
}
