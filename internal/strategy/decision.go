// Package strategy holds the threshold rules that decide trade entry and
// exit, plus the side-selection policy applied per market.
package strategy

import "github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"

// ExitSignal is the outcome of an exit evaluation.
type ExitSignal string

const (
	ExitProfit ExitSignal = "profit"
	ExitLoss   ExitSignal = "loss"
	ExitNone   ExitSignal = "none"
)

// Thresholds are the static trading parameters. They are set at construction
// and never mutated at runtime; a parameter change means a new Thresholds.
// All prices are fractions in [0,1].
type Thresholds struct {
	EntryLow   float64
	EntryHigh  float64
	ExitProfit float64
	ExitLoss   float64
}

// ShouldEnter reports whether price is inside the entry band. Both bounds
// are inclusive.
func (t Thresholds) ShouldEnter(price float64) bool {
	return t.EntryLow <= price && price <= t.EntryHigh
}

// ShouldExit evaluates the exit rule for a current price. The profit check
// runs first, so with degenerate or overlapping thresholds profit wins.
//
// entryPrice is accepted but not used in the computation. The rule has
// always keyed off the current price alone; keep the parameter until the
// exit policy is revisited rather than silently changing the contract.
func (t Thresholds) ShouldExit(price, entryPrice float64) ExitSignal {
	_ = entryPrice
	switch {
	case price >= t.ExitProfit:
		return ExitProfit
	case price <= t.ExitLoss:
		return ExitLoss
	default:
		return ExitNone
	}
}

// ChooseSide picks which side of a market to enter given the two optional
// bids. Each present bid is evaluated against the entry band independently.
// When both qualify, the cheaper side wins and yes wins exact ties; when
// exactly one qualifies that side is chosen; otherwise ok is false.
func (t Thresholds) ChooseSide(yesBid, noBid *float64) (side domain.Side, price float64, ok bool) {
	enterYes := yesBid != nil && t.ShouldEnter(*yesBid)
	enterNo := noBid != nil && t.ShouldEnter(*noBid)

	switch {
	case enterYes && enterNo:
		if *yesBid <= *noBid {
			return domain.SideYes, *yesBid, true
		}
		return domain.SideNo, *noBid, true
	case enterYes:
		return domain.SideYes, *yesBid, true
	case enterNo:
		return domain.SideNo, *noBid, true
	default:
		return "", 0, false
	}
}
