// Package candle aggregates point-in-time price samples into OHLC bars.
package candle

import (
	"time"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"
)

// Series is an append-only sequence of candles in which only the last
// element mutates while its time bucket is still accumulating. Buckets are
// anchored at the first sample that opens them, not aligned to a wall-clock
// grid. Series is owned by the orchestrator's single goroutine and does no
// locking of its own.
type Series struct {
	interval time.Duration
	candles  []domain.Candle
}

// NewSeries creates a Series with the given bucket size.
func NewSeries(interval time.Duration) *Series {
	return &Series{interval: interval}
}

// Record folds one price sample observed at t into the series. If the last
// bucket is still open the sample updates its high/low/close; otherwise a
// fresh candle opens at t with all four prices equal to the sample.
func (s *Series) Record(price float64, t time.Time) {
	if n := len(s.candles); n > 0 && t.Sub(s.candles[n-1].Time) < s.interval {
		last := &s.candles[n-1]
		if price > last.High {
			last.High = price
		}
		if price < last.Low {
			last.Low = price
		}
		last.Close = price
		return
	}

	s.candles = append(s.candles, domain.Candle{
		Time:  t,
		Open:  price,
		High:  price,
		Low:   price,
		Close: price,
	})
}

// Len returns the number of candles recorded so far.
func (s *Series) Len() int {
	return len(s.candles)
}

// Last returns the most recent candle, if any.
func (s *Series) Last() (domain.Candle, bool) {
	if len(s.candles) == 0 {
		return domain.Candle{}, false
	}
	return s.candles[len(s.candles)-1], true
}

// Snapshot returns a copy of the candle sequence safe to hand to renderers.
func (s *Series) Snapshot() []domain.Candle {
	out := make([]domain.Candle, len(s.candles))
	copy(out, s.candles)
	return out
}
