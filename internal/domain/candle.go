package domain

import "time"

// Candle is one OHLC aggregate over a fixed time bucket. Time is the bucket
// start, anchored at the first sample's arrival (not a wall-clock grid).
//
// Invariant: High >= max(Open, Close) and Low <= min(Open, Close).
type Candle struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}
