package domain

import "time"

// Position records an open position, created on successful order placement.
// EntryPrice is the bid fraction the entry was taken at. Positions are
// keyed by ticker in the account state; a new entry on the same ticker
// overwrites the previous one.
type Position struct {
	Ticker     string    `json:"ticker"`
	Side       Side      `json:"side"`
	EntryPrice float64   `json:"entry_price"`
	Quantity   int       `json:"quantity"`
	OpenedAt   time.Time `json:"opened_at"`
}
