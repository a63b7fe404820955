package kalshi

// --------------------------------------------------------------------------
// Kalshi API DTOs
// --------------------------------------------------------------------------

// EventData is the response of the GetEvents endpoint. Markets are nested
// either directly under "markets" or under "events[].markets" depending on
// the with_nested_markets flag and API version; both shapes appear in the
// wild and are supported, checking "markets" first.
type EventData struct {
	Markets []MarketRecord `json:"markets"`
	Events  []EventRecord  `json:"events"`
}

// EventRecord is one event grouping in the GetEvents response.
type EventRecord struct {
	EventTicker string         `json:"event_ticker"`
	Title       string         `json:"title"`
	Markets     []MarketRecord `json:"markets"`
}

// MarketRecord is a raw market as returned by the API. CloseTime stays a
// string here; parsing and filtering happen in HourlyMarkets so a malformed
// record can be skipped without failing the whole fetch.
type MarketRecord struct {
	Ticker    string   `json:"ticker"`
	Status    string   `json:"status"`
	CloseTime string   `json:"close_time"`
	YesBid    *float64 `json:"yes_bid"`
	NoBid     *float64 `json:"no_bid"`
}

// orderResponse is the exchange acknowledgement for a placed order.
type orderResponse struct {
	Order struct {
		OrderID string `json:"order_id"`
		Ticker  string `json:"ticker"`
		Status  string `json:"status"`
		Action  string `json:"action"`
		Side    string `json:"side"`
	} `json:"order"`
}

// errorResponse is the Kalshi API error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
