package domain

// OrderRequest describes an order to submit to the exchange. Prices are
// integer cents; exactly one of YesPriceCents/NoPriceCents is meaningful for
// a given side, the other is sent as 0.
type OrderRequest struct {
	Action            string `json:"action"` // "buy" or "sell"
	ClientOrderID     string `json:"client_order_id"`
	Count             int    `json:"count"`
	SellPositionFloor int    `json:"sell_position_floor"`
	Side              Side   `json:"side"`
	Ticker            string `json:"ticker"`
	Type              string `json:"type"` // "Market" or "Limit"
	YesPriceCents     int    `json:"yes_price"`
	NoPriceCents      int    `json:"no_price"`
}

// OrderConfirmation is the exchange's acknowledgement of a placed order.
type OrderConfirmation struct {
	OrderID string
	Ticker  string
	Status  string
	Side    Side
	Action  string
}
