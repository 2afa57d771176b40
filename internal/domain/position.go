package domain

// Position is the live loop's view of the market: at most one open order
// and the open time of the last bar that was processed.
type Position struct {
	Pair        string `json:"pair"`
	OpenOrderID string `json:"open_order_id,omitempty"`
	LastBar     int64  `json:"last_bar"`
}

// HasOpenOrder reports whether an order id is being tracked.
func (p Position) HasOpenOrder() bool {
	return p.OpenOrderID != ""
}

// IsNewBar reports whether a candle opened at openTime was not processed yet.
func (p Position) IsNewBar(openTime int64) bool {
	return openTime != p.LastBar
}
