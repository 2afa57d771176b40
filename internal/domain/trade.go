package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TradeEvent result of one processed bar.
type TradeEvent struct {
	// Action buy, sell or hold.
	Action Action
	// Pair trading pair.
	Pair Pair
	// Score raw model output.
	Score float64
	// BarOpenTime open time of the bar the decision was made on.
	BarOpenTime int64
	// Amount quantity of the base currency.
	Amount decimal.Decimal
	// OrderID id of the order placed for this bar, empty on hold or failure.
	OrderID string
	// CanceledOrderID id of the previous order canceled before placing the new one.
	CanceledOrderID string
}

// String returns a human-readable string representation.
func (t *TradeEvent) String() string {
	return fmt.Sprintf("%s action: %s score: %.4f amount: %s order: %s",
		t.Pair.String(), t.Action.String(), t.Score, t.Amount.String(), t.OrderID)
}
