package domain

import "fmt"

// Side order direction.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType exchange order type.
type OrderType string

const (
	OrderTypeLimit             OrderType = "LIMIT"
	OrderTypeMarket            OrderType = "MARKET"
	OrderTypeLimitMaker        OrderType = "LIMIT_MAKER"
	OrderTypeImmediateOrCancel OrderType = "IMMEDIATE_OR_CANCEL"
	OrderTypeFillOrKill        OrderType = "FILL_OR_KILL"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeLimit, OrderTypeMarket, OrderTypeLimitMaker,
		OrderTypeImmediateOrCancel, OrderTypeFillOrKill:
		return true
	}
	return false
}

// ParseSide converts a raw string into a Side.
func ParseSide(s string) (Side, error) {
	side := Side(s)
	if !side.Valid() {
		return "", fmt.Errorf("unknown order side %q", s)
	}
	return side, nil
}

// ParseOrderType converts a raw string into an OrderType.
func ParseOrderType(s string) (OrderType, error) {
	t := OrderType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown order type %q", s)
	}
	return t, nil
}
