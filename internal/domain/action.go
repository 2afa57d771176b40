package domain

// Action represents the decision taken for a bar.
type Action int

const (
	ActionHold Action = iota
	ActionBuy
	ActionSell
)

// Default score thresholds around zero.
const (
	DefaultBuyThreshold  = 0.5
	DefaultSellThreshold = -0.5
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case ActionHold:
		return "hold"
	case ActionBuy:
		return "buy"
	case ActionSell:
		return "sell"
	default:
		return "unknown"
	}
}

// Side maps a trading action to the order side. Hold has no side.
func (a Action) Side() (Side, bool) {
	switch a {
	case ActionBuy:
		return SideBuy, true
	case ActionSell:
		return SideSell, true
	default:
		return "", false
	}
}

// DecideAction maps a model score to an action. Both bounds are strict:
// a score equal to a threshold holds.
func DecideAction(score, buyThreshold, sellThreshold float64) Action {
	switch {
	case score > buyThreshold:
		return ActionBuy
	case score < sellThreshold:
		return ActionSell
	default:
		return ActionHold
	}
}
