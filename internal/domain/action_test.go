package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideAction(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  Action
	}{
		{name: "strong buy", score: 0.51, want: ActionBuy},
		{name: "just above buy boundary", score: 0.5000001, want: ActionBuy},
		{name: "buy boundary holds", score: 0.5, want: ActionHold},
		{name: "zero holds", score: 0, want: ActionHold},
		{name: "sell boundary holds", score: -0.5, want: ActionHold},
		{name: "strong sell", score: -0.51, want: ActionSell},
		{name: "just below sell boundary", score: -0.50001, want: ActionSell},
		{name: "large positive", score: 3, want: ActionBuy},
		{name: "large negative", score: -3, want: ActionSell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideAction(tt.score, DefaultBuyThreshold, DefaultSellThreshold))
		})
	}
}

func TestAction_Side(t *testing.T) {
	side, ok := ActionBuy.Side()
	assert.True(t, ok)
	assert.Equal(t, SideBuy, side)

	side, ok = ActionSell.Side()
	assert.True(t, ok)
	assert.Equal(t, SideSell, side)

	_, ok = ActionHold.Side()
	assert.False(t, ok)
}
