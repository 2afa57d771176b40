package domain

import "github.com/samber/lo"

// Candle single OHLCV bar as delivered by the exchange.
// OpenTime and CloseTime are unix milliseconds.
type Candle struct {
	OpenTime    int64
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	CloseTime   int64
	QuoteVolume float64
}

// Closes extracts close prices preserving order.
func Closes(candles []Candle) []float64 {
	return lo.Map(candles, func(c Candle, _ int) float64 {
		return c.Close
	})
}

// Latest returns the newest candle of an oldest-first sequence.
func Latest(candles []Candle) (Candle, bool) {
	if len(candles) == 0 {
		return Candle{}, false
	}

	return candles[len(candles)-1], true
}
