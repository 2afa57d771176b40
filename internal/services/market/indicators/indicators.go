// Package indicators computes technical indicators over a candle window
// using the cinar/indicator library. The values are diagnostics logged next
// to the model score.
package indicators

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/cinar/indicator/v2/volatility"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
	"go.uber.org/zap"
)

const (
	emaPeriod = 20
	rsiPeriod = 14
	atrPeriod = 14
)

// Snapshot latest indicator values of a window.
type Snapshot struct {
	EMA20 float64
	RSI14 float64
	ATR14 float64
}

// Fields renders the snapshot as log fields.
func (s Snapshot) Fields() []zap.Field {
	return []zap.Field{
		zap.Float64("ema20", s.EMA20),
		zap.Float64("rsi14", s.RSI14),
		zap.Float64("atr14", s.ATR14),
	}
}

// CalculateEMA calculates the Exponential Moving Average for the given period
func CalculateEMA(closes []float64, period int) ([]float64, error) {
	if len(closes) < period {
		return nil, fmt.Errorf("not enough data points: need %d, got %d", period, len(closes))
	}

	ema := trend.NewEmaWithPeriod[float64](period)
	return helper.ChanToSlice(ema.Compute(helper.SliceToChan(closes))), nil
}

// CalculateRSI calculates the Relative Strength Index for the given period
func CalculateRSI(closes []float64, period int) ([]float64, error) {
	if len(closes) < period+1 {
		return nil, fmt.Errorf("not enough data points for RSI: need %d, got %d", period+1, len(closes))
	}

	rsi := momentum.NewRsiWithPeriod[float64](period)
	return helper.ChanToSlice(rsi.Compute(helper.SliceToChan(closes))), nil
}

// CalculateATR calculates the Average True Range for the given period
func CalculateATR(candles []domain.Candle, period int) ([]float64, error) {
	if len(candles) < period+1 {
		return nil, fmt.Errorf("not enough data points for ATR: need %d, got %d", period+1, len(candles))
	}

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	for i, c := range candles {
		highs[i], lows[i], closes[i] = c.High, c.Low, c.Close
	}

	atr := volatility.NewAtrWithPeriod[float64](period)
	out := atr.Compute(helper.SliceToChan(highs), helper.SliceToChan(lows), helper.SliceToChan(closes))
	return helper.ChanToSlice(out), nil
}

// Latest computes the snapshot for the newest candle of the window.
func Latest(candles []domain.Candle) (Snapshot, error) {
	closes := domain.Closes(candles)

	ema, err := CalculateEMA(closes, emaPeriod)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to calculate EMA%d: %w", emaPeriod, err)
	}
	rsi, err := CalculateRSI(closes, rsiPeriod)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to calculate RSI%d: %w", rsiPeriod, err)
	}
	atr, err := CalculateATR(candles, atrPeriod)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to calculate ATR%d: %w", atrPeriod, err)
	}

	return Snapshot{
		EMA20: last(ema),
		RSI14: last(rsi),
		ATR14: last(atr),
	}, nil
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}
