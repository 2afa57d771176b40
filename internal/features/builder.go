package features

import (
	"math/rand"

	"github.com/vadiminshakov/gbdtbot/internal/dataset"
)

// Builder produces feature vectors for live prediction and labelled
// examples for training.
type Builder struct {
	Lags      int
	SMAPeriod int
}

// NewBuilder creates a builder.
func NewBuilder(lags, smaPeriod int) Builder {
	return Builder{Lags: lags, SMAPeriod: smaPeriod}
}

// Width returns the vector width produced by the builder.
func (b Builder) Width() int {
	return 1 + b.Lags
}

// MinHistory returns the smallest number of closes Latest accepts.
func (b Builder) MinHistory() int {
	return b.Lags + b.SMAPeriod
}

func (b Builder) sma(closes []float64) ([]float64, error) {
	if b.Lags < 1 {
		return nil, &PreconditionError{Reason: "lags must be positive", Need: 1, Have: b.Lags}
	}
	return ComputeSMA(closes, b.SMAPeriod)
}

// At builds the vector for bar at, requiring every SMA value it reads to be
// defined.
func (b Builder) At(closes []float64, at int) (Vector, error) {
	sma, err := b.sma(closes)
	if err != nil {
		return nil, err
	}
	return b.at(closes, sma, at)
}

func (b Builder) at(closes, sma []float64, at int) (Vector, error) {
	if oldest := at - (b.Lags - 1); oldest < b.SMAPeriod-1 {
		return nil, &PreconditionError{Reason: "sma undefined at oldest lag", Need: b.MinHistory() - 1, Have: at}
	}
	return BuildFeatureVector(closes, sma, at, b.Lags)
}

// Latest builds the vector for the newest close.
func (b Builder) Latest(closes []float64) (Vector, error) {
	if len(closes) < b.MinHistory() {
		return nil, &PreconditionError{Reason: "window too short", Need: b.MinHistory(), Have: len(closes)}
	}
	return b.At(closes, len(closes)-1)
}

// TrainingSet builds weakly labelled examples from a close series. For each
// bar i in [Lags+SMAPeriod, len-lookahead) a horizon h = i + rng.Intn(lookahead)
// is drawn and the label is +1 when closes[h] > closes[i], else -1.
func (b Builder) TrainingSet(closes []float64, lookahead int, rng *rand.Rand) (dataset.Set, error) {
	if lookahead < 1 {
		return nil, &PreconditionError{Reason: "lookahead must be positive", Need: 1, Have: lookahead}
	}
	start := b.Lags + b.SMAPeriod
	end := len(closes) - lookahead
	if end <= start {
		return nil, &PreconditionError{Reason: "history too short for training", Need: start + lookahead + 1, Have: len(closes)}
	}

	sma, err := b.sma(closes)
	if err != nil {
		return nil, err
	}

	set := make(dataset.Set, 0, end-start)
	for i := start; i < end; i++ {
		v, err := b.at(closes, sma, i)
		if err != nil {
			return nil, err
		}
		h := i + rng.Intn(lookahead)
		set = append(set, dataset.Example{
			Label:    Label(closes[i], closes[h]),
			Features: v,
		})
	}

	return set, nil
}

// Label returns +1 when the future close is strictly higher, -1 otherwise.
func Label(current, future float64) float64 {
	if future > current {
		return 1
	}
	return -1
}
