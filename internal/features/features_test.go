package features

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/7) + float64(i%5)
	}
	return closes
}

func TestComputeSMA_Simple(t *testing.T) {
	sma, err := ComputeSMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)

	require.Len(t, sma, 5)
	assert.InDelta(t, 2.0, sma[2], 1e-12)
	assert.InDelta(t, 3.0, sma[3], 1e-12)
	assert.InDelta(t, 4.0, sma[4], 1e-12)
}

func TestComputeSMA_MatchesIndicatorLibrary(t *testing.T) {
	closes := series(200)
	for _, period := range []int{1, 5, 15, 50} {
		sma, err := ComputeSMA(closes, period)
		require.NoError(t, err)
		require.Len(t, sma, len(closes))

		ref := helper.ChanToSlice(trend.NewSmaWithPeriod[float64](period).Compute(helper.SliceToChan(closes)))
		require.Len(t, ref, len(closes)-(period-1))

		for i, want := range ref {
			assert.InDelta(t, want, sma[i+period-1], 1e-9, "period %d index %d", period, i+period-1)
		}
	}
}

func TestComputeSMA_ShortSeries(t *testing.T) {
	sma, err := ComputeSMA([]float64{1, 2}, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, sma)

	_, err = ComputeSMA([]float64{1}, 0)
	var pe *PreconditionError
	assert.ErrorAs(t, err, &pe)
}

func TestBuildFeatureVector_Layout(t *testing.T) {
	closes := series(60)
	sma, err := ComputeSMA(closes, 15)
	require.NoError(t, err)

	at, lags := 40, 10
	v, err := BuildFeatureVector(closes, sma, at, lags)
	require.NoError(t, err)

	require.Equal(t, 1+lags, v.Width())
	assert.Equal(t, closes[at], v.At(1))
	for k := 0; k < lags; k++ {
		assert.Equal(t, sma[at-k], v.At(k+2), "lag %d", k)
	}
}

func TestBuildFeatureVector_RisingCloses(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16, 17}
	sma, err := ComputeSMA(closes, 3)
	require.NoError(t, err)

	v, err := BuildFeatureVector(closes, sma, 5, 3)
	require.NoError(t, err)

	assert.Equal(t, closes[5], v.At(1))
	assert.InDelta(t, (closes[3]+closes[4]+closes[5])/3, v.At(2), 1e-12)
	assert.InDelta(t, 14.0, v.At(2), 1e-12)
}

func TestBuildFeatureVector_Preconditions(t *testing.T) {
	closes := series(30)
	sma, err := ComputeSMA(closes, 5)
	require.NoError(t, err)

	tests := []struct {
		name string
		at   int
		lags int
	}{
		{name: "not enough lags", at: 9, lags: 10},
		{name: "past the end", at: 30, lags: 3},
		{name: "negative index", at: -1, lags: 3},
		{name: "zero lags", at: 20, lags: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := BuildFeatureVector(closes, sma, tt.at, tt.lags)
			assert.Nil(t, v)
			var pe *PreconditionError
			assert.ErrorAs(t, err, &pe)
		})
	}

	v, err := BuildFeatureVector(closes, sma, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, v.Width())
}

func TestBuilder_Latest(t *testing.T) {
	b := NewBuilder(10, 15)
	closes := series(50)

	v, err := b.Latest(closes)
	require.NoError(t, err)
	assert.Equal(t, b.Width(), v.Width())
	assert.Equal(t, closes[49], v.At(1))

	sma, _ := ComputeSMA(closes, 15)
	assert.Equal(t, sma[49], v.At(2))
	assert.Equal(t, sma[40], v.At(11))

	_, err = b.Latest(closes[:24])
	var pe *PreconditionError
	assert.ErrorAs(t, err, &pe)
}

func TestBuilder_TrainingSet(t *testing.T) {
	b := NewBuilder(10, 15)
	closes := series(300)
	lookahead := 25

	set, err := b.TrainingSet(closes, lookahead, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	start, end := 10+15, 300-lookahead
	require.Len(t, set, end-start)

	// replay the same random stream to recover every horizon
	rng := rand.New(rand.NewSource(1))
	for n, e := range set {
		i := start + n
		h := i + rng.Intn(lookahead)
		require.GreaterOrEqual(t, h, i)
		require.Less(t, h, i+lookahead)

		assert.Equal(t, Label(closes[i], closes[h]), e.Label)
		assert.Len(t, e.Features, 11)
		assert.Equal(t, closes[i], e.Features[0])
	}
}

func TestBuilder_TrainingSetDeterministic(t *testing.T) {
	b := NewBuilder(3, 4)
	closes := series(80)

	a, err := b.TrainingSet(closes, 5, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	c, err := b.TrainingSet(closes, 5, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestBuilder_TrainingSetTooShort(t *testing.T) {
	b := NewBuilder(10, 15)

	_, err := b.TrainingSet(series(40), 25, rand.New(rand.NewSource(1)))
	var pe *PreconditionError
	assert.ErrorAs(t, err, &pe)

	_, err = b.TrainingSet(series(400), 0, rand.New(rand.NewSource(1)))
	assert.ErrorAs(t, err, &pe)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, 1.0, Label(10, 10.01))
	assert.Equal(t, -1.0, Label(10, 9.99))
	assert.Equal(t, -1.0, Label(10, 10))
}

func TestBuilder_AtRejectsUndefinedSMA(t *testing.T) {
	b := NewBuilder(3, 10)
	closes := series(30)

	_, err := b.At(closes, 10)
	var pe *PreconditionError
	assert.ErrorAs(t, err, &pe)

	_, err = b.At(closes, 11)
	assert.NoError(t, err)
}
