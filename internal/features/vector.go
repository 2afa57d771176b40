package features

// Vector model input. Position 1 is the close at the reference bar,
// positions 2..N+1 are SMA values at lags 0..N-1.
type Vector []float64

// At returns the 1-based feature i.
func (v Vector) At(i int) float64 {
	return v[i-1]
}

// Width returns the number of features.
func (v Vector) Width() int {
	return len(v)
}

// BuildFeatureVector builds the vector for bar at with the given number of
// SMA lags. sma must be aligned with closes.
func BuildFeatureVector(closes, sma []float64, at, lags int) (Vector, error) {
	if lags < 1 {
		return nil, &PreconditionError{Reason: "lags must be positive", Need: 1, Have: lags}
	}
	if at < 0 || at >= len(closes) || at >= len(sma) {
		return nil, &PreconditionError{Reason: "bar index out of range", Need: at + 1, Have: min(len(closes), len(sma))}
	}
	if at-lags < 0 {
		return nil, &PreconditionError{Reason: "not enough bars before index for lags", Need: lags, Have: at}
	}

	v := make(Vector, 1+lags)
	v[0] = closes[at]
	for k := 0; k < lags; k++ {
		v[k+1] = sma[at-k]
	}

	return v, nil
}
