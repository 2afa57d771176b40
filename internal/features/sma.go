// Package features turns close prices into model inputs.
package features

import "fmt"

// PreconditionError reports that the history is too short or the request
// is out of range. Nothing is computed when it is returned.
type PreconditionError struct {
	Reason string
	Need   int
	Have   int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("insufficient history: %s (need %d, have %d)", e.Reason, e.Need, e.Have)
}

// ComputeSMA returns the simple moving average of closes with a running sum.
// The result has the same length as closes; entries before index period-1
// are zero and carry no meaning.
func ComputeSMA(closes []float64, period int) ([]float64, error) {
	if period < 1 {
		return nil, &PreconditionError{Reason: "sma period must be positive", Need: 1, Have: period}
	}

	sma := make([]float64, len(closes))
	var sum float64
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			sma[i] = sum / float64(period)
		}
	}

	return sma, nil
}
