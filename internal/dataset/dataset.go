// Package dataset stores labelled examples in text formats understood by
// the model trainer.
package dataset

// Example labelled feature vector. Label is +1 or -1.
type Example struct {
	Label    float64
	Features []float64
}

// Set ordered collection of examples.
type Set []Example

// Labels returns the labels in order.
func (s Set) Labels() []float64 {
	labels := make([]float64, len(s))
	for i, e := range s {
		labels[i] = e.Label
	}
	return labels
}

// Width returns the widest feature vector in the set.
func (s Set) Width() int {
	w := 0
	for _, e := range s {
		w = max(w, len(e.Features))
	}
	return w
}
