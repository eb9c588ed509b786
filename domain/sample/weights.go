package sample

import (
	"fmt"

	"scenforge/domain/core"
)

// Weight pairs a category label with its non-negative weight.
type Weight struct {
	Label string
	Value float64
}

// Weights is an ordered weight list. The order is the caller's insertion
// order; it defines the walk order during selection and the deterministic
// fallback at the interval boundary.
type Weights []Weight

// Total sums the weights.
func (w Weights) Total() float64 {
	total := 0.0
	for _, entry := range w {
		total += entry.Value
	}
	return total
}

// Labels returns the labels in list order.
func (w Weights) Labels() []string {
	labels := make([]string, len(w))
	for i, entry := range w {
		labels[i] = entry.Label
	}
	return labels
}

// Validate checks the selection invariants: at least one entry, no negative
// weight, and a positive total.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return core.ErrEmptyWeights
	}
	for _, entry := range w {
		if entry.Value < 0 {
			return core.NewInvalidParameterError("weight", fmt.Sprintf("for %q must be non-negative", entry.Label))
		}
	}
	if w.Total() <= 0 {
		return core.ErrZeroWeight
	}
	return nil
}
