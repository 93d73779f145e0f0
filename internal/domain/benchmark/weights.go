package benchmark

import (
	"fmt"
	"math"
)

// weightSumTolerance bounds floating error when checking that weights sum to 1.
const weightSumTolerance = 1e-9

// Weight is one component's share of a composite score.
type Weight struct {
	Component string  `json:"component"`
	Weight    float64 `json:"weight"`
}

// Weights is an ordered weight table. Order breaks ties when picking the
// weakest component.
type Weights []Weight

// Sum adds up all weights.
func (w Weights) Sum() float64 {
	var total float64
	for _, c := range w {
		total += c.Weight
	}
	return total
}

// Of returns the weight of component, or 0 when absent.
func (w Weights) Of(component string) float64 {
	for _, c := range w {
		if c.Component == component {
			return c.Weight
		}
	}
	return 0
}

// Validate requires positive weights, unique components and a unit sum.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: empty table", ErrInvalidWeights)
	}
	seen := make(map[string]struct{}, len(w))
	for _, c := range w {
		if c.Weight <= 0 {
			return fmt.Errorf("%w: %s has non-positive weight %.3f", ErrInvalidWeights, c.Component, c.Weight)
		}
		if _, dup := seen[c.Component]; dup {
			return fmt.Errorf("%w: duplicate component %s", ErrInvalidWeights, c.Component)
		}
		seen[c.Component] = struct{}{}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.12f", ErrInvalidWeights, sum)
	}
	return nil
}
