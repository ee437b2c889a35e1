package selector

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jsphweid/auxloop/model"
	"golang.org/x/exp/slices"
)

// Tenney favours items that have not been chosen for a while. An item's
// chance is its weight times the number of draws since it was last chosen,
// raised to Curvature, so the previous choice is never repeated at once.
type Tenney[T any] struct {
	items     []T
	weights   []float64
	counter   []float64
	curvature float64
	previous  int
}

// NewTenney builds a selector over items. Nil weights mean uniform and a
// zero curvature means 1.
func NewTenney[T any](items []T, weights []float64, curvature float64) (*Tenney[T], error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items to choose from", model.ErrConfig)
	}
	if weights == nil {
		weights = Uniform(len(items))
	}
	if err := ValidateWeights(weights, len(items)); err != nil {
		return nil, err
	}
	t := &Tenney[T]{weights: slices.Clone(weights)}
	if err := t.SetCurvature(curvature); err != nil {
		return nil, err
	}
	t.setItems(items)
	return t, nil
}

func (t *Tenney[T]) setItems(items []T) {
	t.items = slices.Clone(items)
	t.counter = make([]float64, len(items))
	for i := range t.counter {
		t.counter[i] = 1
	}
	t.previous = -1
}

func (t *Tenney[T]) Choose(r *rand.Rand) T {
	probs := t.Probabilities()
	i := Index(r, probs)
	if i < 0 {
		i = Index(r, t.weights)
	}
	for j := range t.counter {
		t.counter[j]++
	}
	t.counter[i] = 0
	t.previous = i
	return t.items[i]
}

// Probabilities returns the unnormalised chance of each item on the next
// draw.
func (t *Tenney[T]) Probabilities() []float64 {
	probs := make([]float64, len(t.items))
	for i := range probs {
		probs[i] = t.weights[i] * math.Pow(t.counter[i], t.curvature)
	}
	return probs
}

func (t *Tenney[T]) Len() int {
	return len(t.items)
}

func (t *Tenney[T]) Items() []T {
	return slices.Clone(t.items)
}

func (t *Tenney[T]) Weights() []float64 {
	return slices.Clone(t.weights)
}

func (t *Tenney[T]) Curvature() float64 {
	return t.curvature
}

// PreviousIndex is the index chosen by the last draw, or -1.
func (t *Tenney[T]) PreviousIndex() int {
	return t.previous
}

// SetItems replaces the items and restarts the history. Weights survive
// when the length does not change and are reset to uniform otherwise.
func (t *Tenney[T]) SetItems(items []T) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no items to choose from", model.ErrConfig)
	}
	if len(items) != len(t.items) {
		t.weights = Uniform(len(items))
	}
	t.setItems(items)
	return nil
}

func (t *Tenney[T]) SetWeights(weights []float64) error {
	if weights == nil {
		weights = Uniform(len(t.items))
	}
	if err := ValidateWeights(weights, len(t.items)); err != nil {
		return err
	}
	t.weights = slices.Clone(weights)
	return nil
}

func (t *Tenney[T]) SetCurvature(curvature float64) error {
	if curvature == 0 {
		curvature = 1
	}
	if curvature < 0 || math.IsNaN(curvature) || math.IsInf(curvature, 0) {
		return fmt.Errorf("%w: curvature must be positive, got %v", model.ErrConfig, curvature)
	}
	t.curvature = curvature
	return nil
}

// Reset forgets the history of previous draws.
func (t *Tenney[T]) Reset() {
	t.setItems(t.items)
}
