package selector

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/jsphweid/auxloop/model"
	"golang.org/x/exp/slices"
)

// Selector picks one item per draw.
type Selector[T any] interface {
	Choose(r *rand.Rand) T
	Len() int
}

// ValidateWeights checks that weights has n finite, non-negative entries
// that do not all equal zero.
func ValidateWeights(weights []float64, n int) error {
	if len(weights) != n {
		return fmt.Errorf("%w: %d weights for %d items", model.ErrConfig, len(weights), n)
	}
	var total float64
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight %d is not a finite number", model.ErrConfig, i)
		}
		if w < 0 {
			return fmt.Errorf("%w: weight %d is negative", model.ErrConfig, i)
		}
		total += w
	}
	if n > 0 && total <= 0 {
		return fmt.Errorf("%w: weights sum to zero", model.ErrConfig)
	}
	if math.IsInf(total, 0) {
		return fmt.Errorf("%w: weights sum past the float range", model.ErrConfig)
	}
	return nil
}

// Uniform returns n weights of 1.
func Uniform(n int) []float64 {
	if n < 0 {
		return nil
	}
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// Index draws an index with probability proportional to its weight,
// bisecting the cumulative sums. It returns -1 when no weight is positive.
func Index(r *rand.Rand, weights []float64) int {
	cum := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		total += w
		cum[i] = total
	}
	if total <= 0 {
		return -1
	}
	x := r.Float64() * total
	i := sort.Search(len(cum), func(i int) bool { return cum[i] > x })
	if i == len(cum) {
		i--
	}
	return i
}

// Weighted draws with replacement. Each draw is independent of the last.
type Weighted[T any] struct {
	items    []T
	weights  []float64
	previous int
}

// NewWeighted builds a selector over items. Nil weights mean uniform.
func NewWeighted[T any](items []T, weights []float64) (*Weighted[T], error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items to choose from", model.ErrConfig)
	}
	if weights == nil {
		weights = Uniform(len(items))
	}
	if err := ValidateWeights(weights, len(items)); err != nil {
		return nil, err
	}
	return &Weighted[T]{
		items:    slices.Clone(items),
		weights:  slices.Clone(weights),
		previous: -1,
	}, nil
}

func (w *Weighted[T]) Choose(r *rand.Rand) T {
	w.previous = Index(r, w.weights)
	return w.items[w.previous]
}

func (w *Weighted[T]) Len() int {
	return len(w.items)
}

func (w *Weighted[T]) Items() []T {
	return slices.Clone(w.items)
}

func (w *Weighted[T]) Weights() []float64 {
	return slices.Clone(w.weights)
}

// PreviousIndex is the index chosen by the last draw, or -1.
func (w *Weighted[T]) PreviousIndex() int {
	return w.previous
}

// SetItems replaces the items. Weights survive when the length does not
// change and are reset to uniform otherwise.
func (w *Weighted[T]) SetItems(items []T) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no items to choose from", model.ErrConfig)
	}
	if len(items) != len(w.items) {
		w.weights = Uniform(len(items))
	}
	w.items = slices.Clone(items)
	w.previous = -1
	return nil
}

func (w *Weighted[T]) SetWeights(weights []float64) error {
	if weights == nil {
		weights = Uniform(len(w.items))
	}
	if err := ValidateWeights(weights, len(w.items)); err != nil {
		return err
	}
	w.weights = slices.Clone(weights)
	return nil
}
