package selector

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jsphweid/auxloop/model"
	"golang.org/x/exp/slices"
)

// Cartography favours the front of its items: the weight of item i is
// decay^i. Items are shifted in and out at either end, so a looper can
// drift through material while preferring what arrived first.
type Cartography[T any] struct {
	items    []T
	decay    float64
	previous int
}

const DefaultDecayRate = 0.75

// NewCartography builds a selector over items. A zero decay rate means
// DefaultDecayRate.
func NewCartography[T any](items []T, decay float64) (*Cartography[T], error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items to choose from", model.ErrConfig)
	}
	c := &Cartography[T]{items: slices.Clone(items), previous: -1}
	if decay == 0 {
		decay = DefaultDecayRate
	}
	if err := c.SetDecayRate(decay); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cartography[T]) Choose(r *rand.Rand) T {
	c.previous = Index(r, c.Weights())
	return c.items[c.previous]
}

func (c *Cartography[T]) Len() int {
	return len(c.items)
}

func (c *Cartography[T]) Items() []T {
	return slices.Clone(c.items)
}

func (c *Cartography[T]) Item(i int) T {
	return c.items[i]
}

func (c *Cartography[T]) Weights() []float64 {
	w := make([]float64, len(c.items))
	for i := range w {
		w[i] = math.Pow(c.decay, float64(i))
	}
	return w
}

func (c *Cartography[T]) DecayRate() float64 {
	return c.decay
}

// PreviousIndex is the index chosen by the last draw, or -1.
func (c *Cartography[T]) PreviousIndex() int {
	return c.previous
}

func (c *Cartography[T]) SetDecayRate(decay float64) error {
	if decay <= 0 || decay > 1 {
		return fmt.Errorf("%w: decay rate must be in (0, 1], got %v", model.ErrConfig, decay)
	}
	c.decay = decay
	return nil
}

func (c *Cartography[T]) SetItems(items []T) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no items to choose from", model.ErrConfig)
	}
	c.items = slices.Clone(items)
	c.previous = -1
	return nil
}

// Append drops the first item and adds item at the end.
func (c *Cartography[T]) Append(item T) {
	c.items = append(c.items[1:], item)
}

// AppendKeepingN keeps the first n items, drops the one after them and adds
// item at the end.
func (c *Cartography[T]) AppendKeepingN(item T, n int) error {
	if n < 0 || n >= len(c.items) {
		return fmt.Errorf("%w: cannot keep %d of %d items", model.ErrConfig, n, len(c.items))
	}
	items := slices.Clone(c.items[:n])
	items = append(items, c.items[n+1:]...)
	c.items = append(items, item)
	return nil
}

// Prepend drops the last item and adds item at the front.
func (c *Cartography[T]) Prepend(item T) {
	c.items = append([]T{item}, c.items[:len(c.items)-1]...)
}

// Rotate moves the first item to the end, or the last one to the front
// when anticlockwise.
func (c *Cartography[T]) Rotate(anticlockwise bool) {
	n := len(c.items)
	if anticlockwise {
		c.items = append([]T{c.items[n-1]}, c.items[:n-1]...)
		return
	}
	c.items = append(c.items[1:], c.items[0])
}

func (c *Cartography[T]) Randomise(r *rand.Rand) {
	r.Shuffle(len(c.items), func(i, j int) {
		c.items[i], c.items[j] = c.items[j], c.items[i]
	})
}

func (c *Cartography[T]) ReplaceElement(item T, i int) error {
	if i < 0 || i >= len(c.items) {
		return fmt.Errorf("%w: index %d out of range", model.ErrConfig, i)
	}
	c.items[i] = item
	return nil
}
