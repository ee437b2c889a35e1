package looper

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/jsphweid/auxloop/head"
	"github.com/jsphweid/auxloop/model"
	"github.com/jsphweid/auxloop/util"
	"golang.org/x/exp/slices"
)

type ListConfig struct {
	Options
	Window   int
	Step     int
	Position int
	Rand     *rand.Rand
	Logger   *slog.Logger
}

func DefaultListConfig() ListConfig {
	return ListConfig{Options: DefaultOptions(), Window: 1, Step: 1}
}

// ListLooper loops over a plain slice. Windows near the end are shorter
// than Window.
type ListLooper[T any] struct {
	items []T
	loop  loop[[]T]
}

func NewListLooper[T any](items []T, cfg ListConfig) (*ListLooper[T], error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: nothing to loop over", model.ErrStructure)
	}
	l := &ListLooper[T]{items: slices.Clone(items)}
	h, err := head.New(
		model.Whole(int64(len(items))),
		cfg.headConfig(model.Whole(int64(cfg.Position)), model.Whole(int64(cfg.Step)), model.Whole(int64(cfg.Window))),
		util.RandOrNew(cfg.Rand),
	)
	if err != nil {
		return nil, err
	}
	l.loop = loop[[]T]{
		head:  h,
		slice: l.slice,
		clone: func(w []T) []T { return slices.Clone(w) },
		log:   util.LoggerOrDiscard(cfg.Logger).With("looper", "list"),
	}
	return l, nil
}

func (l *ListLooper[T]) slice(pos model.Duration) ([]T, error) {
	start := int(pos.Floor())
	end := util.Min(start+int(l.loop.head.Config().Window.Floor()), len(l.items))
	return slices.Clone(l.items[start:end]), nil
}

// Call moves the head and returns the new window. It fails with
// model.ErrExhausted once the head has left the list.
func (l *ListLooper[T]) Call() ([]T, error) {
	return l.loop.call()
}

// Next is Call for iteration: it reports false at the end.
func (l *ListLooper[T]) Next() ([]T, bool) {
	return l.loop.next()
}

// Err returns the first error that stopped Next, other than exhaustion.
func (l *ListLooper[T]) Err() error {
	return l.loop.err
}

// OutputN joins the next n windows.
func (l *ListLooper[T]) OutputN(n int) ([]T, error) {
	windows, err := l.loop.outputN(n)
	if err != nil {
		return nil, err
	}
	return flatten(windows), nil
}

// OutputAll joins every remaining window.
func (l *ListLooper[T]) OutputAll() ([]T, error) {
	windows, err := l.loop.outputAll()
	if err != nil {
		return nil, err
	}
	return flatten(windows), nil
}

func flatten[T any](windows [][]T) []T {
	var out []T
	for _, w := range windows {
		out = append(out, w...)
	}
	return out
}

func (l *ListLooper[T]) CurrentWindow() ([]T, error) {
	return l.loop.currentWindow()
}

func (l *ListLooper[T]) Contents() []T {
	return slices.Clone(l.items)
}

// SetContents replaces the list and puts the head back at the start.
func (l *ListLooper[T]) SetContents(items []T) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: nothing to loop over", model.ErrStructure)
	}
	if err := l.loop.head.Reset(model.Whole(int64(len(items)))); err != nil {
		return err
	}
	l.items = slices.Clone(items)
	l.loop.reset()
	return nil
}

func (l *ListLooper[T]) Len() int {
	return len(l.items)
}

func (l *ListLooper[T]) Position() int {
	return int(l.loop.head.Position().Floor())
}

func (l *ListLooper[T]) SetPosition(n int) error {
	return l.loop.head.SetPosition(model.Whole(int64(n)))
}

func (l *ListLooper[T]) SetWindow(n int) error {
	return l.loop.head.SetWindow(model.Whole(int64(n)))
}

func (l *ListLooper[T]) SetStep(n int) error {
	return l.loop.head.SetStep(model.Whole(int64(n)))
}

func (l *ListLooper[T]) SetMaxSteps(n int) error {
	return l.loop.head.SetMaxSteps(n)
}

func (l *ListLooper[T]) SetRepetitionChance(p float64) error {
	return l.loop.head.SetRepetitionChance(p)
}

func (l *ListLooper[T]) SetForwardBias(p float64) error {
	return l.loop.head.SetForwardBias(p)
}
