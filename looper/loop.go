// Package looper moves a window over material, one window per call.
package looper

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsphweid/auxloop/head"
	"github.com/jsphweid/auxloop/model"
)

// loop drives a head and materialises the window at its position.
type loop[W any] struct {
	head    *head.Head
	slice   func(pos model.Duration) (W, error)
	clone   func(W) W
	current W
	started bool
	err     error
	log     *slog.Logger
}

func (l *loop[W]) call() (W, error) {
	var zero W
	if err := l.head.Advance(); err != nil {
		l.log.Debug("loop exhausted", "position", l.head.Position().String())
		return zero, err
	}
	w, err := l.slice(l.head.Position())
	if err != nil {
		return zero, err
	}
	l.current = w
	l.started = true
	l.log.Debug("window", "position", l.head.Position().String())
	return l.clone(w), nil
}

func (l *loop[W]) next() (W, bool) {
	w, err := l.call()
	if err != nil {
		if !errors.Is(err, model.ErrExhausted) {
			l.err = err
		}
		return w, false
	}
	return w, true
}

func (l *loop[W]) currentWindow() (W, error) {
	if !l.started {
		var zero W
		return zero, fmt.Errorf("%w: no window has been output yet", model.ErrNoWindow)
	}
	return l.clone(l.current), nil
}

func (l *loop[W]) outputN(n int) ([]W, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: cannot output %d windows", model.ErrConfig, n)
	}
	out := make([]W, 0, n)
	for i := 0; i < n; i++ {
		w, err := l.call()
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (l *loop[W]) outputAll() ([]W, error) {
	if l.head.Config().RepetitionChance == 1 {
		return nil, fmt.Errorf("%w: a repetition chance of 1 never ends", model.ErrConfig)
	}
	var out []W
	for {
		w, err := l.call()
		if errors.Is(err, model.ErrExhausted) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
}

func (l *loop[W]) reset() {
	var zero W
	l.current = zero
	l.started = false
	l.err = nil
}

// Options holds the movement settings shared by every looper. Use
// DefaultOptions as a starting point: a zero ForwardBias walks backwards.
type Options struct {
	MaxSteps           int
	RepetitionChance   float64
	ForwardBias        float64
	ProcessOnFirstCall bool
}

func DefaultOptions() Options {
	return Options{MaxSteps: 1, ForwardBias: 1}
}

func (o Options) headConfig(position, step, window model.Duration) head.Config {
	return head.Config{
		Position:           position,
		Step:               step,
		Window:             window,
		MaxSteps:           o.MaxSteps,
		RepetitionChance:   o.RepetitionChance,
		ForwardBias:        o.ForwardBias,
		ProcessOnFirstCall: o.ProcessOnFirstCall,
	}
}
