// Package pitch rewrites the pitches of a passage with draws from a pitch
// pool, keeping its rhythm.
package pitch

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/jsphweid/auxloop/model"
	"github.com/jsphweid/auxloop/mutate"
	"github.com/jsphweid/auxloop/selector"
	"github.com/jsphweid/auxloop/util"
)

type Config struct {
	// Weights biases the pool. Nil means uniform.
	Weights []float64
	// UseTenney draws with the Tenney selector instead of independent
	// weighted draws.
	UseTenney       bool
	TenneyCurvature float64
	// UseCartography draws with positional weights DecayRate^i instead,
	// favouring the front of the pool. Weights are ignored.
	UseCartography     bool
	DecayRate          float64
	OmitTimeSignatures bool
	ProcessOnFirstCall bool
	Rand               *rand.Rand
	Logger             *slog.Logger
}

func DefaultConfig() Config {
	return Config{ProcessOnFirstCall: true}
}

type chooser interface {
	selector.Selector[model.Pitch]
	PreviousIndex() int
	Items() []model.Pitch
	Weights() []float64
}

type Randomiser struct {
	contents model.Container
	current  model.Container
	weighted *selector.Weighted[model.Pitch]
	tenney   *selector.Tenney[model.Pitch]
	carto    *selector.Cartography[model.Pitch]
	cfg      Config
	first    bool
	r        *rand.Rand
	log      *slog.Logger
}

func New(contents model.Container, pitches []model.Pitch, cfg Config) (*Randomiser, error) {
	if cfg.UseTenney && cfg.UseCartography {
		return nil, fmt.Errorf("%w: choose either the Tenney or the cartography selector", model.ErrConfig)
	}
	weighted, err := selector.NewWeighted(pitches, cfg.Weights)
	if err != nil {
		return nil, err
	}
	tenney, err := selector.NewTenney(pitches, cfg.Weights, cfg.TenneyCurvature)
	if err != nil {
		return nil, err
	}
	carto, err := selector.NewCartography(pitches, cfg.DecayRate)
	if err != nil {
		return nil, err
	}
	p := &Randomiser{
		weighted: weighted,
		tenney:   tenney,
		carto:    carto,
		cfg:      cfg,
		r:        util.RandOrNew(cfg.Rand),
		log:      util.LoggerOrDiscard(cfg.Logger).With("component", "pitch randomiser"),
	}
	p.cfg.Weights = nil
	if err := p.SetContents(contents); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Randomiser) active() chooser {
	switch {
	case p.cfg.UseTenney:
		return p.tenney
	case p.cfg.UseCartography:
		return p.carto
	}
	return p.weighted
}

// Call returns the contents with new pitches. With ProcessOnFirstCall off,
// the first call returns them untouched.
func (p *Randomiser) Call() (model.Container, error) {
	if p.first && !p.cfg.ProcessOnFirstCall {
		p.first = false
		return p.CurrentWindow(), nil
	}
	p.rewrite()
	p.first = false
	return p.CurrentWindow(), nil
}

// Next is Call for iteration. Randomising never runs out, so it always
// reports true.
func (p *Randomiser) Next() (model.Container, bool) {
	w, _ := p.Call()
	return w, true
}

func (p *Randomiser) rewrite() {
	w := p.contents.Copy()
	sel := p.active()
	for _, lt := range w.PitchedLogicalTies() {
		pitches := p.draw(sel, len(w.Leaves[lt.Start].Pitches))
		for k := lt.Start; k < lt.End; k++ {
			w.Leaves[k].SetPitches(pitches)
		}
	}
	p.current = w
	p.log.Debug("randomised", "ties", len(w.PitchedLogicalTies()))
}

// draw picks n distinct pool entries. When fewer than n entries can be
// drawn at all, every drawable entry is used.
func (p *Randomiser) draw(sel chooser, n int) []model.Pitch {
	if n <= 1 {
		return []model.Pitch{sel.Choose(p.r)}
	}
	pool, weights := sel.Items(), sel.Weights()
	var live []model.Pitch
	for i, w := range weights {
		if w > 0 {
			live = append(live, pool[i])
		}
	}
	if n > len(live) {
		return live
	}
	seen := make(map[int]bool, n)
	out := make([]model.Pitch, 0, n)
	for len(out) < n {
		pitch := sel.Choose(p.r)
		if i := sel.PreviousIndex(); !seen[i] {
			seen[i] = true
			out = append(out, pitch)
		}
	}
	return out
}

// OutputN joins n calls, dropping repeated time signatures and dynamics.
func (p *Randomiser) OutputN(n int) (model.Container, error) {
	if n < 1 {
		return model.Container{}, fmt.Errorf("%w: cannot output %d windows", model.ErrConfig, n)
	}
	var out model.Container
	for i := 0; i < n; i++ {
		w, err := p.Call()
		if err != nil {
			return model.Container{}, err
		}
		out.Append(w)
	}
	return mutate.RemoveRepeatedDynamics(mutate.RemoveRepeatedTimeSignatures(out)), nil
}

// CurrentWindow returns the last output, or the contents before any call.
func (p *Randomiser) CurrentWindow() model.Container {
	if p.cfg.OmitTimeSignatures {
		return mutate.RemoveAllTimeSignatures(p.current)
	}
	return p.current.Copy()
}

func (p *Randomiser) Contents() model.Container {
	return p.contents.Copy()
}

// SetContents replaces the material. The next call counts as the first.
func (p *Randomiser) SetContents(contents model.Container) error {
	if err := contents.Validate(); err != nil {
		return err
	}
	p.contents = contents.Copy()
	p.current = contents.Copy()
	p.first = true
	return nil
}

// Len returns the size of the pool.
func (p *Randomiser) Len() int {
	return p.weighted.Len()
}

func (p *Randomiser) Pitches() []model.Pitch {
	return p.weighted.Items()
}

// SetPitches replaces the pool. A pool of the same size keeps the weights,
// any other size resets them to uniform.
func (p *Randomiser) SetPitches(pitches []model.Pitch) error {
	if len(pitches) == 0 {
		return fmt.Errorf("%w: no pitches to choose from", model.ErrConfig)
	}
	if err := p.weighted.SetItems(pitches); err != nil {
		return err
	}
	if err := p.carto.SetItems(pitches); err != nil {
		return err
	}
	return p.tenney.SetItems(pitches)
}

func (p *Randomiser) Weights() []float64 {
	return p.weighted.Weights()
}

// SetWeights replaces the weights. Nil means uniform.
func (p *Randomiser) SetWeights(weights []float64) error {
	if weights == nil {
		weights = selector.Uniform(p.Len())
	}
	if err := selector.ValidateWeights(weights, p.Len()); err != nil {
		return err
	}
	if err := p.weighted.SetWeights(weights); err != nil {
		return err
	}
	return p.tenney.SetWeights(weights)
}

// SetUseTenney switches to the Tenney selector, or back to plain weighted
// draws. It turns the cartography selector off.
func (p *Randomiser) SetUseTenney(b bool) {
	p.cfg.UseTenney = b
	p.cfg.UseCartography = false
}

// SetUseCartography switches to the cartography selector. It turns the
// Tenney selector off.
func (p *Randomiser) SetUseCartography(b bool) {
	p.cfg.UseCartography = b
	p.cfg.UseTenney = false
}

func (p *Randomiser) DecayRate() float64 {
	return p.carto.DecayRate()
}

func (p *Randomiser) SetDecayRate(decay float64) error {
	return p.carto.SetDecayRate(decay)
}

func (p *Randomiser) SetOmitTimeSignatures(b bool) { p.cfg.OmitTimeSignatures = b }
func (p *Randomiser) SetProcessOnFirstCall(b bool) { p.cfg.ProcessOnFirstCall = b }
