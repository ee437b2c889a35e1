// Package hocket distributes the logical ties of a passage among several
// voices, leaving rests wherever a voice is silent.
package hocket

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/jsphweid/auxloop/model"
	"github.com/jsphweid/auxloop/mutate"
	"github.com/jsphweid/auxloop/selector"
	"github.com/jsphweid/auxloop/util"
	"golang.org/x/exp/slices"
)

type Config struct {
	NVoices int
	// Weights biases which voices are picked. Nil means uniform.
	Weights []float64
	// K is how many voices each logical tie is drawn into. Without
	// ForceKDistinctVoices the draws may repeat a voice.
	K                    int
	ForceKDistinctVoices bool
	DisableRewriteMeter  bool
	UseMultimeasureRests bool
	OmitTimeSignatures   bool
	MaximumDotCount      int
	Rand                 *rand.Rand
	Logger               *slog.Logger
}

func DefaultConfig() Config {
	return Config{NVoices: 2, K: 1, UseMultimeasureRests: true}
}

type Hocketer struct {
	contents    model.Container
	sigs        []model.TimeSignature
	cfg         Config
	userWeights bool
	voices      []model.Container
	r           *rand.Rand
	log         *slog.Logger
}

func New(contents model.Container, cfg Config) (*Hocketer, error) {
	h := &Hocketer{
		cfg: cfg,
		r:   util.RandOrNew(cfg.Rand),
		log: util.LoggerOrDiscard(cfg.Logger).With("component", "hocketer"),
	}
	if cfg.Weights == nil {
		h.cfg.Weights = selector.Uniform(cfg.NVoices)
	} else {
		h.cfg.Weights = slices.Clone(cfg.Weights)
		h.userWeights = true
	}
	if err := h.cfg.validate(); err != nil {
		return nil, err
	}
	if err := h.SetContents(contents); err != nil {
		return nil, err
	}
	return h, nil
}

func (c Config) validate() error {
	if c.NVoices < 1 {
		return fmt.Errorf("%w: number of voices must be at least 1, got %d", model.ErrConfig, c.NVoices)
	}
	if c.K < 1 {
		return fmt.Errorf("%w: k must be at least 1, got %d", model.ErrConfig, c.K)
	}
	if c.MaximumDotCount < 0 {
		return fmt.Errorf("%w: maximum dot count cannot be negative", model.ErrConfig)
	}
	if err := selector.ValidateWeights(c.Weights, c.NVoices); err != nil {
		return err
	}
	if !c.ForceKDistinctVoices {
		return nil
	}
	if c.K > c.NVoices {
		return fmt.Errorf("%w: cannot force %d distinct voices out of %d", model.ErrConfig, c.K, c.NVoices)
	}
	live := 0
	for _, w := range c.Weights {
		if w > 0 {
			live++
		}
	}
	if c.K > live {
		return fmt.Errorf("%w: only %d voices have a positive weight, cannot force %d", model.ErrConfig, live, c.K)
	}
	return nil
}

// Call draws a new distribution and returns one container per voice.
func (h *Hocketer) Call() ([]model.Container, error) {
	ties := h.contents.LogicalTies()
	picks := make([][]bool, len(ties))
	for i := range ties {
		picks[i] = h.draw()
	}

	voices := make([]model.Container, h.cfg.NVoices)
	for v := range voices {
		w := h.contents.Copy()
		for i, lt := range ties {
			if picks[i][v] {
				continue
			}
			for k := lt.Start; k < lt.End; k++ {
				rest := w.Leaves[k].AsRest()
				rest.TimeSignature = w.Leaves[k].TimeSignature
				w.Leaves[k] = rest
			}
		}
		w = mutate.RemoveEmptyTuplets(w)
		var err error
		if !h.cfg.DisableRewriteMeter {
			w, err = mutate.EnforceTimeSignature(w, h.sigs, mutate.EnforceOptions{MaximumDotCount: h.cfg.MaximumDotCount})
			if err != nil {
				return nil, err
			}
		}
		if h.cfg.UseMultimeasureRests {
			if w, err = mutate.RestsToMultimeasureRest(w); err != nil {
				return nil, err
			}
		}
		voices[v] = w
	}
	h.voices = voices
	h.log.Debug("hocket", "voices", len(voices), "ties", len(ties))
	return h.CurrentWindow()
}

// draw marks the voices a single logical tie sounds in.
func (h *Hocketer) draw() []bool {
	in := make([]bool, h.cfg.NVoices)
	weights := slices.Clone(h.cfg.Weights)
	for n := 0; n < h.cfg.K; n++ {
		v := selector.Index(h.r, weights)
		if v < 0 {
			break
		}
		in[v] = true
		if h.cfg.ForceKDistinctVoices {
			weights[v] = 0
		}
	}
	return in
}

// CurrentWindow returns copies of the voices from the last call.
func (h *Hocketer) CurrentWindow() ([]model.Container, error) {
	if h.voices == nil {
		return nil, fmt.Errorf("%w: hocketer has not been called", model.ErrNoWindow)
	}
	out := make([]model.Container, len(h.voices))
	for i, v := range h.voices {
		out[i] = h.output(v)
	}
	return out, nil
}

// Voice returns one voice from the last call.
func (h *Hocketer) Voice(i int) (model.Container, error) {
	if h.voices == nil {
		return model.Container{}, fmt.Errorf("%w: hocketer has not been called", model.ErrNoWindow)
	}
	if i < 0 || i >= len(h.voices) {
		return model.Container{}, fmt.Errorf("%w: voice %d out of range [0, %d)", model.ErrConfig, i, len(h.voices))
	}
	return h.output(h.voices[i]), nil
}

func (h *Hocketer) output(v model.Container) model.Container {
	if h.cfg.OmitTimeSignatures {
		return mutate.RemoveAllTimeSignatures(v)
	}
	return v.Copy()
}

// Len returns the number of voices.
func (h *Hocketer) Len() int {
	return h.cfg.NVoices
}

func (h *Hocketer) Contents() model.Container {
	return h.contents.Copy()
}

func (h *Hocketer) SetContents(contents model.Container) error {
	if err := contents.Validate(); err != nil {
		return err
	}
	sigs, err := mutate.ExtractTimeSignatures(contents)
	if err != nil {
		return err
	}
	if len(sigs) == 0 {
		return fmt.Errorf("%w: nothing to hocket", model.ErrStructure)
	}
	h.contents = contents.Copy()
	h.sigs = sigs
	return nil
}

func (h *Hocketer) set(mod func(*Config)) error {
	next := h.cfg
	mod(&next)
	if err := next.validate(); err != nil {
		return err
	}
	h.cfg = next
	return nil
}

// SetNVoices changes the number of voices. Uniform weights follow the new
// count; weights set by hand must be replaced or reset first.
func (h *Hocketer) SetNVoices(n int) error {
	return h.set(func(c *Config) {
		c.NVoices = n
		if !h.userWeights {
			c.Weights = selector.Uniform(n)
		}
	})
}

func (h *Hocketer) Weights() []float64 {
	return slices.Clone(h.cfg.Weights)
}

func (h *Hocketer) SetWeights(weights []float64) error {
	w := slices.Clone(weights)
	if err := h.set(func(c *Config) { c.Weights = w }); err != nil {
		return err
	}
	h.userWeights = true
	return nil
}

// ResetWeights goes back to uniform weights.
func (h *Hocketer) ResetWeights() {
	h.cfg.Weights = selector.Uniform(h.cfg.NVoices)
	h.userWeights = false
}

func (h *Hocketer) K() int {
	return h.cfg.K
}

func (h *Hocketer) SetK(k int) error {
	return h.set(func(c *Config) { c.K = k })
}

func (h *Hocketer) SetForceKDistinctVoices(b bool) error {
	return h.set(func(c *Config) { c.ForceKDistinctVoices = b })
}

func (h *Hocketer) SetMaximumDotCount(n int) error {
	return h.set(func(c *Config) { c.MaximumDotCount = n })
}

func (h *Hocketer) SetDisableRewriteMeter(b bool)  { h.cfg.DisableRewriteMeter = b }
func (h *Hocketer) SetUseMultimeasureRests(b bool) { h.cfg.UseMultimeasureRests = b }
func (h *Hocketer) SetOmitTimeSignatures(b bool)   { h.cfg.OmitTimeSignatures = b }
