package head

import (
	"fmt"
	"math/rand"

	"github.com/jsphweid/auxloop/model"
)

// Config holds the movement policy of a Head. Positions, steps and windows
// share one axis: whole numbers of elements for element loopers, durations
// for window loopers. Start from DefaultConfig.
type Config struct {
	Position           model.Duration
	Step               model.Duration
	Window             model.Duration
	MaxSteps           int
	RepetitionChance   float64
	ForwardBias        float64
	ProcessOnFirstCall bool
	// RequireFullWindow ends the process as soon as a whole window no
	// longer fits before the end of the axis.
	RequireFullWindow bool
}

func DefaultConfig() Config {
	return Config{
		Step:        model.Whole(1),
		Window:      model.Whole(1),
		MaxSteps:    1,
		ForwardBias: 1,
	}
}

// Validate checks every field except Position, which needs the length.
func (c Config) Validate() error {
	if !c.Step.Positive() {
		return fmt.Errorf("%w: step must be positive, got %v", model.ErrConfig, c.Step)
	}
	if !c.Window.Positive() {
		return fmt.Errorf("%w: window must be positive, got %v", model.ErrConfig, c.Window)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("%w: max steps must be at least 1, got %d", model.ErrConfig, c.MaxSteps)
	}
	if err := probability("repetition chance", c.RepetitionChance); err != nil {
		return err
	}
	return probability("forward bias", c.ForwardBias)
}

func probability(name string, p float64) error {
	if !(p >= 0 && p <= 1) {
		return fmt.Errorf("%w: %s must be between 0 and 1, got %v", model.ErrConfig, name, p)
	}
	return nil
}

// Head is a cursor moving over an axis of fixed length.
type Head struct {
	cfg      Config
	length   model.Duration
	position model.Duration
	first    bool
	done     bool
	r        *rand.Rand
}

// New places a head on an axis of the given length.
func New(length model.Duration, cfg Config, r *rand.Rand) (*Head, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !length.Positive() {
		return nil, fmt.Errorf("%w: nothing to move over", model.ErrStructure)
	}
	h := &Head{cfg: cfg, length: length, first: true, r: r}
	if err := h.SetPosition(cfg.Position); err != nil {
		return nil, err
	}
	return h, nil
}

// Advance moves the head for one call. The first call stays in place
// unless ProcessOnFirstCall is set. It returns ErrExhausted once the head
// has left the axis.
func (h *Head) Advance() error {
	if h.done {
		return fmt.Errorf("%w: head at %v is past the end", model.ErrExhausted, h.position)
	}
	if h.first {
		h.first = false
		if !h.cfg.ProcessOnFirstCall {
			return nil
		}
	}
	if h.cfg.RepetitionChance > 0 && h.r.Float64() < h.cfg.RepetitionChance {
		return nil
	}
	steps := 1
	if h.cfg.MaxSteps > 1 {
		steps += h.r.Intn(h.cfg.MaxSteps)
	}
	for i := 0; i < steps; i++ {
		if h.cfg.ForwardBias == 1 || h.r.Float64() < h.cfg.ForwardBias {
			h.position = h.position.Add(h.cfg.Step)
		} else {
			h.position = h.position.Sub(h.cfg.Step)
		}
		if !h.inRange(h.position) {
			h.done = true
			return fmt.Errorf("%w: head moved to %v", model.ErrExhausted, h.position)
		}
	}
	return nil
}

func (h *Head) inRange(p model.Duration) bool {
	if p.Sign() < 0 || !p.Less(h.length) {
		return false
	}
	if h.cfg.RequireFullWindow && p.Add(h.cfg.Window).Greater(h.length) {
		return false
	}
	return true
}

func (h *Head) Position() model.Duration { return h.position }
func (h *Head) Length() model.Duration   { return h.length }
func (h *Head) Config() Config           { return h.cfg }
func (h *Head) Done() bool               { return h.done }
func (h *Head) IsFirstWindow() bool      { return h.first }

// SetPosition moves the head without drawing. A head brought back inside
// the axis can advance again.
func (h *Head) SetPosition(p model.Duration) error {
	if !h.inRange(p) {
		return fmt.Errorf("%w: head position %v outside [0, %v)", model.ErrConfig, p, h.length)
	}
	h.position = p
	h.done = false
	return nil
}

// Reset puts the head back at the start of a new axis, as if freshly
// built with position 0.
func (h *Head) Reset(length model.Duration) error {
	if !length.Positive() {
		return fmt.Errorf("%w: nothing to move over", model.ErrStructure)
	}
	old := h.length
	h.length = length
	if err := h.SetPosition(model.Duration{}); err != nil {
		h.length = old
		return err
	}
	h.first = true
	return nil
}

func (h *Head) SetStep(step model.Duration) error {
	return h.set(func(c *Config) { c.Step = step })
}

// SetWindow changes the span of later windows without moving the head.
func (h *Head) SetWindow(window model.Duration) error {
	return h.set(func(c *Config) { c.Window = window })
}

func (h *Head) SetMaxSteps(n int) error {
	return h.set(func(c *Config) { c.MaxSteps = n })
}

func (h *Head) SetRepetitionChance(p float64) error {
	return h.set(func(c *Config) { c.RepetitionChance = p })
}

func (h *Head) SetForwardBias(p float64) error {
	return h.set(func(c *Config) { c.ForwardBias = p })
}

func (h *Head) SetProcessOnFirstCall(b bool) {
	h.cfg.ProcessOnFirstCall = b
}

// SetRequireFullWindow only affects later moves; the current position is
// kept even if its window no longer fits.
func (h *Head) SetRequireFullWindow(b bool) {
	h.cfg.RequireFullWindow = b
}

func (h *Head) set(change func(*Config)) error {
	cfg := h.cfg
	change(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	h.cfg = cfg
	return nil
}
