// Package fader fades music in or out one logical tie at a time.
package fader

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/jsphweid/auxloop/model"
	"github.com/jsphweid/auxloop/mutate"
	"github.com/jsphweid/auxloop/util"
	"golang.org/x/exp/slices"
)

type Direction int

const (
	Out Direction = iota
	In
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "out", "":
		return Out, nil
	case "in":
		return In, nil
	}
	return Out, fmt.Errorf("%w: fader type must be \"in\" or \"out\", got %q", model.ErrConfig, s)
}

type Config struct {
	Direction Direction
	// MaxSteps bounds how many ties change per call; the actual number is
	// drawn between 1 and MaxSteps.
	MaxSteps             int
	FadeOnFirstCall      bool
	DisableRewriteMeter  bool
	OmitTimeSignatures   bool
	ForceTimeSignature   bool
	UseMultimeasureRests bool
	// Mask starts the fader from a given state instead of the full (fade
	// out) or empty (fade in) one.
	Mask   []int
	Rand   *rand.Rand
	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{MaxSteps: 1, UseMultimeasureRests: true}
}

// Fader hides (Out) or reveals (In) the pitched logical ties of its
// contents. Each call changes at least one tie and renders the result.
type Fader struct {
	contents model.Container
	sigs     []model.TimeSignature
	ties     int
	mask     []int
	cfg      Config
	first    bool
	newMask  bool
	emitted  bool
	current  model.Container
	err      error
	r        *rand.Rand
	log      *slog.Logger
}

func New(contents model.Container, cfg Config) (*Fader, error) {
	if cfg.Direction != Out && cfg.Direction != In {
		return nil, fmt.Errorf("%w: unknown fader type %d", model.ErrConfig, cfg.Direction)
	}
	if cfg.MaxSteps < 1 {
		return nil, fmt.Errorf("%w: max steps must be at least 1, got %d", model.ErrConfig, cfg.MaxSteps)
	}
	f := &Fader{
		cfg:   cfg,
		first: !cfg.FadeOnFirstCall,
		r:     util.RandOrNew(cfg.Rand),
		log:   util.LoggerOrDiscard(cfg.Logger).With("component", "fader"),
	}
	if err := f.SetContents(contents); err != nil {
		return nil, err
	}
	if cfg.Mask != nil {
		if err := f.SetMask(cfg.Mask); err != nil {
			return nil, err
		}
	}
	f.newMask = false
	f.cfg.Mask = nil
	return f, nil
}

// Call changes the mask and returns the new window. The first call
// returns the contents untouched unless FadeOnFirstCall is set, and so
// does the first call after the mask was set or reset. It fails with
// model.ErrExhausted when there is nothing left to change, which can
// happen halfway through a multi-step change.
func (f *Fader) Call() (model.Container, error) {
	if !f.first && !f.newMask {
		if err := f.step(); err != nil {
			return model.Container{}, err
		}
	}
	return f.emit()
}

// Next is Call for iteration. It reports false once the fade is complete.
// A multi-step change that runs out of ties still returns the finished
// window.
func (f *Fader) Next() (model.Container, bool) {
	if f.Done() && !f.first && !f.newMask {
		return model.Container{}, false
	}
	if !f.first && !f.newMask {
		if err := f.step(); err != nil && !errors.Is(err, model.ErrExhausted) {
			f.err = err
			return model.Container{}, false
		}
	}
	w, err := f.emit()
	if err != nil {
		f.err = err
		return model.Container{}, false
	}
	return w, true
}

// Err returns the error that stopped Next, if it was not the end of the
// fade.
func (f *Fader) Err() error {
	return f.err
}

func (f *Fader) emit() (model.Container, error) {
	w, err := f.render()
	if err != nil {
		return model.Container{}, err
	}
	f.current = w
	f.first = false
	f.newMask = false
	f.emitted = true
	f.log.Debug("window", "sounding", f.sounding(), "ties", f.ties)
	return w.Copy(), nil
}

func (f *Fader) step() error {
	from, to := 1, 0
	if f.cfg.Direction == In {
		from, to = 0, 1
	}
	n := 1
	if f.cfg.MaxSteps > 1 {
		n += f.r.Intn(f.cfg.MaxSteps)
	}
	for i := 0; i < n; i++ {
		var candidates []int
		for j, v := range f.mask {
			if v == from {
				candidates = append(candidates, j)
			}
		}
		if len(candidates) == 0 {
			if f.cfg.Direction == In {
				return fmt.Errorf("%w: window is already full", model.ErrExhausted)
			}
			return fmt.Errorf("%w: window is already empty", model.ErrExhausted)
		}
		f.mask[candidates[f.r.Intn(len(candidates))]] = to
	}
	return nil
}

func (f *Fader) sounding() int {
	return util.Sum(f.mask)
}

func (f *Fader) render() (model.Container, error) {
	w := f.contents.Copy()
	for i, lt := range w.PitchedLogicalTies() {
		if f.mask[i] != 0 {
			continue
		}
		for k := lt.Start; k < lt.End; k++ {
			w.Leaves[k] = w.Leaves[k].AsRest()
		}
	}
	if f.cfg.OmitTimeSignatures {
		return mutate.RemoveAllTimeSignatures(w), nil
	}
	w, err := mutate.EnforceTimeSignature(w, f.sigs, mutate.EnforceOptions{DisableRewriteMeter: f.cfg.DisableRewriteMeter})
	if err != nil {
		return model.Container{}, err
	}
	if f.cfg.UseMultimeasureRests {
		if w, err = mutate.RestsToMultimeasureRest(w); err != nil {
			return model.Container{}, err
		}
	}
	if f.emitted && !f.cfg.ForceTimeSignature && f.sigs[0] == f.sigs[len(f.sigs)-1] && len(w.Leaves) > 0 {
		w.Leaves[0].TimeSignature = model.TimeSignature{}
	}
	return w, nil
}

// OutputN joins the next n windows.
func (f *Fader) OutputN(n int) (model.Container, error) {
	if n < 1 {
		return model.Container{}, fmt.Errorf("%w: cannot output %d windows", model.ErrConfig, n)
	}
	windows := make([]model.Container, 0, n)
	for i := 0; i < n; i++ {
		w, err := f.Call()
		if err != nil {
			return model.Container{}, err
		}
		windows = append(windows, w)
	}
	return join(windows), nil
}

// OutputAll joins every window up to and including the one where the fade
// completes.
func (f *Fader) OutputAll() (model.Container, error) {
	var windows []model.Container
	for w, ok := f.Next(); ok; w, ok = f.Next() {
		windows = append(windows, w)
	}
	if f.err != nil {
		return model.Container{}, f.err
	}
	return join(windows), nil
}

func join(windows []model.Container) model.Container {
	var out model.Container
	out.Append(windows...)
	return mutate.RemoveRepeatedTimeSignatures(out)
}

// Done reports whether every tie is hidden (Out) or sounding (In).
func (f *Fader) Done() bool {
	want := 0
	if f.cfg.Direction == In {
		want = 1
	}
	for _, v := range f.mask {
		if v != want {
			return false
		}
	}
	return true
}

// CurrentWindow returns a copy of the last window. It fails with
// model.ErrNoWindow before the first call.
func (f *Fader) CurrentWindow() (model.Container, error) {
	if !f.emitted {
		return model.Container{}, fmt.Errorf("%w: no window has been output yet", model.ErrNoWindow)
	}
	return f.current.Copy(), nil
}

func (f *Fader) Contents() model.Container {
	return f.contents.Copy()
}

// SetContents replaces the material and resets the mask.
func (f *Fader) SetContents(contents model.Container) error {
	if err := contents.Validate(); err != nil {
		return err
	}
	sigs, err := mutate.ExtractTimeSignatures(contents)
	if err != nil {
		return err
	}
	if len(sigs) == 0 {
		return fmt.Errorf("%w: nothing to fade", model.ErrStructure)
	}
	f.contents = contents.Copy()
	f.sigs = sigs
	f.ties = len(f.contents.PitchedLogicalTies())
	f.ResetMask()
	return nil
}

// Len returns the number of pitched logical ties.
func (f *Fader) Len() int {
	return f.ties
}

func (f *Fader) Mask() []int {
	return slices.Clone(f.mask)
}

// SetMask replaces the mask. The next call renders it as given.
func (f *Fader) SetMask(mask []int) error {
	if len(mask) != f.ties {
		return fmt.Errorf("%w: mask has %d entries for %d logical ties", model.ErrConfig, len(mask), f.ties)
	}
	for i, v := range mask {
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: mask entry %d is %d, must be 0 or 1", model.ErrConfig, i, v)
		}
	}
	f.mask = slices.Clone(mask)
	f.newMask = true
	return nil
}

// ResetMask fills the mask for a fresh fade: all sounding for Out, all
// silent for In. The next call renders it unchanged.
func (f *Fader) ResetMask() {
	v := 1
	if f.cfg.Direction == In {
		v = 0
	}
	f.mask = util.Repeat(v, f.ties)
	f.newMask = true
}

func (f *Fader) Direction() Direction {
	return f.cfg.Direction
}

// SetDirection changes the fade direction and keeps the mask.
func (f *Fader) SetDirection(d Direction) error {
	if d != Out && d != In {
		return fmt.Errorf("%w: unknown fader type %d", model.ErrConfig, d)
	}
	f.cfg.Direction = d
	return nil
}

func (f *Fader) SetMaxSteps(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: max steps must be at least 1, got %d", model.ErrConfig, n)
	}
	f.cfg.MaxSteps = n
	return nil
}

func (f *Fader) SetDisableRewriteMeter(b bool)  { f.cfg.DisableRewriteMeter = b }
func (f *Fader) SetOmitTimeSignatures(b bool)   { f.cfg.OmitTimeSignatures = b }
func (f *Fader) SetForceTimeSignature(b bool)   { f.cfg.ForceTimeSignature = b }
func (f *Fader) SetUseMultimeasureRests(b bool) { f.cfg.UseMultimeasureRests = b }
