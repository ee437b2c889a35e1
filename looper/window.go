package looper

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/jsphweid/auxloop/head"
	"github.com/jsphweid/auxloop/model"
	"github.com/jsphweid/auxloop/mutate"
	"github.com/jsphweid/auxloop/util"
)

type WindowConfig struct {
	Options
	// Window is the length of each window, written as its meter.
	Window   model.TimeSignature
	Step     model.Duration
	Position model.Duration
	// FillWithRests pads windows running past the end of the contents.
	FillWithRests       bool
	ForceTimeSignatures bool
	OmitTimeSignatures  bool
	DisableRewriteMeter bool
	MaximumDotCount     int
	TieIdenticalPitches bool
	Rand                *rand.Rand
	Logger              *slog.Logger
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Options:       DefaultOptions(),
		Window:        model.CommonTime,
		Step:          model.D(1, 16),
		FillWithRests: true,
	}
}

// WindowLooper loops over windows of a fixed duration, cutting through
// leaves where needed.
type WindowLooper struct {
	containerLoop
	contents model.Container
	flat     model.Container
	window   model.TimeSignature
	fill     bool
	rewrite  bool
	maxDots  int
}

func NewWindowLooper(contents model.Container, cfg WindowConfig) (*WindowLooper, error) {
	if !cfg.Window.Valid() {
		return nil, fmt.Errorf("%w: invalid window %v", model.ErrConfig, cfg.Window)
	}
	if cfg.MaximumDotCount < 0 {
		return nil, fmt.Errorf("%w: negative maximum dot count", model.ErrConfig)
	}
	l := &WindowLooper{
		window:  cfg.Window,
		fill:    cfg.FillWithRests,
		rewrite: !cfg.DisableRewriteMeter,
		maxDots: cfg.MaximumDotCount,
	}
	if err := l.load(contents); err != nil {
		return nil, err
	}
	h, err := head.New(l.flat.Duration(), cfg.headConfig(cfg.Position, cfg.Step, cfg.Window.Duration()), util.RandOrNew(cfg.Rand))
	if err != nil {
		return nil, err
	}
	l.containerLoop = containerLoop{
		loop: loop[model.Container]{
			head:  h,
			slice: l.slice,
			clone: model.Container.Copy,
			log:   util.LoggerOrDiscard(cfg.Logger).With("looper", "window"),
		},
		header:       header{force: cfg.ForceTimeSignatures, omit: cfg.OmitTimeSignatures},
		tieIdentical: cfg.TieIdenticalPitches,
		meter:        l.meterOf,
	}
	return l, nil
}

func (l *WindowLooper) load(contents model.Container) error {
	if err := contents.Validate(); err != nil {
		return err
	}
	if !contents.Duration().Positive() {
		return fmt.Errorf("%w: nothing to loop over", model.ErrStructure)
	}
	l.contents = contents.Copy()
	l.flat = mutate.RemoveAllTimeSignatures(mutate.MultimeasureRestsToRests(contents))
	return nil
}

func (l *WindowLooper) slice(pos model.Duration) (model.Container, error) {
	size := l.window.Duration()
	end := pos.Add(size)
	split := mutate.SplitAt(l.flat, pos, end)

	var w model.Container
	first := -1
	var at model.Duration
	for i, leaf := range split.Leaves {
		if !at.Less(pos) && at.Less(end) {
			if first < 0 {
				first = i
			}
			w.Leaves = append(w.Leaves, leaf.Copy())
		}
		at = at.Add(leaf.Duration())
	}
	if first > 0 {
		inherit(&w.Leaves[0], split, first)
	}
	untie(&w)
	if gap := size.Sub(w.Duration()); gap.Positive() && l.fill {
		w.Leaves = append(w.Leaves, mutate.MakeRests(gap)...)
	}
	ts := l.meterOf(w)
	if l.rewrite && len(w.Leaves) > 0 && ts.Valid() {
		w.Leaves[0].TimeSignature = ts
		var err error
		w, err = mutate.RewriteMeter(w, mutate.MeterOptions{MaximumDotCount: l.maxDots})
		if err != nil {
			return model.Container{}, err
		}
	}
	l.header.stamp(&w, ts)
	return w, nil
}

// meterOf is the window meter, or the meter of the window's own length
// when it was cut short by the end of the contents.
func (l *WindowLooper) meterOf(w model.Container) model.TimeSignature {
	if d := w.Duration(); d.Less(l.window.Duration()) {
		return model.TimeSignatureFor(d)
	}
	return l.window
}

// inherit gives a leaf cut from the middle of a logical tie the dynamic
// and clef of the leaf the tie started on.
func inherit(dst *model.Leaf, split model.Container, i int) {
	k := i
	for k > 0 {
		prev := split.Leaves[k-1]
		if !prev.Tie || !prev.IsPitched() || !split.Leaves[k].IsPitched() {
			break
		}
		k--
	}
	if k == i {
		return
	}
	for _, kind := range []model.IndicatorKind{model.Dynamic, model.Clef} {
		if _, ok := dst.Indicator(kind); ok {
			continue
		}
		if ind, ok := split.Leaves[k].Indicator(kind); ok {
			dst.Attach(ind)
		}
	}
}

func (l *WindowLooper) Contents() model.Container {
	return l.contents.Copy()
}

// SetContents replaces the material and puts the head back at the start.
func (l *WindowLooper) SetContents(contents model.Container) error {
	saved := *l
	if err := l.load(contents); err != nil {
		return err
	}
	if err := l.head.Reset(l.flat.Duration()); err != nil {
		*l = saved
		return err
	}
	l.restart()
	return nil
}

// Len returns the number of steps needed to cross the contents.
func (l *WindowLooper) Len() int {
	return int(l.flat.Duration().Div(l.head.Config().Step).Ceil())
}

func (l *WindowLooper) Position() model.Duration {
	return l.head.Position()
}

func (l *WindowLooper) SetPosition(d model.Duration) error {
	return l.head.SetPosition(d)
}

func (l *WindowLooper) Window() model.TimeSignature {
	return l.window
}

func (l *WindowLooper) SetWindow(ts model.TimeSignature) error {
	if !ts.Valid() {
		return fmt.Errorf("%w: invalid window %v", model.ErrConfig, ts)
	}
	if err := l.head.SetWindow(ts.Duration()); err != nil {
		return err
	}
	l.window = ts
	return nil
}

func (l *WindowLooper) SetStep(d model.Duration) error {
	return l.head.SetStep(d)
}

func (l *WindowLooper) SetFillWithRests(b bool) {
	l.fill = b
}

func (l *WindowLooper) SetDisableRewriteMeter(b bool) {
	l.rewrite = !b
}

func (l *WindowLooper) SetMaximumDotCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative maximum dot count", model.ErrConfig)
	}
	l.maxDots = n
	return nil
}
