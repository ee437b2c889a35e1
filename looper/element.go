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

type ElementConfig struct {
	Options
	// Window and Step count logical ties.
	Window   int
	Step     int
	Position int
	// FillWithRests pads windows that run past the end with rests as long
	// as the last element. Without it the process ends as soon as a full
	// window no longer fits.
	FillWithRests       bool
	ForceTimeSignatures bool
	OmitTimeSignatures  bool
	TieIdenticalPitches bool
	Rand                *rand.Rand
	Logger              *slog.Logger
}

func DefaultElementConfig() ElementConfig {
	return ElementConfig{Options: DefaultOptions(), Window: 4, Step: 1}
}

// ElementLooper loops over windows of logical ties. Each window is
// headed by a time signature equal to its total duration.
type ElementLooper struct {
	containerLoop
	contents model.Container
	flat     model.Container
	ties     []model.LogicalTie
	window   int
	fill     bool
}

func NewElementLooper(contents model.Container, cfg ElementConfig) (*ElementLooper, error) {
	if cfg.Window < 1 {
		return nil, fmt.Errorf("%w: window must be at least 1 element, got %d", model.ErrConfig, cfg.Window)
	}
	l := &ElementLooper{window: cfg.Window, fill: cfg.FillWithRests}
	if err := l.load(contents); err != nil {
		return nil, err
	}
	hc := cfg.headConfig(model.Whole(int64(cfg.Position)), model.Whole(int64(cfg.Step)), model.Whole(int64(cfg.Window)))
	hc.RequireFullWindow = !cfg.FillWithRests
	h, err := head.New(model.Whole(int64(len(l.ties))), hc, util.RandOrNew(cfg.Rand))
	if err != nil {
		return nil, err
	}
	l.containerLoop = containerLoop{
		loop: loop[model.Container]{
			head:  h,
			slice: l.slice,
			clone: model.Container.Copy,
			log:   util.LoggerOrDiscard(cfg.Logger).With("looper", "element"),
		},
		header:       header{force: cfg.ForceTimeSignatures, omit: cfg.OmitTimeSignatures},
		tieIdentical: cfg.TieIdenticalPitches,
		meter:        func(w model.Container) model.TimeSignature { return model.TimeSignatureFor(w.Duration()) },
	}
	return l, nil
}

func (l *ElementLooper) load(contents model.Container) error {
	if err := contents.Validate(); err != nil {
		return err
	}
	if contents.IsEmpty() {
		return fmt.Errorf("%w: nothing to loop over", model.ErrStructure)
	}
	l.contents = contents.Copy()
	l.flat = mutate.RemoveAllTimeSignatures(mutate.MultimeasureRestsToRests(contents))
	l.ties = l.flat.LogicalTies()
	return nil
}

func (l *ElementLooper) slice(pos model.Duration) (model.Container, error) {
	start := int(pos.Floor())
	end := util.Min(start+l.window, len(l.ties))
	w := l.flat.Slice(l.ties[start].Start, l.ties[end-1].End)
	untie(&w)
	if missing := l.window - (end - start); missing > 0 && l.fill {
		last := l.ties[end-1].Duration
		for i := 0; i < missing; i++ {
			w.Leaves = append(w.Leaves, mutate.MakeRests(last)...)
		}
	}
	l.header.stamp(&w, model.TimeSignatureFor(w.Duration()))
	return w, nil
}

func (l *ElementLooper) Contents() model.Container {
	return l.contents.Copy()
}

// SetContents replaces the material and puts the head back at the start.
func (l *ElementLooper) SetContents(contents model.Container) error {
	saved := *l
	if err := l.load(contents); err != nil {
		return err
	}
	if err := l.head.Reset(model.Whole(int64(len(l.ties)))); err != nil {
		*l = saved
		return err
	}
	l.restart()
	return nil
}

// Len returns the number of logical ties.
func (l *ElementLooper) Len() int {
	return len(l.ties)
}

func (l *ElementLooper) Position() int {
	return int(l.head.Position().Floor())
}

func (l *ElementLooper) SetPosition(n int) error {
	return l.head.SetPosition(model.Whole(int64(n)))
}

func (l *ElementLooper) SetWindow(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: window must be at least 1 element, got %d", model.ErrConfig, n)
	}
	if err := l.head.SetWindow(model.Whole(int64(n))); err != nil {
		return err
	}
	l.window = n
	return nil
}

func (l *ElementLooper) SetStep(n int) error {
	return l.head.SetStep(model.Whole(int64(n)))
}

func (l *ElementLooper) SetFillWithRests(b bool) {
	l.fill = b
	l.head.SetRequireFullWindow(!b)
}
