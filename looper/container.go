package looper

import (
	"github.com/jsphweid/auxloop/model"
	"github.com/jsphweid/auxloop/mutate"
)

// header decides which windows get a time signature: each window states
// its meter unless the previous window already did.
type header struct {
	force bool
	omit  bool
	last  model.TimeSignature
}

func (h *header) stamp(w *model.Container, ts model.TimeSignature) {
	for i := range w.Leaves {
		w.Leaves[i].TimeSignature = model.TimeSignature{}
	}
	if len(w.Leaves) == 0 || h.omit || !ts.Valid() {
		return
	}
	if ts == h.last && !h.force {
		return
	}
	w.Leaves[0].TimeSignature = ts
	h.last = ts
}

// containerLoop is the part shared by loopers whose windows are music.
type containerLoop struct {
	loop[model.Container]
	header       header
	tieIdentical bool
	meter        func(w model.Container) model.TimeSignature
}

// Call moves the head and returns the new window. It fails with
// model.ErrExhausted once the head has left the contents.
func (c *containerLoop) Call() (model.Container, error) {
	return c.call()
}

// Next is Call for iteration: it reports false at the end, after which
// Err tells a failure apart from exhaustion.
func (c *containerLoop) Next() (model.Container, bool) {
	return c.next()
}

func (c *containerLoop) Err() error {
	return c.err
}

// CurrentWindow returns a copy of the last window without moving. It
// fails with model.ErrNoWindow before the first call.
func (c *containerLoop) CurrentWindow() (model.Container, error) {
	return c.currentWindow()
}

// OutputN joins the next n windows into one container.
func (c *containerLoop) OutputN(n int) (model.Container, error) {
	windows, err := c.outputN(n)
	if err != nil {
		return model.Container{}, err
	}
	return c.join(windows), nil
}

// OutputAll joins every remaining window into one container.
func (c *containerLoop) OutputAll() (model.Container, error) {
	windows, err := c.outputAll()
	if err != nil {
		return model.Container{}, err
	}
	return c.join(windows), nil
}

func (c *containerLoop) join(windows []model.Container) model.Container {
	out := mutate.Concat(windows, c.tieIdentical)
	if len(out.Leaves) == 0 || c.header.omit || !out.Leaves[0].TimeSignature.IsZero() {
		return out
	}
	if ts := c.meter(windows[0]); ts.Valid() {
		out.Leaves[0].TimeSignature = ts
	}
	return out
}

func (c *containerLoop) restart() {
	c.reset()
	c.header.last = model.TimeSignature{}
}

// untie drops the tie leaving the window and slurs left open or closed by
// the cut.
func untie(w *model.Container) {
	if len(w.Leaves) == 0 {
		return
	}
	w.Leaves[len(w.Leaves)-1].Tie = false
	var open []int
	for i := range w.Leaves {
		l := &w.Leaves[i]
		if _, ok := l.Indicator(model.SlurStop); ok {
			if len(open) == 0 {
				l.Detach(model.SlurStop)
			} else {
				open = open[:len(open)-1]
			}
		}
		if _, ok := l.Indicator(model.SlurStart); ok {
			open = append(open, i)
		}
	}
	for _, i := range open {
		w.Leaves[i].Detach(model.SlurStart)
	}
}

func (c *containerLoop) SetMaxSteps(n int) error {
	return c.head.SetMaxSteps(n)
}

func (c *containerLoop) SetRepetitionChance(p float64) error {
	return c.head.SetRepetitionChance(p)
}

func (c *containerLoop) SetForwardBias(p float64) error {
	return c.head.SetForwardBias(p)
}

func (c *containerLoop) SetProcessOnFirstCall(b bool) {
	c.head.SetProcessOnFirstCall(b)
}

func (c *containerLoop) SetForceTimeSignatures(b bool) {
	c.header.force = b
}

func (c *containerLoop) SetOmitTimeSignatures(b bool) {
	c.header.omit = b
}

// SetTieIdenticalPitches ties windows joined by OutputN and OutputAll
// wherever one ends on the pitches the next starts with.
func (c *containerLoop) SetTieIdenticalPitches(b bool) {
	c.tieIdentical = b
}
