package mutate

import (
	"github.com/jsphweid/auxloop/model"
	"golang.org/x/exp/slices"
)

// assignables lists every single note value, dotted or not, from a breve
// down to 1/den, longest first.
func assignables(den int64, maxDots int) []model.Duration {
	var out []model.Duration
	bases := []model.Duration{model.Whole(2)}
	for bd := int64(1); bd <= den; bd *= 2 {
		bases = append(bases, model.D(1, bd))
	}
	for _, b := range bases {
		v, add := b, b
		for dots := 0; ; dots++ {
			if v.Den() > den || v.Greater(model.Whole(2)) || (maxDots > 0 && dots > maxDots) {
				break
			}
			out = append(out, v)
			add = add.Div(model.Whole(2))
			v = v.Add(add)
		}
	}
	slices.SortFunc(out, func(a, b model.Duration) bool { return b.Less(a) })
	return out
}

// Decompose writes d as a sum of assignable values, longest first. A
// duration whose denominator is not a power of two cannot be written that
// way and comes back whole. maxDots of 0 allows any number of dots.
func Decompose(d model.Duration, maxDots int) []model.Duration {
	if !d.Positive() {
		return nil
	}
	den := d.Den()
	if den&(den-1) != 0 {
		return []model.Duration{d}
	}
	values := assignables(den, maxDots)
	var out []model.Duration
	for rest := d; rest.Positive(); {
		for _, v := range values {
			if v.LessEq(rest) {
				out = append(out, v)
				rest = rest.Sub(v)
				break
			}
		}
	}
	return out
}

// MakeLeaves builds tied notes or chords sounding d. No pitches makes rests.
func MakeLeaves(pitches []model.Pitch, d model.Duration) []model.Leaf {
	var out []model.Leaf
	for _, w := range Decompose(d, 0) {
		var l model.Leaf
		switch len(pitches) {
		case 0:
			l = model.NewRest(w)
		case 1:
			l = model.NewNote(pitches[0], w)
		default:
			l = model.NewChord(pitches, w)
		}
		out = append(out, l)
	}
	tieRun(out)
	return out
}

func MakeRests(d model.Duration) []model.Leaf {
	return MakeLeaves(nil, d)
}

func tieRun(leaves []model.Leaf) {
	for i := 0; i+1 < len(leaves); i++ {
		if leaves[i].IsPitched() {
			leaves[i].Tie = true
		}
	}
}

// cut returns leaves shaped like l (kind, pitches, tuplet and ratio) that
// together sound dur, without indicators or time signature. Pitched
// pieces are tied to each other but the last one is left untied.
func cut(l model.Leaf, dur model.Duration, maxDots int) []model.Leaf {
	if l.Kind == model.MultimeasureRestKind {
		l = l.AsRest()
		l.Multiplier = model.Duration{}
		l.Tuplet = 0
	}
	ratio := l.Ratio()
	var out []model.Leaf
	for _, w := range Decompose(dur.Div(ratio), maxDots) {
		piece := model.Leaf{
			Kind:       l.Kind,
			Pitches:    slices.Clone(l.Pitches),
			Written:    w,
			Multiplier: l.Multiplier,
			Tuplet:     l.Tuplet,
		}
		out = append(out, piece)
	}
	tieRun(out)
	return out
}

// respell replaces l by pieces of the given sounding durations. The first
// piece takes the indicators and the time signature, a slur stop moves to
// the last piece and the last piece keeps the original tie.
func respell(l model.Leaf, parts []model.Duration, maxDots int) []model.Leaf {
	var out []model.Leaf
	for _, p := range parts {
		out = append(out, cut(l, p, maxDots)...)
	}
	if len(out) == 0 {
		return nil
	}
	tieRun(out)
	out[0].TimeSignature = l.TimeSignature
	last := len(out) - 1
	for _, ind := range l.Indicators {
		if ind.Kind == model.SlurStop && last > 0 {
			out[last].Indicators = append(out[last].Indicators, ind)
			continue
		}
		out[0].Indicators = append(out[0].Indicators, ind)
	}
	out[last].Tie = l.Tie && l.IsPitched()
	return out
}

// MultimeasureRestsToRests rewrites every multimeasure rest as plain rests
// of the same duration.
func MultimeasureRestsToRests(c model.Container) model.Container {
	var out model.Container
	for _, l := range c.Leaves {
		if l.Kind != model.MultimeasureRestKind {
			out.Leaves = append(out.Leaves, l.Copy())
			continue
		}
		out.Leaves = append(out.Leaves, respell(l, []model.Duration{l.Duration()}, 0)...)
	}
	return out
}

// SplitAt splits every leaf straddling one of the offsets into tied
// fragments so that each offset falls on a leaf boundary. Durations are
// preserved.
func SplitAt(c model.Container, offsets ...model.Duration) model.Container {
	sorted := slices.Clone(offsets)
	slices.SortFunc(sorted, model.Duration.Less)

	var out model.Container
	var at model.Duration
	for _, l := range c.Leaves {
		end := at.Add(l.Duration())
		var cuts []model.Duration
		prev := at
		for _, o := range sorted {
			if o.Greater(at) && o.Less(end) && o.Greater(prev) {
				cuts = append(cuts, o.Sub(prev))
				prev = o
			}
		}
		if len(cuts) == 0 {
			out.Leaves = append(out.Leaves, l.Copy())
		} else {
			cuts = append(cuts, end.Sub(prev))
			out.Leaves = append(out.Leaves, respell(l, cuts, 0)...)
		}
		at = end
	}
	return out
}
