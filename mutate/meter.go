package mutate

import (
	"github.com/jsphweid/auxloop/model"
)

// MeterOptions tunes RewriteMeter. MaximumDotCount of 0 allows any number
// of dots.
type MeterOptions struct {
	MaximumDotCount int
}

// RewriteMeter re-notates each measure against its time signature. Tie
// chains and runs of rests are fused and written again so that no value
// hides a beat, unless it starts on a beat and its undotted value spans
// whole beats. Tuplets and multimeasure rests are left untouched.
func RewriteMeter(c model.Container, opts MeterOptions) (model.Container, error) {
	sigs, err := ExtractTimeSignatures(c)
	if err != nil {
		return model.Container{}, err
	}
	if len(sigs) == 0 {
		return c.Copy(), nil
	}
	split := SplitAt(c, barlines(sigs, c.Duration())...)
	measures, err := GroupByMeasure(split)
	if err != nil {
		return model.Container{}, err
	}
	var out model.Container
	for _, m := range measures {
		out.Leaves = append(out.Leaves, rewriteMeasure(split.Leaves[m.Start:m.End], m.TimeSignature, opts.MaximumDotCount)...)
	}
	return out, nil
}

func plain(l model.Leaf) bool {
	return l.Tuplet == 0 && l.Kind != model.MultimeasureRestKind && l.Ratio().Equal(model.Whole(1))
}

func rewriteMeasure(leaves []model.Leaf, ts model.TimeSignature, maxDots int) []model.Leaf {
	var out []model.Leaf
	var at model.Duration
	for i := 0; i < len(leaves); {
		l := leaves[i]
		if !plain(l) {
			out = append(out, l.Copy())
			at = at.Add(l.Duration())
			i++
			continue
		}
		j := i + 1
		for j < len(leaves) && fuses(leaves[j-1], leaves[j]) {
			j++
		}
		merged := l.Copy()
		var total model.Duration
		for k := i; k < j; k++ {
			total = total.Add(leaves[k].Duration())
			if k > i {
				for _, ind := range leaves[k].Indicators {
					merged.Attach(ind)
				}
			}
		}
		merged.Tie = leaves[j-1].Tie
		out = append(out, respell(merged, beatSplit(at, total, ts, maxDots), maxDots)...)
		at = at.Add(total)
		i = j
	}
	return out
}

// fuses reports whether b continues the same event as a: a tie between
// the same pitches, or a rest following a rest with nothing attached.
func fuses(a, b model.Leaf) bool {
	if !plain(b) || !b.TimeSignature.IsZero() {
		return false
	}
	if a.IsPitched() {
		return a.Tie && b.IsPitched() && model.SamePitches(a.Pitches, b.Pitches)
	}
	return a.Kind == model.RestKind && b.Kind == model.RestKind && len(b.Indicators) == 0
}

// beatSplit cuts a span of total starting at offset into note values that
// fit the beat structure of ts.
func beatSplit(offset, total model.Duration, ts model.TimeSignature, maxDots int) []model.Duration {
	beat := ts.Beat()
	den := beat.Den()
	for _, d := range []model.Duration{offset, total} {
		if d.Den() > den {
			den = d.Den()
		}
	}
	if den&(den-1) != 0 {
		return Decompose(total, maxDots)
	}
	values := assignables(den, maxDots)
	var out []model.Duration
	for rest := total; rest.Positive(); {
		var chosen model.Duration
		for _, v := range values {
			if v.LessEq(rest) && fits(offset, v, beat) {
				chosen = v
				break
			}
		}
		if chosen.IsZero() {
			chosen = Decompose(rest, maxDots)[0]
		}
		out = append(out, chosen)
		offset = offset.Add(chosen)
		rest = rest.Sub(chosen)
	}
	return out
}

func fits(offset, v, beat model.Duration) bool {
	end := offset.Add(v)
	next := beat.MulInt(offset.Div(beat).Floor() + 1)
	if end.LessEq(next) {
		return true
	}
	if !offset.DivisibleBy(beat) {
		return false
	}
	return end.DivisibleBy(beat) || v.Base().DivisibleBy(beat)
}
