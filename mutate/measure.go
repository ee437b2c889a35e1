package mutate

import (
	"fmt"

	"github.com/jsphweid/auxloop/model"
)

// ExtractTimeSignatures returns the time signature in effect for each
// measure, counting an incomplete last measure. Music without a leading
// time signature is read as 4/4.
func ExtractTimeSignatures(c model.Container) ([]model.TimeSignature, error) {
	var out []model.TimeSignature
	cur := model.CommonTime
	var pos model.Duration
	for i, l := range c.Leaves {
		if !l.TimeSignature.IsZero() {
			if !pos.IsZero() {
				return nil, fmt.Errorf("%w: time signature %v on leaf %d is not on a barline", model.ErrStructure, l.TimeSignature, i)
			}
			cur = l.TimeSignature
		}
		if pos.IsZero() {
			out = append(out, cur)
		}
		pos = pos.Add(l.Duration())
		size := cur.Duration()
		if !size.Positive() {
			return nil, fmt.Errorf("%w: invalid time signature %v", model.ErrStructure, cur)
		}
		for !pos.Less(size) {
			pos = pos.Sub(size)
			if pos.Positive() {
				out = append(out, cur)
			}
		}
	}
	return out, nil
}

// Measure locates one measure inside a container.
type Measure struct {
	Start         int
	End           int
	Offset        model.Duration
	TimeSignature model.TimeSignature
}

func (m Measure) Duration() model.Duration {
	return m.TimeSignature.Duration()
}

// GroupByMeasure groups leaves by the measure they start in. A measure
// covered entirely by a leaf from an earlier one is empty.
func GroupByMeasure(c model.Container) ([]Measure, error) {
	sigs, err := ExtractTimeSignatures(c)
	if err != nil {
		return nil, err
	}
	var out []Measure
	var at, barline model.Duration
	m := -1
	for i, l := range c.Leaves {
		for m+1 < len(sigs) && !at.Less(barline) {
			m++
			if m > 0 {
				out[m-1].End = i
			}
			out = append(out, Measure{Start: i, Offset: barline, TimeSignature: sigs[m]})
			barline = barline.Add(sigs[m].Duration())
		}
		at = at.Add(l.Duration())
	}
	if len(out) > 0 {
		out[len(out)-1].End = len(c.Leaves)
	}
	for m+1 < len(sigs) {
		m++
		out = append(out, Measure{Start: len(c.Leaves), End: len(c.Leaves), Offset: barline, TimeSignature: sigs[m]})
		barline = barline.Add(sigs[m].Duration())
	}
	return out, nil
}

// barlines returns the offsets where new measures start, the last
// signature repeating until total is covered.
func barlines(sigs []model.TimeSignature, total model.Duration) []model.Duration {
	var out []model.Duration
	var at model.Duration
	for i := 0; at.Less(total); i++ {
		ts := sigs[len(sigs)-1]
		if i < len(sigs) {
			ts = sigs[i]
		}
		out = append(out, at)
		at = at.Add(ts.Duration())
	}
	return out
}

func RemoveAllTimeSignatures(c model.Container) model.Container {
	out := c.Copy()
	for i := range out.Leaves {
		out.Leaves[i].TimeSignature = model.TimeSignature{}
	}
	return out
}

// RemoveRepeatedTimeSignatures drops time signatures equal to the one
// already in effect.
func RemoveRepeatedTimeSignatures(c model.Container) model.Container {
	out := c.Copy()
	var prev model.TimeSignature
	for i := range out.Leaves {
		ts := out.Leaves[i].TimeSignature
		if ts.IsZero() {
			continue
		}
		if ts == prev {
			out.Leaves[i].TimeSignature = model.TimeSignature{}
		}
		prev = ts
	}
	return out
}

// EnforceOptions tunes EnforceTimeSignature.
type EnforceOptions struct {
	DisableRewriteMeter bool
	MaximumDotCount     int
}

// EnforceTimeSignature re-bars c with the given signatures, one per
// measure with the last one repeating. Leaves crossing barlines are split
// and tied, a signature is attached wherever it changes, the last measure
// is completed with rests and each measure is re-notated.
func EnforceTimeSignature(c model.Container, sigs []model.TimeSignature, opts EnforceOptions) (model.Container, error) {
	if len(sigs) == 0 {
		return model.Container{}, fmt.Errorf("%w: no time signatures to enforce", model.ErrConfig)
	}
	for _, ts := range sigs {
		if !ts.Valid() {
			return model.Container{}, fmt.Errorf("%w: invalid time signature %v", model.ErrConfig, ts)
		}
	}
	out := MultimeasureRestsToRests(RemoveAllTimeSignatures(c))
	total := out.Duration()
	bars := barlines(sigs, total)
	out = SplitAt(out, bars...)

	var end model.Duration
	if n := len(bars); n > 0 {
		ts := sigs[len(sigs)-1]
		if n-1 < len(sigs) {
			ts = sigs[n-1]
		}
		end = bars[n-1].Add(ts.Duration())
	}
	if gap := end.Sub(total); gap.Positive() {
		out.Leaves = append(out.Leaves, MakeRests(gap)...)
	}

	var prev model.TimeSignature
	var at model.Duration
	bar := 0
	for i := range out.Leaves {
		if bar < len(bars) && at.Equal(bars[bar]) {
			ts := sigs[len(sigs)-1]
			if bar < len(sigs) {
				ts = sigs[bar]
			}
			if ts != prev {
				out.Leaves[i].TimeSignature = ts
			}
			prev = ts
			bar++
		}
		at = at.Add(out.Leaves[i].Duration())
	}
	if opts.DisableRewriteMeter {
		return out, nil
	}
	return RewriteMeter(out, MeterOptions{MaximumDotCount: opts.MaximumDotCount})
}

// FillWithRests completes the last measure of c with rests.
func FillWithRests(c model.Container) (model.Container, error) {
	sigs, err := ExtractTimeSignatures(c)
	if err != nil {
		return model.Container{}, err
	}
	out := c.Copy()
	var end model.Duration
	for _, ts := range sigs {
		end = end.Add(ts.Duration())
	}
	if gap := end.Sub(out.Duration()); gap.Positive() {
		out.Leaves = append(out.Leaves, MakeRests(gap)...)
	}
	return out, nil
}
