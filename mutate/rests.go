package mutate

import (
	"github.com/jsphweid/auxloop/model"
)

// RestsToMultimeasureRest replaces every measure made only of rests by a
// single multimeasure rest carrying the measure's time signature.
func RestsToMultimeasureRest(c model.Container) (model.Container, error) {
	measures, err := GroupByMeasure(c)
	if err != nil {
		return model.Container{}, err
	}
	var out model.Container
	for _, m := range measures {
		leaves := c.Leaves[m.Start:m.End]
		if !allRests(leaves) || !measureFilled(leaves, m) {
			for _, l := range leaves {
				out.Leaves = append(out.Leaves, l.Copy())
			}
			continue
		}
		mm := model.NewMultimeasureRest(m.TimeSignature)
		mm.TimeSignature = leaves[0].TimeSignature
		for _, l := range leaves {
			for _, ind := range l.Indicators {
				mm.Attach(ind)
			}
		}
		out.Leaves = append(out.Leaves, mm)
	}
	return out, nil
}

func allRests(leaves []model.Leaf) bool {
	if len(leaves) == 0 {
		return false
	}
	for _, l := range leaves {
		if !l.IsRest() {
			return false
		}
	}
	return true
}

func measureFilled(leaves []model.Leaf, m Measure) bool {
	var total model.Duration
	for _, l := range leaves {
		total = total.Add(l.Duration())
	}
	return total.Equal(m.Duration())
}

// RemoveEmptyTuplets replaces tuplets holding nothing but rests by plain
// rests of the same total duration.
func RemoveEmptyTuplets(c model.Container) model.Container {
	var out model.Container
	for i := 0; i < len(c.Leaves); {
		l := c.Leaves[i]
		if l.Tuplet == 0 {
			out.Leaves = append(out.Leaves, l.Copy())
			i++
			continue
		}
		j := i + 1
		for j < len(c.Leaves) && c.Leaves[j].Tuplet == l.Tuplet {
			j++
		}
		group := c.Leaves[i:j]
		if !allRests(group) {
			for _, g := range group {
				out.Leaves = append(out.Leaves, g.Copy())
			}
			i = j
			continue
		}
		var total model.Duration
		for _, g := range group {
			total = total.Add(g.Duration())
		}
		rests := MakeRests(total)
		if len(rests) > 0 {
			rests[0].TimeSignature = l.TimeSignature
			rests[0].Indicators = append(rests[0].Indicators, l.Indicators...)
		}
		out.Leaves = append(out.Leaves, rests...)
		i = j
	}
	return out
}

// RemoveRepeatedDynamics drops dynamics equal to the last one heard.
func RemoveRepeatedDynamics(c model.Container) model.Container {
	out := c.Copy()
	var prev string
	for i := range out.Leaves {
		ind, ok := out.Leaves[i].Indicator(model.Dynamic)
		if !ok {
			continue
		}
		if ind.Value == prev {
			out.Leaves[i].Detach(model.Dynamic)
		}
		prev = ind.Value
	}
	return out
}

// LeavesAreTieable reports whether a tie from a into b would join the same
// pitches.
func LeavesAreTieable(a, b model.Leaf) bool {
	return a.IsPitched() && b.IsPitched() && model.SamePitches(a.Pitches, b.Pitches)
}

// Concat joins windows into one container. With tieIdentical, a tie is
// added wherever a window ends on the pitches the next one starts with.
// Repeated time signatures and dynamics are removed from the result.
func Concat(parts []model.Container, tieIdentical bool) model.Container {
	var out model.Container
	for _, p := range parts {
		if tieIdentical && len(out.Leaves) > 0 && len(p.Leaves) > 0 {
			last := &out.Leaves[len(out.Leaves)-1]
			if LeavesAreTieable(*last, p.Leaves[0]) {
				last.Tie = true
			}
		}
		out.Append(p)
	}
	return RemoveRepeatedDynamics(RemoveRepeatedTimeSignatures(out))
}
