package model

import "fmt"

// Container is an ordered voice of leaves. It is a plain value: Copy must
// be used before handing it to code that may keep or change it.
type Container struct {
	Leaves []Leaf
}

func NewContainer(leaves ...Leaf) Container {
	return Container{Leaves: leaves}
}

// Copy makes a deep copy of a Container.
func (c Container) Copy() Container {
	if c.Leaves == nil {
		return Container{}
	}
	leaves := make([]Leaf, len(c.Leaves))
	for i, l := range c.Leaves {
		leaves[i] = l.Copy()
	}
	return Container{Leaves: leaves}
}

func (c Container) Len() int {
	return len(c.Leaves)
}

func (c Container) IsEmpty() bool {
	return len(c.Leaves) == 0
}

// Duration returns the total sounding duration.
func (c Container) Duration() Duration {
	var total Duration
	for _, l := range c.Leaves {
		total = total.Add(l.Duration())
	}
	return total
}

// Offsets returns the start offset of every leaf.
func (c Container) Offsets() []Duration {
	offsets := make([]Duration, len(c.Leaves))
	var at Duration
	for i, l := range c.Leaves {
		offsets[i] = at
		at = at.Add(l.Duration())
	}
	return offsets
}

// Append adds deep copies of the leaves of other containers, keeping tuplet
// ids of the appended parts apart from the existing ones.
func (c *Container) Append(others ...Container) {
	for _, o := range others {
		shift := c.maxTuplet()
		for _, l := range o.Leaves {
			l = l.Copy()
			if l.Tuplet != 0 {
				l.Tuplet += shift
			}
			c.Leaves = append(c.Leaves, l)
		}
	}
}

func (c Container) maxTuplet() int {
	max := 0
	for _, l := range c.Leaves {
		if l.Tuplet > max {
			max = l.Tuplet
		}
	}
	return max
}

// Slice returns a deep copy of the leaves in [start, end).
func (c Container) Slice(start, end int) Container {
	return Container{Leaves: c.Leaves[start:end]}.Copy()
}

// LogicalTie is a run of tied leaves sounding as one event, or a single rest.
// Start and End index the leaves of the container it was taken from.
type LogicalTie struct {
	Start    int
	End      int
	Offset   Duration
	Duration Duration
	Pitched  bool
}

func (lt LogicalTie) Len() int {
	return lt.End - lt.Start
}

// LogicalTies groups the leaves into logical ties. A tie only joins two
// pitched leaves, so a dangling tie at the end is ignored.
func (c Container) LogicalTies() []LogicalTie {
	var ties []LogicalTie
	var at Duration
	for i := 0; i < len(c.Leaves); {
		lt := LogicalTie{Start: i, Offset: at, Pitched: c.Leaves[i].IsPitched()}
		j := i
		for j+1 < len(c.Leaves) && c.tiedToNext(j) {
			j++
		}
		lt.End = j + 1
		for k := lt.Start; k < lt.End; k++ {
			lt.Duration = lt.Duration.Add(c.Leaves[k].Duration())
		}
		at = at.Add(lt.Duration)
		ties = append(ties, lt)
		i = lt.End
	}
	return ties
}

// PitchedLogicalTies returns only the logical ties of notes and chords.
func (c Container) PitchedLogicalTies() []LogicalTie {
	var ties []LogicalTie
	for _, lt := range c.LogicalTies() {
		if lt.Pitched {
			ties = append(ties, lt)
		}
	}
	return ties
}

func (c Container) tiedToNext(i int) bool {
	l := c.Leaves[i]
	return l.Tie && l.IsPitched() && c.Leaves[i+1].IsPitched()
}

// Tie returns a copy of the leaves of one logical tie.
func (c Container) Tie(lt LogicalTie) Container {
	return c.Slice(lt.Start, lt.End)
}

// Validate reports structural problems: non-positive durations, pitch
// content that does not match the leaf kind, ties into rests or into
// different pitches.
func (c Container) Validate() error {
	for i, l := range c.Leaves {
		if !l.Written.Positive() {
			return fmt.Errorf("%w: leaf %d has a non-positive duration", ErrStructure, i)
		}
		if !l.Multiplier.IsZero() && !l.Multiplier.Positive() {
			return fmt.Errorf("%w: leaf %d has a non-positive multiplier", ErrStructure, i)
		}
		switch l.Kind {
		case NoteKind:
			if len(l.Pitches) != 1 {
				return fmt.Errorf("%w: note %d must have exactly one pitch", ErrStructure, i)
			}
		case ChordKind:
			if len(l.Pitches) < 1 {
				return fmt.Errorf("%w: chord %d has no pitches", ErrStructure, i)
			}
		case RestKind, MultimeasureRestKind:
			if len(l.Pitches) != 0 {
				return fmt.Errorf("%w: rest %d cannot have pitches", ErrStructure, i)
			}
		default:
			return fmt.Errorf("%w: leaf %d has unknown kind %d", ErrStructure, i, l.Kind)
		}
		if !l.TimeSignature.IsZero() && !l.TimeSignature.Valid() {
			return fmt.Errorf("%w: leaf %d has invalid time signature %v", ErrStructure, i, l.TimeSignature)
		}
		if l.Tie && i+1 < len(c.Leaves) {
			next := c.Leaves[i+1]
			if l.IsRest() || !next.IsPitched() {
				return fmt.Errorf("%w: leaf %d is tied into a rest", ErrStructure, i)
			}
			if !SamePitches(l.Pitches, next.Pitches) {
				return fmt.Errorf("%w: leaf %d is tied into a different pitch", ErrStructure, i)
			}
		}
	}
	return nil
}
