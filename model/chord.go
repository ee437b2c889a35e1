package model

import "sort"

// NewChord builds a chord leaf from at least two pitches, sorted from low
// to high. A single pitch makes a note.
func NewChord(pitches []Pitch, written Duration) Leaf {
	ps := SortPitches(pitches)
	if len(ps) == 1 {
		return NewNote(ps[0], written)
	}
	return Leaf{Kind: ChordKind, Pitches: ps, Written: written}
}

// SortPitches returns a copy of pitches ordered from low to high.
func SortPitches(pitches []Pitch) []Pitch {
	ps := make([]Pitch, len(pitches))
	copy(ps, pitches)
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Semitones() < ps[j].Semitones()
	})
	return ps
}

// SamePitches compares two pitch sets by sounding pitch, ignoring order.
func SamePitches(a, b []Pitch) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := SortPitches(a), SortPitches(b)
	for i := range sa {
		if !sa[i].SamePitch(sb[i]) {
			return false
		}
	}
	return true
}

// SetPitches rewrites the pitch content of a pitched leaf, switching
// between note and chord as needed.
func (l *Leaf) SetPitches(pitches []Pitch) {
	if !l.IsPitched() || len(pitches) == 0 {
		return
	}
	if len(pitches) == 1 {
		l.Kind = NoteKind
		l.Pitches = []Pitch{pitches[0]}
		return
	}
	l.Kind = ChordKind
	l.Pitches = SortPitches(pitches)
}
