package model

import "golang.org/x/exp/slices"

type Kind int

const (
	NoteKind Kind = iota
	ChordKind
	RestKind
	MultimeasureRestKind
)

func (k Kind) String() string {
	switch k {
	case NoteKind:
		return "note"
	case ChordKind:
		return "chord"
	case RestKind:
		return "rest"
	case MultimeasureRestKind:
		return "multimeasure rest"
	}
	return "unknown"
}

type IndicatorKind int

const (
	Dynamic IndicatorKind = iota
	Articulation
	Clef
	SlurStart
	SlurStop
	Markup
)

// Indicator is anything attached to a leaf that is not structural. Value
// holds the dynamic ("mf"), articulation ("staccato"), clef ("bass") or
// markup text.
type Indicator struct {
	Kind  IndicatorKind
	Value string
}

// Leaf is a single notated event. Its sounding duration is Written scaled
// by Multiplier, which carries tuplet ratios and multimeasure rest lengths.
// Leaves sharing a non-zero Tuplet id and standing next to each other form
// one tuplet. Tie means the leaf is tied into the following one.
type Leaf struct {
	Kind          Kind
	Pitches       []Pitch
	Written       Duration
	Multiplier    Duration
	Tuplet        int
	Tie           bool
	TimeSignature TimeSignature
	Indicators    []Indicator
}

func NewNote(p Pitch, written Duration) Leaf {
	return Leaf{Kind: NoteKind, Pitches: []Pitch{p}, Written: written}
}

func NewRest(written Duration) Leaf {
	return Leaf{Kind: RestKind, Written: written}
}

// NewMultimeasureRest makes a rest lasting one measure of ts.
func NewMultimeasureRest(ts TimeSignature) Leaf {
	l := Leaf{Kind: MultimeasureRestKind, Written: Whole(1)}
	if d := ts.Duration(); !d.Equal(Whole(1)) {
		l.Multiplier = d
	}
	return l
}

// Ratio returns the multiplier, treating the zero value as 1.
func (l Leaf) Ratio() Duration {
	if l.Multiplier.IsZero() {
		return Whole(1)
	}
	return l.Multiplier
}

// Duration returns the sounding duration.
func (l Leaf) Duration() Duration {
	return l.Written.Mul(l.Ratio())
}

func (l Leaf) IsPitched() bool {
	return l.Kind == NoteKind || l.Kind == ChordKind
}

func (l Leaf) IsRest() bool {
	return l.Kind == RestKind || l.Kind == MultimeasureRestKind
}

// Copy makes a deep copy of a Leaf.
func (l Leaf) Copy() Leaf {
	l.Pitches = slices.Clone(l.Pitches)
	l.Indicators = slices.Clone(l.Indicators)
	return l
}

// Indicator returns the first indicator of the given kind.
func (l Leaf) Indicator(kind IndicatorKind) (Indicator, bool) {
	for _, ind := range l.Indicators {
		if ind.Kind == kind {
			return ind, true
		}
	}
	return Indicator{}, false
}

// Attach adds an indicator, replacing an existing one of the same kind for
// dynamics and clefs.
func (l *Leaf) Attach(ind Indicator) {
	if ind.Kind == Dynamic || ind.Kind == Clef {
		l.Detach(ind.Kind)
	}
	if slices.Contains(l.Indicators, ind) {
		return
	}
	l.Indicators = append(l.Indicators, ind)
}

// Detach removes every indicator of the given kind.
func (l *Leaf) Detach(kind IndicatorKind) {
	out := l.Indicators[:0]
	for _, ind := range l.Indicators {
		if ind.Kind != kind {
			out = append(out, ind)
		}
	}
	if len(out) == 0 {
		out = nil
	}
	l.Indicators = out
}

// AsRest turns the leaf into a rest of the same written duration, keeping
// only its tuplet placement.
func (l Leaf) AsRest() Leaf {
	return Leaf{
		Kind:       RestKind,
		Written:    l.Written,
		Multiplier: l.Multiplier,
		Tuplet:     l.Tuplet,
	}
}
