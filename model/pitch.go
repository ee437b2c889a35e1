package model

import "fmt"

// Pitch is a spelled pitch. Notename counts diatonic steps from c (0) to
// b (6), Alteration is in semitones and Octave 0 is the octave starting at
// middle c, so c' is Pitch{0, 0, 0}.
type Pitch struct {
	Notename   int
	Alteration int
	Octave     int
}

var scale = []int{0, 2, 4, 5, 7, 9, 11}

// Normalize folds Notename back into 0..6, adjusting the octave.
func (p *Pitch) Normalize() {
	for p.Notename < 0 {
		p.Notename += 7
		p.Octave--
	}
	for p.Notename >= 7 {
		p.Notename -= 7
		p.Octave++
	}
}

// Semitones returns the distance from middle c in semitones.
func (p Pitch) Semitones() int {
	p.Normalize()
	return p.Octave*12 + scale[p.Notename] + p.Alteration
}

// Number returns the MIDI note number, with c' being 60.
func (p Pitch) Number() int {
	return 60 + p.Semitones()
}

type spelling struct {
	notename   int
	alteration int
}

var spellings = [12]spelling{
	{0, 0}, {0, 1}, {1, 0}, {2, -1}, {2, 0}, {3, 0},
	{3, 1}, {4, 0}, {5, -1}, {5, 0}, {6, -1}, {6, 0},
}

// PitchFromNumber spells a MIDI note number using c cs d ef e f fs g af a
// bf b.
func PitchFromNumber(n int) Pitch {
	rel := n - 60
	octave := rel / 12
	pc := rel % 12
	if pc < 0 {
		pc += 12
		octave--
	}
	s := spellings[pc]
	return Pitch{Notename: s.notename, Alteration: s.alteration, Octave: octave}
}

// SamePitch compares sounding pitch, ignoring spelling.
func (p Pitch) SamePitch(o Pitch) bool {
	return p.Semitones() == o.Semitones()
}

var notenames = []string{"c", "d", "e", "f", "g", "a", "b"}
var altsuffix = []string{"ff", "f", "", "s", "ss"}

func (p Pitch) String() string {
	p.Normalize()
	alt := p.Alteration + 2
	if alt < 0 || alt >= len(altsuffix) {
		return fmt.Sprintf("pitch(%d)", p.Number())
	}
	n := notenames[p.Notename] + altsuffix[alt]
	if p.Octave < 0 {
		for i := -1; i > p.Octave; i-- {
			n += ","
		}
	} else {
		for i := 0; i <= p.Octave; i++ {
			n += "'"
		}
	}
	return n
}
