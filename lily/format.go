package lily

import (
	"fmt"
	"strings"

	"github.com/jsphweid/auxloop/model"
)

var articulationShorthand = map[string]string{
	"staccato":      "-.",
	"accent":        "->",
	"marcato":       "-^",
	"tenuto":        "--",
	"portato":       "-_",
	"staccatissimo": "-!",
}

// DurationString writes a written duration the way LilyPond does: 4. for
// a dotted quarter, \breve for two whole notes. Durations that cannot be
// written as a single value are scaled from a whole note, 1*5/16.
func DurationString(d model.Duration) string {
	if !d.IsAssignable() {
		return "1*" + d.String()
	}
	base := d.Base()
	var n string
	if base.Equal(model.Whole(2)) {
		n = "\\breve"
	} else {
		n = fmt.Sprintf("%d", base.Den()/base.Num())
	}
	return n + strings.Repeat(".", d.Dots())
}

func leafString(l model.Leaf) string {
	dur := DurationString(l.Written)
	switch l.Kind {
	case model.NoteKind:
		return l.Pitches[0].String() + dur
	case model.ChordKind:
		pitches := make([]string, 0, len(l.Pitches))
		for _, p := range l.Pitches {
			pitches = append(pitches, p.String())
		}
		return "<" + strings.Join(pitches, " ") + ">" + dur
	case model.MultimeasureRestKind:
		if r := l.Ratio(); !r.Equal(model.Whole(1)) {
			return "R" + dur + " * " + r.String()
		}
		return "R" + dur
	}
	return "r" + dur
}

func postEvents(l model.Leaf) []string {
	var out []string
	for _, ind := range l.Indicators {
		if ind.Kind == model.Dynamic {
			out = append(out, "\\"+ind.Value)
		}
	}
	for _, ind := range l.Indicators {
		switch ind.Kind {
		case model.Articulation:
			if s, ok := articulationShorthand[ind.Value]; ok {
				out = append(out, s)
			} else {
				out = append(out, "-\\"+ind.Value)
			}
		case model.Markup:
			out = append(out, fmt.Sprintf("^%q", ind.Value))
		}
	}
	for _, ind := range l.Indicators {
		if ind.Kind == model.SlurStop {
			out = append(out, ")")
		}
	}
	for _, ind := range l.Indicators {
		if ind.Kind == model.SlurStart {
			out = append(out, "(")
		}
	}
	if l.Tie {
		out = append(out, "~")
	}
	return out
}

func tokens(c model.Container) []string {
	var out []string
	open := 0
	for i, l := range c.Leaves {
		if l.Tuplet != open && open != 0 {
			out = append(out, "}")
			open = 0
		}
		if !l.TimeSignature.IsZero() {
			out = append(out, "\\time", l.TimeSignature.String())
		}
		if ind, ok := l.Indicator(model.Clef); ok {
			out = append(out, "\\clef", fmt.Sprintf("%q", ind.Value))
		}
		if l.Tuplet != 0 && l.Tuplet != open {
			out = append(out, "\\times", l.Ratio().String(), "{")
			open = l.Tuplet
		}
		out = append(out, leafString(l))
		out = append(out, postEvents(l)...)
		if open != 0 && i == len(c.Leaves)-1 {
			out = append(out, "}")
		}
	}
	return out
}

// Format renders a container as one line of LilyPond music.
func Format(c model.Container) string {
	return strings.Join(tokens(c), " ")
}

// FormatStaff wraps the music in a staff.
func FormatStaff(c model.Container) string {
	body := Format(c)
	if body == "" {
		return "\\new Staff { }"
	}
	return "\\new Staff { " + body + " }"
}

// FormatStaves renders parallel parts, one staff each.
func FormatStaves(parts []model.Container) string {
	staves := make([]string, 0, len(parts))
	for _, p := range parts {
		staves = append(staves, FormatStaff(p))
	}
	return "<< " + strings.Join(staves, " ") + " >>"
}
