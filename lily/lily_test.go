package lily

import (
	"errors"
	"testing"

	"github.com/jsphweid/auxloop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNotes(t *testing.T) {
	c, err := Parse("c'4 ~ c'16 d'8. e'8 f'8 ~ f'4")
	require.NoError(t, err)
	require.Len(t, c.Leaves, 6)

	assert := assert.New(t)
	assert.True(c.Leaves[0].Tie)
	assert.Equal(model.D(1, 16), c.Leaves[1].Written)
	assert.Equal(model.D(3, 16), c.Leaves[2].Written)
	assert.Equal(model.Whole(1), c.Duration())
	assert.Len(c.LogicalTies(), 4)
}

func TestParseRepeatsDurations(t *testing.T) {
	c := MustParse("c'8 d' e'2 f'")
	assert := assert.New(t)
	assert.Equal(model.D(1, 8), c.Leaves[1].Written)
	assert.Equal(model.D(1, 2), c.Leaves[3].Written)

	c = MustParse("c' d'")
	assert.Equal(model.D(1, 4), c.Leaves[0].Written)
}

func TestParsePitches(t *testing.T) {
	c := MustParse("cis''4 bes, fs ees'")
	assert := assert.New(t)
	assert.Equal(model.Pitch{Notename: 0, Alteration: 1, Octave: 1}, c.Leaves[0].Pitches[0])
	assert.Equal(model.Pitch{Notename: 6, Alteration: -1, Octave: -2}, c.Leaves[1].Pitches[0])
	assert.Equal(model.Pitch{Notename: 3, Alteration: 1, Octave: -1}, c.Leaves[2].Pitches[0])
	assert.Equal(63, c.Leaves[3].Pitches[0].Number())
}

func TestParseStructure(t *testing.T) {
	c := MustParse("{ \\time 3/4 \\clef \"bass\" <c e g>2 \\f r4 | \\times 2/3 { c8 -. d8 -> e8 } R1 * 3/4 }")
	require.Len(t, c.Leaves, 6)

	assert := assert.New(t)
	assert.Equal(model.TimeSignature{Numerator: 3, Denominator: 4}, c.Leaves[0].TimeSignature)
	assert.Equal(model.ChordKind, c.Leaves[0].Kind)
	clef, ok := c.Leaves[0].Indicator(model.Clef)
	assert.True(ok)
	assert.Equal("bass", clef.Value)
	dyn, _ := c.Leaves[0].Indicator(model.Dynamic)
	assert.Equal("f", dyn.Value)
	assert.Equal(model.RestKind, c.Leaves[1].Kind)
	assert.Equal(model.D(1, 12), c.Leaves[2].Duration())
	assert.Equal(c.Leaves[2].Tuplet, c.Leaves[4].Tuplet)
	art, _ := c.Leaves[2].Indicator(model.Articulation)
	assert.Equal("staccato", art.Value)
	assert.Equal(model.MultimeasureRestKind, c.Leaves[5].Kind)
	assert.Equal(model.D(3, 4), c.Leaves[5].Duration())
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"c'4 ~ d'4",
		"x4",
		"c'3",
		"\\times 2/3 { c'8",
		"c'4 }",
		"~ c'4",
		"\\time 3/5 c'4",
		"\\glissando c'4",
		"\\tuplet 0/1 { c'4 }",
		"\\times 0/1 { c'4 }",
		"\\times 2/-3 { c'8 }",
		"c'4 * 0",
		"R1 * 0/4",
		"c'4 * -1/2",
		"{ c'4",
		"{",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.True(t, errors.Is(err, model.ErrStructure), "got %v", err)
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, input := range []string{
		"c'4 ~ c'16 d'8. e'8 f'8 ~ f'4",
		"\\time 3/4 <c' e' g'>2 \\mf r4",
		"c'4 -. ( d'4 -> e'4 ) f'4 ^\"dolce\"",
		"\\times 2/3 { c'8 d'8 e'8 } f'2.",
		"\\time 3/4 R1 * 3/4 \\time 4/4 R1",
		"c'\\breve",
		"\\clef \"treble\" cs''1 ef,1",
		"c'4 -\\fermata",
	} {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, input, Format(MustParse(input)))
		})
	}
}

func TestDurationString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("4", DurationString(model.D(1, 4)))
	assert.Equal("8..", DurationString(model.D(7, 32)))
	assert.Equal("1.", DurationString(model.D(3, 2)))
	assert.Equal("\\breve", DurationString(model.Whole(2)))
	assert.Equal("1*5/16", DurationString(model.D(5, 16)))
}

func TestFormatStaves(t *testing.T) {
	parts := []model.Container{MustParse("c'2 r2"), MustParse("r2 d'2"), {}}
	assert.Equal(t,
		"<< \\new Staff { c'2 r2 } \\new Staff { r2 d'2 } \\new Staff { } >>",
		FormatStaves(parts))
}

func TestScaledDurationsRoundTrip(t *testing.T) {
	c := MustParse("c'1*5/16")
	assert.Equal(t, model.D(5, 16), c.Duration())
	assert.Equal(t, "c'1*5/16", Format(c))
}
