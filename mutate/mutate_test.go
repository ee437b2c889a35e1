package mutate

import (
	"errors"
	"testing"

	"github.com/jsphweid/auxloop/lily"
	"github.com/jsphweid/auxloop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompose(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]model.Duration{model.D(1, 4), model.D(1, 16)}, Decompose(model.D(5, 16), 0))
	assert.Equal([]model.Duration{model.D(7, 8)}, Decompose(model.D(7, 8), 0))
	assert.Equal([]model.Duration{model.D(3, 4), model.D(1, 8)}, Decompose(model.D(7, 8), 1))
	assert.Equal([]model.Duration{model.Whole(2), model.Whole(1)}, Decompose(model.Whole(3), 0))
	assert.Equal([]model.Duration{model.D(1, 3)}, Decompose(model.D(1, 3), 0))
	assert.Nil(Decompose(model.Duration{}, 0))
}

func TestMakeLeaves(t *testing.T) {
	c := model.NewContainer(MakeLeaves([]model.Pitch{{}}, model.D(5, 4))...)
	assert.Equal(t, "c'1 ~ c'4", lily.Format(c))
	assert.Equal(t, "r1 r4", lily.Format(model.NewContainer(MakeRests(model.D(5, 4))...)))
}

func TestSplitAt(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		offsets []model.Duration
		want    string
	}{
		{"inside a note", "c'2 d'2", []model.Duration{model.D(3, 8)}, "c'4. ~ c'8 d'2"},
		{"on a boundary", "c'2 d'2", []model.Duration{model.D(1, 2)}, "c'2 d'2"},
		{"indicators stay on the first fragment", "c'2 -> ( d'2 )", []model.Duration{model.D(1, 4)}, "c'4 -> ( ~ c'4 d'2 )"},
		{"slur stop moves to the last fragment", "c'2 ( d'2 )", []model.Duration{model.D(3, 4)}, "c'2 ( d'4 ~ d'4 )"},
		{"rests are not tied", "r1", []model.Duration{model.D(1, 4)}, "r4 r2."},
		{"several offsets", "c'1", []model.Duration{model.D(1, 2), model.D(1, 4)}, "c'4 ~ c'4 ~ c'2"},
		{"tuplets keep their ratio", "\\times 2/3 { c'4 d'4 e'4 }", []model.Duration{model.D(1, 12)}, "\\times 2/3 { c'8 ~ c'8 d'4 e'4 }"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := lily.MustParse(tc.input)
			out := SplitAt(in, tc.offsets...)
			assert.Equal(t, tc.want, lily.Format(out))
			assert.True(t, in.Duration().Equal(out.Duration()))
		})
	}
}

func TestExtractTimeSignatures(t *testing.T) {
	assert := assert.New(t)
	sigs, err := ExtractTimeSignatures(lily.MustParse("\\time 3/4 c'2. d'2. \\time 2/4 e'2 f'4"))
	assert.NoError(err)
	assert.Equal([]model.TimeSignature{{Numerator: 3, Denominator: 4}, {Numerator: 3, Denominator: 4}, {Numerator: 2, Denominator: 4}, {Numerator: 2, Denominator: 4}}, sigs)

	sigs, err = ExtractTimeSignatures(lily.MustParse("c'1. d'2"))
	assert.NoError(err)
	assert.Equal([]model.TimeSignature{model.CommonTime, model.CommonTime}, sigs)

	_, err = ExtractTimeSignatures(lily.MustParse("c'4 \\time 3/4 d'4"))
	assert.True(errors.Is(err, model.ErrStructure))
}

func TestGroupByMeasure(t *testing.T) {
	measures, err := GroupByMeasure(lily.MustParse("c'1. d'2 e'1"))
	require.NoError(t, err)
	require.Len(t, measures, 3)

	assert := assert.New(t)
	assert.Equal(0, measures[0].Start)
	assert.Equal(1, measures[0].End)
	assert.Equal(1, measures[1].Start)
	assert.Equal(2, measures[1].End)
	assert.Equal(model.Whole(1), measures[1].Offset)
	assert.Equal(2, measures[2].Start)
	assert.Equal(3, measures[2].End)
}

func TestEnforceTimeSignature(t *testing.T) {
	out, err := EnforceTimeSignature(lily.MustParse("c'2. d'2."), []model.TimeSignature{model.CommonTime}, EnforceOptions{})
	require.NoError(t, err)
	assert.Equal(t, "\\time 4/4 c'2. d'4 ~ d'2 r2", lily.Format(out))

	out, err = EnforceTimeSignature(lily.MustParse("c'2 d'2 e'2"), []model.TimeSignature{{Numerator: 3, Denominator: 4}, {Numerator: 2, Denominator: 4}}, EnforceOptions{})
	require.NoError(t, err)
	assert.Equal(t, "\\time 3/4 c'2 d'4 ~ \\time 2/4 d'4 e'4 ~ e'4 r4", lily.Format(out))

	_, err = EnforceTimeSignature(lily.MustParse("c'4"), nil, EnforceOptions{})
	assert.True(t, errors.Is(err, model.ErrConfig))
}

func TestRewriteMeter(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"syncopation", "c'8 d'4 e'8 f'2", "c'8 d'8 ~ d'8 e'8 f'2"},
		{"rests fuse", "r4 r4 c'2", "r2 c'2"},
		{"tie chains fuse", "c'8 ~ c'8 ~ c'4 d'2", "c'2 d'2"},
		{"dotted value on a beat", "c'4. d'8 e'2", "c'4. d'8 e'2"},
		{"dotted value off the beat", "c'8 d'4. e'2", "c'8 d'8 ~ d'4 e'2"},
		{"tuplets are untouched", "\\times 2/3 { c'8 d'8 e'8 } f'2.", "\\times 2/3 { c'8 d'8 e'8 } f'2."},
		{"compound meter", "\\time 6/8 c'4. r8 r8 r8", "\\time 6/8 c'4. r4."},
		{"rest with a dynamic does not fuse", "r4 r4 \\p c'2", "r4 r4 \\p c'2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := RewriteMeter(lily.MustParse(tc.input), MeterOptions{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, lily.Format(out))
		})
	}
}

func TestRestsToMultimeasureRest(t *testing.T) {
	out, err := RestsToMultimeasureRest(lily.MustParse("\\time 3/4 r2. c'2. r4 r2"))
	require.NoError(t, err)
	assert.Equal(t, "\\time 3/4 R1 * 3/4 c'2. R1 * 3/4", lily.Format(out))

	out, err = RestsToMultimeasureRest(lily.MustParse("r1 r2"))
	require.NoError(t, err)
	assert.Equal(t, "R1 r2", lily.Format(out))
}

func TestMultimeasureRestsToRests(t *testing.T) {
	out := MultimeasureRestsToRests(lily.MustParse("\\time 3/4 R1 * 3/4 c'2."))
	assert.Equal(t, "\\time 3/4 r2. c'2.", lily.Format(out))
}

func TestRemoveEmptyTuplets(t *testing.T) {
	out := RemoveEmptyTuplets(lily.MustParse("\\times 2/3 { r8 r8 r8 } \\times 2/3 { c'8 r8 r8 } c'2"))
	assert.Equal(t, "r4 \\times 2/3 { c'8 r8 r8 } c'2", lily.Format(out))
}

func TestRemoveRepeated(t *testing.T) {
	assert := assert.New(t)
	out := RemoveRepeatedDynamics(lily.MustParse("c'4 \\p d'4 \\p e'4 \\f f'4 \\f"))
	assert.Equal("c'4 \\p d'4 e'4 \\f f'4", lily.Format(out))

	out = RemoveRepeatedTimeSignatures(lily.MustParse("\\time 2/4 c'2 \\time 2/4 d'2 \\time 3/4 e'2."))
	assert.Equal("\\time 2/4 c'2 d'2 \\time 3/4 e'2.", lily.Format(out))

	out = RemoveAllTimeSignatures(lily.MustParse("\\time 2/4 c'2"))
	assert.Equal("c'2", lily.Format(out))
}

func TestFillWithRests(t *testing.T) {
	out, err := FillWithRests(lily.MustParse("\\time 3/4 c'4"))
	require.NoError(t, err)
	assert.Equal(t, "\\time 3/4 c'4 r2", lily.Format(out))

	out, err = FillWithRests(lily.MustParse("c'1"))
	require.NoError(t, err)
	assert.Equal(t, "c'1", lily.Format(out))
}

func TestLeavesAreTieable(t *testing.T) {
	c := lily.MustParse("c'4 c'8 <c' e'>4 <e' c'>4 r4")
	assert := assert.New(t)
	assert.True(LeavesAreTieable(c.Leaves[0], c.Leaves[1]))
	assert.False(LeavesAreTieable(c.Leaves[1], c.Leaves[2]))
	assert.True(LeavesAreTieable(c.Leaves[2], c.Leaves[3]))
	assert.False(LeavesAreTieable(c.Leaves[3], c.Leaves[4]))
}

func TestConcat(t *testing.T) {
	parts := []model.Container{
		lily.MustParse("\\time 2/4 c'4 d'4"),
		lily.MustParse("\\time 2/4 d'4 e'4"),
	}
	assert := assert.New(t)
	assert.Equal("\\time 2/4 c'4 d'4 ~ d'4 e'4", lily.Format(Concat(parts, true)))
	assert.Equal("\\time 2/4 c'4 d'4 d'4 e'4", lily.Format(Concat(parts, false)))
	assert.Equal("\\time 2/4 c'4 d'4", lily.Format(parts[0]))
}
