package fader

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/jsphweid/auxloop/lily"
	"github.com/jsphweid/auxloop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFader(t *testing.T, input string, mod func(*Config)) *Fader {
	cfg := DefaultConfig()
	cfg.Rand = rand.New(rand.NewSource(7))
	if mod != nil {
		mod(&cfg)
	}
	f, err := New(lily.MustParse(input), cfg)
	require.NoError(t, err)
	return f
}

func countRests(c model.Container) int {
	n := 0
	for _, l := range c.Leaves {
		if l.IsRest() {
			n++
		}
	}
	return n
}

func TestFadeOut(t *testing.T) {
	f := newFader(t, "c'4 d'4 e'4 f'4", func(c *Config) { c.DisableRewriteMeter = true })
	assert := assert.New(t)

	w, err := f.Call()
	require.NoError(t, err)
	assert.Equal("\\time 4/4 c'4 d'4 e'4 f'4", lily.Format(w))

	w, err = f.Call()
	require.NoError(t, err)
	assert.Equal(1, countRests(w))
	assert.Equal(3, f.sounding())
	assert.True(w.Leaves[0].TimeSignature.IsZero())

	for i := 0; i < 3; i++ {
		w, err = f.Call()
		require.NoError(t, err)
	}
	assert.True(f.Done())
	assert.Equal([]int{0, 0, 0, 0}, f.Mask())
	assert.Equal("R1", lily.Format(w))

	_, err = f.Call()
	assert.True(errors.Is(err, model.ErrExhausted))
}

func TestFadeIn(t *testing.T) {
	f := newFader(t, "c'4 d'4 e'4 f'4", func(c *Config) { c.Direction = In })
	assert := assert.New(t)

	w, err := f.Call()
	require.NoError(t, err)
	assert.Equal("\\time 4/4 R1", lily.Format(w))

	prev := 0
	for w, ok := f.Next(); ok; w, ok = f.Next() {
		assert.Equal(prev+1, f.sounding())
		assert.True(w.Duration().Equal(model.Whole(1)))
		prev = f.sounding()
	}
	assert.NoError(f.Err())
	assert.Equal(4, prev)
	cur, err := f.CurrentWindow()
	require.NoError(t, err)
	assert.Equal("c'4 d'4 e'4 f'4", lily.Format(cur))
}

func TestFadeOnFirstCall(t *testing.T) {
	f := newFader(t, "c'4 d'4 e'4 f'4", func(c *Config) { c.FadeOnFirstCall = true })
	w, err := f.Call()
	require.NoError(t, err)
	assert.Equal(t, 3, f.sounding())
	assert.Equal(t, "\\time 4/4", strings.Join(strings.Fields(lily.Format(w))[:2], " "))
}

func TestMaskAppliesToLogicalTies(t *testing.T) {
	f := newFader(t, "c'4 ~ c'16 d'8. r4 e'4", nil)
	assert := assert.New(t)
	assert.Equal(3, f.Len())

	require.NoError(t, f.SetMask([]int{0, 1, 1}))
	w, err := f.Call()
	require.NoError(t, err)
	assert.Equal("\\time 4/4 r4 r16 d'8. r4 e'4", lily.Format(w))

	assert.True(errors.Is(f.SetMask([]int{1, 1}), model.ErrConfig))
	assert.True(errors.Is(f.SetMask([]int{1, 2, 1}), model.ErrConfig))
}

func TestOmitTimeSignatures(t *testing.T) {
	f := newFader(t, "\\time 3/4 c'4 d'4 e'4", func(c *Config) { c.OmitTimeSignatures = true })
	w, err := f.Call()
	require.NoError(t, err)
	assert.Equal(t, "c'4 d'4 e'4", lily.Format(w))
}

func TestForceTimeSignature(t *testing.T) {
	f := newFader(t, "c'1", func(c *Config) { c.ForceTimeSignature, c.Direction = true, In })
	out, err := f.OutputAll()
	require.NoError(t, err)
	assert.Equal(t, "\\time 4/4 R1 c'1", lily.Format(out))
}

func TestOutputAllCompletes(t *testing.T) {
	f := newFader(t, "c'8 d'8 e'8 f'8 g'8 a'8 b'8 c''8", func(c *Config) { c.MaxSteps = 3 })
	assert := assert.New(t)
	out, err := f.OutputAll()
	require.NoError(t, err)
	assert.True(f.Done())
	assert.True(out.Duration().DivisibleBy(model.Whole(1)))
	last := out.Leaves[len(out.Leaves)-1]
	assert.Equal(model.MultimeasureRestKind, last.Kind)
	assert.Equal("\\time 4/4", strings.Join(strings.Fields(lily.Format(out))[:2], " "))
}

func TestOutputN(t *testing.T) {
	f := newFader(t, "c'2 d'2", nil)
	out, err := f.OutputN(2)
	require.NoError(t, err)
	assert.True(t, out.Duration().Equal(model.Whole(2)))
	assert.Equal(t, 1, countRests(model.NewContainer(out.Leaves[2:]...)))

	_, err = f.OutputN(0)
	assert.True(t, errors.Is(err, model.ErrConfig))
}

func TestResetMask(t *testing.T) {
	f := newFader(t, "c'2 d'2", nil)
	assert := assert.New(t)
	_, err := f.OutputAll()
	require.NoError(t, err)
	assert.True(f.Done())

	f.ResetMask()
	assert.Equal([]int{1, 1}, f.Mask())
	w, err := f.Call()
	require.NoError(t, err)
	assert.Equal("c'2 d'2", lily.Format(w))
}

func TestDeterministic(t *testing.T) {
	run := func() string {
		f := newFader(t, "c'8 d'8 e'8 f'8 g'8 a'8 b'8 c''8", func(c *Config) { c.MaxSteps = 2 })
		out, err := f.OutputAll()
		require.NoError(t, err)
		return lily.Format(out)
	}
	assert.Equal(t, run(), run())
}

func TestConfigErrors(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()
	cfg.MaxSteps = 0
	_, err := New(lily.MustParse("c'4"), cfg)
	assert.True(errors.Is(err, model.ErrConfig))

	cfg = DefaultConfig()
	cfg.Mask = []int{1, 0}
	_, err = New(lily.MustParse("c'4"), cfg)
	assert.True(errors.Is(err, model.ErrConfig))

	_, err = ParseDirection("sideways")
	assert.True(errors.Is(err, model.ErrConfig))
	d, err := ParseDirection("IN")
	assert.NoError(err)
	assert.Equal(In, d)

	f := newFader(t, "c'4", nil)
	assert.True(errors.Is(f.SetMaxSteps(0), model.ErrConfig))
	assert.True(errors.Is(f.SetDirection(Direction(5)), model.ErrConfig))
	_, err = f.CurrentWindow()
	assert.True(errors.Is(err, model.ErrNoWindow))
}
