package hocket

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/jsphweid/auxloop/lily"
	"github.com/jsphweid/auxloop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHocketer(t *testing.T, input string, mod func(*Config)) *Hocketer {
	cfg := DefaultConfig()
	cfg.Rand = rand.New(rand.NewSource(3))
	if mod != nil {
		mod(&cfg)
	}
	h, err := New(lily.MustParse(input), cfg)
	require.NoError(t, err)
	return h
}

// sounding counts, per leaf of the input, how many voices play it.
func sounding(voices []model.Container) []int {
	counts := make([]int, len(voices[0].Leaves))
	for _, v := range voices {
		for i, l := range v.Leaves {
			if l.IsPitched() {
				counts[i]++
			}
		}
	}
	return counts
}

func TestEveryTieSoundsOnce(t *testing.T) {
	h := newHocketer(t, "c'8 d'8 e'8 f'8 g'8 a'8 b'8 c''8", func(c *Config) {
		c.NVoices = 3
		c.DisableRewriteMeter, c.UseMultimeasureRests = true, false
	})
	assert := assert.New(t)
	for i := 0; i < 10; i++ {
		voices, err := h.Call()
		require.NoError(t, err)
		require.Len(t, voices, 3)
		for _, v := range voices {
			assert.True(v.Duration().Equal(model.Whole(1)))
		}
		assert.Equal([]int{1, 1, 1, 1, 1, 1, 1, 1}, sounding(voices))
	}
}

func TestForceKDistinctVoices(t *testing.T) {
	h := newHocketer(t, "c'4 d'4 e'4 f'4", func(c *Config) {
		c.NVoices, c.K, c.ForceKDistinctVoices = 3, 2, true
		c.DisableRewriteMeter, c.UseMultimeasureRests = true, false
	})
	voices, err := h.Call()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2, 2}, sounding(voices))
}

func TestRepeatedDrawsMayCoincide(t *testing.T) {
	h := newHocketer(t, "c'4 d'4 e'4 f'4", func(c *Config) {
		c.NVoices, c.K = 4, 3
		c.DisableRewriteMeter, c.UseMultimeasureRests = true, false
	})
	for i := 0; i < 10; i++ {
		voices, err := h.Call()
		require.NoError(t, err)
		for _, n := range sounding(voices) {
			assert.True(t, n >= 1 && n <= 3)
		}
	}
}

func TestSilentVoicesKeepTheMeter(t *testing.T) {
	h := newHocketer(t, "\\time 3/4 c'2. d'2.", func(c *Config) { c.Weights = []float64{1, 0} })
	assert := assert.New(t)
	voices, err := h.Call()
	require.NoError(t, err)
	assert.Equal("\\time 3/4 c'2. d'2.", lily.Format(voices[0]))
	assert.Equal("\\time 3/4 R1 * 3/4 R1 * 3/4", lily.Format(voices[1]))

	h.SetUseMultimeasureRests(false)
	voices, err = h.Call()
	require.NoError(t, err)
	assert.Equal("\\time 3/4 r2. r2.", lily.Format(voices[1]))

	h.SetOmitTimeSignatures(true)
	v, err := h.Voice(0)
	require.NoError(t, err)
	assert.Equal("c'2. d'2.", lily.Format(v))
}

func TestRestsDropIndicators(t *testing.T) {
	h := newHocketer(t, "c'4 \\f -> d'4 e'2", func(c *Config) {
		c.Weights = []float64{0, 1}
		c.DisableRewriteMeter, c.UseMultimeasureRests = true, false
	})
	voices, err := h.Call()
	require.NoError(t, err)
	assert.Equal(t, "r4 r4 r2", lily.Format(voices[0]))
	assert.Equal(t, "c'4 \\f -> d'4 e'2", lily.Format(voices[1]))
}

func TestEmptyTupletsAreRemoved(t *testing.T) {
	h := newHocketer(t, "\\times 2/3 { c'4 d'4 e'4 } f'2", func(c *Config) {
		c.Weights = []float64{0, 1}
		c.UseMultimeasureRests = false
	})
	voices, err := h.Call()
	require.NoError(t, err)
	assert.Equal(t, "\\time 4/4 r1", lily.Format(voices[0]))
	assert.Equal(t, "\\time 4/4 \\times 2/3 { c'4 d'4 e'4 } f'2", lily.Format(voices[1]))
}

func TestRewriteMeterPerVoice(t *testing.T) {
	h := newHocketer(t, "c'4 d'4 e'4 f'4", func(c *Config) {
		c.Weights = []float64{1, 0}
		c.UseMultimeasureRests = false
	})
	require.NoError(t, h.SetWeights([]float64{0, 1}))
	voices, err := h.Call()
	require.NoError(t, err)
	assert.Equal(t, "\\time 4/4 r1", lily.Format(voices[0]))
}

func TestDeterministic(t *testing.T) {
	run := func() []string {
		h := newHocketer(t, "c'8 d'8 e'8 f'8 g'8 a'8 b'8 c''8", func(c *Config) { c.NVoices = 3 })
		voices, err := h.Call()
		require.NoError(t, err)
		return []string{lily.Format(voices[0]), lily.Format(voices[1]), lily.Format(voices[2])}
	}
	assert.Equal(t, run(), run())
}

func TestConfigErrors(t *testing.T) {
	assert := assert.New(t)
	for name, mod := range map[string]func(*Config){
		"no voices":         func(c *Config) { c.NVoices = 0 },
		"k of zero":         func(c *Config) { c.K = 0 },
		"weights mismatch":  func(c *Config) { c.Weights = []float64{1, 1, 1} },
		"too many distinct": func(c *Config) { c.K, c.ForceKDistinctVoices = 3, true },
		"silent voices":     func(c *Config) { c.K, c.ForceKDistinctVoices, c.Weights = 2, true, []float64{1, 0} },
		"negative dots":     func(c *Config) { c.MaximumDotCount = -1 },
	} {
		cfg := DefaultConfig()
		mod(&cfg)
		_, err := New(lily.MustParse("c'4"), cfg)
		assert.True(errors.Is(err, model.ErrConfig), name)
	}

	h := newHocketer(t, "c'4", nil)
	_, err := h.CurrentWindow()
	assert.True(errors.Is(err, model.ErrNoWindow))
	_, err = h.Voice(0)
	assert.True(errors.Is(err, model.ErrNoWindow))

	assert.NoError(h.SetNVoices(4))
	assert.Equal(4, h.Len())
	assert.Len(h.Weights(), 4)

	require.NoError(t, h.SetWeights([]float64{1, 2, 3, 4}))
	assert.True(errors.Is(h.SetNVoices(2), model.ErrConfig))
	h.ResetWeights()
	assert.NoError(h.SetNVoices(2))
	assert.Equal([]float64{1, 1}, h.Weights())

	assert.True(errors.Is(h.SetK(0), model.ErrConfig))
	assert.NoError(h.SetK(3))
	assert.True(errors.Is(h.SetForceKDistinctVoices(true), model.ErrConfig))

	_, err = h.Call()
	require.NoError(t, err)
	_, err = h.Voice(2)
	assert.True(errors.Is(err, model.ErrConfig))
}
