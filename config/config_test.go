package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/auxloop/fader"
	"github.com/jsphweid/auxloop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const preset = `
seed: 42
loop:
  mode: window
  window: 3/4
  step: 1/8
  max_steps: 2
  forward_bias: 0.5
  fill_with_rests: false
fade:
  type: in
  max_steps: 3
  use_multimeasure_rests: false
hocket:
  n_voices: 3
  weights: [1, 2, 3]
randomise:
  pitches: "c' d' <e' g'>"
  use_tenney: true
  process_on_first_call: false
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(preset))
	require.NoError(t, err)

	assert := assert.New(t)
	require.NotNil(t, f.Seed)
	assert.Equal(int64(42), *f.Seed)

	w, err := f.Loop.WindowConfig()
	require.NoError(t, err)
	assert.Equal(model.TimeSignature{Numerator: 3, Denominator: 4}, w.Window)
	assert.Equal(model.D(1, 8), w.Step)
	assert.Equal(2, w.MaxSteps)
	assert.Equal(0.5, w.ForwardBias)
	assert.False(w.FillWithRests)

	fc, err := f.Fade.Config()
	require.NoError(t, err)
	assert.Equal(fader.In, fc.Direction)
	assert.Equal(3, fc.MaxSteps)
	assert.False(fc.UseMultimeasureRests)

	hc := f.Hocket.Config()
	assert.Equal(3, hc.NVoices)
	assert.Equal(1, hc.K)
	assert.Equal([]float64{1, 2, 3}, hc.Weights)

	pc := f.Randomise.Config()
	assert.True(pc.UseTenney)
	assert.False(pc.ProcessOnFirstCall)
	pool, err := f.Randomise.Pool()
	require.NoError(t, err)
	assert.Len(pool, 4)
}

func TestDefaults(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)

	assert := assert.New(t)
	mode, err := f.Loop.ModeOrDefault()
	assert.NoError(err)
	assert.Equal(ModeWindow, mode)

	w, err := f.Loop.WindowConfig()
	require.NoError(t, err)
	assert.Equal(model.CommonTime, w.Window)
	assert.Equal(1.0, w.ForwardBias)
	assert.True(w.FillWithRests)

	e, err := f.Loop.ElementConfig()
	require.NoError(t, err)
	assert.Equal(4, e.Window)
	assert.Equal(1, e.Step)

	fc, err := f.Fade.Config()
	require.NoError(t, err)
	assert.Equal(fader.Out, fc.Direction)
	assert.True(fc.UseMultimeasureRests)
	assert.True(f.Randomise.Config().ProcessOnFirstCall)
}

func TestErrors(t *testing.T) {
	assert := assert.New(t)
	_, err := Parse([]byte("loop:\n  windw: 3/4\n"))
	assert.Error(err)

	_, err = Loop{Mode: "spiral"}.ModeOrDefault()
	assert.True(errors.Is(err, model.ErrConfig))
	_, err = Loop{Window: "three"}.WindowConfig()
	assert.True(errors.Is(err, model.ErrConfig))
	_, err = Loop{Step: "x"}.ElementConfig()
	assert.True(errors.Is(err, model.ErrConfig))
	_, err = Fade{Type: "sideways"}.Config()
	assert.True(errors.Is(err, model.ErrConfig))
	_, err = Randomise{Pitches: "r4"}.Pool()
	assert.True(errors.Is(err, model.ErrConfig))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(errors.Is(err, os.ErrNotExist))
}

func TestLoadRoundTrip(t *testing.T) {
	f, err := Parse([]byte(preset))
	require.NoError(t, err)
	b, err := f.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "preset.yaml")
	require.NoError(t, os.WriteFile(path, b, 0644))
	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}

func TestRandomiseCartography(t *testing.T) {
	f, err := Parse([]byte("randomise:\n  pitches: \"c' d'\"\n  use_cartography: true\n  decay_rate: 0.5\n"))
	require.NoError(t, err)

	cfg := f.Randomise.Config()
	assert := assert.New(t)
	assert.True(cfg.UseCartography)
	assert.False(cfg.UseTenney)
	assert.Equal(0.5, cfg.DecayRate)
}
