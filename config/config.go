// Package config reads transformer presets from YAML.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jsphweid/auxloop/fader"
	"github.com/jsphweid/auxloop/hocket"
	"github.com/jsphweid/auxloop/lily"
	"github.com/jsphweid/auxloop/looper"
	"github.com/jsphweid/auxloop/model"
	"github.com/jsphweid/auxloop/pitch"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type File struct {
	Seed      *int64    `yaml:"seed,omitempty"`
	Loop      Loop      `yaml:"loop,omitempty"`
	Fade      Fade      `yaml:"fade,omitempty"`
	Hocket    Hocket    `yaml:"hocket,omitempty"`
	Randomise Randomise `yaml:"randomise,omitempty"`
}

// Head holds the random walk settings of the loopers.
type Head struct {
	MaxSteps           int      `yaml:"max_steps,omitempty"`
	RepetitionChance   float64  `yaml:"repetition_chance,omitempty"`
	ForwardBias        *float64 `yaml:"forward_bias,omitempty"`
	ProcessOnFirstCall bool     `yaml:"process_on_first_call,omitempty"`
}

func (h Head) options() looper.Options {
	o := looper.DefaultOptions()
	if h.MaxSteps != 0 {
		o.MaxSteps = h.MaxSteps
	}
	if h.ForwardBias != nil {
		o.ForwardBias = *h.ForwardBias
	}
	o.RepetitionChance = h.RepetitionChance
	o.ProcessOnFirstCall = h.ProcessOnFirstCall
	return o
}

// Loop configures the loopers. Window and Step are fractions of a whole
// note ("3/4", "1/16") in window mode and counts ("4", "1") otherwise.
type Loop struct {
	Mode                string `yaml:"mode,omitempty"`
	Head                Head   `yaml:",inline"`
	Window              string `yaml:"window,omitempty"`
	Step                string `yaml:"step,omitempty"`
	FillWithRests       *bool  `yaml:"fill_with_rests,omitempty"`
	ForceTimeSignatures bool   `yaml:"force_time_signatures,omitempty"`
	OmitTimeSignatures  bool   `yaml:"omit_time_signatures,omitempty"`
	DisableRewriteMeter bool   `yaml:"disable_rewrite_meter,omitempty"`
	MaximumDotCount     int    `yaml:"maximum_dot_count,omitempty"`
	TieIdenticalPitches bool   `yaml:"tie_identical_pitches,omitempty"`
}

const (
	ModeWindow  = "window"
	ModeElement = "element"
	ModeList    = "list"
)

func (l Loop) ModeOrDefault() (string, error) {
	switch l.Mode {
	case "":
		return ModeWindow, nil
	case ModeWindow, ModeElement, ModeList:
		return l.Mode, nil
	}
	return "", fmt.Errorf("%w: unknown loop mode %q", model.ErrConfig, l.Mode)
}

func count(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a count", model.ErrConfig, s)
	}
	return n, nil
}

func (l Loop) WindowConfig() (looper.WindowConfig, error) {
	cfg := looper.DefaultWindowConfig()
	cfg.Options = l.Head.options()
	if l.Window != "" {
		ts, err := model.ParseTimeSignature(l.Window)
		if err != nil {
			return cfg, err
		}
		cfg.Window = ts
	}
	if l.Step != "" {
		d, err := model.ParseDuration(l.Step)
		if err != nil {
			return cfg, err
		}
		cfg.Step = d
	}
	if l.FillWithRests != nil {
		cfg.FillWithRests = *l.FillWithRests
	}
	cfg.ForceTimeSignatures = l.ForceTimeSignatures
	cfg.OmitTimeSignatures = l.OmitTimeSignatures
	cfg.DisableRewriteMeter = l.DisableRewriteMeter
	cfg.MaximumDotCount = l.MaximumDotCount
	cfg.TieIdenticalPitches = l.TieIdenticalPitches
	return cfg, nil
}

func (l Loop) ElementConfig() (looper.ElementConfig, error) {
	cfg := looper.DefaultElementConfig()
	cfg.Options = l.Head.options()
	var err error
	if cfg.Window, err = count(l.Window, cfg.Window); err != nil {
		return cfg, err
	}
	if cfg.Step, err = count(l.Step, cfg.Step); err != nil {
		return cfg, err
	}
	if l.FillWithRests != nil {
		cfg.FillWithRests = *l.FillWithRests
	}
	cfg.ForceTimeSignatures = l.ForceTimeSignatures
	cfg.OmitTimeSignatures = l.OmitTimeSignatures
	cfg.TieIdenticalPitches = l.TieIdenticalPitches
	return cfg, nil
}

func (l Loop) ListConfig() (looper.ListConfig, error) {
	cfg := looper.DefaultListConfig()
	cfg.Options = l.Head.options()
	var err error
	if cfg.Window, err = count(l.Window, cfg.Window); err != nil {
		return cfg, err
	}
	if cfg.Step, err = count(l.Step, cfg.Step); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type Fade struct {
	Type                 string `yaml:"type,omitempty"`
	MaxSteps             int    `yaml:"max_steps,omitempty"`
	FadeOnFirstCall      bool   `yaml:"fade_on_first_call,omitempty"`
	DisableRewriteMeter  bool   `yaml:"disable_rewrite_meter,omitempty"`
	OmitTimeSignatures   bool   `yaml:"omit_time_signatures,omitempty"`
	ForceTimeSignature   bool   `yaml:"force_time_signature,omitempty"`
	UseMultimeasureRests *bool  `yaml:"use_multimeasure_rests,omitempty"`
	Mask                 []int  `yaml:"mask,omitempty"`
}

func (f Fade) Config() (fader.Config, error) {
	cfg := fader.DefaultConfig()
	d, err := fader.ParseDirection(f.Type)
	if err != nil {
		return cfg, err
	}
	cfg.Direction = d
	if f.MaxSteps != 0 {
		cfg.MaxSteps = f.MaxSteps
	}
	if f.UseMultimeasureRests != nil {
		cfg.UseMultimeasureRests = *f.UseMultimeasureRests
	}
	cfg.FadeOnFirstCall = f.FadeOnFirstCall
	cfg.DisableRewriteMeter = f.DisableRewriteMeter
	cfg.OmitTimeSignatures = f.OmitTimeSignatures
	cfg.ForceTimeSignature = f.ForceTimeSignature
	cfg.Mask = f.Mask
	return cfg, nil
}

type Hocket struct {
	NVoices              int       `yaml:"n_voices,omitempty"`
	Weights              []float64 `yaml:"weights,omitempty"`
	K                    int       `yaml:"k,omitempty"`
	ForceKDistinctVoices bool      `yaml:"force_k_distinct_voices,omitempty"`
	DisableRewriteMeter  bool      `yaml:"disable_rewrite_meter,omitempty"`
	UseMultimeasureRests *bool     `yaml:"use_multimeasure_rests,omitempty"`
	OmitTimeSignatures   bool      `yaml:"omit_time_signatures,omitempty"`
	MaximumDotCount      int       `yaml:"maximum_dot_count,omitempty"`
}

func (h Hocket) Config() hocket.Config {
	cfg := hocket.DefaultConfig()
	if h.NVoices != 0 {
		cfg.NVoices = h.NVoices
	}
	if h.K != 0 {
		cfg.K = h.K
	}
	if h.UseMultimeasureRests != nil {
		cfg.UseMultimeasureRests = *h.UseMultimeasureRests
	}
	cfg.Weights = h.Weights
	cfg.ForceKDistinctVoices = h.ForceKDistinctVoices
	cfg.DisableRewriteMeter = h.DisableRewriteMeter
	cfg.OmitTimeSignatures = h.OmitTimeSignatures
	cfg.MaximumDotCount = h.MaximumDotCount
	return cfg
}

// Randomise configures the pitch randomiser. Pitches is LilyPond, for
// example "c' d' e' g'".
type Randomise struct {
	Pitches            string    `yaml:"pitches,omitempty"`
	Weights            []float64 `yaml:"weights,omitempty"`
	UseTenney          bool      `yaml:"use_tenney,omitempty"`
	TenneyCurvature    float64   `yaml:"tenney_curvature,omitempty"`
	UseCartography     bool      `yaml:"use_cartography,omitempty"`
	DecayRate          float64   `yaml:"decay_rate,omitempty"`
	OmitTimeSignatures bool      `yaml:"omit_time_signatures,omitempty"`
	ProcessOnFirstCall *bool     `yaml:"process_on_first_call,omitempty"`
}

func (p Randomise) Config() pitch.Config {
	cfg := pitch.DefaultConfig()
	if p.ProcessOnFirstCall != nil {
		cfg.ProcessOnFirstCall = *p.ProcessOnFirstCall
	}
	cfg.Weights = p.Weights
	cfg.UseTenney = p.UseTenney
	cfg.TenneyCurvature = p.TenneyCurvature
	cfg.UseCartography = p.UseCartography
	cfg.DecayRate = p.DecayRate
	cfg.OmitTimeSignatures = p.OmitTimeSignatures
	return cfg
}

// Pool parses the pitch pool, taking every pitch of every leaf in order.
func (p Randomise) Pool() ([]model.Pitch, error) {
	c, err := lily.Parse(p.Pitches)
	if err != nil {
		return nil, err
	}
	var out []model.Pitch
	for _, l := range c.Leaves {
		out = append(out, l.Pitches...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty pitch pool", model.ErrConfig)
	}
	return out, nil
}

func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, errors.Wrap(err, "decoding config")
	}
	return f, nil
}

func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrapf(err, "reading config %s", path)
	}
	f, err := Parse(b)
	return f, errors.Wrapf(err, "loading %s", path)
}

func (f File) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(f)
	return b, errors.Wrap(err, "encoding config")
}
