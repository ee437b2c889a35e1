package cmd

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/jsphweid/auxloop/config"
	"github.com/jsphweid/auxloop/fader"
	"github.com/jsphweid/auxloop/hocket"
	"github.com/jsphweid/auxloop/lily"
	"github.com/jsphweid/auxloop/looper"
	"github.com/jsphweid/auxloop/model"
	"github.com/jsphweid/auxloop/mutate"
	"github.com/jsphweid/auxloop/pitch"
)

// maxWindows bounds --all runs whose random walk could go on for a long
// time.
const maxWindows = 10000

// Output is the result of running one transformer.
type Output struct {
	Windows []string
	Music   string
	// Parts is what gets written to MIDI, one track each.
	Parts []model.Container
}

type windowSource interface {
	Call() (model.Container, error)
	Next() (model.Container, bool)
	Err() error
}

type request struct {
	music string
	count int
	all   bool
	rand  *rand.Rand
	log   *slog.Logger
}

func (req request) n() int {
	if req.count < 1 {
		return 1
	}
	return req.count
}

func collect(src windowSource, req request) ([]model.Container, error) {
	var windows []model.Container
	if !req.all {
		for i := 0; i < req.n(); i++ {
			w, err := src.Call()
			if err != nil {
				return nil, err
			}
			windows = append(windows, w)
		}
		return windows, nil
	}
	for w, ok := src.Next(); ok; w, ok = src.Next() {
		windows = append(windows, w)
		if len(windows) > maxWindows {
			return nil, fmt.Errorf("%w: more than %d windows, set a count instead", model.ErrConfig, maxWindows)
		}
	}
	return windows, src.Err()
}

func containerOutput(windows []model.Container, tieIdentical bool) Output {
	out := Output{}
	for _, w := range windows {
		out.Windows = append(out.Windows, lily.Format(w))
	}
	joined := mutate.Concat(windows, tieIdentical)
	out.Music = lily.Format(joined)
	out.Parts = []model.Container{joined}
	return out
}

func runLoop(cfg config.Loop, req request) (Output, error) {
	mode, err := cfg.ModeOrDefault()
	if err != nil {
		return Output{}, err
	}
	if mode == config.ModeList {
		return runList(cfg, req)
	}
	contents, err := lily.Parse(req.music)
	if err != nil {
		return Output{}, err
	}
	var src windowSource
	switch mode {
	case config.ModeElement:
		lc, err := cfg.ElementConfig()
		if err != nil {
			return Output{}, err
		}
		lc.Rand, lc.Logger = req.rand, req.log
		if src, err = looper.NewElementLooper(contents, lc); err != nil {
			return Output{}, err
		}
	default:
		lc, err := cfg.WindowConfig()
		if err != nil {
			return Output{}, err
		}
		lc.Rand, lc.Logger = req.rand, req.log
		if src, err = looper.NewWindowLooper(contents, lc); err != nil {
			return Output{}, err
		}
	}
	windows, err := collect(src, req)
	if err != nil {
		return Output{}, err
	}
	return containerOutput(windows, cfg.TieIdenticalPitches), nil
}

func runList(cfg config.Loop, req request) (Output, error) {
	lc, err := cfg.ListConfig()
	if err != nil {
		return Output{}, err
	}
	lc.Rand, lc.Logger = req.rand, req.log
	l, err := looper.NewListLooper(strings.Fields(req.music), lc)
	if err != nil {
		return Output{}, err
	}
	var windows [][]string
	if req.all {
		for w, ok := l.Next(); ok; w, ok = l.Next() {
			windows = append(windows, w)
			if len(windows) > maxWindows {
				return Output{}, fmt.Errorf("%w: more than %d windows, set a count instead", model.ErrConfig, maxWindows)
			}
		}
		if err := l.Err(); err != nil {
			return Output{}, err
		}
	} else {
		for i := 0; i < req.n(); i++ {
			w, err := l.Call()
			if err != nil {
				return Output{}, err
			}
			windows = append(windows, w)
		}
	}
	var out Output
	var all []string
	for _, w := range windows {
		out.Windows = append(out.Windows, strings.Join(w, " "))
		all = append(all, w...)
	}
	out.Music = strings.Join(all, " ")
	return out, nil
}

func runFade(cfg config.Fade, req request) (Output, error) {
	contents, err := lily.Parse(req.music)
	if err != nil {
		return Output{}, err
	}
	fc, err := cfg.Config()
	if err != nil {
		return Output{}, err
	}
	fc.Rand, fc.Logger = req.rand, req.log
	f, err := fader.New(contents, fc)
	if err != nil {
		return Output{}, err
	}
	windows, err := collect(f, req)
	if err != nil {
		return Output{}, err
	}
	return containerOutput(windows, false), nil
}

func runHocket(cfg config.Hocket, req request) (Output, error) {
	if req.all {
		return Output{}, fmt.Errorf("%w: hocketing has no end, set a count instead", model.ErrConfig)
	}
	contents, err := lily.Parse(req.music)
	if err != nil {
		return Output{}, err
	}
	hc := cfg.Config()
	hc.Rand, hc.Logger = req.rand, req.log
	h, err := hocket.New(contents, hc)
	if err != nil {
		return Output{}, err
	}
	voices := make([][]model.Container, h.Len())
	var out Output
	for i := 0; i < req.n(); i++ {
		parts, err := h.Call()
		if err != nil {
			return Output{}, err
		}
		out.Windows = append(out.Windows, lily.FormatStaves(parts))
		for v, p := range parts {
			voices[v] = append(voices[v], p)
		}
	}
	for _, v := range voices {
		out.Parts = append(out.Parts, mutate.Concat(v, false))
	}
	out.Music = lily.FormatStaves(out.Parts)
	return out, nil
}

func runRandomise(cfg config.Randomise, req request) (Output, error) {
	if req.all {
		return Output{}, fmt.Errorf("%w: randomising has no end, set a count instead", model.ErrConfig)
	}
	contents, err := lily.Parse(req.music)
	if err != nil {
		return Output{}, err
	}
	pool, err := cfg.Pool()
	if err != nil {
		return Output{}, err
	}
	pc := cfg.Config()
	pc.Rand, pc.Logger = req.rand, req.log
	p, err := pitch.New(contents, pool, pc)
	if err != nil {
		return Output{}, err
	}
	var windows []model.Container
	for i := 0; i < req.n(); i++ {
		w, err := p.Call()
		if err != nil {
			return Output{}, err
		}
		windows = append(windows, w)
	}
	return containerOutput(windows, false), nil
}
