package model

// LoopRequest drives one looper. Mode is "window" (the default), "element"
// or "list". Music is LilyPond input; for "list" each whitespace separated
// token is one item.
type LoopRequest struct {
	Music         string        `json:"music"`
	Mode          string        `json:"mode,omitempty"`
	Window        string        `json:"window,omitempty"`
	Step          string        `json:"step,omitempty"`
	Count         int           `json:"count,omitempty"`
	All           bool          `json:"all,omitempty"`
	Seed          *int64        `json:"seed,omitempty"`
	FillWithRests *bool         `json:"fill_with_rests,omitempty"`
	TieIdentical  bool          `json:"tie_identical_pitches,omitempty"`
	Head          *HeadSettings `json:"head,omitempty"`
}

// HeadSettings mirrors the random walk settings shared by every looper.
type HeadSettings struct {
	MaxSteps           int      `json:"max_steps,omitempty"`
	RepetitionChance   float64  `json:"repetition_chance,omitempty"`
	ForwardBias        *float64 `json:"forward_bias,omitempty"`
	ProcessOnFirstCall bool     `json:"process_on_first_call,omitempty"`
}

type FadeRequest struct {
	Music           string `json:"music"`
	Type            string `json:"type,omitempty"`
	MaxSteps        int    `json:"max_steps,omitempty"`
	Mask            []int  `json:"mask,omitempty"`
	FadeOnFirstCall bool   `json:"fade_on_first_call,omitempty"`
	Count           int    `json:"count,omitempty"`
	Seed            *int64 `json:"seed,omitempty"`
}

type HocketRequest struct {
	Music                string    `json:"music"`
	NVoices              int       `json:"n_voices,omitempty"`
	Weights              []float64 `json:"weights,omitempty"`
	K                    int       `json:"k,omitempty"`
	ForceKDistinctVoices bool      `json:"force_k_distinct_voices,omitempty"`
	Count                int       `json:"count,omitempty"`
	Seed                 *int64    `json:"seed,omitempty"`
}

type RandomiseRequest struct {
	Music          string    `json:"music"`
	Pitches        string    `json:"pitches"`
	Weights        []float64 `json:"weights,omitempty"`
	UseTenney      bool      `json:"use_tenney,omitempty"`
	UseCartography bool      `json:"use_cartography,omitempty"`
	DecayRate      float64   `json:"decay_rate,omitempty"`
	Count          int       `json:"count,omitempty"`
	Seed           *int64    `json:"seed,omitempty"`
}

// WindowsResponse carries LilyPond output. Windows holds each call on its
// own; Music is everything joined, or the staff group for hocketing.
type WindowsResponse struct {
	Windows []string `json:"windows"`
	Music   string   `json:"music"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
