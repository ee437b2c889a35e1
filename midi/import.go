package midi

import (
	"fmt"
	"math"
	"sort"

	"github.com/jsphweid/auxloop/model"
	"github.com/jsphweid/auxloop/mutate"
	"github.com/jsphweid/auxloop/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

type reducedEvent struct {
	ticks     int64
	isNoteOff bool
	note      uint8
}

type ImportOptions struct {
	// Grid is the value onsets and releases snap to. Zero means 1/16.
	Grid model.Duration
	// Track selects one track. Negative reads all of them.
	Track int
}

func reducedEvents(s *smf.SMF, track int) []reducedEvent {
	var res []reducedEvent
	for i, events := range s.Tracks {
		if track >= 0 && i != track {
			continue
		}
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				res = append(res, reducedEvent{absTicks, velocity == 0, key})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				res = append(res, reducedEvent{absTicks, true, key})
			}
		}
	}
	// earlier first, then note offs
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].ticks != res[j].ticks {
			return res[i].ticks < res[j].ticks
		}
		return res[i].isNoteOff && !res[j].isNoteOff
	})
	return res
}

type gridEvent struct {
	at        model.Duration
	isNoteOff bool
	note      uint8
}

// quantize snaps events to the grid. A note never ends before one grid
// step after its onset.
func quantize(events []reducedEvent, whole int64, grid model.Duration) []gridEvent {
	step := grid.Float64() * float64(whole)
	onsets := make(map[uint8]model.Duration)
	out := make([]gridEvent, 0, len(events))
	for _, e := range events {
		at := grid.MulInt(int64(math.Round(float64(e.ticks) / step)))
		if e.isNoteOff {
			on, ok := onsets[e.note]
			if !ok {
				continue
			}
			if at.LessEq(on) {
				at = on.Add(grid)
			}
			delete(onsets, e.note)
		} else {
			onsets[e.note] = at
		}
		out = append(out, gridEvent{at, e.isNoteOff, e.note})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].at.Equal(out[j].at) {
			return out[i].at.Less(out[j].at)
		}
		return out[i].isNoteOff && !out[j].isNoteOff
	})
	return out
}

// Import reads the notes of an SMF into a single voice. Whatever sounds
// between two consecutive events becomes one note, chord or rest, and
// notes held across an event are tied.
func Import(s *smf.SMF, opts ImportOptions) (model.Container, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || mt == 0 {
		return model.Container{}, fmt.Errorf("%w: only metric time formats are supported", model.ErrStructure)
	}
	grid := opts.Grid
	if grid.IsZero() {
		grid = model.D(1, 16)
	}
	if !grid.Positive() {
		return model.Container{}, fmt.Errorf("%w: grid must be positive", model.ErrConfig)
	}
	events := quantize(reducedEvents(s, opts.Track), 4*int64(mt), grid)
	if len(events) == 0 {
		return model.Container{}, fmt.Errorf("%w: no notes found", model.ErrStructure)
	}

	var out model.Container
	pressed := make(map[uint8]int)
	var at model.Duration
	for i := 0; i < len(events); {
		pos := events[i].at
		attacked := false
		for ; i < len(events) && events[i].at.Equal(pos); i++ {
			e := events[i]
			if !e.isNoteOff {
				pressed[e.note]++
				attacked = true
			} else if pressed[e.note]--; pressed[e.note] <= 0 {
				delete(pressed, e.note)
			}
		}
		if gap := pos.Sub(at); gap.Positive() {
			out.Leaves = append(out.Leaves, segment(&out, nil, gap, true)...)
		}
		at = pos
		if i == len(events) {
			break
		}
		length := events[i].at.Sub(pos)
		out.Leaves = append(out.Leaves, segment(&out, pitchesOf(pressed), length, attacked)...)
		at = events[i].at
	}
	return out, nil
}

func pitchesOf(pressed map[uint8]int) []model.Pitch {
	var ps []model.Pitch
	for _, n := range util.SortedKeys(pressed) {
		ps = append(ps, model.PitchFromNumber(int(n)))
	}
	return ps
}

// segment returns the leaves for one span, tying the previous leaf into
// them when the same pitches carry on without a new onset.
func segment(out *model.Container, pitches []model.Pitch, d model.Duration, attacked bool) []model.Leaf {
	leaves := mutate.MakeLeaves(pitches, d)
	if n := len(out.Leaves); n > 0 && !attacked && len(leaves) > 0 && mutate.LeavesAreTieable(out.Leaves[n-1], leaves[0]) {
		out.Leaves[n-1].Tie = true
	}
	return leaves
}
