package midi

import (
	"fmt"
	"math"
	"sort"

	"github.com/jsphweid/auxloop/constants"
	"github.com/jsphweid/auxloop/model"
	"github.com/jsphweid/auxloop/mutate"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var velocities = map[string]uint8{
	"ppp": 16, "pp": 33, "p": 49, "mp": 64,
	"mf": 80, "f": 96, "ff": 112, "fff": 127,
	"sfz": 112, "fp": 96,
}

const defaultVelocity = 80

type timedEvent struct {
	tick  int64
	order int
	msg   []byte
}

func wholeTicks() int64 {
	return 4 * constants.TicksPerQuarter
}

func toTicks(d model.Duration) int64 {
	return int64(math.Round(d.Mul(model.Whole(wholeTicks())).Float64()))
}

// Export writes each part to its own track and channel. Tied leaves sound
// as one note.
func Export(parts []model.Container, tempo float64) (*smf.SMF, error) {
	if len(parts) > 16 {
		return nil, fmt.Errorf("%w: %d parts do not fit in 16 channels", model.ErrConfig, len(parts))
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	for i, p := range parts {
		events := partEvents(p, uint8(i))
		if i == 0 {
			events = append(events, timedEvent{0, -1, smf.MetaTempo(tempo)})
		}
		if err := s.Add(toTrack(events)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func partEvents(c model.Container, channel uint8) []timedEvent {
	var events []timedEvent
	var at model.Duration
	velocity := uint8(defaultVelocity)
	sounding := false
	for i, l := range c.Leaves {
		tick := toTicks(at)
		if ts := l.TimeSignature; !ts.IsZero() && ts.Valid() {
			events = append(events, timedEvent{tick, 0, smf.MetaMeter(uint8(ts.Numerator), uint8(ts.Denominator))})
		}
		if dyn, ok := l.Indicator(model.Dynamic); ok {
			if v, ok := velocities[dyn.Value]; ok {
				velocity = v
			}
		}
		at = at.Add(l.Duration())
		if !l.IsPitched() {
			continue
		}
		if !sounding {
			for _, p := range l.Pitches {
				events = append(events, timedEvent{tick, 2, midi.NoteOn(channel, key(p), velocity)})
			}
		}
		sounding = l.Tie && i+1 < len(c.Leaves) && mutate.LeavesAreTieable(l, c.Leaves[i+1])
		if !sounding {
			for _, p := range l.Pitches {
				events = append(events, timedEvent{toTicks(at), 1, midi.NoteOff(channel, key(p))})
			}
		}
	}
	return events
}

func key(p model.Pitch) uint8 {
	n := p.Number()
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}

func toTrack(events []timedEvent) smf.Track {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].order < events[j].order
	})
	var tr smf.Track
	var last int64
	for _, e := range events {
		tr.Add(uint32(e.tick-last), e.msg)
		last = e.tick
	}
	tr.Close(0)
	return tr
}
