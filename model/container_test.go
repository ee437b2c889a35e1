package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cq = NewNote(Pitch{}, D(1, 4))
	dq = NewNote(Pitch{Notename: 1}, D(1, 4))
)

func tied(l Leaf) Leaf {
	l.Tie = true
	return l
}

func TestLogicalTies(t *testing.T) {
	c := NewContainer(tied(cq), cq, NewRest(D(1, 8)), dq)
	ties := c.LogicalTies()
	require.Len(t, ties, 3)

	assert := assert.New(t)
	assert.Equal(LogicalTie{Start: 0, End: 2, Duration: D(1, 2), Pitched: true}, ties[0])
	assert.Equal(LogicalTie{Start: 2, End: 3, Offset: D(1, 2), Duration: D(1, 8)}, ties[1])
	assert.Equal(D(5, 8), ties[2].Offset)
	assert.Equal(2, ties[0].Len())
	assert.Len(c.PitchedLogicalTies(), 2)
	assert.Equal(NewContainer(tied(cq), cq), c.Tie(ties[0]))
	assert.Equal(D(7, 8), c.Duration())
	assert.Equal([]Duration{{}, D(1, 4), D(1, 2), D(5, 8)}, c.Offsets())
}

func TestDanglingTieIsIgnored(t *testing.T) {
	c := NewContainer(cq, tied(dq))
	assert.Len(t, c.LogicalTies(), 2)
	assert.NoError(t, c.Validate())
}

func TestAppendShiftsTuplets(t *testing.T) {
	trip := NewNote(Pitch{}, D(1, 8))
	trip.Multiplier = D(2, 3)
	trip.Tuplet = 1

	c := NewContainer(trip, trip, trip)
	c.Append(NewContainer(trip, trip, trip), NewContainer(cq))
	require.Len(t, c.Leaves, 7)

	assert := assert.New(t)
	assert.Equal(1, c.Leaves[2].Tuplet)
	assert.Equal(2, c.Leaves[3].Tuplet)
	assert.Equal(0, c.Leaves[6].Tuplet)
	assert.Equal(D(3, 4), c.Duration())
}

func TestCopyIsDeep(t *testing.T) {
	c := NewContainer(cq)
	c.Leaves[0].Attach(Indicator{Kind: Dynamic, Value: "p"})
	cp := c.Copy()
	cp.Leaves[0].Pitches[0].Octave = 1
	cp.Leaves[0].Attach(Indicator{Kind: Dynamic, Value: "f"})

	assert := assert.New(t)
	assert.Equal(0, c.Leaves[0].Pitches[0].Octave)
	ind, ok := c.Leaves[0].Indicator(Dynamic)
	assert.True(ok)
	assert.Equal("p", ind.Value)
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)
	bad := map[string]Container{
		"zero duration":  NewContainer(NewNote(Pitch{}, Duration{})),
		"tie into rest":  NewContainer(tied(cq), NewRest(D(1, 4))),
		"tie into other": NewContainer(tied(cq), dq),
		"empty chord":    NewContainer(NewChord(nil, D(1, 4))),
		"rest pitches":   NewContainer(Leaf{Kind: RestKind, Pitches: []Pitch{{}}, Written: D(1, 4)}),
		"bad meter":      NewContainer(Leaf{Kind: RestKind, Written: D(1, 4), TimeSignature: TimeSignature{3, 5}}),
	}
	for name, c := range bad {
		assert.True(errors.Is(c.Validate(), ErrStructure), name)
	}
	assert.NoError(NewContainer(tied(cq), cq, NewMultimeasureRest(TimeSignature{3, 4})).Validate())
}

func TestLeafIndicators(t *testing.T) {
	l := cq.Copy()
	l.Attach(Indicator{Kind: Dynamic, Value: "p"})
	l.Attach(Indicator{Kind: Dynamic, Value: "ff"})
	l.Attach(Indicator{Kind: Articulation, Value: "staccato"})
	l.Attach(Indicator{Kind: Articulation, Value: "staccato"})

	assert := assert.New(t)
	assert.Equal([]Indicator{{Dynamic, "ff"}, {Articulation, "staccato"}}, l.Indicators)

	l.Detach(Dynamic)
	_, ok := l.Indicator(Dynamic)
	assert.False(ok)

	r := l.AsRest()
	assert.True(r.IsRest())
	assert.Nil(r.Indicators)
	assert.Equal(D(1, 4), r.Duration())

	mm := NewMultimeasureRest(TimeSignature{3, 4})
	assert.Equal(D(3, 4), mm.Duration())
	assert.Equal(Whole(1), NewMultimeasureRest(CommonTime).Ratio())
}
