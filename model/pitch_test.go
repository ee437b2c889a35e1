package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPitchNumber(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(60, Pitch{}.Number())
	assert.Equal(61, Pitch{0, 1, 0}.Number())
	assert.Equal(59, Pitch{6, 0, -1}.Number())
	assert.Equal(72, Pitch{7, 0, 0}.Number())
	assert.True(Pitch{0, 1, 0}.SamePitch(Pitch{1, -1, 0}))
}

func TestPitchFromNumber(t *testing.T) {
	assert := assert.New(t)
	for n, want := range map[int]string{
		60: "c'",
		61: "cs'",
		63: "ef'",
		70: "bf'",
		72: "c''",
		59: "b",
		48: "c",
		36: "c,",
	} {
		p := PitchFromNumber(n)
		assert.Equal(want, p.String(), n)
		assert.Equal(n, p.Number())
	}
}

func TestPitchString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("fss'", Pitch{3, 2, 0}.String())
	assert.Equal("d''", Pitch{8, 0, 0}.String())
	assert.Equal("pitch(63)", Pitch{0, 3, 0}.String())
}
