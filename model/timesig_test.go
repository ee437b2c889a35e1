package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSignature(t *testing.T) {
	assert := assert.New(t)
	assert.True(TimeSignature{}.IsZero())
	assert.False(TimeSignature{}.Valid())
	assert.False(TimeSignature{3, 6}.Valid())
	assert.True(TimeSignature{7, 16}.Valid())
	assert.Equal(D(3, 4), TimeSignature{6, 8}.Duration())
	assert.NotEqual(TimeSignature{6, 8}, TimeSignature{3, 4})
	assert.Equal("5/8", TimeSignature{5, 8}.String())
}

func TestTimeSignatureBeat(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(D(1, 4), CommonTime.Beat())
	assert.Equal(D(1, 8), TimeSignature{3, 8}.Beat())
	assert.Equal(D(3, 8), TimeSignature{6, 8}.Beat())
	assert.Equal(D(3, 16), TimeSignature{12, 16}.Beat())
	assert.Equal(D(1, 4), TimeSignature{6, 4}.Beat())
}

func TestTimeSignatureFor(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(TimeSignature{2, 4}, TimeSignatureFor(D(1, 2)))
	assert.Equal(TimeSignature{4, 4}, TimeSignatureFor(Whole(1)))
	assert.Equal(TimeSignature{3, 8}, TimeSignatureFor(D(3, 8)))
	assert.Equal(TimeSignature{5, 16}, TimeSignatureFor(D(5, 16)))
	assert.Equal(TimeSignature{2, 4}, TimeSignature{4, 8}.Simplified(4))
	assert.Equal(TimeSignature{2, 4}, TimeSignature{8, 16}.Simplified(4))
	assert.Equal(TimeSignature{4, 8}, TimeSignature{4, 8}.Simplified(8))
}

func TestParseTimeSignature(t *testing.T) {
	assert := assert.New(t)
	ts, err := ParseTimeSignature("3/4")
	assert.NoError(err)
	assert.Equal(TimeSignature{3, 4}, ts)

	for _, s := range []string{"3", "a/4", "3/b", ""} {
		_, err := ParseTimeSignature(s)
		assert.True(errors.Is(err, ErrConfig), s)
	}

	var text TimeSignature
	assert.NoError(text.UnmarshalText([]byte("4/8")))
	assert.Equal(TimeSignature{4, 8}, text)
}
