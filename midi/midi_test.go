package midi

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jsphweid/auxloop/constants"
	"github.com/jsphweid/auxloop/lily"
	"github.com/jsphweid/auxloop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func noteCount(s *smf.SMF) (ons, offs int) {
	for _, tr := range s.Tracks {
		for _, ev := range tr {
			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteOn(&ch, &key, &vel):
				ons++
			case ev.Message.GetNoteOff(&ch, &key, &vel):
				offs++
			}
		}
	}
	return ons, offs
}

func TestExportTiesSoundOnce(t *testing.T) {
	s, err := Export([]model.Container{lily.MustParse("c'4 ~ c'8 d'8 <e' g'>2 r1")}, constants.DefaultTempo)
	require.NoError(t, err)
	require.Len(t, s.Tracks, 1)
	ons, offs := noteCount(s)
	assert.Equal(t, 4, ons)
	assert.Equal(t, 4, offs)
}

func TestExportOneTrackPerPart(t *testing.T) {
	parts := []model.Container{lily.MustParse("c'2 r2"), lily.MustParse("r2 d'2"), lily.MustParse("R1")}
	s, err := Export(parts, constants.DefaultTempo)
	require.NoError(t, err)
	assert.Len(t, s.Tracks, 3)

	_, err = Export(make([]model.Container, 17), constants.DefaultTempo)
	assert.True(t, errors.Is(err, model.ErrConfig))
}

func TestRoundTrip(t *testing.T) {
	s, err := Export([]model.Container{lily.MustParse("c'4 ~ c'8 d'8 <e' g'>2 r4 f'4")}, constants.DefaultTempo)
	require.NoError(t, err)
	c, err := Import(s, ImportOptions{Track: -1})
	require.NoError(t, err)
	assert.Equal(t, "c'4. d'8 <e' g'>2 r4 f'4", lily.Format(c))
}

func TestImportOverlappingNotes(t *testing.T) {
	q := uint32(constants.TicksPerQuarter)
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 90))
	tr.Add(q, midi.NoteOn(0, 64, 90))
	tr.Add(q, midi.NoteOff(0, 60))
	tr.Add(q, midi.NoteOff(0, 64))
	tr.Close(0)
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	require.NoError(t, s.Add(tr))

	c, err := Import(s, ImportOptions{Track: -1})
	require.NoError(t, err)
	assert.Equal(t, "c'4 <c' e'>4 e'4", lily.Format(c))
}

func TestImportQuantizesAndHoldsNotes(t *testing.T) {
	var tr smf.Track
	tr.Add(uint32(constants.TicksPerQuarter), midi.NoteOn(0, 62, 90))
	tr.Add(3, midi.NoteOff(0, 62))
	tr.Close(0)
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	require.NoError(t, s.Add(tr))

	c, err := Import(s, ImportOptions{Grid: model.D(1, 8), Track: -1})
	require.NoError(t, err)
	assert.Equal(t, "r4 d'8", lily.Format(c))
}

func TestImportErrors(t *testing.T) {
	var tr smf.Track
	tr.Close(0)
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)
	require.NoError(t, s.Add(tr))
	_, err := Import(s, ImportOptions{Track: -1})
	assert.True(t, errors.Is(err, model.ErrStructure))
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mid")
	s, err := Export([]model.Container{lily.MustParse("c'4 d'4 e'2")}, constants.DefaultTempo)
	require.NoError(t, err)
	require.NoError(t, WriteMidiFile(path, s))

	read, err := ReadMidiFile(path)
	require.NoError(t, err)
	c, err := Import(read, ImportOptions{Track: -1})
	require.NoError(t, err)
	assert.Equal(t, "c'4 d'4 e'2", lily.Format(c))

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}
