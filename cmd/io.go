package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsphweid/auxloop/constants"
	"github.com/jsphweid/auxloop/file"
	"github.com/jsphweid/auxloop/lily"
	"github.com/jsphweid/auxloop/midi"
	"github.com/jsphweid/auxloop/model"
	"github.com/spf13/cobra"
)

// ioFlags are the input and output flags every transformer command takes.
type ioFlags struct {
	input   string
	path    string
	grid    string
	count   int
	all     bool
	midiOut bool
	outDir  string
}

func (f *ioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "LilyPond music")
	cmd.Flags().StringVarP(&f.path, "file", "f", "", "LilyPond or MIDI file to read, - for stdin")
	cmd.Flags().StringVar(&f.grid, "grid", "1/16", "quantization grid for MIDI input")
	cmd.Flags().IntVarP(&f.count, "count", "n", 1, "number of calls")
	cmd.Flags().BoolVar(&f.all, "all", false, "call until the process ends")
	cmd.Flags().BoolVar(&f.midiOut, "midi", false, "also write a MIDI file")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "directory for MIDI output (default AUXLOOP_OUT_DIR or ./out)")
}

func (f *ioFlags) music() (string, error) {
	if f.input != "" {
		return f.input, nil
	}
	if f.path == "" {
		return "", fmt.Errorf("%w: pass --input or --file", model.ErrConfig)
	}
	ext := strings.ToLower(filepath.Ext(f.path))
	if ext != ".mid" && ext != ".midi" {
		return file.ReadInput(f.path)
	}
	grid, err := model.ParseDuration(f.grid)
	if err != nil {
		return "", err
	}
	s, err := midi.ReadMidiFile(f.path)
	if err != nil {
		return "", err
	}
	c, err := midi.Import(s, midi.ImportOptions{Grid: grid, Track: -1})
	if err != nil {
		return "", err
	}
	return lily.Format(c), nil
}

func (f *ioFlags) request(cmd *cobra.Command) (request, error) {
	music, err := f.music()
	if err != nil {
		return request{}, err
	}
	return request{
		music: music,
		count: f.count,
		all:   f.all,
		rand:  newRand(cmd),
		log:   logger,
	}, nil
}

func (f *ioFlags) emit(cmd *cobra.Command, out Output) error {
	fmt.Fprintln(cmd.OutOrStdout(), out.Music)
	if !f.midiOut {
		return nil
	}
	if len(out.Parts) == 0 {
		return fmt.Errorf("%w: this output cannot be written as MIDI", model.ErrConfig)
	}
	dir := f.outDir
	if dir == "" {
		dir = constants.GetOutDir()
	}
	path, err := file.NewOutputPath(dir, ".mid")
	if err != nil {
		return err
	}
	s, err := midi.Export(out.Parts, constants.DefaultTempo)
	if err != nil {
		return err
	}
	if err := midi.WriteMidiFile(path, s); err != nil {
		return err
	}
	logger.Info("wrote midi", "path", path, "tracks", len(out.Parts))
	return nil
}
