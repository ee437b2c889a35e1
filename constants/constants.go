package constants

import (
	"os"
	"strconv"
)

func GetOutDir() string {
	path := os.Getenv("AUXLOOP_OUT_DIR")
	if path != "" {
		return path
	}
	return "./out"
}

// GetSeed returns the seed set in AUXLOOP_SEED, if any.
func GetSeed() (int64, bool) {
	v := os.Getenv("AUXLOOP_SEED")
	if v == "" {
		return 0, false
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return seed, true
}

// Ticks per quarter note in exported MIDI files.
const TicksPerQuarter = 960

const DefaultTempo = 120.0

const DefaultAddr = ":8080"
