package model

import "errors"

var (
	// ErrConfig is a configuration value of the wrong range or a length
	// mismatch between parallel lists, reported when it is assigned.
	ErrConfig = errors.New("invalid configuration")
	// ErrStructure is malformed input music, reported at ingest.
	ErrStructure = errors.New("malformed contents")
	// ErrExhausted is returned by strict calls once a process cannot advance.
	ErrExhausted = errors.New("contents exhausted")
	// ErrNoWindow is returned when output is requested before any was made.
	ErrNoWindow = errors.New("no window has been produced")
)
