package file

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/auxloop/util"
	"github.com/pkg/errors"
)

// NewOutputPath returns a fresh file name with the given extension inside
// dir, creating dir if needed.
func NewOutputPath(dir, ext string) (string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}
	return filepath.Join(dir, uuid.New().String()+ext), nil
}

// ReadInput returns the contents of path, or of stdin when path is "-".
func ReadInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), errors.Wrap(err, "reading stdin")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(b), nil
}

func WriteOutput(path, contents string) error {
	return errors.Wrapf(os.WriteFile(path, []byte(contents), 0644), "writing %s", path)
}
