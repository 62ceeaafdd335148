package store

import (
	"os"

	"github.com/pkg/errors"
)

// Returned by any operation on a closed directory, reader or writer.
var ErrAlreadyClosed = errors.New("this resource is closed")

func fileNotFound(name string) error {
	return errors.Wrapf(os.ErrNotExist, "file %v", name)
}

// Returns true if err reports a missing file.
func IsFileNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

func readPastEOF(in interface{}) error {
	return errors.Errorf("read past EOF: %v", in)
}
