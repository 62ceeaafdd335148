package codec

import (
	"fmt"

	"github.com/pkg/errors"
)

// index/CorruptIndexException.java

/*
Signals that a structural invariant of a file was violated: bad
header, out-of-range values, length mismatches or checksum failures.
The file must be considered unusable.
*/
type CorruptIndexError struct {
	Msg      string
	Resource string
}

func NewCorruptIndexError(resource interface{}, msg string, args ...interface{}) error {
	return errors.WithStack(&CorruptIndexError{
		Msg:      fmt.Sprintf(msg, args...),
		Resource: fmt.Sprintf("%v", resource),
	})
}

func (e *CorruptIndexError) Error() string {
	return fmt.Sprintf("%v (resource=%v)", e.Msg, e.Resource)
}

// index/IndexFormatTooOldException.java

// The file is older than the oldest supported version.
type IndexFormatTooOldError struct {
	Resource               string
	Version                int32
	MinVersion, MaxVersion int32
}

func (e *IndexFormatTooOldError) Error() string {
	return fmt.Sprintf(
		"Format version is not supported (resource: %v): %v (needs to be between %v and %v)",
		e.Resource, e.Version, e.MinVersion, e.MaxVersion)
}

// index/IndexFormatTooNewException.java

// The file was written by a newer version.
type IndexFormatTooNewError struct {
	Resource               string
	Version                int32
	MinVersion, MaxVersion int32
}

func (e *IndexFormatTooNewError) Error() string {
	return fmt.Sprintf(
		"Format version is not supported (resource: %v): %v (needs to be between %v and %v)",
		e.Resource, e.Version, e.MinVersion, e.MaxVersion)
}

// Returns true if err, or any error it wraps, reports a corrupt or
// unsupported file.
func IsCorruption(err error) bool {
	var corrupt *CorruptIndexError
	var tooOld *IndexFormatTooOldError
	var tooNew *IndexFormatTooNewError
	return errors.As(err, &corrupt) || errors.As(err, &tooOld) || errors.As(err, &tooNew)
}
