package util

import (
	"io"
	"strings"
)

// util/IOUtils.java

// An error carrying the secondary errors suppressed while closing.
type CompoundError struct {
	errs []error
}

func (e *CompoundError) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; suppressed: ")
}

// The first error is the cause.
func (e *CompoundError) Unwrap() error {
	return e.errs[0]
}

/*
Closes all given objects. If priorErr is not nil, it is returned after
closing; otherwise the first close error (with the rest suppressed
into it) is returned.
*/
func CloseWhileHandlingError(priorErr error, objects ...io.Closer) error {
	var th error
	for _, object := range objects {
		if t := safeClose(object); t != nil {
			if priorErr != nil {
				priorErr = addSuppressed(priorErr, t)
			} else {
				th = addSuppressed(th, t)
			}
		}
	}
	if priorErr != nil {
		return priorErr
	}
	return th
}

// Closes all given objects, ignoring every error. Nil objects are skipped.
func CloseWhileSuppressingError(objects ...io.Closer) {
	for _, object := range objects {
		safeClose(object)
	}
}

// Closes all given objects and returns the first error, if any.
func Close(objects ...io.Closer) error {
	var th error
	for _, object := range objects {
		if t := safeClose(object); t != nil {
			th = addSuppressed(th, t)
		}
	}
	return th
}

func safeClose(obj io.Closer) error {
	if obj == nil {
		return nil
	}
	return obj.Close()
}

func addSuppressed(err error, suppressed error) error {
	assert2(err != suppressed, "Self-suppression not permitted")
	if suppressed == nil {
		return err
	}
	if err == nil {
		return suppressed
	}
	if ce, ok := err.(*CompoundError); ok {
		ce.errs = append(ce.errs, suppressed)
		return ce
	}
	return &CompoundError{[]error{err, suppressed}}
}

type FileDeleter interface {
	DeleteFile(name string) error
}

/*
Deletes all given files, suppressing all errors.

Note that the files should not be empty.
*/
func DeleteFilesIgnoringErrors(dir FileDeleter, files ...string) {
	for _, name := range files {
		dir.DeleteFile(name) // ignore error
	}
}
