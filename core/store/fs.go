package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// store/FSDirectory.java

/*
Directory storing each file as a regular file in a filesystem
directory. Inputs read with positional reads so clones can share one
file handle.
*/
type FSDirectory struct {
	*DirectoryImpl
	path string
}

// Creates the directory at path if it does not exist yet.
func OpenFSDirectory(path string) (*FSDirectory, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, errors.Wrapf(err, "cannot create directory %v", path)
	}
	ans := &FSDirectory{path: path}
	ans.DirectoryImpl = NewDirectoryImpl(ans)
	return ans, nil
}

func (d *FSDirectory) Path() string { return d.path }

func (d *FSDirectory) ListAll() ([]string, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (d *FSDirectory) FileExists(name string) bool {
	_, err := os.Stat(filepath.Join(d.path, name))
	return err == nil
}

func (d *FSDirectory) FileLength(name string) (int64, error) {
	if err := d.ensureOpen(); err != nil {
		return 0, err
	}
	fi, err := os.Stat(filepath.Join(d.path, name))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fileNotFound(name)
		}
		return 0, err
	}
	return fi.Size(), nil
}

func (d *FSDirectory) DeleteFile(name string) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(d.path, name)); err != nil {
		if os.IsNotExist(err) {
			return fileNotFound(name)
		}
		return errors.Wrapf(err, "cannot delete %v", name)
	}
	return nil
}

func (d *FSDirectory) CreateOutput(name string, context IOContext) (IndexOutput, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(d.path, name), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return NewOutputStreamIndexOutput(fmt.Sprintf("FSIndexOutput(path=%v)", f.Name()), f, FS_CHUNK_SIZE), nil
}

// Write buffer size of FS outputs.
const FS_CHUNK_SIZE = 8192

func (d *FSDirectory) Sync(names []string) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	for _, name := range names {
		if err := fsync(filepath.Join(d.path, name)); err != nil {
			return err
		}
	}
	log.Debugf("Synced %v file(s) in %v", len(names), d.path)
	return nil
}

func fsync(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d *FSDirectory) OpenInput(name string, context IOContext) (IndexInput, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	path := filepath.Join(d.path, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fileNotFound(name)
		}
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	desc := fmt.Sprintf("SimpleFSIndexInput(path=%v)", path)
	return newBufferedIndexInput(&fileReader{f, fi.Size()}, desc, context), nil
}

func (d *FSDirectory) Close() error {
	d.closed = true
	return nil
}

func (d *FSDirectory) String() string {
	return fmt.Sprintf("FSDirectory@%v", d.path)
}

// store/SimpleFSDirectory.java

type fileReader struct {
	file   *os.File
	length int64
}

func (r *fileReader) readInternal(buf []byte, pos int64) error {
	n, err := r.file.ReadAt(buf, pos)
	if n == len(buf) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return errors.Wrapf(err, "read past EOF: %v (pos=%v, len=%v)", r.file.Name(), pos, len(buf))
}

func (r *fileReader) closeInternal() error { return r.file.Close() }

func (r *fileReader) Length() int64 { return r.length }
