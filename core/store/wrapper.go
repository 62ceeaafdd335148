package store

import (
	"fmt"
	"sort"
	"sync"
)

// store/TrackingDirectoryWrapper.java

/*
Directory that remembers the files created through it and not deleted
since. Writers handed such a directory can be checked for leftovers
after an abort.
*/
type TrackingDirectoryWrapper struct {
	Directory
	mu      sync.Mutex
	created map[string]struct{}
}

func NewTrackingDirectoryWrapper(other Directory) *TrackingDirectoryWrapper {
	return &TrackingDirectoryWrapper{
		Directory: other,
		created:   make(map[string]struct{}),
	}
}

func (w *TrackingDirectoryWrapper) CreateOutput(name string, ctx IOContext) (IndexOutput, error) {
	out, err := w.Directory.CreateOutput(name, ctx)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.created[name] = struct{}{}
	w.mu.Unlock()
	return out, nil
}

func (w *TrackingDirectoryWrapper) DeleteFile(name string) error {
	w.mu.Lock()
	delete(w.created, name)
	w.mu.Unlock()
	return w.Directory.DeleteFile(name)
}

// Sorted names of the files created and still present.
func (w *TrackingDirectoryWrapper) CreatedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.created))
	for name := range w.created {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (w *TrackingDirectoryWrapper) ContainsFile(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.created[name]
	return ok
}

func (w *TrackingDirectoryWrapper) String() string {
	return fmt.Sprintf("TrackingDirectoryWrapper(%v)", w.Directory)
}
