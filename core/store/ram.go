package store

import (
	"fmt"
	"hash"
	"hash/crc32"
	"sort"
	"sync"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

// store/RAMDirectory.java

/*
A memory-resident Directory implementation. Files are kept as byte
slices; an input opened on a file sees the bytes written so far.
*/
type RAMDirectory struct {
	*DirectoryImpl
	sync.RWMutex
	fileMap map[string]*RAMFile
}

func NewRAMDirectory() *RAMDirectory {
	ans := &RAMDirectory{fileMap: make(map[string]*RAMFile)}
	ans.DirectoryImpl = NewDirectoryImpl(ans)
	return ans
}

func (rd *RAMDirectory) ListAll() ([]string, error) {
	if err := rd.ensureOpen(); err != nil {
		return nil, err
	}
	rd.RLock()
	defer rd.RUnlock()
	names := make([]string, 0, len(rd.fileMap))
	for name := range rd.fileMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (rd *RAMDirectory) FileExists(name string) bool {
	rd.RLock()
	defer rd.RUnlock()
	_, ok := rd.fileMap[name]
	return ok
}

func (rd *RAMDirectory) FileLength(name string) (int64, error) {
	if err := rd.ensureOpen(); err != nil {
		return 0, err
	}
	rd.RLock()
	defer rd.RUnlock()
	file, ok := rd.fileMap[name]
	if !ok {
		return 0, fileNotFound(name)
	}
	return file.Length(), nil
}

func (rd *RAMDirectory) DeleteFile(name string) error {
	if err := rd.ensureOpen(); err != nil {
		return err
	}
	rd.Lock()
	defer rd.Unlock()
	if _, ok := rd.fileMap[name]; !ok {
		return fileNotFound(name)
	}
	delete(rd.fileMap, name)
	return nil
}

func (rd *RAMDirectory) CreateOutput(name string, context IOContext) (IndexOutput, error) {
	if err := rd.ensureOpen(); err != nil {
		return nil, err
	}
	file := &RAMFile{}
	rd.Lock()
	rd.fileMap[name] = file
	rd.Unlock()
	return NewRAMOutputStream(name, file), nil
}

// RAM files need no sync.
func (rd *RAMDirectory) Sync(names []string) error {
	return rd.ensureOpen()
}

func (rd *RAMDirectory) OpenInput(name string, context IOContext) (IndexInput, error) {
	if err := rd.ensureOpen(); err != nil {
		return nil, err
	}
	rd.RLock()
	defer rd.RUnlock()
	file, ok := rd.fileMap[name]
	if !ok {
		return nil, fileNotFound(name)
	}
	return NewSliceIndexInput(fmt.Sprintf("RAMInputStream(name=%v)", name), file.Bytes()), nil
}

func (rd *RAMDirectory) Close() error {
	rd.Lock()
	defer rd.Unlock()
	rd.closed = true
	rd.fileMap = make(map[string]*RAMFile)
	return nil
}

func (rd *RAMDirectory) String() string {
	return fmt.Sprintf("RAMDirectory@%p", rd)
}

// store/RAMFile.java

// Represents a file in RAM as a growable byte slice.
type RAMFile struct {
	sync.Mutex
	data []byte
}

func NewRAMFile(data []byte) *RAMFile {
	return &RAMFile{data: data}
}

func (rf *RAMFile) Length() int64 {
	rf.Lock()
	defer rf.Unlock()
	return int64(len(rf.data))
}

// Returns a snapshot of the file content. Later appends never modify it.
func (rf *RAMFile) Bytes() []byte {
	rf.Lock()
	defer rf.Unlock()
	return rf.data[:len(rf.data):len(rf.data)]
}

func (rf *RAMFile) append(p []byte) {
	rf.Lock()
	defer rf.Unlock()
	rf.data = append(rf.data, p...)
}

// store/RAMOutputStream.java

/*
A memory-resident IndexOutput implementation. It can also be used
without a directory, as a scratch buffer whose content is later
copied with WriteTo().
*/
type RAMOutputStream struct {
	*util.DataOutputImpl
	name string
	file *RAMFile
	crc  hash.Hash32
}

func NewRAMOutputStreamBuffer() *RAMOutputStream {
	return NewRAMOutputStream("RAMOutputStream", &RAMFile{})
}

func NewRAMOutputStream(name string, f *RAMFile) *RAMOutputStream {
	ans := &RAMOutputStream{name: name, file: f, crc: crc32.NewIEEE()}
	ans.DataOutputImpl = util.NewDataOutput(ans)
	return ans
}

func (out *RAMOutputStream) WriteByte(b byte) error {
	return out.WriteBytes([]byte{b})
}

func (out *RAMOutputStream) WriteBytes(buf []byte) error {
	out.crc.Write(buf)
	out.file.append(buf)
	return nil
}

// Copy the current contents of this buffer to the named output.
func (out *RAMOutputStream) WriteTo(to util.DataOutput) error {
	return to.WriteBytes(out.file.Bytes())
}

// Resets this to an empty file.
func (out *RAMOutputStream) Reset() {
	out.file.Lock()
	out.file.data = out.file.data[:0]
	out.file.Unlock()
	out.crc.Reset()
}

func (out *RAMOutputStream) FilePointer() int64 { return out.file.Length() }

func (out *RAMOutputStream) Checksum() int64 { return int64(out.crc.Sum32()) }

func (out *RAMOutputStream) Close() error { return nil }

func (out *RAMOutputStream) String() string { return out.name }
