package store

import (
	"fmt"
	"io"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("store")

// store/IOContext.java

const (
	IO_CONTEXT_TYPE_MERGE   = 1
	IO_CONTEXT_TYPE_READ    = 2
	IO_CONTEXT_TYPE_FLUSH   = 3
	IO_CONTEXT_TYPE_DEFAULT = 4
)

type IOContextType int

var (
	IO_CONTEXT_DEFAULT  = IOContext{context: IOContextType(IO_CONTEXT_TYPE_DEFAULT)}
	IO_CONTEXT_READONCE = NewIOContextBool(true)
	IO_CONTEXT_READ     = NewIOContextBool(false)
)

/*
IOContext holds additional details on the merge/search context. A
IOContext object can never be passed as nil to either OpenInput() or
CreateOutput().
*/
type IOContext struct {
	context   IOContextType
	MergeInfo *MergeInfo
	FlushInfo *FlushInfo
	readOnce  bool
}

func NewIOContextForFlush(flushInfo *FlushInfo) IOContext {
	assert(flushInfo != nil)
	return IOContext{
		context:   IOContextType(IO_CONTEXT_TYPE_FLUSH),
		FlushInfo: flushInfo,
	}
}

func NewIOContextBool(readOnce bool) IOContext {
	return IOContext{
		context:  IOContextType(IO_CONTEXT_TYPE_READ),
		readOnce: readOnce,
	}
}

func NewIOContextForMerge(mergeInfo *MergeInfo) IOContext {
	assert2(mergeInfo != nil, "MergeInfo must not be nil if context is MERGE")
	return IOContext{
		context:   IOContextType(IO_CONTEXT_TYPE_MERGE),
		MergeInfo: mergeInfo,
	}
}

func (ctx IOContext) IsMerge() bool { return ctx.context == IO_CONTEXT_TYPE_MERGE }

func (ctx IOContext) String() string {
	return fmt.Sprintf("IOContext [context=%v, mergeInfo=%v, flushInfo=%v, readOnce=%v]",
		ctx.context, ctx.MergeInfo, ctx.FlushInfo, ctx.readOnce)
}

type FlushInfo struct {
	NumDocs              int
	EstimatedSegmentSize int64
}

type MergeInfo struct {
	TotalDocCount       int
	EstimatedMergeBytes int64
	IsExternal          bool
	MergeMaxNumSegments int
}

// store/Directory.java

/*
A Directory is a flat list of files. Files may be written once, when
they are created. Once a file is created it may only be opened for
read, or deleted. Random access is permitted both when reading and
writing.
*/
type Directory interface {
	io.Closer
	// Returns the names of all files in the directory.
	ListAll() (paths []string, err error)
	// Returns true iff a file with the given name exists.
	FileExists(name string) bool
	// Removes an existing file in the directory.
	DeleteFile(name string) error
	// Returns the length of a file in the directory.
	FileLength(name string) (int64, error)
	// Creates a new, empty file in the directory with the given name.
	// Returns a stream writing this file.
	CreateOutput(name string, context IOContext) (IndexOutput, error)
	// Ensure that any writes to these files are moved to stable
	// storage.
	Sync(names []string) error
	// Returns a stream reading an existing file.
	OpenInput(name string, context IOContext) (IndexInput, error)
	// Returns a stream reading an existing file, computing checksum
	// as it reads.
	OpenChecksumInput(name string, context IOContext) (ChecksumIndexInput, error)
}

type DirectoryImplSPI interface {
	OpenInput(string, IOContext) (IndexInput, error)
}

// Shared behaviour of Directory implementations.
type DirectoryImpl struct {
	spi    DirectoryImplSPI
	closed bool
}

func NewDirectoryImpl(spi DirectoryImplSPI) *DirectoryImpl {
	return &DirectoryImpl{spi: spi}
}

func (d *DirectoryImpl) OpenChecksumInput(name string, context IOContext) (ChecksumIndexInput, error) {
	in, err := d.spi.OpenInput(name, context)
	if err != nil {
		return nil, err
	}
	return NewBufferedChecksumIndexInput(in), nil
}

func (d *DirectoryImpl) ensureOpen() error {
	if d.closed {
		return ErrAlreadyClosed
	}
	return nil
}

func (d *DirectoryImpl) String() string {
	return fmt.Sprintf("%T", d.spi)
}

// Copies the file src to dest in directory to.
func Copy(from Directory, src string, to Directory, dest string, context IOContext) (err error) {
	is, err := from.OpenInput(src, context)
	if err != nil {
		return err
	}
	defer is.Close()
	os, err := to.CreateOutput(dest, context)
	if err != nil {
		return err
	}
	if err = os.CopyBytes(is, is.Length()); err != nil {
		os.Close()
		to.DeleteFile(dest)
		return err
	}
	return os.Close()
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
