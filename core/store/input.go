package store

import (
	"fmt"
	"io"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

// store/IndexInput.java

/*
Abstract base class for input from a file in a Directory. A
random-access input stream. Used for all Lucene index input
operations.

IndexInput may only be used from one goroutine, because it is not
thread safe (it keeps internal state like file position). To allow
concurrent use, every IndexInput instance must be cloned before it is
used in another goroutine.
*/
type IndexInput interface {
	io.Closer
	util.DataInput
	// Returns the current position in this file, where the next read will occur.
	FilePointer() int64
	// Sets current position in this file, where the next read will occur.
	Seek(pos int64) error
	// The number of bytes in the file.
	Length() int64
	// Returns an independent input over the same file. Closing the
	// clone never releases the underlying file handle.
	Clone() IndexInput
}

const (
	BUFFER_SIZE       = 1024
	MERGE_BUFFER_SIZE = 4096
)

func bufferSize(context IOContext) int {
	if context.IsMerge() {
		// merges read whole files sequentially, a larger buffer helps
		return MERGE_BUFFER_SIZE
	}
	return BUFFER_SIZE
}

/*
IndexInput over an in-memory byte slice, shared by clones. Used by
RAMDirectory and BoltDirectory.
*/
type SliceIndexInput struct {
	*util.DataInputImpl
	desc string
	data []byte
	pos  int
}

func NewSliceIndexInput(desc string, data []byte) *SliceIndexInput {
	ans := &SliceIndexInput{desc: desc, data: data}
	ans.DataInputImpl = util.NewDataInput(ans)
	return ans
}

func (in *SliceIndexInput) ReadByte() (byte, error) {
	if in.pos >= len(in.data) {
		return 0, readPastEOF(in)
	}
	in.pos++
	return in.data[in.pos-1], nil
}

func (in *SliceIndexInput) ReadBytes(buf []byte) error {
	if len(buf) > len(in.data)-in.pos {
		return readPastEOF(in)
	}
	copy(buf, in.data[in.pos:])
	in.pos += len(buf)
	return nil
}

func (in *SliceIndexInput) SkipBytes(n int64) error {
	return in.Seek(int64(in.pos) + n)
}

func (in *SliceIndexInput) FilePointer() int64 { return int64(in.pos) }

func (in *SliceIndexInput) Seek(pos int64) error {
	if pos < 0 || pos > int64(len(in.data)) {
		return readPastEOF(in)
	}
	in.pos = int(pos)
	return nil
}

func (in *SliceIndexInput) Length() int64 { return int64(len(in.data)) }

func (in *SliceIndexInput) Clone() IndexInput {
	ans := &SliceIndexInput{desc: in.desc, data: in.data, pos: in.pos}
	ans.DataInputImpl = util.NewDataInput(ans)
	return ans
}

func (in *SliceIndexInput) Close() error { return nil }

func (in *SliceIndexInput) String() string { return in.desc }

// store/ByteArrayDataInput.java

// DataInput backed by a byte array. Reads past the limit fail with
// io.ErrUnexpectedEOF.
type ByteArrayDataInput struct {
	*util.DataInputImpl
	bytes []byte
	Pos   int
	limit int
}

func NewByteArrayDataInput(bytes []byte) *ByteArrayDataInput {
	ans := &ByteArrayDataInput{}
	ans.DataInputImpl = util.NewDataInput(ans)
	ans.Reset(bytes)
	return ans
}

func NewEmptyByteArrayDataInput() *ByteArrayDataInput {
	return NewByteArrayDataInput(util.EMPTY_BYTES)
}

func (in *ByteArrayDataInput) Reset(bytes []byte) {
	in.ResetAt(bytes, 0, len(bytes))
}

func (in *ByteArrayDataInput) ResetAt(bytes []byte, offset, length int) {
	in.bytes = bytes
	in.Pos = offset
	in.limit = offset + length
}

func (in *ByteArrayDataInput) Position() int { return in.Pos }

func (in *ByteArrayDataInput) Length() int { return in.limit }

func (in *ByteArrayDataInput) Eof() bool { return in.Pos == in.limit }

func (in *ByteArrayDataInput) SkipBytes(count int64) error {
	if int64(in.limit-in.Pos) < count {
		return io.ErrUnexpectedEOF
	}
	in.Pos += int(count)
	return nil
}

func (in *ByteArrayDataInput) ReadByte() (byte, error) {
	if in.Pos >= in.limit {
		return 0, io.ErrUnexpectedEOF
	}
	in.Pos++
	return in.bytes[in.Pos-1], nil
}

func (in *ByteArrayDataInput) ReadBytes(buf []byte) error {
	if len(buf) > in.limit-in.Pos {
		return io.ErrUnexpectedEOF
	}
	copy(buf, in.bytes[in.Pos:in.Pos+len(buf)])
	in.Pos += len(buf)
	return nil
}

func (in *ByteArrayDataInput) String() string {
	return fmt.Sprintf("ByteArrayDataInput(pos=%v, limit=%v)", in.Pos, in.limit)
}
