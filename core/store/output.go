package store

import (
	"bufio"
	"hash"
	"hash/crc32"
	"io"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

// store/IndexOutput.java

/*
Abstract base class for output to a file in a Directory. A
random-access output stream. Used for all Lucene index output
operations.
*/
type IndexOutput interface {
	io.Closer
	util.DataOutput
	// Returns the current position in this file, where the next write will occur.
	FilePointer() int64
	// Returns the current checksum of bytes written so far
	Checksum() int64
}

// store/OutputStreamIndexOutput.java

/* Implementation class for buffered IndexOutput that writes to a WriterCloser. */
type OutputStreamIndexOutput struct {
	*util.DataOutputImpl

	desc string
	crc  hash.Hash32
	os   *bufio.Writer
	wc   io.WriteCloser

	bytesWritten int64
	closed       bool
}

/* Creates a new OutputStreamIndexOutput with the given buffer size. */
func NewOutputStreamIndexOutput(desc string, out io.WriteCloser, bufferSize int) *OutputStreamIndexOutput {
	ans := &OutputStreamIndexOutput{
		desc: desc,
		crc:  crc32.NewIEEE(),
		os:   bufio.NewWriterSize(out, bufferSize),
		wc:   out,
	}
	ans.DataOutputImpl = util.NewDataOutput(ans)
	return ans
}

func (out *OutputStreamIndexOutput) WriteByte(b byte) error {
	out.crc.Write([]byte{b})
	if err := out.os.WriteByte(b); err != nil {
		return err
	}
	out.bytesWritten++
	return nil
}

func (out *OutputStreamIndexOutput) WriteBytes(p []byte) error {
	out.crc.Write(p)
	if _, err := out.os.Write(p); err != nil {
		return err
	}
	out.bytesWritten += int64(len(p))
	return nil
}

func (out *OutputStreamIndexOutput) Close() error {
	if out.closed {
		return nil
	}
	out.closed = true
	err := out.os.Flush()
	return util.CloseWhileHandlingError(err, out.wc)
}

func (out *OutputStreamIndexOutput) FilePointer() int64 {
	return out.bytesWritten
}

func (out *OutputStreamIndexOutput) Checksum() int64 {
	return int64(out.crc.Sum32())
}

func (out *OutputStreamIndexOutput) String() string {
	return out.desc
}
