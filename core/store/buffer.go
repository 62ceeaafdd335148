package store

import (
	"fmt"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

// store/BufferedIndexInput.java

// Positional reads against the underlying storage.
type SeekReader interface {
	// Reads exactly len(buf) bytes starting at pos.
	readInternal(buf []byte, pos int64) error
	// Releases the underlying storage.
	closeInternal() error
	Length() int64
}

/* Minimum buffer size allowed */
const MIN_BUFFER_SIZE = 8

/* Base implementation class for buffered IndexInput. */
type BufferedIndexInput struct {
	*util.DataInputImpl
	spi            SeekReader
	desc           string
	isClone        bool
	bufferSize     int
	buffer         []byte
	bufferStart    int64 // position in file of buffer
	bufferLength   int   // end of valid bytes
	bufferPosition int   // next byte to read
}

func newBufferedIndexInput(spi SeekReader, desc string, context IOContext) *BufferedIndexInput {
	size := bufferSize(context)
	assert2(size >= MIN_BUFFER_SIZE, "bufferSize must be at least MIN_BUFFER_SIZE (got %v)", size)
	ans := &BufferedIndexInput{spi: spi, desc: desc, bufferSize: size}
	ans.DataInputImpl = util.NewDataInput(ans)
	return ans
}

func (in *BufferedIndexInput) ReadByte() (byte, error) {
	if in.bufferPosition >= in.bufferLength {
		if err := in.refill(); err != nil {
			return 0, err
		}
	}
	in.bufferPosition++
	return in.buffer[in.bufferPosition-1], nil
}

func (in *BufferedIndexInput) ReadBytes(buf []byte) error {
	available := in.bufferLength - in.bufferPosition
	if len(buf) <= available {
		// the buffer contains enough data to satisfy this request
		copy(buf, in.buffer[in.bufferPosition:])
		in.bufferPosition += len(buf)
		return nil
	}
	// the buffer does not have enough data. First serve all we've got.
	if available > 0 {
		copy(buf, in.buffer[in.bufferPosition:in.bufferLength])
		buf = buf[available:]
		in.bufferPosition += available
	}
	if len(buf) < in.bufferSize {
		// small enough: fill the buffer and copy from it
		if err := in.refill(); err != nil {
			return err
		}
		if in.bufferLength < len(buf) {
			return readPastEOF(in)
		}
		copy(buf, in.buffer[:len(buf)])
		in.bufferPosition += len(buf)
		return nil
	}
	// larger than the buffer: read it all at once, without buffering
	start := in.bufferStart + int64(in.bufferPosition)
	after := start + int64(len(buf))
	if after > in.spi.Length() {
		return readPastEOF(in)
	}
	if err := in.spi.readInternal(buf, start); err != nil {
		return err
	}
	in.bufferStart = after
	in.bufferPosition = 0
	in.bufferLength = 0 // trigger refill() on read
	return nil
}

func (in *BufferedIndexInput) refill() error {
	start := in.bufferStart + int64(in.bufferPosition)
	end := start + int64(in.bufferSize)
	if end > in.spi.Length() { // don't read past EOF
		end = in.spi.Length()
	}
	newLength := int(end - start)
	if newLength <= 0 {
		return readPastEOF(in)
	}
	if in.buffer == nil {
		in.buffer = make([]byte, in.bufferSize)
	}
	if err := in.spi.readInternal(in.buffer[:newLength], start); err != nil {
		return err
	}
	in.bufferLength = newLength
	in.bufferStart = start
	in.bufferPosition = 0
	return nil
}

func (in *BufferedIndexInput) SkipBytes(n int64) error {
	return in.Seek(in.FilePointer() + n)
}

func (in *BufferedIndexInput) FilePointer() int64 {
	return in.bufferStart + int64(in.bufferPosition)
}

func (in *BufferedIndexInput) Seek(pos int64) error {
	if pos < 0 || pos > in.spi.Length() {
		return readPastEOF(in)
	}
	if pos >= in.bufferStart && pos < in.bufferStart+int64(in.bufferLength) {
		in.bufferPosition = int(pos - in.bufferStart) // seek within buffer
	} else {
		in.bufferStart = pos
		in.bufferPosition = 0
		in.bufferLength = 0 // trigger refill() on read()
	}
	return nil
}

func (in *BufferedIndexInput) Length() int64 {
	return in.spi.Length()
}

func (in *BufferedIndexInput) Clone() IndexInput {
	ans := &BufferedIndexInput{
		spi:         in.spi,
		desc:        in.desc,
		isClone:     true,
		bufferSize:  in.bufferSize,
		bufferStart: in.FilePointer(),
	}
	ans.DataInputImpl = util.NewDataInput(ans)
	return ans
}

func (in *BufferedIndexInput) Close() error {
	if in.isClone {
		return nil
	}
	return in.spi.closeInternal()
}

func (in *BufferedIndexInput) String() string {
	return fmt.Sprintf("%v(pos=%v)", in.desc, in.FilePointer())
}
