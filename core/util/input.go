package util

import (
	"errors"
)

// store/DataInput.java

/*
Abstract base class for performing read operations of Lucene's low-level
data types.

DataInput may only be used from one goroutine, because it is not thread
safe (it keeps internal state like file position). To allow concurrent
use, every DataInput instance must be cloned before used in another
goroutine. Implementations therefore provide Clone() where it makes
sense, returning a new DataInput which operates on the same underlying
resource, but positioned independently.
*/
type DataInput interface {
	DataReader
	ReadShort() (n int16, err error)
	ReadInt() (n int32, err error)
	ReadVInt() (n int32, err error)
	ReadLong() (n int64, err error)
	ReadVLong() (n int64, err error)
	ReadString() (s string, err error)
	// Skips over n bytes, reading them if necessary.
	SkipBytes(n int64) error
}

type DataReader interface {
	/* Reads and returns a single byte.	*/
	ReadByte() (b byte, err error)
	/* Reads len(buf) bytes into buf. */
	ReadBytes(buf []byte) error
}

const SKIP_BUFFER_SIZE = 1024

var (
	ErrInvalidVInt  = errors.New("Invalid vInt detected (too many bits)")
	ErrInvalidVLong = errors.New("Invalid vLong detected (negative values disallowed)")
)

type DataInputImpl struct {
	Reader DataReader
	// This buffer is used to skip over bytes with the default
	// implementation of SkipBytes. Delegating implementations might
	// reuse the provided buffer to e.g. update a checksum, so it is
	// never shared across inputs.
	skipBuffer []byte
}

func NewDataInput(spi DataReader) *DataInputImpl {
	assert(spi != nil)
	return &DataInputImpl{Reader: spi}
}

func (in *DataInputImpl) ReadByte() (byte, error) {
	return in.Reader.ReadByte()
}

func (in *DataInputImpl) ReadBytes(buf []byte) error {
	return in.Reader.ReadBytes(buf)
}

func (in *DataInputImpl) ReadShort() (int16, error) {
	b1, err := in.Reader.ReadByte()
	if err != nil {
		return 0, err
	}
	b2, err := in.Reader.ReadByte()
	if err != nil {
		return 0, err
	}
	return (int16(b1) << 8) | int16(b2), nil
}

func (in *DataInputImpl) ReadInt() (int32, error) {
	var n int32
	for i := 0; i < 4; i++ {
		b, err := in.Reader.ReadByte()
		if err != nil {
			return 0, err
		}
		n = (n << 8) | int32(b)
	}
	return n, nil
}

func (in *DataInputImpl) ReadVInt() (int32, error) {
	var n int32
	for shift := uint(0); shift < 28; shift += 7 {
		b, err := in.Reader.ReadByte()
		if err != nil {
			return 0, err
		}
		n |= (int32(b) & 0x7F) << shift
		if b < 128 {
			return n, nil
		}
	}
	b, err := in.Reader.ReadByte()
	if err != nil {
		return 0, err
	}
	// Warning: the next ands use 0x0F / 0xF0 - beware copy/paste errors:
	n |= (int32(b) & 0x0F) << 28
	if b&0xF0 == 0 {
		return n, nil
	}
	return 0, ErrInvalidVInt
}

func (in *DataInputImpl) ReadLong() (int64, error) {
	d1, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	d2, err := in.ReadInt()
	if err != nil {
		return 0, err
	}
	return (int64(d1) << 32) | int64(d2)&0xFFFFFFFF, nil
}

func (in *DataInputImpl) ReadVLong() (int64, error) {
	var n int64
	for shift := uint(0); shift <= 56; shift += 7 {
		b, err := in.Reader.ReadByte()
		if err != nil {
			return 0, err
		}
		n |= int64(b&0x7F) << shift
		if b < 128 {
			return n, nil
		}
	}
	return 0, ErrInvalidVLong
}

func (in *DataInputImpl) ReadString() (string, error) {
	length, err := in.ReadVInt()
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", ErrInvalidVInt
	}
	bytes := make([]byte, length)
	if err = in.Reader.ReadBytes(bytes); err != nil {
		return "", err
	}
	return string(bytes), nil
}

/*
Skip over numBytes bytes. The contract on this method is that it
should have the same behavior as reading the same number of bytes into
a buffer and discarding its content. Negative values of numBytes are
not supported.
*/
func (in *DataInputImpl) SkipBytes(numBytes int64) error {
	if numBytes < 0 {
		return errors.New("numBytes must be >= 0")
	}
	if in.skipBuffer == nil {
		in.skipBuffer = make([]byte, SKIP_BUFFER_SIZE)
	}
	for skipped := int64(0); skipped < numBytes; {
		step := int(numBytes - skipped)
		if step > SKIP_BUFFER_SIZE {
			step = SKIP_BUFFER_SIZE
		}
		if err := in.Reader.ReadBytes(in.skipBuffer[:step]); err != nil {
			return err
		}
		skipped += int64(step)
	}
	return nil
}
