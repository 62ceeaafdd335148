package store

import (
	"errors"
	"fmt"
	"hash"
	"hash/crc32"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

// store/ChecksumIndexInput.java

/*
Extension of IndexInput, computing checksum as it goes. Callers can
retrieve the checksum via Checksum().
*/
type ChecksumIndexInput interface {
	IndexInput
	// Returns the current checksum value
	Checksum() int64
}

// store/BufferedChecksumIndexInput.java

/*
Simple implementation of ChecksumIndexInput that wraps another input
and delegates calls.
*/
type BufferedChecksumIndexInput struct {
	*util.DataInputImpl
	main   IndexInput
	digest hash.Hash32
}

func NewBufferedChecksumIndexInput(main IndexInput) *BufferedChecksumIndexInput {
	ans := &BufferedChecksumIndexInput{
		main:   main,
		digest: newBufferedChecksum(crc32.NewIEEE()),
	}
	ans.DataInputImpl = util.NewDataInput(ans)
	return ans
}

func (in *BufferedChecksumIndexInput) ReadByte() (b byte, err error) {
	if b, err = in.main.ReadByte(); err == nil {
		in.digest.Write([]byte{b})
	}
	return
}

func (in *BufferedChecksumIndexInput) ReadBytes(p []byte) (err error) {
	if err = in.main.ReadBytes(p); err == nil {
		in.digest.Write(p)
	}
	return
}

func (in *BufferedChecksumIndexInput) Checksum() int64 {
	return int64(in.digest.Sum32())
}

func (in *BufferedChecksumIndexInput) Close() error {
	return in.main.Close()
}

func (in *BufferedChecksumIndexInput) FilePointer() int64 {
	return in.main.FilePointer()
}

/*
Only forward seeks are supported: the skipped bytes are read so that
they are part of the checksum.
*/
func (in *BufferedChecksumIndexInput) Seek(pos int64) error {
	skip := pos - in.FilePointer()
	if skip < 0 {
		return errors.New(fmt.Sprintf("%v cannot seek backwards", in))
	}
	return in.DataInputImpl.SkipBytes(skip)
}

func (in *BufferedChecksumIndexInput) SkipBytes(n int64) error {
	return in.DataInputImpl.SkipBytes(n)
}

func (in *BufferedChecksumIndexInput) Length() int64 {
	return in.main.Length()
}

func (in *BufferedChecksumIndexInput) Clone() IndexInput {
	panic("not supported")
}

func (in *BufferedChecksumIndexInput) String() string {
	return fmt.Sprintf("BufferedChecksumIndexInput(%v)", in.main)
}
