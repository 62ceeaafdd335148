package store

import (
	"hash"
)

// store/BufferedChecksum.java

const CHECKSUM_BUFFER_SIZE = 256

/*
hash.Hash32 that batches the single-byte writes of a checksum input
before handing them to the wrapped digest.
*/
type BufferedChecksum struct {
	hash.Hash32
	pending []byte
}

func newBufferedChecksum(in hash.Hash32) *BufferedChecksum {
	return &BufferedChecksum{
		Hash32:  in,
		pending: make([]byte, 0, CHECKSUM_BUFFER_SIZE),
	}
}

func (bc *BufferedChecksum) Write(p []byte) (int, error) {
	if len(bc.pending)+len(p) > cap(bc.pending) {
		bc.flush()
	}
	if len(p) >= cap(bc.pending) {
		return bc.Hash32.Write(p)
	}
	bc.pending = append(bc.pending, p...)
	return len(p), nil
}

func (bc *BufferedChecksum) Sum32() uint32 {
	bc.flush()
	return bc.Hash32.Sum32()
}

func (bc *BufferedChecksum) Sum(b []byte) []byte {
	bc.flush()
	return bc.Hash32.Sum(b)
}

func (bc *BufferedChecksum) Reset() {
	bc.pending = bc.pending[:0]
	bc.Hash32.Reset()
}

func (bc *BufferedChecksum) flush() {
	if len(bc.pending) > 0 {
		bc.Hash32.Write(bc.pending)
		bc.pending = bc.pending[:0]
	}
}
