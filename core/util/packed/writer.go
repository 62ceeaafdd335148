package packed

import (
	"errors"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

// util/packed/PackedWriter.java

/* A write-once Writer. */
type Writer interface {
	// Add a value to the stream.
	Add(v int64) error
	// The number of bits per value.
	BitsPerValue() int
	// Perform end-of-stream operations.
	Finish() error
	// Returns the current ord in the stream (number of values that have
	// been written so far minus one).
	Ord() int
}

var ErrWriterFull = errors.New("Writeing past end of stream")

/*
PackedWriter packs values MSB first into a byte stream. Bytes are
buffered and flushed in batches of DEFAULT_BUFFER_SIZE.
*/
type PackedWriter struct {
	out          util.DataWriter
	valueCount   int
	bitsPerValue int
	version      int
	finished     bool
	blocks       []byte
	cur          byte
	curBits      uint
	written      int
	bytesWritten int64
}

const DEFAULT_BUFFER_SIZE = 1024 // 1K

/*
Expert: Create a packed integer array writer for the given output,
format, value count, and number of bits per value.

The resulting stream will be ByteCount(VERSION_CURRENT, valueCount,
bitsPerValue) bytes long and can be read with NewReaderNoHeader() or
NewReaderIteratorNoHeader().
*/
func WriterNoHeader(out util.DataWriter, valueCount, bitsPerValue int) *PackedWriter {
	assert2(bitsPerValue > 0 && bitsPerValue <= 64, "bitsPerValue=%v", bitsPerValue)
	assert2(valueCount >= 0, "valueCount=%v", valueCount)
	return &PackedWriter{
		out:          out,
		valueCount:   valueCount,
		bitsPerValue: bitsPerValue,
		version:      VERSION_CURRENT,
		blocks:       make([]byte, 0, DEFAULT_BUFFER_SIZE),
	}
}

func (w *PackedWriter) BitsPerValue() int { return w.bitsPerValue }

func (w *PackedWriter) Ord() int { return w.written - 1 }

func (w *PackedWriter) Add(v int64) error {
	assert2(UnsignedBitsRequired(v) <= w.bitsPerValue || w.bitsPerValue == 64,
		"value %v does not fit in %v bits", v, w.bitsPerValue)
	assert(!w.finished)
	if w.written >= w.valueCount {
		return ErrWriterFull
	}
	for remaining := uint(w.bitsPerValue); remaining > 0; {
		free := 8 - w.curBits
		n := free
		if remaining < n {
			n = remaining
		}
		bits := byte((uint64(v) >> (remaining - n)) & (1<<n - 1))
		w.cur |= bits << (free - n)
		w.curBits += n
		remaining -= n
		if w.curBits == 8 {
			if err := w.push(w.cur); err != nil {
				return err
			}
			w.cur, w.curBits = 0, 0
		}
	}
	w.written++
	return nil
}

func (w *PackedWriter) push(b byte) error {
	w.blocks = append(w.blocks, b)
	if len(w.blocks) == cap(w.blocks) {
		return w.flush()
	}
	return nil
}

func (w *PackedWriter) flush() error {
	if len(w.blocks) == 0 {
		return nil
	}
	err := w.out.WriteBytes(w.blocks)
	w.bytesWritten += int64(len(w.blocks))
	w.blocks = w.blocks[:0]
	return err
}

// Pads the stream with zeros up to valueCount values and flushes it.
func (w *PackedWriter) Finish() error {
	assert(!w.finished)
	for w.written < w.valueCount {
		if err := w.Add(0); err != nil {
			return err
		}
	}
	if w.curBits > 0 {
		if err := w.push(w.cur); err != nil {
			return err
		}
		w.cur, w.curBits = 0, 0
	}
	expected := ByteCount(w.version, w.valueCount, w.bitsPerValue)
	for w.bytesWritten+int64(len(w.blocks)) < expected {
		if err := w.push(0); err != nil {
			return err
		}
	}
	w.finished = true
	return w.flush()
}
