package packed

import (
	"fmt"
	"io"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

// util/packed/AbstractBlockPackedWriter.java

const (
	MIN_BLOCK_SIZE     = 64
	MAX_BLOCK_SIZE     = 1 << (30 - 3)
	MIN_VALUE_EQUALS_0 = 1 << 0
	BPV_SHIFT          = 1
)

func checkBlockSize(blockSize, minBlockSize, maxBlockSize int) int {
	assert2(blockSize >= minBlockSize && blockSize <= maxBlockSize,
		"blockSize must be >= %v and <= %v, got %v", minBlockSize, maxBlockSize, blockSize)
	assert2(blockSize&(blockSize-1) == 0, "blockSIze must be a power of two, got %v", blockSize)
	n := 0
	for 1<<uint(n) < blockSize {
		n++
	}
	return n
}

// same as DataOutput.WriteVLong but accepts negative values
func writeVLong(out util.DataWriter, i int64) error {
	k := 0
	for (i & ^0x7F) != 0 && k < 8 {
		if err := out.WriteByte(byte((i & 0x7F) | 0x80)); err != nil {
			return err
		}
		i = int64(uint64(i) >> 7)
		k++
	}
	return out.WriteByte(byte(i))
}

/*
A writer for large sequences of longs.

The sequence is divided into fixed-size blocks and for each block, the
difference between each value and the minimum value of the block is
encoded using as few bits as possible. Memory usage of this class is
proportional to the block size. Each block has an overhead between 1
and 10 bytes to store the minimum value and the number of bits per
value of the block.

Format:

	BlockPackedIntsBlock --> Token, <MinValue>, <Values>
	Token --> byte: (bitsPerValue << 1) | (MinValue == 0 ? 1 : 0)
	MinValue --> vlong of zigZag(MinValue) - 1, absent when 0
	Values --> PACKED ints of bitsPerValue bits, absent when 0
*/
type BlockPackedWriter struct {
	out      util.DataWriter
	values   []int64
	off      int
	ord      int64
	finished bool
}

func NewBlockPackedWriter(out util.DataWriter, blockSize int) *BlockPackedWriter {
	checkBlockSize(blockSize, MIN_BLOCK_SIZE, MAX_BLOCK_SIZE)
	return &BlockPackedWriter{
		out:    out,
		values: make([]int64, blockSize),
	}
}

// Reset this writer to wrap out. The block size remains unchanged.
func (w *BlockPackedWriter) Reset(out util.DataWriter) {
	assert(out != nil)
	w.out = out
	w.off = 0
	w.ord = 0
	w.finished = false
}

// Append a new long.
func (w *BlockPackedWriter) Add(l int64) error {
	assert2(!w.finished, "Already finished")
	if w.off == len(w.values) {
		if err := w.flush(); err != nil {
			return err
		}
	}
	w.values[w.off] = l
	w.off++
	w.ord++
	return nil
}

/*
Flush all buffered data to disk. This instance is not usable anymore
after this method has been called until Reset() has been called.
*/
func (w *BlockPackedWriter) Finish() error {
	assert2(!w.finished, "Already finished")
	if w.off > 0 {
		if err := w.flush(); err != nil {
			return err
		}
	}
	w.finished = true
	return nil
}

// Return the number of values which have been added.
func (w *BlockPackedWriter) Ord() int64 { return w.ord }

func (w *BlockPackedWriter) flush() error {
	assert(w.off > 0)
	min, max := w.values[0], w.values[0]
	for _, v := range w.values[1:w.off] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	delta := max - min
	bitsRequired := 0
	if delta != 0 {
		bitsRequired = UnsignedBitsRequired(delta)
	}
	if bitsRequired == 64 {
		// no need to delta-encode
		min = 0
	} else if min > 0 {
		// make min as small as possible so that writeVLong requires fewer bytes
		if m := max - MaxValue(bitsRequired); m > 0 {
			min = m
		} else {
			min = 0
		}
	}

	token := byte(bitsRequired << BPV_SHIFT)
	if min == 0 {
		token |= MIN_VALUE_EQUALS_0
	}
	if err := w.out.WriteByte(token); err != nil {
		return err
	}

	if min != 0 {
		if err := writeVLong(w.out, util.ZigZagEncodeLong(min)-1); err != nil {
			return err
		}
	}

	if bitsRequired > 0 {
		pw := WriterNoHeader(w.out, w.off, bitsRequired)
		for _, v := range w.values[:w.off] {
			if err := pw.Add(v - min); err != nil {
				return err
			}
		}
		if err := pw.Finish(); err != nil {
			return err
		}
	}

	w.off = 0
	return nil
}

// util/packed/BlockPackedReaderIterator.java

/*
Reader for sequences of longs written with BlockPackedWriter.
*/
type BlockPackedReaderIterator struct {
	in                util.DataInput
	packedIntsVersion int
	valueCount        int64
	blockSize         int
	values            []int64
	valuesLen         int
	off               int
	ord               int64
}

func NewBlockPackedReaderIterator(in util.DataInput, packedIntsVersion, blockSize int, valueCount int64) *BlockPackedReaderIterator {
	checkBlockSize(blockSize, MIN_BLOCK_SIZE, MAX_BLOCK_SIZE)
	it := &BlockPackedReaderIterator{
		packedIntsVersion: packedIntsVersion,
		blockSize:         blockSize,
		values:            make([]int64, blockSize),
	}
	it.Reset(in, valueCount)
	return it
}

// Reset the current reader to wrap a stream of valueCount values
// contained in in. The block size remains unchanged.
func (it *BlockPackedReaderIterator) Reset(in util.DataInput, valueCount int64) {
	it.in = in
	assert(valueCount >= 0)
	it.valueCount = valueCount
	it.off = 0
	it.valuesLen = 0
	it.ord = 0
}

// Skip exactly count values.
func (it *BlockPackedReaderIterator) Skip(count int64) error {
	assert(count >= 0)
	if it.ord+count > it.valueCount || it.ord+count < 0 {
		return io.EOF
	}

	// 1. skip buffered values
	skipBuffer := int64(it.valuesLen - it.off)
	if skipBuffer > count {
		skipBuffer = count
	}
	it.off += int(skipBuffer)
	it.ord += skipBuffer
	count -= skipBuffer
	if count == 0 {
		return nil
	}

	// 2. skip as many blocks as necessary
	assert(it.off == it.valuesLen)
	for count >= int64(it.blockSize) {
		token, err := it.in.ReadByte()
		if err != nil {
			return err
		}
		bitsPerValue := int(token >> BPV_SHIFT)
		if bitsPerValue > 64 {
			return fmt.Errorf("Corrupted: bitsPerValue=%v", bitsPerValue)
		}
		if token&MIN_VALUE_EQUALS_0 == 0 {
			if _, err = readVLong(it.in); err != nil {
				return err
			}
		}
		blockBytes := ByteCount(it.packedIntsVersion, it.blockSize, bitsPerValue)
		if err = it.in.SkipBytes(blockBytes); err != nil {
			return err
		}
		it.ord += int64(it.blockSize)
		count -= int64(it.blockSize)
	}
	if count == 0 {
		return nil
	}

	// 3. skip last values
	assert(count < int64(it.blockSize))
	if err := it.refill(); err != nil {
		return err
	}
	it.ord += count
	it.off += int(count)
	return nil
}

// Read the next value.
func (it *BlockPackedReaderIterator) Next() (int64, error) {
	if it.ord == it.valueCount {
		return 0, io.EOF
	}
	if it.off == it.valuesLen {
		if err := it.refill(); err != nil {
			return 0, err
		}
	}
	value := it.values[it.off]
	it.off++
	it.ord++
	return value, nil
}

func (it *BlockPackedReaderIterator) refill() error {
	token, err := it.in.ReadByte()
	if err != nil {
		return err
	}
	minEquals0 := token&MIN_VALUE_EQUALS_0 != 0
	bitsPerValue := int(token >> BPV_SHIFT)
	if bitsPerValue > 64 {
		return fmt.Errorf("Corrupted: bitsPerValue=%v", bitsPerValue)
	}
	var minValue int64
	if !minEquals0 {
		v, err := readVLong(it.in)
		if err != nil {
			return err
		}
		minValue = util.ZigZagDecodeLong(1 + v)
	}
	assert(minEquals0 || minValue != 0)

	n := it.valueCount - it.ord
	if n > int64(it.blockSize) {
		n = int64(it.blockSize)
	}
	it.valuesLen = int(n)
	if bitsPerValue == 0 {
		for i := 0; i < it.valuesLen; i++ {
			it.values[i] = minValue
		}
	} else {
		r, err := NewReaderNoHeader(it.in, it.packedIntsVersion, it.valuesLen, bitsPerValue)
		if err != nil {
			return err
		}
		for i := 0; i < it.valuesLen; i++ {
			it.values[i] = minValue + r.Get(i)
		}
	}
	it.off = 0
	return nil
}

// Return the offset of the next value to read.
func (it *BlockPackedReaderIterator) Ord() int64 { return it.ord }

func readVLong(in util.DataInput) (int64, error) {
	var i int64
	for shift := uint(0); shift < 56; shift += 7 {
		b, err := in.ReadByte()
		if err != nil {
			return 0, err
		}
		i |= int64(b&0x7F) << shift
		if b&0x80 == 0 {
			return i, nil
		}
	}
	b, err := in.ReadByte()
	if err != nil {
		return 0, err
	}
	return i | int64(b)<<56, nil
}
