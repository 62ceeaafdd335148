package packed

import (
	"io"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

// util/packed/PackedReaderIterator.java

type PackedReaderIterator struct {
	in           util.DataInput
	valueCount   int
	bitsPerValue int
	totalBytes   int64
	bytesRead    int64
	cur          byte
	curBits      uint
	ord          int
}

/*
Expert: Returns a ReaderIterator for the given stream, without reading
a header. Bytes are consumed lazily, and the whole ByteCount() bytes
are consumed once the last value has been read.
*/
func NewReaderIteratorNoHeader(in util.DataInput, version, valueCount, bitsPerValue int) (*PackedReaderIterator, error) {
	if err := CheckVersion(version); err != nil {
		return nil, err
	}
	assert2(bitsPerValue >= 0 && bitsPerValue <= 64, "bitsPerValue=%v", bitsPerValue)
	return &PackedReaderIterator{
		in:           in,
		valueCount:   valueCount,
		bitsPerValue: bitsPerValue,
		totalBytes:   ByteCount(version, valueCount, bitsPerValue),
		ord:          -1,
	}, nil
}

func (it *PackedReaderIterator) Next() (int64, error) {
	if it.ord+1 >= it.valueCount {
		return 0, io.EOF
	}
	var v uint64
	for remaining := uint(it.bitsPerValue); remaining > 0; {
		if it.curBits == 0 {
			b, err := it.in.ReadByte()
			if err != nil {
				return 0, err
			}
			it.bytesRead++
			it.cur, it.curBits = b, 8
		}
		n := it.curBits
		if remaining < n {
			n = remaining
		}
		v = v<<n | (uint64(it.cur)>>(it.curBits-n))&(1<<n-1)
		it.curBits -= n
		remaining -= n
	}
	it.ord++
	if it.ord == it.valueCount-1 && it.bytesRead < it.totalBytes {
		if err := it.in.SkipBytes(it.totalBytes - it.bytesRead); err != nil {
			return 0, err
		}
		it.bytesRead = it.totalBytes
	}
	return int64(v), nil
}

func (it *PackedReaderIterator) BitsPerValue() int { return it.bitsPerValue }
func (it *PackedReaderIterator) Size() int         { return it.valueCount }
func (it *PackedReaderIterator) Ord() int          { return it.ord }
