package packed

import (
	"fmt"
	"math"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

// util/packed/PackedInts.java

/*
Simplistic compression for arrays of unsigned int64 values. Each value
is >= 0 and <= a specified maximum value. The values are stored as
packed ints, with each value consuming a fixed number of bits.

Only the PACKED format is supported: values are laid out as one big
endian bit stream, most significant bit first.
*/

const (
	VERSION_START                    = 0
	VERSION_BYTE_ALIGNED             = 1
	VERSION_MONOTONIC_WITHOUT_ZIGZAG = 2
	VERSION_CURRENT                  = VERSION_MONOTONIC_WITHOUT_ZIGZAG
)

// Check the validity of a version number
func CheckVersion(version int) error {
	if version < VERSION_START {
		return fmt.Errorf("Version is too old, should be at least %v (got %v)", VERSION_START, version)
	} else if version > VERSION_CURRENT {
		return fmt.Errorf("Version is too new, should be at most %v (got %v)", VERSION_CURRENT, version)
	}
	return nil
}

/*
Computes how many bytes are needed to store valueCount values of
bitsPerValue bits. Before VERSION_BYTE_ALIGNED, blocks were padded to
a multiple of 8 bytes.
*/
func ByteCount(packedIntsVersion, valueCount, bitsPerValue int) int64 {
	assert2(bitsPerValue >= 0 && bitsPerValue <= 64, "bitsPerValue=%v", bitsPerValue)
	totalBits := int64(valueCount) * int64(bitsPerValue)
	if packedIntsVersion < VERSION_BYTE_ALIGNED {
		return 8 * int64(math.Ceil(float64(totalBits)/64))
	}
	return (totalBits + 7) / 8
}

/*
Returns how many bits are required to hold values up to and including
maxValue.
NOTE: This method returns at least 1.
*/
func BitsRequired(maxValue int64) int {
	assert2(maxValue >= 0, "maxValue must be non-negative (got: %v)", maxValue)
	return UnsignedBitsRequired(maxValue)
}

/*
Returns how many bits are required to store bits, interpreted as an
unsigned value.
NOTE: This method returns at least 1.
*/
func UnsignedBitsRequired(bits int64) int {
	if bits == 0 {
		return 1
	}
	n := uint64(bits)
	ans := 0
	for n != 0 {
		n >>= 1
		ans++
	}
	return ans
}

// Calculate the maximum unsigned long that can be expressed with the given number of bits
func MaxValue(bitsPerValue int) int64 {
	if bitsPerValue == 64 {
		return math.MaxInt64
	}
	return (1 << uint64(bitsPerValue)) - 1
}

// A read-only random access array of positive integers.
type Reader interface {
	// Returns the value at the given index.
	Get(index int) int64
	// The number of values.
	Size() int
	// The number of bits used to store any given value.
	BitsPerValue() int
}

/* Run-once iterator interface, to decode previously saved PackedInts. */
type ReaderIterator interface {
	// Returns next value
	Next() (int64, error)
	// Returns number of bits per value
	BitsPerValue() int
	// Returns number of values
	Size() int
	// Returns the current position
	Ord() int
}

// Reads a single value of bitsPerValue bits at bit offset bitPos of blocks.
func readBits(blocks []byte, bitPos int64, bitsPerValue int) int64 {
	var v uint64
	for remaining := uint(bitsPerValue); remaining > 0; {
		b := blocks[bitPos>>3]
		avail := 8 - uint(bitPos&7)
		n := avail
		if remaining < n {
			n = remaining
		}
		v = v<<n | (uint64(b)>>(avail-n))&(1<<n-1)
		remaining -= n
		bitPos += int64(n)
	}
	return int64(v)
}

// PackedReader is a Reader backed by the raw PACKED bytes.
type PackedReader struct {
	blocks       []byte
	valueCount   int
	bitsPerValue int
}

func (r *PackedReader) Get(index int) int64 {
	assert2(index >= 0 && index < r.valueCount, "index=%v, size=%v", index, r.valueCount)
	if r.bitsPerValue == 0 {
		return 0
	}
	return readBits(r.blocks, int64(index)*int64(r.bitsPerValue), r.bitsPerValue)
}

func (r *PackedReader) Size() int         { return r.valueCount }
func (r *PackedReader) BitsPerValue() int { return r.bitsPerValue }

func (r *PackedReader) RamBytesUsed() int64 {
	return util.AlignObjectSize(util.NUM_BYTES_OBJECT_REF+2*util.NUM_BYTES_INT) + util.SizeOf(r.blocks)
}

/*
Expert: Restore a Reader from a stream without reading metadata at the
beginning of the stream. This method is useful to restore data from
streams which have been created using WriterNoHeader().
*/
func NewReaderNoHeader(in util.DataInput, version, valueCount, bitsPerValue int) (*PackedReader, error) {
	if err := CheckVersion(version); err != nil {
		return nil, err
	}
	if bitsPerValue < 0 || bitsPerValue > 64 {
		return nil, fmt.Errorf("bitsPerValue must be in [0, 64] (got %v)", bitsPerValue)
	}
	blocks := make([]byte, ByteCount(version, valueCount, bitsPerValue))
	if err := in.ReadBytes(blocks); err != nil {
		return nil, err
	}
	return &PackedReader{blocks, valueCount, bitsPerValue}, nil
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
