package packed

import (
	"github.com/balzaczyy/golucene-compressing/core/util"
)

// util/packed/Packed64.java

/* A packed integer array that can be modified. */
type Mutable interface {
	Reader
	// Set the value at the given index in the array.
	Set(index int, value int64)
	// Sets all values to 0.
	Clear()
}

/*
Space optimized random access capable array of values with a fixed
number of bits per value. Values are packed contiguously in []uint64
blocks, most significant bits first.
*/
type Packed64 struct {
	blocks       []uint64
	valueCount   int
	bitsPerValue int
	maskRight    uint64
}

func NewMutable(valueCount, bitsPerValue int) *Packed64 {
	assert2(bitsPerValue > 0 && bitsPerValue <= 64, "bitsPerValue=%v", bitsPerValue)
	longCount := (int64(valueCount)*int64(bitsPerValue) + 63) / 64
	return &Packed64{
		blocks:       make([]uint64, longCount),
		valueCount:   valueCount,
		bitsPerValue: bitsPerValue,
		maskRight:    ^uint64(0) >> uint(64-bitsPerValue),
	}
}

func (p *Packed64) Get(index int) int64 {
	majorBitPos := int64(index) * int64(p.bitsPerValue)
	elementPos := majorBitPos >> 6
	// bits remaining to the right of the value in its first block
	endBits := (majorBitPos & 63) + int64(p.bitsPerValue) - 64
	if endBits <= 0 { // single block
		return int64((p.blocks[elementPos] >> uint(-endBits)) & p.maskRight)
	}
	// two blocks
	return int64(((p.blocks[elementPos] << uint(endBits)) |
		(p.blocks[elementPos+1] >> uint(64-endBits))) & p.maskRight)
}

func (p *Packed64) Set(index int, value int64) {
	v := uint64(value) & p.maskRight
	majorBitPos := int64(index) * int64(p.bitsPerValue)
	elementPos := majorBitPos >> 6
	endBits := (majorBitPos & 63) + int64(p.bitsPerValue) - 64
	if endBits <= 0 { // single block
		shift := uint(-endBits)
		p.blocks[elementPos] = p.blocks[elementPos]&^(p.maskRight<<shift) | v<<shift
		return
	}
	// two blocks
	p.blocks[elementPos] = p.blocks[elementPos]&^(p.maskRight>>uint(endBits)) | v>>uint(endBits)
	shift := uint(64 - endBits)
	p.blocks[elementPos+1] = p.blocks[elementPos+1]&(^uint64(0)>>uint(endBits)) | v<<shift
}

func (p *Packed64) Clear() {
	for i := range p.blocks {
		p.blocks[i] = 0
	}
}

func (p *Packed64) Size() int         { return p.valueCount }
func (p *Packed64) BitsPerValue() int { return p.bitsPerValue }

func (p *Packed64) RamBytesUsed() int64 {
	return util.AlignObjectSize(util.NUM_BYTES_OBJECT_REF+3*util.NUM_BYTES_INT) +
		util.AlignObjectSize(util.NUM_BYTES_ARRAY_HEADER+8*int64(len(p.blocks)))
}
