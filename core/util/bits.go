package util

import (
	"fmt"
	"math/bits"
)

// util/Bits.java

/* Interface for Bitset-like structures. */
type Bits interface {
	/*
		Returns the value of the bit with the specified index, which
		should be non-negative and less than Length().
	*/
	At(index int) bool
	// Returns the number of bits in the set
	Length() int
}

// util/MutableBits.java

/* Extension of Bits for live documents. */
type MutableBits interface {
	Bits
	// Sets the bit specified by index to false.
	Clear(index int)
}

// Bits impl of the specified length with all bits set.
type MatchAllBits int

func (b MatchAllBits) At(index int) bool { return true }
func (b MatchAllBits) Length() int       { return int(b) }

// util/FixedBitSet.java

/*
BitSet of fixed length (numBits), backed by accessible []int64,
accessed with an int index, implementing MutableBits. Unlike
OpenBitSet, this bit set does not auto-expand.
*/
type FixedBitSet struct {
	bits    []int64
	numBits int
}

// Returns the number of 64 bit words it would take to hold numBits
func Bits2Words(numBits int) int {
	numLong := int(uint(numBits) >> 6)
	if numBits&63 != 0 {
		numLong++
	}
	return numLong
}

func NewFixedBitSetOf(numBits int) *FixedBitSet {
	return &FixedBitSet{
		bits:    make([]int64, Bits2Words(numBits)),
		numBits: numBits,
	}
}

func (b *FixedBitSet) Length() int { return b.numBits }

func (b *FixedBitSet) At(index int) bool {
	assert2(index >= 0 && index < b.numBits, "index=%v, numBits=%v", index, b.numBits)
	return b.bits[index>>6]&(int64(1)<<uint(index&63)) != 0
}

func (b *FixedBitSet) Set(index int) {
	assert2(index >= 0 && index < b.numBits, "index=%v, numBits=%v", index, b.numBits)
	b.bits[index>>6] |= int64(1) << uint(index&63)
}

func (b *FixedBitSet) Clear(index int) {
	assert2(index >= 0 && index < b.numBits, "index=%v, numBits=%v", index, b.numBits)
	b.bits[index>>6] &= ^(int64(1) << uint(index&63))
}

// Sets bits in [startIndex, endIndex).
func (b *FixedBitSet) SetRange(startIndex, endIndex int) {
	for i := startIndex; i < endIndex; i++ {
		b.Set(i)
	}
}

/*
Returns number of set bits. NOTE: this visits every int64 in the
backing bits slice, and the result is not internaly cached!
*/
func (b *FixedBitSet) Cardinality() int {
	count := 0
	for _, w := range b.bits {
		count += bits.OnesCount64(uint64(w))
	}
	return count
}

func (b *FixedBitSet) String() string {
	return fmt.Sprintf("FixedBitSet(numBits=%v, cardinality=%v)", b.numBits, b.Cardinality())
}
