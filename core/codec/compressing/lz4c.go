package compressing

import (
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
)

type LZ4HashTable struct {
	hashLog   int
	hashTable *packed.Packed64
}

func (h *LZ4HashTable) reset(length int) {
	bitsPerOffset := packed.BitsRequired(int64(length - LAST_LITERALS))
	bitsPerOffsetLog := ceilLog2(bitsPerOffset)
	h.hashLog = MEMORY_USAGE + 3 - bitsPerOffsetLog
	assert(h.hashLog > 0)
	if h.hashTable == nil || h.hashTable.Size() < 1<<uint(h.hashLog) || h.hashTable.BitsPerValue() < bitsPerOffset {
		h.hashTable = packed.NewMutable(1<<uint(h.hashLog), bitsPerOffset)
	} else {
		h.hashTable.Clear()
	}
}

func ceilLog2(n int) int {
	ans := 0
	for 1<<uint(ans) < n {
		ans++
	}
	return ans
}

/*
Compress bytes into out using at most 16KB of memory. ht shouldn't be
shared across threads but can safely be reused.
*/
func LZ4Compress(bytes []byte, out util.DataOutput, ht *LZ4HashTable) error {
	offset, length := 0, len(bytes)
	base, end := offset, offset+length

	anchor := offset
	offset++

	if length > LAST_LITERALS+MIN_MATCH {
		limit := end - LAST_LITERALS
		matchLimit := limit - MIN_MATCH
		ht.reset(length)
		hashLog := uint(ht.hashLog)
		hashTable := ht.hashTable

	main:
		for offset <= limit {
			// find a match
			var ref int
			for {
				if offset >= matchLimit {
					break main
				}
				v := readInt(bytes, offset)
				h := hash(v, hashLog)
				ref = base + int(hashTable.Get(h))
				assert(packed.BitsRequired(int64(offset-base)) <= hashTable.BitsPerValue())
				hashTable.Set(h, int64(offset-base))
				if offset-ref < MAX_DISTANCE && readInt(bytes, ref) == v {
					break
				}
				offset++
			}

			// compute match length
			matchLen := MIN_MATCH + commonBytes(bytes, ref+MIN_MATCH, offset+MIN_MATCH, limit)

			if err := encodeSequence(bytes, anchor, ref, offset, matchLen, out); err != nil {
				return err
			}
			offset += matchLen
			anchor = offset
		}
	}

	// last literals
	literalLen := end - anchor
	assert(literalLen >= LAST_LITERALS || literalLen == length)
	return encodeLastLiterals(bytes, anchor, literalLen, out)
}

type lz4FastCompressor struct {
	ht *LZ4HashTable
}

func (c *lz4FastCompressor) Compress(bytes []byte, out util.DataOutput) error {
	return LZ4Compress(bytes, out, c.ht)
}
