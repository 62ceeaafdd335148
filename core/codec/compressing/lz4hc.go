package compressing

import (
	"github.com/balzaczyy/golucene-compressing/core/util"
)

type lz4Match struct {
	start, ref, len int
}

func (m *lz4Match) fix(correction int) {
	m.start += correction
	m.ref += correction
	m.len -= correction
}

func (m *lz4Match) end() int {
	return m.start + m.len
}

const (
	MAX_ATTEMPTS = 256
	MASK         = MAX_DISTANCE - 1
)

type LZ4HCHashTable struct {
	nextToUpdate int
	base         int
	hashTable    []int
	chainTable   []uint16
}

func (h *LZ4HCHashTable) reset(base int) {
	h.base = base
	h.nextToUpdate = base
	if h.hashTable == nil {
		h.hashTable = make([]int, HASH_TABLE_SIZE_HC)
		h.chainTable = make([]uint16, MAX_DISTANCE)
	}
	for i := range h.hashTable {
		h.hashTable[i] = -1
	}
	for i := range h.chainTable {
		h.chainTable[i] = 0
	}
}

func (h *LZ4HCHashTable) hashPointer(bytes []byte, off int) int {
	return h.hashTable[hashHC(readInt(bytes, off))]
}

func (h *LZ4HCHashTable) next(off int) int {
	return off - int(h.chainTable[off&MASK])
}

func (h *LZ4HCHashTable) addHash(bytes []byte, off int) {
	v := readInt(bytes, off)
	hashV := hashHC(v)
	delta := off - h.hashTable[hashV]
	assert(delta > 0)
	if delta >= MAX_DISTANCE {
		delta = MAX_DISTANCE - 1
	}
	h.chainTable[off&MASK] = uint16(delta)
	h.hashTable[hashV] = off
}

func (h *LZ4HCHashTable) insert(off int, bytes []byte) {
	for ; h.nextToUpdate < off; h.nextToUpdate++ {
		h.addHash(bytes, h.nextToUpdate)
	}
}

func (h *LZ4HCHashTable) insertAndFindBestMatch(buf []byte, off, matchLimit int, match *lz4Match) bool {
	match.start = off
	match.len = 0
	delta, repl := 0, 0

	h.insert(off, buf)

	ref := h.hashPointer(buf, off)

	if ref >= off-4 && ref <= off && ref >= h.base { // potential repetition
		if readIntEquals(buf, ref, off) { // confirmed
			delta = off - ref
			match.len = MIN_MATCH + commonBytes(buf, ref+MIN_MATCH, off+MIN_MATCH, matchLimit)
			repl = match.len
			match.ref = ref
		}
		ref = h.next(ref)
	}

	for i := 0; i < MAX_ATTEMPTS; i++ {
		if ref < maxInt(h.base, off-MAX_DISTANCE+1) || ref > off {
			break
		}
		if buf[ref+match.len] == buf[off+match.len] && readIntEquals(buf, ref, off) {
			matchLen := MIN_MATCH + commonBytes(buf, ref+MIN_MATCH, off+MIN_MATCH, matchLimit)
			if matchLen > match.len {
				match.ref = ref
				match.len = matchLen
			}
		}
		ref = h.next(ref)
	}

	if repl != 0 {
		ptr := off
		end := off + repl - (MIN_MATCH - 1)
		for ptr < end-delta {
			h.chainTable[ptr&MASK] = uint16(delta) // pre load
			ptr++
		}
		for {
			h.chainTable[ptr&MASK] = uint16(delta)
			h.hashTable[hashHC(readInt(buf, ptr))] = ptr
			ptr++
			if ptr >= end {
				break
			}
		}
		h.nextToUpdate = end
	}

	return match.len != 0
}

func (h *LZ4HCHashTable) insertAndFindWiderMatch(buf []byte, off, startLimit, matchLimit, minLen int, match *lz4Match) bool {
	match.len = minLen

	h.insert(off, buf)

	delta := off - startLimit
	ref := h.hashPointer(buf, off)
	for i := 0; i < MAX_ATTEMPTS; i++ {
		if ref < maxInt(h.base, off-MAX_DISTANCE+1) || ref > off {
			break
		}
		if buf[ref-delta+match.len] == buf[startLimit+match.len] && readIntEquals(buf, ref, off) {
			matchLenForward := MIN_MATCH + commonBytes(buf, ref+MIN_MATCH, off+MIN_MATCH, matchLimit)
			matchLenBackward := commonBytesBackward(buf, ref, off, h.base, startLimit)
			matchLen := matchLenBackward + matchLenForward
			if matchLen > match.len {
				match.len = matchLen
				match.ref = ref - matchLenBackward
				match.start = off - matchLenBackward
			}
		}
		ref = h.next(ref)
	}

	return match.len > minLen
}

/*
Compress bytes into out. This compression method is much slower than
LZ4Compress but its output is smaller. The decompression speed is the
same. ht shouldn't be shared across threads but can safely be reused.
*/
func LZ4CompressHC(src []byte, out util.DataOutput, ht *LZ4HCHashTable) (err error) {
	srcOff, srcEnd := 0, len(src)
	matchLimit := srcEnd - LAST_LITERALS
	mfLimit := matchLimit - MIN_MATCH

	sOff := srcOff
	anchor := sOff
	sOff++

	ht.reset(srcOff)
	var match0, match1, match2, match3 lz4Match

main:
	for sOff <= mfLimit {
		if !ht.insertAndFindBestMatch(src, sOff, matchLimit, &match1) {
			sOff++
			continue
		}

		// saved, in case we would skip too much
		match0 = match1

	search2:
		for {
			assert(match1.start >= anchor)
			if match1.end() >= mfLimit ||
				!ht.insertAndFindWiderMatch(src, match1.end()-2, match1.start+1, matchLimit, match1.len, &match2) {
				// no better match
				if err = encodeSequence(src, anchor, match1.ref, match1.start, match1.len, out); err != nil {
					return
				}
				sOff = match1.end()
				anchor = sOff
				continue main
			}

			if match0.start < match1.start {
				if match2.start < match1.start+match0.len { // empirical
					match1 = match0
				}
			}
			assert(match2.start > match1.start)

			if match2.start-match1.start < 3 { // first match too small: removed
				match1 = match2
				continue search2
			}

			for {
				if match2.start-match1.start < OPTIMAL_ML {
					newMatchLen := match1.len
					if newMatchLen > OPTIMAL_ML {
						newMatchLen = OPTIMAL_ML
					}
					if match1.start+newMatchLen > match2.end()-MIN_MATCH {
						newMatchLen = match2.start - match1.start + match2.len - MIN_MATCH
					}
					if correction := newMatchLen - (match2.start - match1.start); correction > 0 {
						match2.fix(correction)
					}
				}

				if match2.start+match2.len >= mfLimit ||
					!ht.insertAndFindWiderMatch(src, match2.end()-3, match2.start, matchLimit, match2.len, &match3) {
					// no better match -> 2 sequences to encode
					if match2.start < match1.end() {
						match1.len = match2.start - match1.start
					}
					if err = encodeSequence(src, anchor, match1.ref, match1.start, match1.len, out); err != nil {
						return
					}
					anchor = match1.end()
					if err = encodeSequence(src, anchor, match2.ref, match2.start, match2.len, out); err != nil {
						return
					}
					sOff = match2.end()
					anchor = sOff
					continue main
				}

				if match3.start < match1.end()+3 { // not enough space for match 2: remove it
					if match3.start >= match1.end() { // seq2 is removed, so seq3 becomes seq1
						if match2.start < match1.end() {
							match2.fix(match1.end() - match2.start)
							if match2.len < MIN_MATCH {
								match2 = match3
							}
						}

						if err = encodeSequence(src, anchor, match1.ref, match1.start, match1.len, out); err != nil {
							return
						}
						sOff = match1.end()
						anchor = sOff

						match1 = match3
						match0 = match2

						continue search2
					}

					match2 = match3
					continue
				}

				// 3 ascending matches; write at least the first one
				if match2.start < match1.end() {
					if match2.start-match1.start < 0x0F {
						if match1.len > OPTIMAL_ML {
							match1.len = OPTIMAL_ML
						}
						if match1.end() > match2.end()-MIN_MATCH {
							match1.len = match2.end() - match1.start - MIN_MATCH
						}
						match2.fix(match1.end() - match2.start)
					} else {
						match1.len = match2.start - match1.start
					}
				}

				if err = encodeSequence(src, anchor, match1.ref, match1.start, match1.len, out); err != nil {
					return
				}
				sOff = match1.end()
				anchor = sOff

				match1 = match2
				match2 = match3
			}
		}
	}

	return encodeLastLiterals(src, anchor, srcEnd-anchor, out)
}

type lz4HighCompressor struct {
	ht *LZ4HCHashTable
}

func (c *lz4HighCompressor) Compress(bytes []byte, out util.DataOutput) error {
	return LZ4CompressHC(bytes, out, c.ht)
}
