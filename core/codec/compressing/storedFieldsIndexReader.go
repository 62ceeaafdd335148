package compressing

import (
	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
)

// codec/compressing/CompressingStoredFieldsIndexReader.java

/*
Random-access reader for StoredFieldsIndexWriter. The whole index is
loaded in memory on open and never modified afterwards, so that it
can be shared by all clones of a fields reader.
*/
type StoredFieldsIndexReader struct {
	maxDoc              int
	docBases            []int
	startPointers       []int64
	avgChunkDocs        []int
	avgChunkSizes       []int64
	docBasesDeltas      []*packed.PackedReader
	startPointersDeltas []*packed.PackedReader
}

func NewStoredFieldsIndexReader(fieldsIndexIn store.IndexInput, si *model.SegmentInfo) (r *StoredFieldsIndexReader, err error) {
	r = &StoredFieldsIndexReader{
		maxDoc:              si.DocCount(),
		docBases:            make([]int, 0, 16),
		startPointers:       make([]int64, 0, 16),
		avgChunkDocs:        make([]int, 0, 16),
		avgChunkSizes:       make([]int64, 0, 16),
		docBasesDeltas:      make([]*packed.PackedReader, 0, 16),
		startPointersDeltas: make([]*packed.PackedReader, 0, 16),
	}

	packedIntsVersion, err := fieldsIndexIn.ReadVInt()
	if err != nil {
		return nil, err
	}

	for {
		numChunks, err := fieldsIndexIn.ReadVInt()
		if err != nil {
			return nil, err
		}
		if numChunks == 0 {
			break
		}
		if numChunks < 0 {
			return nil, codec.NewCorruptIndexError(fieldsIndexIn, "Corrupted numChunks: %v", numChunks)
		}

		// doc bases
		docBase, err := fieldsIndexIn.ReadVInt()
		if err != nil {
			return nil, err
		}
		avgChunkDocs, err := fieldsIndexIn.ReadVInt()
		if err != nil {
			return nil, err
		}
		bitsPerDocBase, err := fieldsIndexIn.ReadVInt()
		if err != nil {
			return nil, err
		}
		if bitsPerDocBase < 0 || bitsPerDocBase > 32 {
			return nil, codec.NewCorruptIndexError(fieldsIndexIn, "Corrupted bitsPerDocBase: %v", bitsPerDocBase)
		}
		docBasesDeltas, err := packed.NewReaderNoHeader(fieldsIndexIn,
			int(packedIntsVersion), int(numChunks), int(bitsPerDocBase))
		if err != nil {
			return nil, err
		}
		r.docBases = append(r.docBases, int(docBase))
		r.avgChunkDocs = append(r.avgChunkDocs, int(avgChunkDocs))
		r.docBasesDeltas = append(r.docBasesDeltas, docBasesDeltas)

		// start pointers
		startPointer, err := fieldsIndexIn.ReadVLong()
		if err != nil {
			return nil, err
		}
		avgChunkSize, err := fieldsIndexIn.ReadVLong()
		if err != nil {
			return nil, err
		}
		bitsPerStartPointer, err := fieldsIndexIn.ReadVInt()
		if err != nil {
			return nil, err
		}
		if bitsPerStartPointer < 0 || bitsPerStartPointer > 64 {
			return nil, codec.NewCorruptIndexError(fieldsIndexIn, "Corrupted bitsPerStartPointer: %v", bitsPerStartPointer)
		}
		startPointersDeltas, err := packed.NewReaderNoHeader(fieldsIndexIn,
			int(packedIntsVersion), int(numChunks), int(bitsPerStartPointer))
		if err != nil {
			return nil, err
		}
		r.startPointers = append(r.startPointers, startPointer)
		r.avgChunkSizes = append(r.avgChunkSizes, avgChunkSize)
		r.startPointersDeltas = append(r.startPointersDeltas, startPointersDeltas)
	}

	return r, nil
}

func (r *StoredFieldsIndexReader) block(docID int) int {
	lo, hi := 0, len(r.docBases)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		midValue := r.docBases[mid]
		if midValue == docID {
			return mid
		} else if midValue < docID {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return hi
}

func (r *StoredFieldsIndexReader) relativeDocBase(block, relativeChunk int) int {
	expected := r.avgChunkDocs[block] * relativeChunk
	delta := util.ZigZagDecodeLong(r.docBasesDeltas[block].Get(relativeChunk))
	return expected + int(delta)
}

func (r *StoredFieldsIndexReader) relativeStartPointer(block, relativeChunk int) int64 {
	expected := r.avgChunkSizes[block] * int64(relativeChunk)
	delta := util.ZigZagDecodeLong(r.startPointersDeltas[block].Get(relativeChunk))
	return expected + delta
}

func (r *StoredFieldsIndexReader) relativeChunk(block, relativeDoc int) int {
	lo, hi := 0, r.docBasesDeltas[block].Size()-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		midValue := r.relativeDocBase(block, mid)
		if midValue == relativeDoc {
			return mid
		} else if midValue < relativeDoc {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return hi
}

// Returns the start pointer of the chunk which contains docID.
func (r *StoredFieldsIndexReader) StartPointer(docID int) (int64, error) {
	if docID < 0 || docID >= r.maxDoc {
		return 0, codec.NewCorruptIndexError("chunk index",
			"docID out of range [0-%v): %v", r.maxDoc, docID)
	}
	block := r.block(docID)
	if block < 0 {
		return 0, codec.NewCorruptIndexError("chunk index", "no block for docID %v", docID)
	}
	relativeChunk := r.relativeChunk(block, docID-r.docBases[block])
	return r.startPointers[block] + r.relativeStartPointer(block, relativeChunk), nil
}

func (r *StoredFieldsIndexReader) Clone() *StoredFieldsIndexReader {
	return r
}

func (r *StoredFieldsIndexReader) RamBytesUsed() int64 {
	res := util.AlignObjectSize(7 * util.NUM_BYTES_OBJECT_REF)
	res += util.SizeOf(r.docBases) + util.SizeOf(r.startPointers)
	res += util.SizeOf(r.avgChunkDocs) + util.SizeOf(r.avgChunkSizes)
	for _, d := range r.docBasesDeltas {
		res += d.RamBytesUsed()
	}
	for _, d := range r.startPointersDeltas {
		res += d.RamBytesUsed()
	}
	return res
}
