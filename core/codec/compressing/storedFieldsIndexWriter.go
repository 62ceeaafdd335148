package compressing

import (
	"math"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
	"github.com/pkg/errors"
)

// codec/compressing/CompressingStoredFieldsIndexWriter.java

// number of chunks serialized per index block
const BLOCK_SIZE = 1024

/*
Chunk index shared by the stored fields and term vectors formats. It
maps every chunk of the data file to its first document and its start
pointer, and is loaded fully in memory by StoredFieldsIndexReader.

Chunks are grouped in blocks of BLOCK_SIZE. Inside a block, the doc
base and start pointer of chunk n are stored as the zig-zag encoded
difference to n times the block average, so that a handful of
oversized chunks only costs bits in their own block.

	Index --> PackedIntsVersion, <Block>^BlockCount, 0, MaxPointer, Footer
	PackedIntsVersion --> vint
	Block --> BlockChunks, DocBases, StartPointers
	BlockChunks --> vint, never 0
	DocBases --> DocBase (vint), AvgChunkDocs (vint), Deltas
	StartPointers --> StartPointerBase (vlong), AvgChunkSize (vlong), Deltas
	Deltas --> BitsPerValue (vint), BlockChunks packed zig-zag deltas
	MaxPointer --> vlong, end of the last chunk in the data file

DocBase + AvgChunkDocs*n + DocDelta[n] restores the first document of
chunk n, StartPointerBase + AvgChunkSize*n + PointerDelta[n] its start
pointer.
*/
type StoredFieldsIndexWriter struct {
	out       store.IndexOutput
	totalDocs int

	// current block
	chunks      int
	docs        int
	firstPtr    int64 // -1 until the block gets its first chunk
	lastPtr     int64
	chunkDocs   []int
	ptrIncrease []int64 // start pointer minus the previous one

	deltas []int64 // scratch for writeDeltas
}

func NewStoredFieldsIndexWriter(indexOutput store.IndexOutput) (*StoredFieldsIndexWriter, error) {
	if err := indexOutput.WriteVInt(packed.VERSION_CURRENT); err != nil {
		return nil, err
	}
	return &StoredFieldsIndexWriter{
		out:         indexOutput,
		firstPtr:    -1,
		chunkDocs:   make([]int, BLOCK_SIZE),
		ptrIncrease: make([]int64, BLOCK_SIZE),
		deltas:      make([]int64, BLOCK_SIZE),
	}, nil
}

// Records a chunk of numDocs documents starting at startPointer in
// the data file.
func (w *StoredFieldsIndexWriter) writeIndex(numDocs int, startPointer int64) error {
	if w.chunks == BLOCK_SIZE {
		if err := w.writeBlock(); err != nil {
			return err
		}
		w.chunks, w.docs, w.firstPtr = 0, 0, -1
	}
	if w.firstPtr == -1 {
		w.firstPtr, w.lastPtr = startPointer, startPointer
	}
	assert(w.firstPtr > 0 && startPointer >= w.lastPtr)

	w.chunkDocs[w.chunks] = numDocs
	w.ptrIncrease[w.chunks] = startPointer - w.lastPtr
	w.chunks++
	w.docs += numDocs
	w.totalDocs += numDocs
	w.lastPtr = startPointer
	return nil
}

func (w *StoredFieldsIndexWriter) writeBlock() error {
	assert(w.chunks > 0)
	out := w.out
	if err := out.WriteVInt(int32(w.chunks)); err != nil {
		return err
	}

	// The last chunk is left out of the average: its doc count does not
	// move any doc base of the block.
	avgChunkDocs := 0
	if w.chunks > 1 {
		avgChunkDocs = int(math.Floor(float64(w.docs-w.chunkDocs[w.chunks-1])/float64(w.chunks-1) + 0.5))
	}
	if err := out.WriteVInt(int32(w.totalDocs - w.docs)); err != nil {
		return err
	}
	if err := out.WriteVInt(int32(avgChunkDocs)); err != nil {
		return err
	}
	docBase := 0
	for i := 0; i < w.chunks; i++ {
		w.deltas[i] = int64(docBase - avgChunkDocs*i)
		docBase += w.chunkDocs[i]
	}
	if err := w.writeDeltas(); err != nil {
		return err
	}

	var avgChunkSize int64
	if w.chunks > 1 {
		avgChunkSize = (w.lastPtr - w.firstPtr) / int64(w.chunks-1)
	}
	if err := out.WriteVLong(w.firstPtr); err != nil {
		return err
	}
	if err := out.WriteVLong(avgChunkSize); err != nil {
		return err
	}
	var ptr int64
	for i := 0; i < w.chunks; i++ {
		ptr += w.ptrIncrease[i]
		w.deltas[i] = ptr - avgChunkSize*int64(i)
	}
	return w.writeDeltas()
}

// Writes the first w.chunks values of w.deltas as zig-zag encoded
// packed ints, preceded by their bits per value.
func (w *StoredFieldsIndexWriter) writeDeltas() error {
	deltas := w.deltas[:w.chunks]
	var bits int64
	for i, d := range deltas {
		deltas[i] = util.ZigZagEncodeLong(d)
		bits |= deltas[i]
	}
	bitsPerValue := packed.BitsRequired(bits)
	if err := w.out.WriteVInt(int32(bitsPerValue)); err != nil {
		return err
	}
	pw := packed.WriterNoHeader(w.out, len(deltas), bitsPerValue)
	for _, d := range deltas {
		if err := pw.Add(d); err != nil {
			return err
		}
	}
	return pw.Finish()
}

func (w *StoredFieldsIndexWriter) finish(numDocs int, maxPointer int64) error {
	assert(w != nil)
	if numDocs != w.totalDocs {
		return errors.Errorf("Expected %v docs, but got %v", numDocs, w.totalDocs)
	}
	if w.chunks > 0 {
		if err := w.writeBlock(); err != nil {
			return err
		}
	}
	if err := w.out.WriteVInt(0); err != nil { // end marker
		return err
	}
	if err := w.out.WriteVLong(maxPointer); err != nil {
		return err
	}
	return codec.WriteFooter(w.out)
}

func (w *StoredFieldsIndexWriter) Close() error {
	if w == nil {
		return nil
	}
	return w.out.Close()
}
