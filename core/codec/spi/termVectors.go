package spi

import (
	"io"

	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
)

// codecs/TermVectorsFormat.java

// Controls the format of term vectors
type TermVectorsFormat interface {
	// Returns a TermVectorsReader to read term vectors.
	VectorsReader(d store.Directory, si *model.SegmentInfo, fn model.FieldInfos, ctx store.IOContext) (TermVectorsReader, error)
	// Returns a TermVectorsWriter to write term vectors.
	VectorsWriter(d store.Directory, si *model.SegmentInfo, ctx store.IOContext) (TermVectorsWriter, error)
}

// codecs/TermVectorsReader.java

type TermVectorsReader interface {
	io.Closer
	// Returns term vectors for this document, or nil if term vectors
	// were not indexed. If offsets are available they are in an
	// OffsetAttribute available from the DocsAndPositionsEnum.
	Get(doc int) (model.Fields, error)
	Clone() TermVectorsReader
	CheckIntegrity() error
}

// codecs/TermVectorsWriter.java

/*
Codec API for writing term vectors:

1. For every document, StartDocument() is called, informing the Codec
how many fields will be written.
2. StartField() is called for each field in the document, informing
the codec how many terms will be written for that field, and whether
or not positions, offsets, or payloads are enabled.
3. Within each field, StartTerm() is called for each term.
4. If offsets and/or positions are enabled, then AddPosition() will be
called for each term occurrence.
5. After all documents have been written, Finish() is called for
verification/sanity-checks.
6. Finally the writer is closed.
*/
type TermVectorsWriter interface {
	io.Closer
	// Called before writing the term vectors of the document.
	// StartField() will be called numVectorFields times. Note that if
	// term vectors are enabled, this is called even if the document
	// has no vector fields, in this case numVectorFields will be zero.
	StartDocument(numVectorFields int) error
	// Called after a doc and all its fields have been added.
	FinishDocument() error
	// Called before writing the terms of the field. StartTerm() will
	// be called numTerms times.
	StartField(info *model.FieldInfo, numTerms int, positions, offsets, payloads bool) error
	// Called after a field and all its terms have been added.
	FinishField() error
	// Adds a term and its term frequency freq. If this field has
	// positions and/or offsets enabled, then AddPosition() will be
	// called freq times respectively.
	StartTerm(term []byte, freq int) error
	// Called after a term and all its positions have been added.
	FinishTerm() error
	// Adds a term position and offsets
	AddPosition(position, startOffset, endOffset int, payload []byte) error
	// Called by IndexWriter when writing new segments. This is an
	// expert API that allows the codec to consume positions and
	// offsets directly from the indexer. The default implementation
	// calls AddPosition().
	AddProx(numProx int, positions, offsets util.DataInput) error
	// Aborts writing entirely, implementation should remove any
	// partially-written files, etc.
	Abort()
	// Called before Close(), passing in the number of documents that
	// were written.
	Finish(fis model.FieldInfos, numDocs int) error
	// Merges in the term vectors from the readers in mergeState and
	// returns the number of documents written.
	Merge(mergeState *MergeState) (int, error)
}
