package spi

import (
	"io"

	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
)

// index/StoredFieldVisitor.java

/*
Expert: provides a low-level means of accessing the stored field
values in an index. The reader calls NeedsField() for every field of
the document, then the typed method for fields the visitor accepted.
*/
type StoredFieldVisitor interface {
	BinaryField(fi *model.FieldInfo, value []byte) error
	StringField(fi *model.FieldInfo, value string) error
	IntField(fi *model.FieldInfo, value int32) error
	LongField(fi *model.FieldInfo, value int64) error
	FloatField(fi *model.FieldInfo, value float32) error
	DoubleField(fi *model.FieldInfo, value float64) error
	NeedsField(fi *model.FieldInfo) (StoredFieldVisitorStatus, error)
}

type StoredFieldVisitorStatus int

const (
	// Visit the field
	STORED_FIELD_VISITOR_STATUS_YES = StoredFieldVisitorStatus(1)
	// Skip the field
	STORED_FIELD_VISITOR_STATUS_NO = StoredFieldVisitorStatus(2)
	// Stop visiting the document
	STORED_FIELD_VISITOR_STATUS_STOP = StoredFieldVisitorStatus(3)
)

// codecs/StoredFieldsFormat.java

// Controls the format of stored fields
type StoredFieldsFormat interface {
	// Returns a StoredFieldsReader to load stored fields.
	FieldsReader(d store.Directory, si *model.SegmentInfo, fn model.FieldInfos, ctx store.IOContext) (StoredFieldsReader, error)
	// Returns a StoredFieldsWriter to write stored fields.
	FieldsWriter(d store.Directory, si *model.SegmentInfo, ctx store.IOContext) (StoredFieldsWriter, error)
}

// codecs/StoredFieldsReader.java

type StoredFieldsReader interface {
	io.Closer
	// Visit the stored fields for document n
	VisitDocument(n int, visitor StoredFieldVisitor) error
	Clone() StoredFieldsReader
	// Checks consistency of this reader. Note that this may be costly
	// in terms of I/O, e.g. may involve computing a checksum value
	// against large data files.
	CheckIntegrity() error
}

// codecs/StoredFieldsWriter.java

/*
Codec API for writing stored fields:

1. For every document, StartDocument() is called.
2. WriteField() is called for each field in the document.
3. After all documents have been writen, Finish() is called for
verification/sanity-checks.
4. Finally the writer is closed.
*/
type StoredFieldsWriter interface {
	io.Closer
	// Called before writing the stored fields of the document.
	// WriteField() will be called for each stored field. Note that
	// this is called even if the document has no stored fields.
	StartDocument() error
	// Called when a document and all its fields have been added.
	FinishDocument() error
	// Writes a single stored field.
	WriteField(info *model.FieldInfo, field model.IndexableField) error
	// Aborts writing entirely, implementation should remove any
	// partially-written files, etc.
	Abort()
	// Called before Close(), passing in the number of documents that
	// were written. A mismatch with the number of StartDocument()
	// calls is an error.
	Finish(fis model.FieldInfos, numDocs int) error
	// Merges in the stored fields from the readers in mergeState and
	// returns the number of documents written.
	Merge(mergeState *MergeState) (int, error)
}
