package model

import (
	"math"

	"github.com/balzaczyy/golucene-compressing/core/util"
)

// index/Fields.java

// Flex API for access to fields and terms
type Fields interface {
	// Returns the field names, in field number order.
	Names() []string
	// Get the Terms for this field. This will return nil if the field
	// does not exist.
	Terms(field string) Terms
	// Returns the number of fields or -1 if the number of distinct
	// field names is unknown.
	Size() int
}

// index/Terms.java

type Terms interface {
	// Returns an iterator that will step through all terms. Callers
	// may pass a previous TermsEnum of the same Terms to reuse it.
	Iterator(reuse TermsEnum) TermsEnum
	// Returns the number of terms for this field, or -1 if this
	// measure isn't stored by the codec.
	Size() int64
	SumTotalTermFreq() int64
	SumDocFreq() int64
	DocCount() int
	HasFreqs() bool
	HasOffsets() bool
	HasPositions() bool
	HasPayloads() bool
}

// index/TermsEnum.java

type SeekStatus int

const (
	SEEK_STATUS_END       = SeekStatus(1)
	SEEK_STATUS_FOUND     = SeekStatus(2)
	SEEK_STATUS_NOT_FOUND = SeekStatus(3)
)

/*
Iterator to seek, or step through terms to obtain frequency
information, or for the current term.

Term enumerations are always ordered by unsigned byte order. Each term
in the enumeration is greater than the one before it.

The TermsEnum is unpositioned when you first obtain it and you must
first successfully call Next() or one of the seek methods.
*/
type TermsEnum interface {
	// Increments the iteration to the next term, returning nil at the end.
	Next() ([]byte, error)
	// Seeks to the specified term, if it exists, or to the next
	// (ceiling) term.
	SeekCeil(text []byte) (SeekStatus, error)
	// Attempts to seek to the exact term, returning true if the term
	// is found.
	SeekExact(text []byte) (bool, error)
	// Seeks to the specified term by ordinal.
	SeekExactByPosition(ord int64) error
	// Returns current term. Do not call this when the enum is unpositioned.
	Term() []byte
	// Returns ordinal position for current term.
	Ord() int64
	// Returns the number of documents containing the current term.
	DocFreq() (int, error)
	// Returns the total number of occurrences of this term.
	TotalTermFreq() (int64, error)
	// Get DocsEnum for the current term.
	Docs(liveDocs util.Bits, reuse DocsEnum) (DocsEnum, error)
	// Get DocsAndPositionsEnum for the current term. Returns nil if
	// positions and offsets were not indexed.
	DocsAndPositions(liveDocs util.Bits, reuse DocsAndPositionsEnum) (DocsAndPositionsEnum, error)
}

// search/DocIdSetIterator.java

/*
When returned by NextDoc(), Advance(int) and DocID() it means there
are no more docs in the iterator.
*/
const NO_MORE_DOCS = math.MaxInt32

type DocIdSetIterator interface {
	// Returns the following: -1 if NextDoc() or Advance() were not
	// called yet; NO_MORE_DOCS if the iterator has exhausted;
	// otherwise the doc ID it is currently on.
	DocID() int
	// Advances to the next document in the set and returns the doc it
	// is currently on, or NO_MORE_DOCS if there are no more docs.
	NextDoc() (int, error)
	// Advances to the first beyond the current whose document number
	// is greater than or equal to target.
	Advance(target int) (int, error)
}

// index/DocsEnum.java

type DocsEnum interface {
	DocIdSetIterator
	// Returns term frequency in the current document.
	Freq() (int, error)
}

// index/DocsAndPositionsEnum.java

// Also iterates through positions.
type DocsAndPositionsEnum interface {
	DocsEnum
	// Returns the next position. You should only call this up to
	// Freq() times else the behavior is not defined.
	NextPosition() (int, error)
	// Returns start offset for the current position, or -1 if offsets
	// were not indexed.
	StartOffset() (int, error)
	// Returns end offset for the current position, or -1 if offsets
	// were not indexed.
	EndOffset() (int, error)
	// Returns the payload at this position, or nil if no payload was
	// indexed.
	Payload() ([]byte, error)
}
