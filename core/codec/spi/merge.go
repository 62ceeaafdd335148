package spi

import (
	"errors"

	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/util"
)

// index/MergeState.java

// Holds common state used during segment merging.
type MergeState struct {
	// SegmentInfo of the newly merged segment.
	Segment *model.SegmentInfo
	// FieldInfos of the newly merged segment.
	FieldInfos model.FieldInfos
	// Readers being merged.
	Readers []*MergeReader
	// Checks if the merge was aborted. May be nil.
	CheckAbort *CheckAbort
}

// Per-segment view of a reader taking part in a merge.
type MergeReader struct {
	MaxDoc int
	// Live docs of the segment; nil when it has no deletions.
	LiveDocs   util.Bits
	FieldInfos model.FieldInfos
	// Either may be nil when the segment has none.
	FieldsReader  StoredFieldsReader
	VectorsReader TermVectorsReader
}

// Returns the number of live documents.
func (r *MergeReader) NumDocs() int {
	if r.LiveDocs == nil {
		return r.MaxDoc
	}
	n := 0
	for i := 0; i < r.MaxDoc; i++ {
		if r.LiveDocs.At(i) {
			n++
		}
	}
	return n
}

/*
Returns true when the i-th reader uses the same field numbers as the
merged segment, which is required to copy its data verbatim.
*/
func (ms *MergeState) IsMatching(i int) bool {
	for _, fi := range ms.Readers[i].FieldInfos.Values {
		other := ms.FieldInfos.FieldInfoByNumber(int(fi.Number))
		if other == nil || other.Name != fi.Name {
			return false
		}
	}
	return true
}

// Poll this to check if the merge has been aborted.
func (ms *MergeState) Work(units float64) error {
	if ms.CheckAbort == nil {
		return nil
	}
	return ms.CheckAbort.Work(units)
}

var ErrMergeAborted = errors.New("merge is aborted")

/*
Class for recording units of work when merging segments. Every 10000
units the aborted callback is consulted, so long merges stop soon
after being aborted.
*/
type CheckAbort struct {
	workCount float64
	aborted   func() bool
}

func NewCheckAbort(aborted func() bool) *CheckAbort {
	return &CheckAbort{aborted: aborted}
}

/*
Records the fact that roughly units amount of work have been done
since this method was last called. When adding time-consuming code
into a merge, you should call this method periodically.
*/
func (ca *CheckAbort) Work(units float64) error {
	ca.workCount += units
	if ca.workCount >= 10000 {
		ca.workCount = 0
		if ca.aborted != nil && ca.aborted() {
			return ErrMergeAborted
		}
	}
	return nil
}
