package model

import (
	"fmt"

	"github.com/balzaczyy/golucene-compressing/core/store"
)

/*
Information about a segment such as its name, directory, and the
number of documents it holds. Codecs name their files after the
segment.
*/
type SegmentInfo struct {
	Dir      store.Directory
	Name     string
	docCount int // number of docs in seg, -1 until known
}

func NewSegmentInfo(dir store.Directory, name string, docCount int) *SegmentInfo {
	return &SegmentInfo{Dir: dir, Name: name, docCount: docCount}
}

/* Returns number of documents in this segment (deletions are not taken into account). */
func (si *SegmentInfo) DocCount() int {
	assert2(si.docCount >= 0, "docCount isn't set yet")
	return si.docCount
}

/* Can only be called once. */
func (si *SegmentInfo) SetDocCount(docCount int) {
	assert2(si.docCount == -1, "docCount was already set")
	si.docCount = docCount
}

func (si *SegmentInfo) String() string {
	return fmt.Sprintf("%v(%v docs)", si.Name, si.docCount)
}
