package model

import (
	"fmt"
)

/*
Access to the Field Info file that describes document fields and
whether or not they are indexed. Each segment has a separate Field
Info file.
*/
type FieldInfo struct {
	// Field's name
	Name string
	// Internal field number
	Number int32

	indexed bool

	// True if any document indexed term vectors
	storeTermVector bool

	indexOptions  IndexOptions
	storePayloads bool
}

func NewFieldInfo(name string, indexed bool, number int32, storeTermVector, storePayloads bool,
	indexOptions IndexOptions) *FieldInfo {
	fi := &FieldInfo{Name: name, indexed: indexed, Number: number}
	if indexed {
		fi.storeTermVector = storeTermVector
		fi.storePayloads = storePayloads
		fi.indexOptions = indexOptions
	} // for non-indexed fields, leave defaults
	return fi
}

/* Returns IndexOptions for the field, or 0 if the field is not indexed */
func (info *FieldInfo) IndexOptions() IndexOptions { return info.indexOptions }

/* Returns true if this field is indexed. */
func (info *FieldInfo) IsIndexed() bool { return info.indexed }

/* Returns true if any payloads exist for this field. */
func (info *FieldInfo) HasPayloads() bool { return info.storePayloads }

/* Returns true if any term vectors exist for this field. */
func (info *FieldInfo) HasVectors() bool { return info.storeTermVector }

func (info *FieldInfo) String() string {
	return fmt.Sprintf("%v-%v, isIndexed=%v, hasVectors=%v, indexOptions=%v, hasPayloads=%v",
		info.Number, info.Name, info.indexed, info.storeTermVector, info.indexOptions, info.storePayloads)
}

type Int32Slice []int32

func (p Int32Slice) Len() int           { return len(p) }
func (p Int32Slice) Less(i, j int) bool { return p[i] < p[j] }
func (p Int32Slice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// index/FieldInfo.java

type IndexOptions int

const (
	INDEX_OPT_DOCS_ONLY                                = IndexOptions(1)
	INDEX_OPT_DOCS_AND_FREQS                           = IndexOptions(2)
	INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS             = IndexOptions(3)
	INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS = IndexOptions(4)
)
