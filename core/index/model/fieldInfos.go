package model

import (
	"fmt"
	"sort"
)

// Collection of FieldInfo(s) (accessible by number or by name)
type FieldInfos struct {
	HasProx     bool
	HasPayloads bool
	HasOffsets  bool
	HasVectors  bool

	byNumber map[int32]*FieldInfo
	byName   map[string]*FieldInfo
	Values   []*FieldInfo // sorted by ID
}

func NewFieldInfos(infos []*FieldInfo) FieldInfos {
	self := FieldInfos{byNumber: make(map[int32]*FieldInfo), byName: make(map[string]*FieldInfo)}

	numbers := make([]int32, 0, len(infos))
	for _, info := range infos {
		assert2(info.Number >= 0, "illegal field number: %v for field %v", info.Number, info.Name)
		if prev, ok := self.byNumber[info.Number]; ok {
			panic(fmt.Sprintf("duplicate field numbers: %v and %v have: %v", prev.Name, info.Name, info.Number))
		}
		self.byNumber[info.Number] = info
		numbers = append(numbers, info.Number)
		if prev, ok := self.byName[info.Name]; ok {
			panic(fmt.Sprintf("duplicate field names: %v and %v have: %v", prev.Number, info.Number, info.Name))
		}
		self.byName[info.Name] = info

		self.HasVectors = self.HasVectors || info.storeTermVector
		self.HasProx = self.HasProx || info.indexed && info.indexOptions >= INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS
		self.HasOffsets = self.HasOffsets || info.indexed && info.indexOptions >= INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS
		self.HasPayloads = self.HasPayloads || info.storePayloads
	}

	sort.Sort(Int32Slice(numbers))
	self.Values = make([]*FieldInfo, len(infos))
	for i, v := range numbers {
		self.Values[i] = self.byNumber[v]
	}
	return self
}

/* Returns the number of fields */
func (infos FieldInfos) Size() int {
	assert(len(infos.byNumber) == len(infos.byName))
	return len(infos.byNumber)
}

/* Return the FieldInfo object referenced by the field name, or nil */
func (infos FieldInfos) FieldInfoByName(fieldName string) *FieldInfo {
	return infos.byName[fieldName]
}

/* Return the FieldInfo object referenced by the fieldNumber, or nil */
func (infos FieldInfos) FieldInfoByNumber(fieldNumber int) *FieldInfo {
	if fieldNumber < 0 {
		return nil
	}
	return infos.byNumber[int32(fieldNumber)]
}

func (infos FieldInfos) String() string {
	return fmt.Sprintf("%v", infos.Values)
}

/*
Builds FieldInfos, assigning the next free number to each new name.
Used to combine the schemas of merged segments.
*/
type FieldInfosBuilder struct {
	byName map[string]*FieldInfo
	infos  []*FieldInfo
}

func NewFieldInfosBuilder() *FieldInfosBuilder {
	return &FieldInfosBuilder{byName: make(map[string]*FieldInfo)}
}

// Adds a field by name, keeping the first number seen for it.
func (b *FieldInfosBuilder) Add(fi *FieldInfo) *FieldInfo {
	if prev, ok := b.byName[fi.Name]; ok {
		prev.storeTermVector = prev.storeTermVector || fi.storeTermVector
		prev.storePayloads = prev.storePayloads || fi.storePayloads
		if fi.indexOptions > prev.indexOptions {
			prev.indexOptions = fi.indexOptions
		}
		prev.indexed = prev.indexed || fi.indexed
		return prev
	}
	clone := *fi
	clone.Number = int32(len(b.infos))
	b.byName[fi.Name] = &clone
	b.infos = append(b.infos, &clone)
	return &clone
}

// Adds every field of infos.
func (b *FieldInfosBuilder) AddAll(infos FieldInfos) {
	for _, fi := range infos.Values {
		b.Add(fi)
	}
}

func (b *FieldInfosBuilder) Finish() FieldInfos {
	return NewFieldInfos(b.infos)
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
