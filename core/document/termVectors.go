package document

import (
	"bytes"
	"sort"

	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/util"
)

/*
In-memory term vectors of a single document. Fields are built by
adding term occurrences; the result implements model.Fields so it can
be handed to a term vectors writer or compared with what a reader
returns.
*/
type TermVectors struct {
	fields map[string]*VectorField
}

func NewTermVectors() *TermVectors {
	return &TermVectors{fields: make(map[string]*VectorField)}
}

// Adds, or returns the already added, field described by info.
func (tv *TermVectors) AddField(info *model.FieldInfo, positions, offsets, payloads bool) *VectorField {
	if f, ok := tv.fields[info.Name]; ok {
		return f
	}
	f := &VectorField{
		info:      info,
		positions: positions,
		offsets:   offsets,
		payloads:  payloads,
		terms:     make(map[string]*vectorTerm),
	}
	tv.fields[info.Name] = f
	return f
}

// Returns field infos of all added fields, in field number order.
func (tv *TermVectors) FieldInfos() []*model.FieldInfo {
	ans := make([]*model.FieldInfo, 0, len(tv.fields))
	for _, f := range tv.fields {
		ans = append(ans, f.info)
	}
	sort.Slice(ans, func(i, j int) bool { return ans[i].Number < ans[j].Number })
	return ans
}

func (tv *TermVectors) Names() []string {
	infos := tv.FieldInfos()
	ans := make([]string, len(infos))
	for i, fi := range infos {
		ans[i] = fi.Name
	}
	return ans
}

func (tv *TermVectors) Terms(field string) model.Terms {
	if f, ok := tv.fields[field]; ok {
		return f
	}
	return nil
}

func (tv *TermVectors) Size() int {
	return len(tv.fields)
}

type vectorTerm struct {
	term         []byte
	freq         int
	positions    []int
	startOffsets []int
	endOffsets   []int
	payloads     [][]byte
}

// Term vector of one field. Implements model.Terms.
type VectorField struct {
	info                         *model.FieldInfo
	positions, offsets, payloads bool
	terms                        map[string]*vectorTerm
	sorted                       []*vectorTerm
}

/*
Records one occurrence of term. Position is ignored unless positions
are enabled, offsets unless offsets are enabled, and payload unless
payloads are enabled.
*/
func (f *VectorField) AddOccurrence(term string, position, startOffset, endOffset int, payload []byte) {
	t, ok := f.terms[term]
	if !ok {
		t = &vectorTerm{term: []byte(term)}
		f.terms[term] = t
		f.sorted = nil
	}
	t.freq++
	if f.positions {
		t.positions = append(t.positions, position)
	}
	if f.offsets {
		t.startOffsets = append(t.startOffsets, startOffset)
		t.endOffsets = append(t.endOffsets, endOffset)
	}
	if f.payloads {
		var p []byte
		if len(payload) > 0 {
			p = append([]byte(nil), payload...)
		}
		t.payloads = append(t.payloads, p)
	}
}

// Records a term that carries neither positions nor offsets.
func (f *VectorField) AddTerm(term string, freq int) {
	assert2(!f.positions && !f.offsets, "use AddOccurrence when positions or offsets are enabled")
	t, ok := f.terms[term]
	if !ok {
		t = &vectorTerm{term: []byte(term)}
		f.terms[term] = t
		f.sorted = nil
	}
	t.freq += freq
}

func (f *VectorField) sortedTerms() []*vectorTerm {
	if f.sorted == nil {
		f.sorted = make([]*vectorTerm, 0, len(f.terms))
		for _, t := range f.terms {
			f.sorted = append(f.sorted, t)
		}
		sort.Slice(f.sorted, func(i, j int) bool {
			return bytes.Compare(f.sorted[i].term, f.sorted[j].term) < 0
		})
	}
	return f.sorted
}

func (f *VectorField) Iterator(reuse model.TermsEnum) model.TermsEnum {
	return &vectorTermsEnum{terms: f.sortedTerms(), field: f, ord: -1}
}

func (f *VectorField) Size() int64 { return int64(len(f.terms)) }

func (f *VectorField) SumTotalTermFreq() int64 {
	var sum int64
	for _, t := range f.terms {
		sum += int64(t.freq)
	}
	return sum
}

func (f *VectorField) SumDocFreq() int64  { return int64(len(f.terms)) }
func (f *VectorField) DocCount() int      { return 1 }
func (f *VectorField) HasFreqs() bool     { return true }
func (f *VectorField) HasOffsets() bool   { return f.offsets }
func (f *VectorField) HasPositions() bool { return f.positions }
func (f *VectorField) HasPayloads() bool  { return f.payloads }

type vectorTermsEnum struct {
	field *VectorField
	terms []*vectorTerm
	ord   int
}

func (e *vectorTermsEnum) Next() ([]byte, error) {
	if e.ord+1 >= len(e.terms) {
		e.ord = len(e.terms)
		return nil, nil
	}
	e.ord++
	return e.terms[e.ord].term, nil
}

func (e *vectorTermsEnum) SeekCeil(text []byte) (model.SeekStatus, error) {
	e.ord = sort.Search(len(e.terms), func(i int) bool {
		return bytes.Compare(e.terms[i].term, text) >= 0
	})
	switch {
	case e.ord == len(e.terms):
		return model.SEEK_STATUS_END, nil
	case bytes.Equal(e.terms[e.ord].term, text):
		return model.SEEK_STATUS_FOUND, nil
	default:
		return model.SEEK_STATUS_NOT_FOUND, nil
	}
}

func (e *vectorTermsEnum) SeekExact(text []byte) (bool, error) {
	status, err := e.SeekCeil(text)
	return status == model.SEEK_STATUS_FOUND, err
}

func (e *vectorTermsEnum) SeekExactByPosition(ord int64) error {
	assert2(ord >= 0 && ord < int64(len(e.terms)), "ord out of range")
	e.ord = int(ord)
	return nil
}

func (e *vectorTermsEnum) Term() []byte                  { return e.terms[e.ord].term }
func (e *vectorTermsEnum) Ord() int64                    { return int64(e.ord) }
func (e *vectorTermsEnum) DocFreq() (int, error)         { return 1, nil }
func (e *vectorTermsEnum) TotalTermFreq() (int64, error) { return int64(e.terms[e.ord].freq), nil }

func (e *vectorTermsEnum) Docs(liveDocs util.Bits, reuse model.DocsEnum) (model.DocsEnum, error) {
	return e.DocsAndPositions(liveDocs, nil)
}

func (e *vectorTermsEnum) DocsAndPositions(liveDocs util.Bits, reuse model.DocsAndPositionsEnum) (model.DocsAndPositionsEnum, error) {
	if !e.field.positions && !e.field.offsets {
		return nil, nil
	}
	return &vectorDocsEnum{term: e.terms[e.ord], liveDocs: liveDocs, doc: -1, i: -1}, nil
}

type vectorDocsEnum struct {
	term     *vectorTerm
	liveDocs util.Bits
	doc      int
	i        int
}

func (d *vectorDocsEnum) DocID() int { return d.doc }

func (d *vectorDocsEnum) NextDoc() (int, error) {
	if d.doc == -1 && (d.liveDocs == nil || d.liveDocs.At(0)) {
		d.doc = 0
	} else {
		d.doc = model.NO_MORE_DOCS
	}
	return d.doc, nil
}

func (d *vectorDocsEnum) Advance(target int) (int, error) {
	if target > 0 {
		d.doc = model.NO_MORE_DOCS
		return d.doc, nil
	}
	return d.NextDoc()
}

func (d *vectorDocsEnum) Freq() (int, error) { return d.term.freq, nil }

func (d *vectorDocsEnum) NextPosition() (int, error) {
	assert2(d.i+1 < d.term.freq, "read past last position")
	d.i++
	if d.term.positions == nil {
		return -1, nil
	}
	return d.term.positions[d.i], nil
}

func (d *vectorDocsEnum) StartOffset() (int, error) {
	if d.term.startOffsets == nil {
		return -1, nil
	}
	return d.term.startOffsets[d.i], nil
}

func (d *vectorDocsEnum) EndOffset() (int, error) {
	if d.term.endOffsets == nil {
		return -1, nil
	}
	return d.term.endOffsets[d.i], nil
}

func (d *vectorDocsEnum) Payload() ([]byte, error) {
	if d.term.payloads == nil {
		return nil, nil
	}
	return d.term.payloads[d.i], nil
}
