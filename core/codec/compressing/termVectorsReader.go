package compressing

import (
	"bytes"
	"math"
	"sort"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
	"github.com/pkg/errors"
)

// codec/compressing/CompressingTermVectorsReader.java

var _ util.Accountable = (*CompressingTermVectorsReader)(nil)

// TermVectorsReader for CompressingTermVectorsFormat.
type CompressingTermVectorsReader struct {
	fieldInfos        model.FieldInfos
	indexReader       *StoredFieldsIndexReader
	vectorsStream     store.IndexInput
	version           int
	packedIntsVersion int
	compressionMode   CompressionMode
	decompressor      Decompressor
	chunkSize         int
	numDocs           int
	blockSize         int
	closed            bool
	reader            *packed.BlockPackedReaderIterator
}

// used by clone
func newCompressingTermVectorsReaderFrom(reader *CompressingTermVectorsReader) *CompressingTermVectorsReader {
	vectorsStream := reader.vectorsStream.Clone()
	return &CompressingTermVectorsReader{
		fieldInfos:        reader.fieldInfos,
		vectorsStream:     vectorsStream,
		indexReader:       reader.indexReader.Clone(),
		version:           reader.version,
		packedIntsVersion: reader.packedIntsVersion,
		compressionMode:   reader.compressionMode,
		decompressor:      reader.decompressor.Clone(),
		chunkSize:         reader.chunkSize,
		numDocs:           reader.numDocs,
		blockSize:         reader.blockSize,
		reader:            packed.NewBlockPackedReaderIterator(vectorsStream, reader.packedIntsVersion, reader.blockSize, 0),
	}
}

// Sole constructor
func NewCompressingTermVectorsReader(d store.Directory, si *model.SegmentInfo,
	segmentSuffix string, fn model.FieldInfos, context store.IOContext,
	formatName string, compressionMode CompressionMode, blockSize int) (r *CompressingTermVectorsReader, err error) {

	r = &CompressingTermVectorsReader{
		compressionMode: compressionMode,
		fieldInfos:      fn,
		numDocs:         si.DocCount(),
		blockSize:       blockSize,
	}
	segment := si.Name

	var indexStream store.ChecksumIndexInput
	success := false
	defer func() {
		if !success {
			util.CloseWhileSuppressingError(r, indexStream)
		}
	}()

	// Load the index into memory
	indexStreamFN := util.SegmentFileName(segment, segmentSuffix, VECTORS_INDEX_EXTENSION)
	if indexStream, err = d.OpenChecksumInput(indexStreamFN, context); err != nil {
		return nil, err
	}
	codecNameIdx := formatName + CODEC_SFX_IDX
	if r.version, err = int32AsInt(codec.CheckHeader(indexStream, codecNameIdx,
		TV_VERSION_START, TV_VERSION_CURRENT)); err != nil {
		return nil, err
	}
	assert(int64(codec.HeaderLength(codecNameIdx)) == indexStream.FilePointer())
	if r.indexReader, err = NewStoredFieldsIndexReader(indexStream, si); err != nil {
		return nil, err
	}

	if r.version >= TV_VERSION_CHECKSUM {
		// the end of the data file
		if _, err = indexStream.ReadVLong(); err != nil {
			return nil, err
		}
		if _, err = codec.CheckFooter(indexStream); err != nil {
			return nil, err
		}
	} else {
		if err = codec.CheckEOF(indexStream); err != nil {
			return nil, err
		}
	}
	err = indexStream.Close()
	indexStream = nil
	if err != nil {
		return nil, err
	}

	// Open the data file and read metadata
	vectorsStreamFN := util.SegmentFileName(segment, segmentSuffix, VECTORS_EXTENSION)
	if r.vectorsStream, err = d.OpenInput(vectorsStreamFN, context); err != nil {
		return nil, err
	}
	codecNameDat := formatName + CODEC_SFX_DAT
	version2, err := int32AsInt(codec.CheckHeader(r.vectorsStream, codecNameDat,
		TV_VERSION_START, TV_VERSION_CURRENT))
	if err != nil {
		return nil, err
	}
	if r.version != version2 {
		return nil, codec.NewCorruptIndexError(r.vectorsStream,
			"Version mismatch between term vectors index and data: %v != %v", r.version, version2)
	}
	assert(int64(codec.HeaderLength(codecNameDat)) == r.vectorsStream.FilePointer())

	pos := r.vectorsStream.FilePointer()
	if r.version >= TV_VERSION_CHECKSUM {
		// NOTE: data file is too costly to verify checksum against all the
		// bytes on open, but for now we at least verify proper structure
		// of the checksum footer, which detects truncation.
		if _, err = codec.RetrieveChecksum(r.vectorsStream); err != nil {
			return nil, err
		}
		if err = r.vectorsStream.Seek(pos); err != nil {
			return nil, err
		}
	}

	if r.packedIntsVersion, err = int32AsInt(r.vectorsStream.ReadVInt()); err != nil {
		return nil, err
	}
	if err = packed.CheckVersion(r.packedIntsVersion); err != nil {
		return nil, codec.NewCorruptIndexError(r.vectorsStream, "%v", err)
	}
	if r.chunkSize, err = int32AsInt(r.vectorsStream.ReadVInt()); err != nil {
		return nil, err
	}
	r.decompressor = compressionMode.NewDecompressor()
	r.reader = packed.NewBlockPackedReaderIterator(r.vectorsStream, r.packedIntsVersion, blockSize, 0)

	success = true
	return r, nil
}

func (r *CompressingTermVectorsReader) Version() int { return r.version }

func (r *CompressingTermVectorsReader) CompressionMode() CompressionMode { return r.compressionMode }

func (r *CompressingTermVectorsReader) ChunkSize() int { return r.chunkSize }

func (r *CompressingTermVectorsReader) PackedIntsVersion() int { return r.packedIntsVersion }

func (r *CompressingTermVectorsReader) ensureOpen() error {
	if r.closed {
		return store.ErrAlreadyClosed
	}
	return nil
}

func (r *CompressingTermVectorsReader) Close() (err error) {
	if !r.closed {
		if err = util.Close(r.vectorsStream); err == nil {
			r.closed = true
		}
	}
	return
}

func (r *CompressingTermVectorsReader) Clone() spi.TermVectorsReader {
	assert2(!r.closed, "this TermVectorsReader is closed")
	return newCompressingTermVectorsReaderFrom(r)
}

func (r *CompressingTermVectorsReader) RamBytesUsed() int64 {
	return r.indexReader.RamBytesUsed()
}

func (r *CompressingTermVectorsReader) CheckIntegrity() error {
	if err := r.ensureOpen(); err != nil {
		return err
	}
	if r.version >= TV_VERSION_CHECKSUM {
		_, err := store.ChecksumEntireFile(r.vectorsStream)
		return err
	}
	return nil
}

// Reads n block-packed values written by one BlockPackedWriter stream.
func (r *CompressingTermVectorsReader) readBlockPacked(n int) ([]int, error) {
	r.reader.Reset(r.vectorsStream, int64(n))
	values := make([]int, n)
	for i := range values {
		v, err := r.reader.Next()
		if err != nil {
			return nil, err
		}
		values[i] = int(v)
	}
	return values, nil
}

// Layout of the fields of a chunk.
type tvChunk struct {
	flags     packed.Reader
	numTerms  packed.Reader
	termStart []int // first term index of each field, plus the total
	termFreqs []int
}

func (c *tvChunk) totalFreq(field int) int {
	sum := 0
	for _, freq := range c.termFreqs[c.termStart[field]:c.termStart[field+1]] {
		sum += freq
	}
	return sum
}

/*
Returns, for each field of the chunk, where its values start in a
stream that holds one value per occurrence of the fields having flag
set, and the total size of that stream.
*/
func (c *tvChunk) streamStarts(flag int) (starts []int, total int) {
	starts = make([]int, c.flags.Size())
	for i := range starts {
		starts[i] = total
		if int(c.flags.Get(i))&flag != 0 {
			total += c.totalFreq(i)
		}
	}
	return
}

func (r *CompressingTermVectorsReader) Get(doc int) (model.Fields, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}

	// seek to the right place
	startPointer, err := r.indexReader.StartPointer(doc)
	if err != nil {
		return nil, err
	}
	in := r.vectorsStream
	if err = in.Seek(startPointer); err != nil {
		return nil, err
	}

	// decode
	// - docBase: first doc ID of the chunk
	// - chunkDocs: number of docs of the chunk
	docBase, err := int32AsInt(in.ReadVInt())
	if err != nil {
		return nil, err
	}
	chunkDocs, err := int32AsInt(in.ReadVInt())
	if err != nil {
		return nil, err
	}
	if doc < docBase || doc >= docBase+chunkDocs || docBase+chunkDocs > r.numDocs {
		return nil, codec.NewCorruptIndexError(in, "docBase=%v,chunkDocs=%v,doc=%v", docBase, chunkDocs, doc)
	}

	var skip, numFields, totalFields int // fields before the doc, of the doc, of the chunk
	if chunkDocs == 1 {
		if numFields, err = int32AsInt(in.ReadVInt()); err != nil {
			return nil, err
		}
		totalFields = numFields
	} else {
		counts, err := r.readBlockPacked(chunkDocs)
		if err != nil {
			return nil, err
		}
		for i, n := range counts {
			if i < doc-docBase {
				skip += n
			} else if i == doc-docBase {
				numFields = n
			}
			totalFields += n
		}
	}
	if numFields < 0 || skip < 0 || totalFields < skip+numFields {
		return nil, codec.NewCorruptIndexError(in, "numFields=%v, totalFields=%v", numFields, totalFields)
	}

	if numFields == 0 {
		// no vectors
		return nil, nil
	}

	// read field numbers that have term vectors
	token, err := in.ReadByte()
	if err != nil {
		return nil, err
	}
	bitsPerFieldNum := int(token & 0x1F)
	totalDistinctFields := int(token >> 5)
	if totalDistinctFields == 0x07 {
		n, err := int32AsInt(in.ReadVInt())
		if err != nil {
			return nil, err
		}
		totalDistinctFields += n
	}
	totalDistinctFields++
	it, err := packed.NewReaderIteratorNoHeader(in, r.packedIntsVersion, totalDistinctFields, bitsPerFieldNum)
	if err != nil {
		return nil, err
	}
	fieldNums := make([]int, totalDistinctFields)
	for i := range fieldNums {
		v, err := it.Next()
		if err != nil {
			return nil, err
		}
		fieldNums[i] = int(v)
	}

	// read field numbers and flags
	chunk := &tvChunk{}
	bitsPerOff := packed.BitsRequired(int64(len(fieldNums) - 1))
	allFieldNumOffs, err := packed.NewReaderNoHeader(in, r.packedIntsVersion, totalFields, bitsPerOff)
	if err != nil {
		return nil, err
	}
	for i := 0; i < totalFields; i++ {
		if int(allFieldNumOffs.Get(i)) >= len(fieldNums) {
			return nil, codec.NewCorruptIndexError(in, "field offset %v out of %v fields",
				allFieldNumOffs.Get(i), len(fieldNums))
		}
	}
	flagsMode, err := in.ReadVInt()
	if err != nil {
		return nil, err
	}
	switch flagsMode {
	case 0:
		fieldFlags, err := packed.NewReaderNoHeader(in, r.packedIntsVersion, len(fieldNums), FLAGS_BITS)
		if err != nil {
			return nil, err
		}
		f := packed.NewMutable(totalFields, FLAGS_BITS)
		for i := 0; i < totalFields; i++ {
			f.Set(i, fieldFlags.Get(int(allFieldNumOffs.Get(i))))
		}
		chunk.flags = f
	case 1:
		if chunk.flags, err = packed.NewReaderNoHeader(in, r.packedIntsVersion, totalFields, FLAGS_BITS); err != nil {
			return nil, err
		}
	default:
		return nil, codec.NewCorruptIndexError(in, "unknown flags mode %v", flagsMode)
	}
	fieldNumOffs := make([]int, numFields)
	for i := range fieldNumOffs {
		fieldNumOffs[i] = int(allFieldNumOffs.Get(skip + i))
	}

	// number of terms per field for all fields
	bitsRequired, err := int32AsInt(in.ReadVInt())
	if err != nil {
		return nil, err
	}
	if chunk.numTerms, err = packed.NewReaderNoHeader(in, r.packedIntsVersion, totalFields, bitsRequired); err != nil {
		return nil, err
	}
	chunk.termStart = make([]int, totalFields+1)
	for i := 0; i < totalFields; i++ {
		chunk.termStart[i+1] = chunk.termStart[i] + int(chunk.numTerms.Get(i))
	}
	totalTerms := chunk.termStart[totalFields]

	// term lengths
	prefixLengths, err := r.readBlockPacked(totalTerms)
	if err != nil {
		return nil, err
	}
	suffixLengths, err := r.readBlockPacked(totalTerms)
	if err != nil {
		return nil, err
	}
	docTermStart, docTermEnd := chunk.termStart[skip], chunk.termStart[skip+numFields]
	docOff, docLen, totalLen := 0, 0, 0
	for i, l := range suffixLengths {
		if l < 0 || prefixLengths[i] < 0 {
			return nil, codec.NewCorruptIndexError(in, "negative term length")
		}
		switch {
		case i < docTermStart:
			docOff += l
		case i < docTermEnd:
			docLen += l
		}
		totalLen += l
	}

	// term freqs
	if chunk.termFreqs, err = r.readBlockPacked(totalTerms); err != nil {
		return nil, err
	}
	for i := range chunk.termFreqs {
		chunk.termFreqs[i]++
	}

	posStarts, totalPositions := chunk.streamStarts(POSITIONS)
	offStarts, totalOffsets := chunk.streamStarts(OFFSETS)
	payStarts, totalPayloads := chunk.streamStarts(PAYLOADS)
	hasOffsets := false
	for i := 0; i < totalFields; i++ {
		hasOffsets = hasOffsets || int(chunk.flags.Get(i))&OFFSETS != 0
	}

	positions, err := r.readBlockPacked(totalPositions)
	if err != nil {
		return nil, err
	}
	var charsPerTerm []float32
	var startOffsets, lengths []int
	if hasOffsets {
		// average number of chars per term
		charsPerTerm = make([]float32, len(fieldNums))
		for i := range charsPerTerm {
			bits, err := in.ReadInt()
			if err != nil {
				return nil, err
			}
			charsPerTerm[i] = math.Float32frombits(uint32(bits))
		}
		if startOffsets, err = r.readBlockPacked(totalOffsets); err != nil {
			return nil, err
		}
		if lengths, err = r.readBlockPacked(totalOffsets); err != nil {
			return nil, err
		}
	}
	payloadLengths, err := r.readBlockPacked(totalPayloads)
	if err != nil {
		return nil, err
	}

	fields := &tvFields{
		fieldInfos: r.fieldInfos,
		names:      make([]string, numFields),
		terms:      make([]*tvTerms, numFields),
	}

	// payload window of the doc
	payloadOff, payloadLen, totalPayloadLength := 0, 0, 0
	for i := 0; i < totalFields; i++ {
		if int(chunk.flags.Get(i))&PAYLOADS == 0 {
			continue
		}
		sum := 0
		for _, l := range payloadLengths[payStarts[i] : payStarts[i]+chunk.totalFreq(i)] {
			if l < 0 {
				return nil, codec.NewCorruptIndexError(in, "negative payload length")
			}
			sum += l
		}
		if i < skip {
			payloadOff += sum
		} else if i < skip+numFields {
			payloadLen += sum
		}
		totalPayloadLength += sum
	}

	fieldOff := 0
	docPayloadOff := 0
	for j := 0; j < numFields; j++ {
		i := skip + j
		info := r.fieldInfos.FieldInfoByNumber(fieldNums[fieldNumOffs[j]])
		if info == nil {
			return nil, codec.NewCorruptIndexError(in, "unknown field number %v", fieldNums[fieldNumOffs[j]])
		}
		fields.names[j] = info.Name

		flags := int(chunk.flags.Get(i))
		termCount := int(chunk.numTerms.Get(i))
		ts, te := chunk.termStart[i], chunk.termStart[i+1]
		t := &tvTerms{
			numTerms:      termCount,
			flags:         flags,
			prefixLengths: prefixLengths[ts:te],
			suffixLengths: suffixLengths[ts:te],
			termFreqs:     chunk.termFreqs[ts:te],
			positionIndex: make([]int, termCount+1),
		}
		for k, freq := range t.termFreqs {
			t.positionIndex[k+1] = t.positionIndex[k] + freq
		}
		totalFreq := t.positionIndex[termCount]
		fieldLen := 0
		for _, l := range t.suffixLengths {
			fieldLen += l
		}
		t.termBytesOff, t.termBytesLen = fieldOff, fieldLen
		fieldOff += fieldLen

		if flags&POSITIONS != 0 {
			t.positions = positions[posStarts[i] : posStarts[i]+totalFreq]
		}
		if flags&OFFSETS != 0 {
			t.startOffsets = startOffsets[offStarts[i] : offStarts[i]+totalFreq]
			t.lengths = lengths[offStarts[i] : offStarts[i]+totalFreq]
			// patch offsets from positions
			if t.positions != nil {
				cpt := charsPerTerm[fieldNumOffs[j]]
				for k := range t.startOffsets {
					t.startOffsets[k] += int(cpt * float32(t.positions[k]))
				}
			}
			// delta-decode start offsets and patch lengths using term lengths
			for k := 0; k < termCount; k++ {
				termLength := t.prefixLengths[k] + t.suffixLengths[k]
				t.lengths[t.positionIndex[k]] += termLength
				for p := t.positionIndex[k] + 1; p < t.positionIndex[k+1]; p++ {
					t.startOffsets[p] += t.startOffsets[p-1]
					t.lengths[p] += termLength
				}
			}
		}
		if t.positions != nil {
			// delta-decode positions
			for k := 0; k < termCount; k++ {
				for p := t.positionIndex[k] + 1; p < t.positionIndex[k+1]; p++ {
					t.positions[p] += t.positions[p-1]
				}
			}
		}
		if flags&PAYLOADS != 0 {
			t.payloadIndex = make([]int, totalFreq+1)
			t.payloadIndex[0] = docPayloadOff
			for p, l := range payloadLengths[payStarts[i] : payStarts[i]+totalFreq] {
				docPayloadOff += l
				t.payloadIndex[p+1] = docPayloadOff
			}
		}
		if termCount > 0 {
			fields.terms[j] = t
		}
	}
	assert(fieldOff == docLen)
	fields.sortByNumber()

	// decompress data
	suffixBytes := util.NewEmptyBytesRef()
	if err = r.decompressor.Decompress(in, totalLen+totalPayloadLength,
		docOff+payloadOff, docLen+payloadLen, suffixBytes); err != nil {
		return nil, err
	}
	data := suffixBytes.Bytes[suffixBytes.Offset : suffixBytes.Offset+suffixBytes.Length]
	termBytes, payloadBytes := data[:docLen], data[docLen:]
	for _, t := range fields.terms {
		if t != nil {
			t.termBytes = termBytes[t.termBytesOff : t.termBytesOff+t.termBytesLen]
			t.payloadBytes = payloadBytes
		}
	}
	return fields, nil
}

// Term vectors of one document.
type tvFields struct {
	fieldInfos model.FieldInfos
	names      []string
	terms      []*tvTerms // nil for fields without terms
}

// Orders fields by field number, the order Names() reports.
func (f *tvFields) sortByNumber() {
	number := func(i int) int32 { return f.fieldInfos.FieldInfoByName(f.names[i]).Number }
	sort.Sort(tvFieldsByNumber{f, number})
}

type tvFieldsByNumber struct {
	f      *tvFields
	number func(i int) int32
}

func (s tvFieldsByNumber) Len() int           { return len(s.f.names) }
func (s tvFieldsByNumber) Less(i, j int) bool { return s.number(i) < s.number(j) }
func (s tvFieldsByNumber) Swap(i, j int) {
	s.f.names[i], s.f.names[j] = s.f.names[j], s.f.names[i]
	s.f.terms[i], s.f.terms[j] = s.f.terms[j], s.f.terms[i]
}

func (f *tvFields) Names() []string {
	return f.names
}

func (f *tvFields) Terms(field string) model.Terms {
	for i, name := range f.names {
		if name == field {
			if t := f.terms[i]; t != nil {
				return t
			}
			// no term
			return nil
		}
	}
	return nil
}

func (f *tvFields) Size() int {
	return len(f.names)
}

type tvTerms struct {
	numTerms, flags              int
	prefixLengths, suffixLengths []int
	termFreqs                    []int
	positionIndex                []int // term -> first occurrence, plus the total
	positions                    []int
	startOffsets, lengths        []int
	payloadIndex                 []int // occurrence -> payload start, plus the end
	payloadBytes                 []byte
	termBytes                    []byte
	termBytesOff, termBytesLen   int
}

func (t *tvTerms) Iterator(reuse model.TermsEnum) model.TermsEnum {
	var termsEnum *tvTermsEnum
	if e, ok := reuse.(*tvTermsEnum); ok && e != nil {
		termsEnum = e
	} else {
		termsEnum = new(tvTermsEnum)
	}
	termsEnum.reset(t)
	return termsEnum
}

func (t *tvTerms) Size() int64             { return int64(t.numTerms) }
func (t *tvTerms) SumTotalTermFreq() int64 { return -1 }
func (t *tvTerms) SumDocFreq() int64       { return int64(t.numTerms) }
func (t *tvTerms) DocCount() int           { return 1 }
func (t *tvTerms) HasFreqs() bool          { return true }
func (t *tvTerms) HasOffsets() bool        { return t.flags&OFFSETS != 0 }
func (t *tvTerms) HasPositions() bool      { return t.flags&POSITIONS != 0 }
func (t *tvTerms) HasPayloads() bool       { return t.flags&PAYLOADS != 0 }

var errUnsupportedOrd = errors.New("term vectors do not support ords")

type tvTermsEnum struct {
	terms *tvTerms
	ord   int
	pos   int // read position in terms.termBytes
	term  []byte
}

func (e *tvTermsEnum) reset(terms *tvTerms) {
	e.terms = terms
	e.rewind()
}

func (e *tvTermsEnum) rewind() {
	e.term = e.term[:0]
	e.pos = 0
	e.ord = -1
}

func (e *tvTermsEnum) Next() ([]byte, error) {
	if e.ord == e.terms.numTerms-1 {
		return nil, nil
	}
	assert(e.ord < e.terms.numTerms)
	e.ord++

	// read term
	prefix, suffix := e.terms.prefixLengths[e.ord], e.terms.suffixLengths[e.ord]
	if prefix > len(e.term) || e.pos+suffix > len(e.terms.termBytes) {
		return nil, codec.NewCorruptIndexError("term vectors",
			"term %v: prefix=%v, suffix=%v exceed the term bytes", e.ord, prefix, suffix)
	}
	e.term = append(e.term[:prefix], e.terms.termBytes[e.pos:e.pos+suffix]...)
	e.pos += suffix
	return e.term, nil
}

func (e *tvTermsEnum) SeekCeil(text []byte) (model.SeekStatus, error) {
	if e.ord < e.terms.numTerms && e.ord >= 0 {
		cmp := bytes.Compare(e.term, text)
		if cmp == 0 {
			return model.SEEK_STATUS_FOUND, nil
		} else if cmp > 0 {
			e.rewind()
		}
	}
	// linear scan
	for {
		term, err := e.Next()
		if err != nil {
			return 0, err
		}
		if term == nil {
			return model.SEEK_STATUS_END, nil
		}
		if cmp := bytes.Compare(term, text); cmp > 0 {
			return model.SEEK_STATUS_NOT_FOUND, nil
		} else if cmp == 0 {
			return model.SEEK_STATUS_FOUND, nil
		}
	}
}

func (e *tvTermsEnum) SeekExact(text []byte) (bool, error) {
	status, err := e.SeekCeil(text)
	return status == model.SEEK_STATUS_FOUND, err
}

func (e *tvTermsEnum) SeekExactByPosition(ord int64) error {
	return errUnsupportedOrd
}

func (e *tvTermsEnum) Term() []byte { return e.term }

// Unsupported; always -1.
func (e *tvTermsEnum) Ord() int64 { return -1 }

func (e *tvTermsEnum) DocFreq() (int, error) { return 1, nil }

func (e *tvTermsEnum) TotalTermFreq() (int64, error) {
	return int64(e.terms.termFreqs[e.ord]), nil
}

func (e *tvTermsEnum) docsEnum(liveDocs util.Bits, reuse interface{}) *tvDocsEnum {
	docsEnum, ok := reuse.(*tvDocsEnum)
	if !ok || docsEnum == nil {
		docsEnum = new(tvDocsEnum)
	}
	docsEnum.reset(liveDocs, e.terms, e.ord)
	return docsEnum
}

func (e *tvTermsEnum) Docs(liveDocs util.Bits, reuse model.DocsEnum) (model.DocsEnum, error) {
	return e.docsEnum(liveDocs, reuse), nil
}

func (e *tvTermsEnum) DocsAndPositions(liveDocs util.Bits, reuse model.DocsAndPositionsEnum) (model.DocsAndPositionsEnum, error) {
	if e.terms.positions == nil && e.terms.startOffsets == nil {
		return nil, nil
	}
	return e.docsEnum(liveDocs, reuse), nil
}

var (
	errDocsEnumNotStarted = errors.New("DocsEnum not started")
	errDocsEnumExhausted  = errors.New("DocsEnum exhausted")
	errPositionNotStarted = errors.New("position enum not started")
	errReadPastPosition   = errors.New("read past last position")
)

type tvDocsEnum struct {
	liveDocs util.Bits
	doc      int
	termFreq int
	base     int // index of the term's first occurrence
	terms    *tvTerms
	i        int
}

func (d *tvDocsEnum) reset(liveDocs util.Bits, terms *tvTerms, ord int) {
	d.liveDocs = liveDocs
	d.terms = terms
	d.termFreq = terms.termFreqs[ord]
	d.base = terms.positionIndex[ord]
	d.doc, d.i = -1, -1
}

func (d *tvDocsEnum) checkDoc() error {
	if d.doc == model.NO_MORE_DOCS {
		return errDocsEnumExhausted
	} else if d.doc == -1 {
		return errDocsEnumNotStarted
	}
	return nil
}

func (d *tvDocsEnum) checkPosition() error {
	if err := d.checkDoc(); err != nil {
		return err
	}
	if d.i < 0 {
		return errPositionNotStarted
	} else if d.i >= d.termFreq {
		return errReadPastPosition
	}
	return nil
}

func (d *tvDocsEnum) NextPosition() (int, error) {
	if d.doc != 0 {
		return 0, errors.Errorf("illegal state: doc=%v", d.doc)
	} else if d.i >= d.termFreq-1 {
		return 0, errReadPastPosition
	}
	d.i++
	if d.terms.positions == nil {
		return -1, nil
	}
	return d.terms.positions[d.base+d.i], nil
}

func (d *tvDocsEnum) StartOffset() (int, error) {
	if err := d.checkPosition(); err != nil {
		return 0, err
	}
	if d.terms.startOffsets == nil {
		return -1, nil
	}
	return d.terms.startOffsets[d.base+d.i], nil
}

func (d *tvDocsEnum) EndOffset() (int, error) {
	if err := d.checkPosition(); err != nil {
		return 0, err
	}
	if d.terms.startOffsets == nil {
		return -1, nil
	}
	return d.terms.startOffsets[d.base+d.i] + d.terms.lengths[d.base+d.i], nil
}

func (d *tvDocsEnum) Payload() ([]byte, error) {
	if err := d.checkPosition(); err != nil {
		return nil, err
	}
	if d.terms.payloadIndex == nil {
		return nil, nil
	}
	start, end := d.terms.payloadIndex[d.base+d.i], d.terms.payloadIndex[d.base+d.i+1]
	if start == end {
		return nil, nil
	}
	return d.terms.payloadBytes[start:end], nil
}

func (d *tvDocsEnum) Freq() (int, error) {
	if err := d.checkDoc(); err != nil {
		return 0, err
	}
	return d.termFreq, nil
}

func (d *tvDocsEnum) DocID() int { return d.doc }

func (d *tvDocsEnum) NextDoc() (int, error) {
	if d.doc == -1 && (d.liveDocs == nil || d.liveDocs.At(0)) {
		d.doc = 0
	} else {
		d.doc = model.NO_MORE_DOCS
	}
	return d.doc, nil
}

func (d *tvDocsEnum) Advance(target int) (int, error) {
	// slow advance
	for {
		doc, err := d.NextDoc()
		if err != nil || doc >= target {
			return doc, err
		}
	}
}
