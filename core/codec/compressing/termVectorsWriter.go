package compressing

import (
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

// codec/compressing/CompressingTermVectorsWriter.java

const (
	// Extension of vectors fields file
	VECTORS_EXTENSION = "tvd"
	// Extension of vectors index file
	VECTORS_INDEX_EXTENSION = "tvx"
)

const (
	TV_VERSION_START    = 0
	TV_VERSION_CHECKSUM = 1
	TV_VERSION_CURRENT  = TV_VERSION_CHECKSUM
)

// default block size of the block-packed streams
const PACKED_BLOCK_SIZE = 64

const (
	POSITIONS = 0x01
	OFFSETS   = 0x02
	PAYLOADS  = 0x04
)

var FLAGS_BITS = packed.BitsRequired(POSITIONS | OFFSETS | PAYLOADS)

// a pending doc
type tvDocData struct {
	numFields                  int
	fields                     []*tvFieldData
	posStart, offStart, payStart int
}

func (w *CompressingTermVectorsWriter) addField(doc *tvDocData, fieldNum, numTerms int,
	positions, offsets, payloads bool) *tvFieldData {

	var field *tvFieldData
	if len(doc.fields) == 0 {
		field = w.newFieldData(fieldNum, numTerms, positions, offsets, payloads,
			doc.posStart, doc.offStart, doc.payStart)
	} else {
		posStart, offStart, payStart := doc.fields[len(doc.fields)-1].nextStarts()
		field = w.newFieldData(fieldNum, numTerms, positions, offsets, payloads,
			posStart, offStart, payStart)
	}
	doc.fields = append(doc.fields, field)
	return field
}

func (w *CompressingTermVectorsWriter) addDocData(numVectorFields int) *tvDocData {
	var last *tvFieldData
	for i := len(w.pendingDocs) - 1; i >= 0; i-- {
		if doc := w.pendingDocs[i]; len(doc.fields) > 0 {
			last = doc.fields[len(doc.fields)-1]
			break
		}
	}
	doc := &tvDocData{numFields: numVectorFields}
	if last != nil {
		doc.posStart, doc.offStart, doc.payStart = last.nextStarts()
	}
	w.pendingDocs = append(w.pendingDocs, doc)
	return doc
}

// a pending field
type tvFieldData struct {
	w                                   *CompressingTermVectorsWriter
	hasPositions, hasOffsets, hasPayloads bool
	fieldNum, flags, numTerms             int
	freqs, prefixLengths, suffixLengths   []int
	posStart, offStart, payStart          int
	totalPositions                        int
	ord                                   int
}

func (w *CompressingTermVectorsWriter) newFieldData(fieldNum, numTerms int,
	positions, offsets, payloads bool, posStart, offStart, payStart int) *tvFieldData {

	flags := 0
	if positions {
		flags |= POSITIONS
	}
	if offsets {
		flags |= OFFSETS
	}
	if payloads {
		flags |= PAYLOADS
	}
	return &tvFieldData{
		w:             w,
		hasPositions:  positions,
		hasOffsets:    offsets,
		hasPayloads:   payloads,
		fieldNum:      fieldNum,
		flags:         flags,
		numTerms:      numTerms,
		freqs:         make([]int, numTerms),
		prefixLengths: make([]int, numTerms),
		suffixLengths: make([]int, numTerms),
		posStart:      posStart,
		offStart:      offStart,
		payStart:      payStart,
	}
}

// Start indices of the field that follows this one in the shared buffers.
func (fd *tvFieldData) nextStarts() (posStart, offStart, payStart int) {
	posStart, offStart, payStart = fd.posStart, fd.offStart, fd.payStart
	if fd.hasPositions {
		posStart += fd.totalPositions
	}
	if fd.hasOffsets {
		offStart += fd.totalPositions
	}
	if fd.hasPayloads {
		payStart += fd.totalPositions
	}
	return
}

func (fd *tvFieldData) addTerm(freq, prefixLength, suffixLength int) {
	fd.freqs[fd.ord] = freq
	fd.prefixLengths[fd.ord] = prefixLength
	fd.suffixLengths[fd.ord] = suffixLength
	fd.ord++
}

func (fd *tvFieldData) addPosition(position, startOffset, length, payloadLength int) {
	w := fd.w
	if fd.hasPositions {
		if fd.posStart+fd.totalPositions == len(w.positionsBuf) {
			w.positionsBuf = util.GrowIntSlice(w.positionsBuf, len(w.positionsBuf)+1)
		}
		w.positionsBuf[fd.posStart+fd.totalPositions] = position
	}
	if fd.hasOffsets {
		if fd.offStart+fd.totalPositions == len(w.startOffsetsBuf) {
			newLength := util.Oversize(fd.offStart+fd.totalPositions+1, 4)
			w.startOffsetsBuf = copyOfInts(w.startOffsetsBuf, newLength)
			w.lengthsBuf = copyOfInts(w.lengthsBuf, newLength)
		}
		w.startOffsetsBuf[fd.offStart+fd.totalPositions] = startOffset
		w.lengthsBuf[fd.offStart+fd.totalPositions] = length
	}
	if fd.hasPayloads {
		if fd.payStart+fd.totalPositions == len(w.payloadLengthsBuf) {
			w.payloadLengthsBuf = util.GrowIntSlice(w.payloadLengthsBuf, len(w.payloadLengthsBuf)+1)
		}
		w.payloadLengthsBuf[fd.payStart+fd.totalPositions] = payloadLength
	}
	fd.totalPositions++
}

func copyOfInts(values []int, newLength int) []int {
	ans := make([]int, newLength)
	copy(ans, values)
	return ans
}

// TermVectorsWriter for CompressingTermVectorsFormat
type CompressingTermVectorsWriter struct {
	directory     store.Directory
	segment       string
	segmentSuffix string
	formatName    string
	indexWriter   *StoredFieldsIndexWriter
	vectorsStream store.IndexOutput

	compressionMode CompressionMode
	compressor      Compressor
	chunkSize       int
	maxDocsPerChunk int
	blockSize       int
	metrics         *Metrics

	numDocs     int // cumulative number of docs seen
	pendingDocs []*tvDocData
	curDoc      *tvDocData
	curField    *tvFieldData
	lastTerm    []byte

	positionsBuf, startOffsetsBuf, lengthsBuf, payloadLengthsBuf []int
	termSuffixes *util.GrowableByteArrayDataOutput // buffered term suffixes
	payloadBytes *util.GrowableByteArrayDataOutput // buffered term payloads
	writer       *packed.BlockPackedWriter

	closed bool
}

func NewCompressingTermVectorsWriter(d store.Directory, si *model.SegmentInfo,
	segmentSuffix string, context store.IOContext, formatName string,
	compressionMode CompressionMode, chunkSize, blockSize int) (*CompressingTermVectorsWriter, error) {

	assert(d != nil)
	w := &CompressingTermVectorsWriter{
		directory:         d,
		segment:           si.Name,
		segmentSuffix:     segmentSuffix,
		formatName:        formatName,
		compressionMode:   compressionMode,
		compressor:        compressionMode.NewCompressor(),
		chunkSize:         chunkSize,
		maxDocsPerChunk:   MAX_DOCUMENTS_PER_CHUNK,
		blockSize:         blockSize,
		pendingDocs:       make([]*tvDocData, 0, MAX_DOCUMENTS_PER_CHUNK),
		lastTerm:          make([]byte, 0, util.Oversize(30, 1)),
		positionsBuf:      make([]int, 1024),
		startOffsetsBuf:   make([]int, 1024),
		lengthsBuf:        make([]int, 1024),
		payloadLengthsBuf: make([]int, 1024),
		termSuffixes:      util.NewGrowableByteArrayDataOutput(util.Oversize(chunkSize, 1)),
		payloadBytes:      util.NewGrowableByteArrayDataOutput(util.Oversize(1, 1)),
	}

	success := false
	indexStream, err := d.CreateOutput(util.SegmentFileName(si.Name, segmentSuffix, VECTORS_INDEX_EXTENSION), context)
	if err != nil {
		return nil, err
	}
	defer func() {
		if !success {
			util.CloseWhileSuppressingError(indexStream)
			w.Abort()
		}
	}()

	if w.vectorsStream, err = d.CreateOutput(util.SegmentFileName(si.Name, segmentSuffix, VECTORS_EXTENSION), context); err != nil {
		return nil, err
	}

	codecNameIdx := formatName + CODEC_SFX_IDX
	codecNameDat := formatName + CODEC_SFX_DAT
	if err = codec.WriteHeader(indexStream, codecNameIdx, TV_VERSION_CURRENT); err != nil {
		return nil, err
	}
	if err = codec.WriteHeader(w.vectorsStream, codecNameDat, TV_VERSION_CURRENT); err != nil {
		return nil, err
	}
	assert(int64(codec.HeaderLength(codecNameIdx)) == indexStream.FilePointer())
	assert(int64(codec.HeaderLength(codecNameDat)) == w.vectorsStream.FilePointer())

	if w.indexWriter, err = NewStoredFieldsIndexWriter(indexStream); err != nil {
		return nil, err
	}
	indexStream = nil

	if err = w.vectorsStream.WriteVInt(packed.VERSION_CURRENT); err != nil {
		return nil, err
	}
	if err = w.vectorsStream.WriteVInt(int32(chunkSize)); err != nil {
		return nil, err
	}
	w.writer = packed.NewBlockPackedWriter(w.vectorsStream, blockSize)

	success = true
	return w, nil
}

func (w *CompressingTermVectorsWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer func() {
		w.vectorsStream = nil
		w.indexWriter = nil
	}()
	return util.Close(w.vectorsStream, w.indexWriter)
}

func (w *CompressingTermVectorsWriter) ensureOpen() error {
	if w.closed {
		return store.ErrAlreadyClosed
	}
	return nil
}

func (w *CompressingTermVectorsWriter) Abort() {
	if w == nil {
		return
	}
	util.CloseWhileSuppressingError(w)
	log.Warning("Aborting term vectors of segment %v, deleting partial files", w.segment)
	util.DeleteFilesIgnoringErrors(w.directory,
		util.SegmentFileName(w.segment, w.segmentSuffix, VECTORS_EXTENSION),
		util.SegmentFileName(w.segment, w.segmentSuffix, VECTORS_INDEX_EXTENSION))
}

func (w *CompressingTermVectorsWriter) StartDocument(numVectorFields int) error {
	if err := w.ensureOpen(); err != nil {
		return err
	}
	w.curDoc = w.addDocData(numVectorFields)
	return nil
}

func (w *CompressingTermVectorsWriter) FinishDocument() error {
	if err := w.ensureOpen(); err != nil {
		return err
	}
	if len(w.curDoc.fields) != w.curDoc.numFields {
		return errors.Errorf("StartDocument announced %v fields, got %v",
			w.curDoc.numFields, len(w.curDoc.fields))
	}
	// append the payload bytes of the doc after its terms
	if err := w.termSuffixes.WriteBytes(w.payloadBytes.ToBytes()); err != nil {
		return err
	}
	w.payloadBytes.Length = 0
	w.numDocs++
	w.curDoc = nil
	if w.triggerFlush() {
		return w.flush()
	}
	return nil
}

func (w *CompressingTermVectorsWriter) StartField(info *model.FieldInfo, numTerms int,
	positions, offsets, payloads bool) error {

	if err := w.ensureOpen(); err != nil {
		return err
	}
	if payloads && !positions {
		return errors.Errorf("field %v: payloads require positions", info.Name)
	}
	w.curField = w.addField(w.curDoc, int(info.Number), numTerms, positions, offsets, payloads)
	w.lastTerm = w.lastTerm[:0]
	return nil
}

func (w *CompressingTermVectorsWriter) FinishField() error {
	if w.curField.ord != w.curField.numTerms {
		return errors.Errorf("StartField announced %v terms, got %v",
			w.curField.numTerms, w.curField.ord)
	}
	w.curField = nil
	return nil
}

func (w *CompressingTermVectorsWriter) StartTerm(term []byte, freq int) error {
	assert(freq >= 1)
	if w.curField.ord >= w.curField.numTerms {
		return errors.Errorf("more than %v terms added", w.curField.numTerms)
	}
	prefix := bytesDifference(w.lastTerm, term)
	w.curField.addTerm(freq, prefix, len(term)-prefix)
	if err := w.termSuffixes.WriteBytes(term[prefix:]); err != nil {
		return err
	}
	// copy last term
	w.lastTerm = append(w.lastTerm[:0], term...)
	return nil
}

// Returns the length of the common prefix of left and right.
func bytesDifference(left, right []byte) int {
	n := minInt(len(left), len(right))
	for i := 0; i < n; i++ {
		if left[i] != right[i] {
			return i
		}
	}
	return n
}

func (w *CompressingTermVectorsWriter) FinishTerm() error { return nil }

func (w *CompressingTermVectorsWriter) AddPosition(position, startOffset, endOffset int, payload []byte) error {
	assert(w.curField.flags != 0)
	w.curField.addPosition(position, startOffset, endOffset-startOffset, len(payload))
	if w.curField.hasPayloads && len(payload) > 0 {
		return w.payloadBytes.WriteBytes(payload)
	}
	return nil
}

func (w *CompressingTermVectorsWriter) triggerFlush() bool {
	return w.termSuffixes.Length >= w.chunkSize ||
		len(w.pendingDocs) >= w.maxDocsPerChunk
}

func (w *CompressingTermVectorsWriter) flush() (err error) {
	chunkDocs := len(w.pendingDocs)
	assert(chunkDocs > 0)

	// write the index file
	start := w.vectorsStream.FilePointer()
	if err = w.indexWriter.writeIndex(chunkDocs, start); err != nil {
		return
	}

	docBase := w.numDocs - chunkDocs
	if err = w.vectorsStream.WriteVInt(int32(docBase)); err != nil {
		return
	}
	if err = w.vectorsStream.WriteVInt(int32(chunkDocs)); err != nil {
		return
	}

	// total number of fields of the chunk
	totalFields, err := w.flushNumFields(chunkDocs)
	if err != nil {
		return
	}

	if totalFields > 0 {
		var fieldNums []int
		// unique field numbers (sorted)
		if fieldNums, err = w.flushFieldNums(); err != nil {
			return
		}
		// offsets in the array of unique field numbers
		if err = w.flushFields(totalFields, fieldNums); err != nil {
			return
		}
		// flags (does the field have positions, offsets, payloads?)
		if err = w.flushFlags(totalFields, fieldNums); err != nil {
			return
		}
		// number of terms of each field
		if err = w.flushNumTerms(totalFields); err != nil {
			return
		}
		// prefix and suffix lengths for each field
		if err = w.flushTermLengths(); err != nil {
			return
		}
		// term freqs - 1 (because termFreq is always >=1) for each term
		if err = w.flushTermFreqs(); err != nil {
			return
		}
		// positions for all terms, when enabled
		if err = w.flushPositions(); err != nil {
			return
		}
		// offsets for all terms, when enabled
		if err = w.flushOffsets(fieldNums); err != nil {
			return
		}
		// payload lengths for all terms, when enabled
		if err = w.flushPayloadLengths(); err != nil {
			return
		}

		// compress terms and payloads and write them to the output
		if err = w.compressor.Compress(w.termSuffixes.ToBytes(), w.vectorsStream); err != nil {
			return
		}
	}

	written := w.vectorsStream.FilePointer() - start
	log.Debug("Flushed term vectors chunk: docBase=%v, docs=%v, raw=%v, written=%v",
		docBase, chunkDocs, w.termSuffixes.Length, written)
	w.metrics.chunkFlushed(w.formatName, w.termSuffixes.Length, written)

	// reset
	w.pendingDocs = w.pendingDocs[:0]
	w.curDoc = nil
	w.curField = nil
	w.termSuffixes.Length = 0
	return nil
}

func (w *CompressingTermVectorsWriter) flushNumFields(chunkDocs int) (int, error) {
	if chunkDocs == 1 {
		numFields := w.pendingDocs[0].numFields
		return numFields, w.vectorsStream.WriteVInt(int32(numFields))
	}
	w.writer.Reset(w.vectorsStream)
	totalFields := 0
	for _, dd := range w.pendingDocs {
		if err := w.writer.Add(int64(dd.numFields)); err != nil {
			return 0, err
		}
		totalFields += dd.numFields
	}
	return totalFields, w.writer.Finish()
}

// Returns a sorted array containing unique field numbers
func (w *CompressingTermVectorsWriter) flushFieldNums() ([]int, error) {
	seen := make(map[int]bool)
	var fieldNums []int
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			if !seen[fd.fieldNum] {
				seen[fd.fieldNum] = true
				fieldNums = append(fieldNums, fd.fieldNum)
			}
		}
	}
	sort.Ints(fieldNums)

	numDistinctFields := len(fieldNums)
	assert(numDistinctFields > 0)
	bitsRequired := packed.BitsRequired(int64(fieldNums[numDistinctFields-1]))
	token := (minInt(numDistinctFields-1, 0x07) << 5) | bitsRequired
	if err := w.vectorsStream.WriteByte(byte(token)); err != nil {
		return nil, err
	}
	if numDistinctFields-1 >= 0x07 {
		if err := w.vectorsStream.WriteVInt(int32(numDistinctFields - 1 - 0x07)); err != nil {
			return nil, err
		}
	}
	writer := packed.WriterNoHeader(w.vectorsStream, numDistinctFields, bitsRequired)
	for _, fieldNum := range fieldNums {
		if err := writer.Add(int64(fieldNum)); err != nil {
			return nil, err
		}
	}
	return fieldNums, writer.Finish()
}

func (w *CompressingTermVectorsWriter) flushFields(totalFields int, fieldNums []int) error {
	writer := packed.WriterNoHeader(w.vectorsStream, totalFields, packed.BitsRequired(int64(len(fieldNums)-1)))
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			fieldNumIndex := sort.SearchInts(fieldNums, fd.fieldNum)
			assert(fieldNumIndex < len(fieldNums) && fieldNums[fieldNumIndex] == fd.fieldNum)
			if err := writer.Add(int64(fieldNumIndex)); err != nil {
				return err
			}
		}
	}
	return writer.Finish()
}

func (w *CompressingTermVectorsWriter) flushFlags(totalFields int, fieldNums []int) error {
	// check if fields always have the same flags
	nonChangingFlags := true
	fieldFlags := make([]int, len(fieldNums))
	for i := range fieldFlags {
		fieldFlags[i] = -1
	}
outer:
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			fieldNumOff := sort.SearchInts(fieldNums, fd.fieldNum)
			if fieldFlags[fieldNumOff] == -1 {
				fieldFlags[fieldNumOff] = fd.flags
			} else if fieldFlags[fieldNumOff] != fd.flags {
				nonChangingFlags = false
				break outer
			}
		}
	}

	if nonChangingFlags {
		// write one flag per field num
		if err := w.vectorsStream.WriteVInt(0); err != nil {
			return err
		}
		writer := packed.WriterNoHeader(w.vectorsStream, len(fieldFlags), FLAGS_BITS)
		for _, flags := range fieldFlags {
			assert(flags >= 0)
			if err := writer.Add(int64(flags)); err != nil {
				return err
			}
		}
		assert(writer.Ord() == len(fieldFlags)-1)
		return writer.Finish()
	}

	// write one flag for every field instance
	if err := w.vectorsStream.WriteVInt(1); err != nil {
		return err
	}
	writer := packed.WriterNoHeader(w.vectorsStream, totalFields, FLAGS_BITS)
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			if err := writer.Add(int64(fd.flags)); err != nil {
				return err
			}
		}
	}
	return writer.Finish()
}

func (w *CompressingTermVectorsWriter) flushNumTerms(totalFields int) error {
	maxNumTerms := 0
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			maxNumTerms |= fd.numTerms
		}
	}
	bitsRequired := packed.BitsRequired(int64(maxNumTerms))
	if err := w.vectorsStream.WriteVInt(int32(bitsRequired)); err != nil {
		return err
	}
	writer := packed.WriterNoHeader(w.vectorsStream, totalFields, bitsRequired)
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			if err := writer.Add(int64(fd.numTerms)); err != nil {
				return err
			}
		}
	}
	return writer.Finish()
}

// Writes values, one block-packed stream per call.
func (w *CompressingTermVectorsWriter) flushBlock(fill func(add func(v int) error) error) error {
	w.writer.Reset(w.vectorsStream)
	add := func(v int) error { return w.writer.Add(int64(v)) }
	if err := fill(add); err != nil {
		return err
	}
	return w.writer.Finish()
}

func (w *CompressingTermVectorsWriter) flushTermLengths() error {
	err := w.flushBlock(func(add func(int) error) error {
		for _, dd := range w.pendingDocs {
			for _, fd := range dd.fields {
				for _, v := range fd.prefixLengths[:fd.numTerms] {
					if err := add(v); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return w.flushBlock(func(add func(int) error) error {
		for _, dd := range w.pendingDocs {
			for _, fd := range dd.fields {
				for _, v := range fd.suffixLengths[:fd.numTerms] {
					if err := add(v); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

func (w *CompressingTermVectorsWriter) flushTermFreqs() error {
	return w.flushBlock(func(add func(int) error) error {
		for _, dd := range w.pendingDocs {
			for _, fd := range dd.fields {
				for _, v := range fd.freqs[:fd.numTerms] {
					if err := add(v - 1); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

func (w *CompressingTermVectorsWriter) flushPositions() error {
	return w.flushBlock(func(add func(int) error) error {
		for _, dd := range w.pendingDocs {
			for _, fd := range dd.fields {
				if !fd.hasPositions {
					continue
				}
				pos := 0
				for i := 0; i < fd.numTerms; i++ {
					previousPosition := 0
					for j := 0; j < fd.freqs[i]; j++ {
						position := w.positionsBuf[fd.posStart+pos]
						pos++
						if err := add(position - previousPosition); err != nil {
							return err
						}
						previousPosition = position
					}
				}
				assert(pos == fd.totalPositions)
			}
		}
		return nil
	})
}

func (w *CompressingTermVectorsWriter) flushOffsets(fieldNums []int) error {
	hasOffsets := false
	sumPos := make([]int64, len(fieldNums))
	sumOffsets := make([]int64, len(fieldNums))
	for _, dd := range w.pendingDocs {
		for _, fd := range dd.fields {
			hasOffsets = hasOffsets || fd.hasOffsets
			if fd.hasOffsets && fd.hasPositions {
				fieldNumOff := sort.SearchInts(fieldNums, fd.fieldNum)
				pos := 0
				for i := 0; i < fd.numTerms; i++ {
					previousPos, previousOff := 0, 0
					for j := 0; j < fd.freqs[i]; j++ {
						position := w.positionsBuf[fd.posStart+pos]
						startOffset := w.startOffsetsBuf[fd.offStart+pos]
						sumPos[fieldNumOff] += int64(position - previousPos)
						sumOffsets[fieldNumOff] += int64(startOffset - previousOff)
						previousPos = position
						previousOff = startOffset
						pos++
					}
				}
				assert(pos == fd.totalPositions)
			}
		}
	}

	if !hasOffsets {
		// nothing to do
		return nil
	}

	charsPerTerm := make([]float32, len(fieldNums))
	for i := range fieldNums {
		if sumPos[i] > 0 && sumOffsets[i] > 0 {
			charsPerTerm[i] = float32(float64(sumOffsets[i]) / float64(sumPos[i]))
		}
	}

	// start offsets
	for _, cpt := range charsPerTerm {
		if err := w.vectorsStream.WriteInt(int32(math.Float32bits(cpt))); err != nil {
			return err
		}
	}

	err := w.flushBlock(func(add func(int) error) error {
		for _, dd := range w.pendingDocs {
			for _, fd := range dd.fields {
				if fd.flags&OFFSETS == 0 {
					continue
				}
				cpt := charsPerTerm[sort.SearchInts(fieldNums, fd.fieldNum)]
				pos := 0
				for i := 0; i < fd.numTerms; i++ {
					previousPos, previousOff := 0, 0
					for j := 0; j < fd.freqs[i]; j++ {
						position := 0
						if fd.hasPositions {
							position = w.positionsBuf[fd.posStart+pos]
						}
						startOffset := w.startOffsetsBuf[fd.offStart+pos]
						if err := add(startOffset - previousOff - int(cpt*float32(position-previousPos))); err != nil {
							return err
						}
						previousPos = position
						previousOff = startOffset
						pos++
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// lengths
	return w.flushBlock(func(add func(int) error) error {
		for _, dd := range w.pendingDocs {
			for _, fd := range dd.fields {
				if fd.flags&OFFSETS == 0 {
					continue
				}
				pos := 0
				for i := 0; i < fd.numTerms; i++ {
					for j := 0; j < fd.freqs[i]; j++ {
						if err := add(w.lengthsBuf[fd.offStart+pos] - fd.prefixLengths[i] - fd.suffixLengths[i]); err != nil {
							return err
						}
						pos++
					}
				}
				assert(pos == fd.totalPositions)
			}
		}
		return nil
	})
}

func (w *CompressingTermVectorsWriter) flushPayloadLengths() error {
	return w.flushBlock(func(add func(int) error) error {
		for _, dd := range w.pendingDocs {
			for _, fd := range dd.fields {
				if !fd.hasPayloads {
					continue
				}
				for _, v := range w.payloadLengthsBuf[fd.payStart : fd.payStart+fd.totalPositions] {
					if err := add(v); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

func (w *CompressingTermVectorsWriter) Finish(fis model.FieldInfos, numDocs int) error {
	if err := w.ensureOpen(); err != nil {
		return err
	}
	if len(w.pendingDocs) > 0 {
		if err := w.flush(); err != nil {
			return err
		}
	}
	if numDocs != w.numDocs {
		return errors.Errorf("Wrote %v docs, finish called with numDocs=%v", w.numDocs, numDocs)
	}
	if err := w.indexWriter.finish(numDocs, w.vectorsStream.FilePointer()); err != nil {
		return err
	}
	return codec.WriteFooter(w.vectorsStream)
}

/*
Reads numProx positions and/or offsets for the current term, in the
format used by the indexing chain: positions as vints of
(delta << 1 | hasPayload), followed by the payload length and bytes
when the low bit is set; offsets as vints of (start - lastEnd) and
(end - start).
*/
func (w *CompressingTermVectorsWriter) AddProx(numProx int, positions, offsets util.DataInput) error {
	fd := w.curField
	assert(fd.hasPositions == (positions != nil))
	assert(fd.hasOffsets == (offsets != nil))

	if fd.hasPositions {
		posStart := fd.posStart + fd.totalPositions
		if posStart+numProx > len(w.positionsBuf) {
			w.positionsBuf = util.GrowIntSlice(w.positionsBuf, posStart+numProx)
		}
		position := 0
		if fd.hasPayloads {
			payStart := fd.payStart + fd.totalPositions
			if payStart+numProx > len(w.payloadLengthsBuf) {
				w.payloadLengthsBuf = util.GrowIntSlice(w.payloadLengthsBuf, payStart+numProx)
			}
			for i := 0; i < numProx; i++ {
				code, err := positions.ReadVInt()
				if err != nil {
					return err
				}
				if code&1 != 0 {
					// this position has a payload
					payloadLength, err := positions.ReadVInt()
					if err != nil {
						return err
					}
					w.payloadLengthsBuf[payStart+i] = int(payloadLength)
					if err = w.payloadBytes.CopyBytes(positions, int64(payloadLength)); err != nil {
						return err
					}
				} else {
					w.payloadLengthsBuf[payStart+i] = 0
				}
				position += int(uint32(code) >> 1)
				w.positionsBuf[posStart+i] = position
			}
		} else {
			for i := 0; i < numProx; i++ {
				code, err := positions.ReadVInt()
				if err != nil {
					return err
				}
				position += int(uint32(code) >> 1)
				w.positionsBuf[posStart+i] = position
			}
		}
	}

	if fd.hasOffsets {
		offStart := fd.offStart + fd.totalPositions
		if offStart+numProx > len(w.startOffsetsBuf) {
			newLength := util.Oversize(offStart+numProx, 4)
			w.startOffsetsBuf = copyOfInts(w.startOffsetsBuf, newLength)
			w.lengthsBuf = copyOfInts(w.lengthsBuf, newLength)
		}
		lastOffset := 0
		for i := 0; i < numProx; i++ {
			delta, err := offsets.ReadVInt()
			if err != nil {
				return err
			}
			length, err := offsets.ReadVInt()
			if err != nil {
				return err
			}
			startOffset := lastOffset + int(delta)
			endOffset := startOffset + int(length)
			lastOffset = endOffset
			w.startOffsetsBuf[offStart+i] = startOffset
			w.lengthsBuf[offStart+i] = endOffset - startOffset
		}
	}

	fd.totalPositions += numProx
	return nil
}

/*
Writes all the term vectors of a document, as returned by a
TermVectorsReader. A nil fields writes an empty document. Fields
without terms are skipped.
*/
func (w *CompressingTermVectorsWriter) AddAllDocVectors(vectors model.Fields, fis model.FieldInfos) (err error) {
	if vectors == nil {
		if err = w.StartDocument(0); err != nil {
			return
		}
		return w.FinishDocument()
	}

	type namedTerms struct {
		info  *model.FieldInfo
		terms model.Terms
	}
	var fields []namedTerms
	for _, name := range vectors.Names() {
		terms := vectors.Terms(name)
		if terms == nil {
			continue
		}
		info := fis.FieldInfoByName(name)
		if info == nil {
			return errors.Errorf("field %v is missing from the merged field infos", name)
		}
		fields = append(fields, namedTerms{info, terms})
	}

	if err = w.StartDocument(len(fields)); err != nil {
		return
	}
	var termsEnum model.TermsEnum
	var docsAndPositionsEnum model.DocsAndPositionsEnum
	for _, field := range fields {
		terms := field.terms
		hasPositions, hasOffsets, hasPayloads := terms.HasPositions(), terms.HasOffsets(), terms.HasPayloads()
		assert(!hasPayloads || hasPositions)

		numTerms := int(terms.Size())
		if numTerms == -1 {
			// count manually
			numTerms = 0
			it := terms.Iterator(nil)
			for {
				term, err := it.Next()
				if err != nil {
					return err
				}
				if term == nil {
					break
				}
				numTerms++
			}
		}

		if err = w.StartField(field.info, numTerms, hasPositions, hasOffsets, hasPayloads); err != nil {
			return
		}
		termsEnum = terms.Iterator(termsEnum)

		for {
			term, err := termsEnum.Next()
			if err != nil {
				return err
			}
			if term == nil {
				break
			}
			freq, err := termsEnum.TotalTermFreq()
			if err != nil {
				return err
			}
			if err = w.StartTerm(term, int(freq)); err != nil {
				return err
			}
			if hasPositions || hasOffsets {
				if docsAndPositionsEnum, err = termsEnum.DocsAndPositions(nil, docsAndPositionsEnum); err != nil {
					return err
				}
				assert(docsAndPositionsEnum != nil)
				docID, err := docsAndPositionsEnum.NextDoc()
				if err != nil {
					return err
				}
				assert(docID != model.NO_MORE_DOCS)
				for posUpto := 0; posUpto < int(freq); posUpto++ {
					pos, err := docsAndPositionsEnum.NextPosition()
					if err != nil {
						return err
					}
					startOffset, err := docsAndPositionsEnum.StartOffset()
					if err != nil {
						return err
					}
					endOffset, err := docsAndPositionsEnum.EndOffset()
					if err != nil {
						return err
					}
					payload, err := docsAndPositionsEnum.Payload()
					if err != nil {
						return err
					}
					if err = w.AddPosition(pos, startOffset, endOffset, payload); err != nil {
						return err
					}
				}
			}
			if err = w.FinishTerm(); err != nil {
				return err
			}
		}
		if err = w.FinishField(); err != nil {
			return
		}
	}
	return w.FinishDocument()
}

// Appends the live documents of every reader, then calls Finish().
func (w *CompressingTermVectorsWriter) Merge(mergeState *spi.MergeState) (docCount int, err error) {
	if err = w.ensureOpen(); err != nil {
		return 0, err
	}
	for idx, reader := range mergeState.Readers {
		var n int
		if matching := w.matchingVectorsReader(mergeState, idx); matching != nil {
			log.Debug("Merging term vectors of reader %v by chunks", idx)
			n, err = w.copyChunks(mergeState, reader, matching)
		} else {
			log.Debug("Merging term vectors of reader %v document by document", idx)
			n, err = w.addDocuments(mergeState, reader, 0, reader.MaxDoc)
		}
		docCount += n
		if err != nil {
			return docCount, err
		}
	}
	if err = w.Finish(mergeState.FieldInfos, docCount); err != nil {
		return docCount, err
	}
	return docCount, nil
}

func (w *CompressingTermVectorsWriter) matchingVectorsReader(mergeState *spi.MergeState, idx int) *CompressingTermVectorsReader {
	r, ok := mergeState.Readers[idx].VectorsReader.(*CompressingTermVectorsReader)
	if !ok ||
		r.Version() != TV_VERSION_CURRENT ||
		r.CompressionMode() != w.compressionMode ||
		r.ChunkSize() != w.chunkSize ||
		r.PackedIntsVersion() != packed.VERSION_CURRENT ||
		r.blockSize != w.blockSize ||
		!mergeState.IsMatching(idx) {
		return nil
	}
	return r
}

// Naive merge of the live documents in [from, to).
func (w *CompressingTermVectorsWriter) addDocuments(mergeState *spi.MergeState,
	reader *spi.MergeReader, from, to int) (docCount int, err error) {

	for i := nextLiveDoc(from, reader.LiveDocs, to); i < to; i = nextLiveDoc(i+1, reader.LiveDocs, to) {
		if err = w.addDocument(mergeState, reader, i); err != nil {
			return
		}
		docCount++
	}
	return
}

func (w *CompressingTermVectorsWriter) addDocument(mergeState *spi.MergeState, reader *spi.MergeReader, doc int) (err error) {
	var vectors model.Fields
	if reader.VectorsReader != nil {
		if vectors, err = reader.VectorsReader.Get(doc); err != nil {
			return
		}
	}
	if err = w.AddAllDocVectors(vectors, mergeState.FieldInfos); err != nil {
		return
	}
	w.metrics.docReencoded(w.formatName)
	return mergeState.Work(300)
}

func (w *CompressingTermVectorsWriter) copyChunks(mergeState *spi.MergeState,
	reader *spi.MergeReader, matching *CompressingTermVectorsReader) (docCount int, err error) {

	maxDoc, liveDocs := reader.MaxDoc, reader.LiveDocs
	index := matching.indexReader
	orig := matching.vectorsStream.Clone()
	if err = orig.Seek(0); err != nil {
		return
	}
	vectorsStream := store.NewBufferedChecksumIndexInput(orig)
	defer func() {
		err = util.CloseWhileHandlingError(err, vectorsStream)
	}()

	for i := nextLiveDoc(0, liveDocs, maxDoc); i < maxDoc; {
		// We make sure to move the checksum input in any case, otherwise
		// the final integrity check might need to read the whole file a
		// second time
		startPointer, err := index.StartPointer(i)
		if err != nil {
			return docCount, err
		}
		if startPointer > vectorsStream.FilePointer() {
			if err = vectorsStream.Seek(startPointer); err != nil {
				return docCount, err
			}
		}
		chunkStart := i == 0
		if !chunkStart {
			prev, err := index.StartPointer(i - 1)
			if err != nil {
				return docCount, err
			}
			chunkStart = prev < startPointer
		}
		if len(w.pendingDocs) == 0 && chunkStart {
			docBase, err := int32AsInt(vectorsStream.ReadVInt())
			if err != nil {
				return docCount, err
			}
			chunkDocs, err := int32AsInt(vectorsStream.ReadVInt())
			if err != nil {
				return docCount, err
			}
			if docBase != i || chunkDocs <= 0 || docBase+chunkDocs > maxDoc {
				return docCount, codec.NewCorruptIndexError(vectorsStream,
					"Corrupted: docBase=%v, chunkDocs=%v, doc=%v, maxDoc=%v", docBase, chunkDocs, i, maxDoc)
			}
			if docBase+chunkDocs < maxDoc &&
				nextDeletedDoc(docBase, liveDocs, docBase+chunkDocs) == docBase+chunkDocs {
				chunkEnd, err := index.StartPointer(docBase + chunkDocs)
				if err != nil {
					return docCount, err
				}
				chunkLength := chunkEnd - vectorsStream.FilePointer()
				if err = w.indexWriter.writeIndex(chunkDocs, w.vectorsStream.FilePointer()); err != nil {
					return docCount, err
				}
				if err = w.vectorsStream.WriteVInt(int32(w.numDocs)); err != nil {
					return docCount, err
				}
				if err = w.vectorsStream.WriteVInt(int32(chunkDocs)); err != nil {
					return docCount, err
				}
				if err = w.vectorsStream.CopyBytes(vectorsStream, chunkLength); err != nil {
					return docCount, err
				}
				docCount += chunkDocs
				w.numDocs += chunkDocs
				w.metrics.chunkCopied(w.formatName)
				if err = mergeState.Work(300 * float64(chunkDocs)); err != nil {
					return docCount, err
				}
				i = nextLiveDoc(docBase+chunkDocs, liveDocs, maxDoc)
			} else {
				n, err := w.addDocuments(mergeState, reader, i, docBase+chunkDocs)
				docCount += n
				if err != nil {
					return docCount, err
				}
				i = nextLiveDoc(docBase+chunkDocs, liveDocs, maxDoc)
			}
		} else {
			if err = w.addDocument(mergeState, reader, i); err != nil {
				return docCount, err
			}
			docCount++
			i = nextLiveDoc(i+1, liveDocs, maxDoc)
		}
	}

	if err = vectorsStream.Seek(vectorsStream.Length() - codec.FOOTER_LENGTH); err != nil {
		return
	}
	_, err = codec.CheckFooter(vectorsStream)
	return
}
