package compressing

import (
	"fmt"
	"math"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/document"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
	"github.com/pkg/errors"
)

// codec/compressing/CompressingStoredFieldsWriter.java

const (
	// Extension of stored fields file
	FIELDS_EXTENSION = "fdt"
	// Extension of stored fields index file
	FIELDS_INDEX_EXTENSION = "fdx"
)

/* hard limit on the maximum number of documents per chunk */
const MAX_DOCUMENTS_PER_CHUNK = 128

const (
	STRING         = 0x00
	BYTE_ARR       = 0x01
	NUMERIC_INT    = 0x02
	NUMERIC_FLOAT  = 0x03
	NUMERIC_LONG   = 0x04
	NUMERIC_DOUBLE = 0x05
)

var (
	TYPE_BITS = packed.BitsRequired(NUMERIC_DOUBLE)
	TYPE_MASK = int(packed.MaxValue(TYPE_BITS))
)

const (
	CODEC_SFX_IDX      = "Index"
	CODEC_SFX_DAT      = "Data"
	VERSION_START      = 0
	VERSION_BIG_CHUNKS = 1
	VERSION_CHECKSUM   = 2
	VERSION_CURRENT    = VERSION_CHECKSUM
)

/* StoredFieldsWriter impl for CompressingStoredFieldsFormat */
type CompressingStoredFieldsWriter struct {
	directory     store.Directory
	segment       string
	segmentSuffix string
	formatName    string
	indexWriter   *StoredFieldsIndexWriter
	fieldsStream  store.IndexOutput

	compressionMode CompressionMode
	compressor      Compressor
	chunkSize       int
	maxDocsPerChunk int
	metrics         *Metrics

	bufferedDocs    *util.GrowableByteArrayDataOutput
	numStoredFields []int // number of stored fields
	endOffsets      []int // end offsets in bufferedDocs
	docBase         int   // doc ID at the beginning of the chunk
	numBufferedDocs int   // docBase + numBufferedDocs == current doc ID

	numStoredFieldsInDoc int
	closed               bool
}

func NewCompressingStoredFieldsWriter(dir store.Directory, si *model.SegmentInfo,
	segmentSuffix string, ctx store.IOContext, formatName string,
	compressionMode CompressionMode, chunkSize int) (*CompressingStoredFieldsWriter, error) {

	assert(dir != nil)
	ans := &CompressingStoredFieldsWriter{
		directory:       dir,
		segment:         si.Name,
		segmentSuffix:   segmentSuffix,
		formatName:      formatName,
		compressionMode: compressionMode,
		compressor:      compressionMode.NewCompressor(),
		chunkSize:       chunkSize,
		maxDocsPerChunk: MAX_DOCUMENTS_PER_CHUNK,
		bufferedDocs:    util.NewGrowableByteArrayDataOutput(chunkSize),
		numStoredFields: make([]int, 16),
		endOffsets:      make([]int, 16),
	}

	var success = false
	indexStream, err := dir.CreateOutput(util.SegmentFileName(si.Name, segmentSuffix,
		FIELDS_INDEX_EXTENSION), ctx)
	if err != nil {
		return nil, err
	}
	assert(indexStream != nil)
	defer func() {
		if !success {
			util.CloseWhileSuppressingError(indexStream)
			ans.Abort()
		}
	}()

	ans.fieldsStream, err = dir.CreateOutput(util.SegmentFileName(si.Name, segmentSuffix,
		FIELDS_EXTENSION), ctx)
	if err != nil {
		return nil, err
	}

	codecNameIdx := formatName + CODEC_SFX_IDX
	codecNameDat := formatName + CODEC_SFX_DAT
	if err = codec.WriteHeader(indexStream, codecNameIdx, VERSION_CURRENT); err != nil {
		return nil, err
	}
	if err = codec.WriteHeader(ans.fieldsStream, codecNameDat, VERSION_CURRENT); err != nil {
		return nil, err
	}
	assert(int64(codec.HeaderLength(codecNameIdx)) == indexStream.FilePointer())
	assert(int64(codec.HeaderLength(codecNameDat)) == ans.fieldsStream.FilePointer())

	if ans.indexWriter, err = NewStoredFieldsIndexWriter(indexStream); err != nil {
		return nil, err
	}
	indexStream = nil

	if err = ans.fieldsStream.WriteVInt(int32(chunkSize)); err != nil {
		return nil, err
	}
	if err = ans.fieldsStream.WriteVInt(packed.VERSION_CURRENT); err != nil {
		return nil, err
	}

	success = true
	return ans, nil
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}

func (w *CompressingStoredFieldsWriter) Close() error {
	assert(w != nil)
	if w.closed {
		return nil
	}
	w.closed = true
	defer func() {
		w.fieldsStream = nil
		w.indexWriter = nil
	}()
	return util.Close(w.fieldsStream, w.indexWriter)
}

func (w *CompressingStoredFieldsWriter) ensureOpen() error {
	if w.closed {
		return store.ErrAlreadyClosed
	}
	return nil
}

func (w *CompressingStoredFieldsWriter) StartDocument() error {
	return w.ensureOpen()
}

func (w *CompressingStoredFieldsWriter) FinishDocument() error {
	if err := w.ensureOpen(); err != nil {
		return err
	}
	if w.numBufferedDocs == len(w.numStoredFields) {
		newLength := util.Oversize(w.numBufferedDocs+1, 4)

		oldArray := w.endOffsets
		w.endOffsets = make([]int, newLength)
		copy(w.endOffsets, oldArray)

		oldArray = w.numStoredFields
		w.numStoredFields = make([]int, newLength)
		copy(w.numStoredFields, oldArray)
	}
	w.numStoredFields[w.numBufferedDocs] = w.numStoredFieldsInDoc
	w.numStoredFieldsInDoc = 0
	w.endOffsets[w.numBufferedDocs] = w.bufferedDocs.Length
	w.numBufferedDocs++
	if w.triggerFlush() {
		return w.flush()
	}
	return nil
}

func saveInts(values []int, out util.DataOutput) error {
	length := len(values)
	assert(length > 0)
	if length == 1 {
		return out.WriteVInt(int32(values[0]))
	}

	var allEqual = true
	var sentinel = values[0]
	for _, v := range values[1:] {
		if v != sentinel {
			allEqual = false
			break
		}
	}
	if allEqual {
		err := out.WriteVInt(0)
		if err == nil {
			err = out.WriteVInt(int32(values[0]))
		}
		return err
	}

	var max int64 = 0
	for _, v := range values {
		max |= int64(v)
	}
	var bitsRequired = packed.BitsRequired(max)
	err := out.WriteVInt(int32(bitsRequired))
	if err != nil {
		return err
	}

	w := packed.WriterNoHeader(out, length, bitsRequired)
	for _, v := range values {
		if err = w.Add(int64(v)); err != nil {
			return err
		}
	}
	return w.Finish()
}

func (w *CompressingStoredFieldsWriter) writeHeader(docBase,
	numBufferedDocs int, numStoredFields, lengths []int) error {

	// save docBase and numBufferedDocs
	err := w.fieldsStream.WriteVInt(int32(docBase))
	if err == nil {
		err = w.fieldsStream.WriteVInt(int32(numBufferedDocs))
		if err == nil {
			// save numStoredFields
			err = saveInts(numStoredFields[:numBufferedDocs], w.fieldsStream)
			if err == nil {
				// save lengths
				err = saveInts(lengths[:numBufferedDocs], w.fieldsStream)
			}
		}
	}
	return err
}

func (w *CompressingStoredFieldsWriter) triggerFlush() bool {
	return w.bufferedDocs.Length >= w.chunkSize || // chunks of at least chunkSize bytes
		w.numBufferedDocs >= w.maxDocsPerChunk
}

func (w *CompressingStoredFieldsWriter) flush() error {
	start := w.fieldsStream.FilePointer()
	err := w.indexWriter.writeIndex(w.numBufferedDocs, start)
	if err != nil {
		return err
	}

	// transform end offsets into lengths
	lengths := w.endOffsets
	for i := w.numBufferedDocs - 1; i > 0; i-- {
		lengths[i] = w.endOffsets[i] - w.endOffsets[i-1]
		assert(lengths[i] >= 0)
	}
	err = w.writeHeader(w.docBase, w.numBufferedDocs, w.numStoredFields, lengths)
	if err != nil {
		return err
	}

	// compress stored fields to fieldsStream
	raw := w.bufferedDocs.ToBytes()
	if len(raw) >= 2*w.chunkSize {
		// big chunk, slice it
		for compressed := 0; compressed < len(raw); compressed += w.chunkSize {
			end := compressed + w.chunkSize
			if end > len(raw) {
				end = len(raw)
			}
			if err = w.compressor.Compress(raw[compressed:end], w.fieldsStream); err != nil {
				return err
			}
		}
	} else {
		if err = w.compressor.Compress(raw, w.fieldsStream); err != nil {
			return err
		}
	}

	written := w.fieldsStream.FilePointer() - start
	log.Debug("Flushed stored fields chunk: docBase=%v, docs=%v, raw=%v, written=%v",
		w.docBase, w.numBufferedDocs, len(raw), written)
	w.metrics.chunkFlushed(w.formatName, len(raw), written)

	// reset
	w.docBase += w.numBufferedDocs
	w.numBufferedDocs = 0
	w.bufferedDocs.Length = 0
	return nil
}

func (w *CompressingStoredFieldsWriter) WriteField(info *model.FieldInfo, field model.IndexableField) error {
	if err := w.ensureOpen(); err != nil {
		return err
	}
	w.numStoredFieldsInDoc++

	bits := 0
	var bytes []byte
	var str string

	number := field.NumericValue()
	if number != nil {
		switch t := number.(type) {
		case int32:
			bits = NUMERIC_INT
		case int64:
			bits = NUMERIC_LONG
		case float32:
			bits = NUMERIC_FLOAT
		case float64:
			bits = NUMERIC_DOUBLE
		default:
			return errors.Errorf("cannot store numeric value %v of type %T", number, t)
		}
	} else {
		bytes = field.BinaryValue()
		if bytes != nil {
			bits = BYTE_ARR
		} else {
			bits = STRING
			str = field.StringValue()
		}
	}

	infoAndBits := (int64(info.Number) << uint(TYPE_BITS)) | int64(bits)
	err := w.bufferedDocs.WriteVLong(infoAndBits)
	if err != nil {
		return err
	}

	switch bits {
	case BYTE_ARR:
		err = w.bufferedDocs.WriteVInt(int32(len(bytes)))
		if err == nil {
			err = w.bufferedDocs.WriteBytes(bytes)
		}
	case STRING:
		err = w.bufferedDocs.WriteString(str)
	case NUMERIC_INT:
		err = w.bufferedDocs.WriteInt(number.(int32))
	case NUMERIC_LONG:
		err = w.bufferedDocs.WriteLong(number.(int64))
	case NUMERIC_FLOAT:
		err = w.bufferedDocs.WriteInt(int32(math.Float32bits(number.(float32))))
	case NUMERIC_DOUBLE:
		err = w.bufferedDocs.WriteLong(int64(math.Float64bits(number.(float64))))
	default:
		panic("Cannot get here")
	}
	return err
}

func (w *CompressingStoredFieldsWriter) Abort() {
	if w == nil { // tolerate early released pointer
		return
	}
	util.CloseWhileSuppressingError(w)
	log.Warning("Aborting stored fields of segment %v, deleting partial files", w.segment)
	util.DeleteFilesIgnoringErrors(w.directory,
		util.SegmentFileName(w.segment, w.segmentSuffix, FIELDS_EXTENSION),
		util.SegmentFileName(w.segment, w.segmentSuffix, FIELDS_INDEX_EXTENSION))
}

func (w *CompressingStoredFieldsWriter) Finish(fis model.FieldInfos, numDocs int) (err error) {
	if err = w.ensureOpen(); err != nil {
		return err
	}
	if w.numBufferedDocs > 0 {
		if err = w.flush(); err != nil {
			return err
		}
	} else {
		assert(w.bufferedDocs.Length == 0)
	}
	if w.docBase != numDocs {
		return errors.Errorf("Wrote %v docs, finish called with numDocs=%v", w.docBase, numDocs)
	}
	if err = w.indexWriter.finish(numDocs, w.fieldsStream.FilePointer()); err != nil {
		return err
	}
	if err = codec.WriteFooter(w.fieldsStream); err != nil {
		return err
	}
	assert(w.bufferedDocs.Length == 0)
	return nil
}

// Appends the live documents of every reader, then calls Finish().
func (w *CompressingStoredFieldsWriter) Merge(mergeState *spi.MergeState) (docCount int, err error) {
	if err = w.ensureOpen(); err != nil {
		return 0, err
	}
	for idx, reader := range mergeState.Readers {
		if reader.FieldsReader == nil {
			continue
		}
		var n int
		if matching := w.matchingFieldsReader(mergeState, idx); matching != nil {
			log.Debug("Merging stored fields of reader %v by chunks", idx)
			n, err = w.copyChunks(mergeState, reader, matching)
		} else {
			log.Debug("Merging stored fields of reader %v document by document", idx)
			n, err = w.addDocuments(mergeState, reader)
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

// Returns the reader of the idx-th segment if its chunks can be reused
// as they are.
func (w *CompressingStoredFieldsWriter) matchingFieldsReader(mergeState *spi.MergeState, idx int) *CompressingStoredFieldsReader {
	r, ok := mergeState.Readers[idx].FieldsReader.(*CompressingStoredFieldsReader)
	if !ok ||
		r.Version() != VERSION_CURRENT || // means reader version is not the same as the writer version
		r.CompressionMode() != w.compressionMode ||
		r.ChunkSize() != w.chunkSize ||
		r.PackedIntsVersion() != packed.VERSION_CURRENT ||
		!mergeState.IsMatching(idx) {
		return nil
	}
	return r
}

// Naive merge: visit every live document and write its fields again.
func (w *CompressingStoredFieldsWriter) addDocuments(mergeState *spi.MergeState, reader *spi.MergeReader) (docCount int, err error) {
	maxDoc := reader.MaxDoc
	for i := nextLiveDoc(0, reader.LiveDocs, maxDoc); i < maxDoc; i = nextLiveDoc(i+1, reader.LiveDocs, maxDoc) {
		visitor := document.NewDocumentStoredFieldVisitor()
		if err = reader.FieldsReader.VisitDocument(i, visitor); err != nil {
			return
		}
		if err = w.addDocument(visitor.Document(), mergeState.FieldInfos); err != nil {
			return
		}
		docCount++
		w.metrics.docReencoded(w.formatName)
		if err = mergeState.Work(300); err != nil {
			return
		}
	}
	return
}

func (w *CompressingStoredFieldsWriter) addDocument(doc *document.Document, fis model.FieldInfos) (err error) {
	if err = w.StartDocument(); err != nil {
		return
	}
	for _, field := range doc.Fields() {
		info := fis.FieldInfoByName(field.Name())
		if info == nil {
			return errors.Errorf("field %v is missing from the merged field infos", field.Name())
		}
		if err = w.WriteField(info, field); err != nil {
			return
		}
	}
	return w.FinishDocument()
}

func (w *CompressingStoredFieldsWriter) copyChunks(mergeState *spi.MergeState,
	reader *spi.MergeReader, matching *CompressingStoredFieldsReader) (docCount int, err error) {

	maxDoc, liveDocs := reader.MaxDoc, reader.LiveDocs
	docID := nextLiveDoc(0, liveDocs, maxDoc)
	if docID >= maxDoc {
		return // all docs were deleted
	}

	it, err := matching.chunkIterator(docID)
	if err != nil {
		return
	}
	defer func() {
		err = util.CloseWhileHandlingError(err, it)
	}()

	var startOffsets []int
	for docID < maxDoc {
		// go to the next chunk that contains docID
		if err = it.next(docID); err != nil {
			return
		}
		// transform lengths into offsets
		if len(startOffsets) < it.chunkDocs {
			startOffsets = make([]int, util.Oversize(it.chunkDocs, 4))
		}
		for i := 1; i < it.chunkDocs; i++ {
			startOffsets[i] = startOffsets[i-1] + it.lengths[i-1]
		}
		last := it.chunkDocs - 1
		chunkLength := startOffsets[last] + it.lengths[last]

		if w.numBufferedDocs == 0 && // starting a new chunk
			startOffsets[last] < w.chunkSize && // chunk is small enough
			(chunkLength >= w.chunkSize || it.chunkDocs >= w.maxDocsPerChunk) && // chunk is large enough
			nextDeletedDoc(it.docBase, liveDocs, it.docBase+it.chunkDocs) == it.docBase+it.chunkDocs { // no deletion in the chunk
			assert(docID == it.docBase)

			// no need to decompress, just copy data
			if err = w.indexWriter.writeIndex(it.chunkDocs, w.fieldsStream.FilePointer()); err != nil {
				return
			}
			if err = w.writeHeader(w.docBase, it.chunkDocs, it.numStoredFields, it.lengths); err != nil {
				return
			}
			if err = it.copyCompressedData(w.fieldsStream); err != nil {
				return
			}
			w.docBase += it.chunkDocs
			docID = nextLiveDoc(it.docBase+it.chunkDocs, liveDocs, maxDoc)
			docCount += it.chunkDocs
			w.metrics.chunkCopied(w.formatName)
			if err = mergeState.Work(300 * float64(it.chunkDocs)); err != nil {
				return
			}
		} else {
			// decompress
			if err = it.decompress(); err != nil {
				return
			}
			if chunkLength != it.bytes.Length {
				return docCount, codec.NewCorruptIndexError(it.fieldsStream,
					"Corrupted: expected chunk size=%v, got %v", chunkLength, it.bytes.Length)
			}
			// copy non-deleted docs
			for ; docID < it.docBase+it.chunkDocs; docID = nextLiveDoc(docID+1, liveDocs, maxDoc) {
				diff := docID - it.docBase
				if err = w.StartDocument(); err != nil {
					return
				}
				off := it.bytes.Offset + startOffsets[diff]
				if err = w.bufferedDocs.WriteBytes(it.bytes.Bytes[off : off+it.lengths[diff]]); err != nil {
					return
				}
				w.numStoredFieldsInDoc = it.numStoredFields[diff]
				if err = w.FinishDocument(); err != nil {
					return
				}
				docCount++
				w.metrics.docReencoded(w.formatName)
				if err = mergeState.Work(300); err != nil {
					return
				}
			}
		}
	}

	err = it.checkIntegrity()
	return
}

func nextLiveDoc(doc int, liveDocs util.Bits, maxDoc int) int {
	if liveDocs == nil {
		return doc
	}
	for doc < maxDoc && !liveDocs.At(doc) {
		doc++
	}
	return doc
}

func nextDeletedDoc(doc int, liveDocs util.Bits, maxDoc int) int {
	if liveDocs == nil {
		return maxDoc
	}
	for doc < maxDoc && liveDocs.At(doc) {
		doc++
	}
	return doc
}
