package compressing

import (
	"io"
	"math"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
)

// codec/compressing/CompressingStoredFieldsReader.java

// Do not reuse the decompression buffer when there is more than 32kb to decompress
const BUFFER_REUSE_THRESHOLD = 1 << 15

var _ util.Accountable = (*CompressingStoredFieldsReader)(nil)

// StoredFieldsReader impl for CompressingStoredFieldsFormat
type CompressingStoredFieldsReader struct {
	version           int
	fieldInfos        model.FieldInfos
	indexReader       *StoredFieldsIndexReader
	maxPointer        int64
	fieldsStream      store.IndexInput
	chunkSize         int
	packedIntsVersion int
	compressionMode   CompressionMode
	decompressor      Decompressor
	bytes             *util.BytesRef
	numDocs           int
	closed            bool
}

// used by clone
func newCompressingStoredFieldsReaderFrom(reader *CompressingStoredFieldsReader) *CompressingStoredFieldsReader {
	return &CompressingStoredFieldsReader{
		version:           reader.version,
		fieldInfos:        reader.fieldInfos,
		fieldsStream:      reader.fieldsStream.Clone(),
		indexReader:       reader.indexReader.Clone(),
		maxPointer:        reader.maxPointer,
		chunkSize:         reader.chunkSize,
		packedIntsVersion: reader.packedIntsVersion,
		compressionMode:   reader.compressionMode,
		decompressor:      reader.decompressor.Clone(),
		numDocs:           reader.numDocs,
		bytes:             util.NewBytesRef(make([]byte, len(reader.bytes.Bytes)), 0, 0),
	}
}

// Sole constructor
func NewCompressingStoredFieldsReader(d store.Directory,
	si *model.SegmentInfo, segmentSuffix string,
	fn model.FieldInfos, ctx store.IOContext, formatName string,
	compressionMode CompressionMode) (r *CompressingStoredFieldsReader, err error) {

	r = &CompressingStoredFieldsReader{}
	r.compressionMode = compressionMode
	segment := si.Name
	r.fieldInfos = fn
	r.numDocs = si.DocCount()

	var indexStream store.ChecksumIndexInput
	success := false
	defer func() {
		if !success {
			util.CloseWhileSuppressingError(r, indexStream)
		}
	}()

	indexStreamFN := util.SegmentFileName(segment, segmentSuffix, FIELDS_INDEX_EXTENSION)
	fieldsStreamFN := util.SegmentFileName(segment, segmentSuffix, FIELDS_EXTENSION)
	// Load the index into memory
	if indexStream, err = d.OpenChecksumInput(indexStreamFN, ctx); err != nil {
		return nil, err
	}
	codecNameIdx := formatName + CODEC_SFX_IDX
	if r.version, err = int32AsInt(codec.CheckHeader(indexStream, codecNameIdx,
		VERSION_START, VERSION_CURRENT)); err != nil {
		return nil, err
	}
	assert(int64(codec.HeaderLength(codecNameIdx)) == indexStream.FilePointer())
	if r.indexReader, err = NewStoredFieldsIndexReader(indexStream, si); err != nil {
		return nil, err
	}

	var maxPointer int64 = -1

	if r.version >= VERSION_CHECKSUM {
		if maxPointer, err = indexStream.ReadVLong(); err != nil {
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
	if r.fieldsStream, err = d.OpenInput(fieldsStreamFN, ctx); err != nil {
		return nil, err
	}
	if r.version >= VERSION_CHECKSUM {
		if maxPointer+codec.FOOTER_LENGTH != r.fieldsStream.Length() {
			return nil, codec.NewCorruptIndexError(r.fieldsStream,
				"Invalid fieldsStream maxPointer (file truncated?): maxPointer=%v, length=%v",
				maxPointer, r.fieldsStream.Length())
		}
	} else {
		maxPointer = r.fieldsStream.Length()
	}
	r.maxPointer = maxPointer
	codecNameDat := formatName + CODEC_SFX_DAT
	var fieldsVersion int
	if fieldsVersion, err = int32AsInt(codec.CheckHeader(r.fieldsStream,
		codecNameDat, VERSION_START, VERSION_CURRENT)); err != nil {
		return nil, err
	}
	if r.version != fieldsVersion {
		return nil, codec.NewCorruptIndexError(r.fieldsStream,
			"Version mismatch between stored fields index and data: %v != %v",
			r.version, fieldsVersion)
	}
	assert(int64(codec.HeaderLength(codecNameDat)) == r.fieldsStream.FilePointer())

	r.chunkSize = -1
	if r.version >= VERSION_BIG_CHUNKS {
		if r.chunkSize, err = int32AsInt(r.fieldsStream.ReadVInt()); err != nil {
			return nil, err
		}
	}

	if r.packedIntsVersion, err = int32AsInt(r.fieldsStream.ReadVInt()); err != nil {
		return nil, err
	}
	r.decompressor = compressionMode.NewDecompressor()
	r.bytes = util.NewEmptyBytesRef()

	if r.version >= VERSION_CHECKSUM {
		// NOTE: data file is too costly to verify checksum against all the
		// bytes on open, but for now we at least verify proper structure
		// of the checksum footer: which looks for FOOTER_MAGIC +
		// algorithmID. This is cheap and can detect some forms of
		// corruption such as file truncation.
		if _, err = codec.RetrieveChecksum(r.fieldsStream); err != nil {
			return nil, err
		}
	}

	success = true
	return r, nil
}

func int32AsInt(n int32, err error) (int, error) {
	return int(n), err
}

func (r *CompressingStoredFieldsReader) ensureOpen() error {
	if r.closed {
		return store.ErrAlreadyClosed
	}
	return nil
}

// Close the underlying IndexInputs
func (r *CompressingStoredFieldsReader) Close() (err error) {
	if !r.closed {
		if err = util.Close(r.fieldsStream); err == nil {
			r.closed = true
		}
	}
	return
}

func readField(in util.DataInput, visitor spi.StoredFieldVisitor, info *model.FieldInfo, bits int) error {
	switch bits & TYPE_MASK {
	case BYTE_ARR:
		length, err := int32AsInt(in.ReadVInt())
		if err != nil {
			return err
		}
		data := make([]byte, length)
		if err = in.ReadBytes(data); err != nil {
			return err
		}
		return visitor.BinaryField(info, data)
	case STRING:
		length, err := int32AsInt(in.ReadVInt())
		if err != nil {
			return err
		}
		data := make([]byte, length)
		if err = in.ReadBytes(data); err != nil {
			return err
		}
		return visitor.StringField(info, string(data))
	case NUMERIC_INT:
		v, err := in.ReadInt()
		if err != nil {
			return err
		}
		return visitor.IntField(info, v)
	case NUMERIC_FLOAT:
		v, err := in.ReadInt()
		if err != nil {
			return err
		}
		return visitor.FloatField(info, math.Float32frombits(uint32(v)))
	case NUMERIC_LONG:
		v, err := in.ReadLong()
		if err != nil {
			return err
		}
		return visitor.LongField(info, v)
	case NUMERIC_DOUBLE:
		v, err := in.ReadLong()
		if err != nil {
			return err
		}
		return visitor.DoubleField(info, math.Float64frombits(uint64(v)))
	default:
		return codec.NewCorruptIndexError(in, "Unknown type flag: %x", bits)
	}
}

func skipField(in util.DataInput, bits int) error {
	switch bits & TYPE_MASK {
	case BYTE_ARR, STRING:
		length, err := in.ReadVInt()
		if err != nil {
			return err
		}
		return in.SkipBytes(int64(length))
	case NUMERIC_INT, NUMERIC_FLOAT:
		_, err := in.ReadInt()
		return err
	case NUMERIC_LONG, NUMERIC_DOUBLE:
		_, err := in.ReadLong()
		return err
	default:
		return codec.NewCorruptIndexError(in, "Unknown type flag: %x", bits)
	}
}

func (r *CompressingStoredFieldsReader) VisitDocument(docID int, visitor spi.StoredFieldVisitor) error {
	if err := r.ensureOpen(); err != nil {
		return err
	}
	startPointer, err := r.indexReader.StartPointer(docID)
	if err != nil {
		return err
	}
	if err = r.fieldsStream.Seek(startPointer); err != nil {
		return err
	}

	docBase, err := int32AsInt(r.fieldsStream.ReadVInt())
	if err != nil {
		return err
	}
	chunkDocs, err := int32AsInt(r.fieldsStream.ReadVInt())
	if err != nil {
		return err
	}
	if docID < docBase ||
		docID >= docBase+chunkDocs ||
		docBase+chunkDocs > r.numDocs {
		return codec.NewCorruptIndexError(r.fieldsStream,
			"Corrupted: docID=%v, docBase=%v, chunkDocs=%v, numDocs=%v",
			docID, docBase, chunkDocs, r.numDocs)
	}

	var numStoredFields, offset, length, totalLength int
	if chunkDocs == 1 {
		if numStoredFields, err = int32AsInt(r.fieldsStream.ReadVInt()); err != nil {
			return err
		}
		offset = 0
		if length, err = int32AsInt(r.fieldsStream.ReadVInt()); err != nil {
			return err
		}
		totalLength = length
	} else {
		bitsPerStoredFields, err := int32AsInt(r.fieldsStream.ReadVInt())
		if err != nil {
			return err
		}
		if bitsPerStoredFields == 0 {
			if numStoredFields, err = int32AsInt(r.fieldsStream.ReadVInt()); err != nil {
				return err
			}
		} else if bitsPerStoredFields < 0 || bitsPerStoredFields > 31 {
			return codec.NewCorruptIndexError(r.fieldsStream, "bitsPerStoredFields=%v", bitsPerStoredFields)
		} else {
			reader, err := packed.NewReaderNoHeader(r.fieldsStream,
				r.packedIntsVersion, chunkDocs, bitsPerStoredFields)
			if err != nil {
				return err
			}
			numStoredFields = int(reader.Get(docID - docBase))
		}

		bitsPerLength, err := int32AsInt(r.fieldsStream.ReadVInt())
		if err != nil {
			return err
		}
		if bitsPerLength == 0 {
			if length, err = int32AsInt(r.fieldsStream.ReadVInt()); err != nil {
				return err
			}
			offset = (docID - docBase) * length
			totalLength = chunkDocs * length
		} else if bitsPerLength < 0 || bitsPerLength > 31 {
			return codec.NewCorruptIndexError(r.fieldsStream, "bitsPerLength=%v", bitsPerLength)
		} else {
			it, err := packed.NewReaderIteratorNoHeader(r.fieldsStream,
				r.packedIntsVersion, chunkDocs, bitsPerLength)
			if err != nil {
				return err
			}
			var n int64
			off := 0
			for i := 0; i < docID-docBase; i++ {
				if n, err = it.Next(); err != nil {
					return err
				}
				off += int(n)
			}
			offset = off
			if n, err = it.Next(); err != nil {
				return err
			}
			length = int(n)
			off += length
			for i := docID - docBase + 1; i < chunkDocs; i++ {
				if n, err = it.Next(); err != nil {
					return err
				}
				off += int(n)
			}
			totalLength = off
		}
	}

	if (length == 0) != (numStoredFields == 0) {
		return codec.NewCorruptIndexError(r.fieldsStream,
			"length=%v, numStoredFields=%v", length, numStoredFields)
	}
	if numStoredFields == 0 {
		// nothing to do
		return nil
	}

	var documentInput util.DataInput
	if r.version >= VERSION_BIG_CHUNKS && totalLength >= 2*r.chunkSize {
		assert(r.chunkSize > 0)
		assert(offset < r.chunkSize)

		if err = r.decompressor.Decompress(r.fieldsStream, r.chunkSize, offset,
			minInt(length, r.chunkSize-offset), r.bytes); err != nil {
			return err
		}
		documentInput = newSlicedDocumentInput(r, length)
	} else {
		bytes := r.bytes
		if totalLength > BUFFER_REUSE_THRESHOLD {
			bytes = util.NewEmptyBytesRef()
		}
		if err = r.decompressor.Decompress(r.fieldsStream, totalLength, offset, length, bytes); err != nil {
			return err
		}
		assert(bytes.Length == length)
		in := store.NewEmptyByteArrayDataInput()
		in.ResetAt(bytes.Bytes, bytes.Offset, bytes.Length)
		documentInput = in
	}

	for fieldIDX := 0; fieldIDX < numStoredFields; fieldIDX++ {
		infoAndBits, err := documentInput.ReadVLong()
		if err != nil {
			return err
		}
		fieldNumber := int(uint64(infoAndBits) >> uint64(TYPE_BITS))
		fieldInfo := r.fieldInfos.FieldInfoByNumber(fieldNumber)
		if fieldInfo == nil {
			return codec.NewCorruptIndexError(r.fieldsStream, "unknown field number %v", fieldNumber)
		}

		bits := int(infoAndBits & int64(TYPE_MASK))
		if bits > NUMERIC_DOUBLE {
			return codec.NewCorruptIndexError(r.fieldsStream, "bits=%x", bits)
		}

		status, err := visitor.NeedsField(fieldInfo)
		if err != nil {
			return err
		}
		switch status {
		case spi.STORED_FIELD_VISITOR_STATUS_YES:
			err = readField(documentInput, visitor, fieldInfo, bits)
		case spi.STORED_FIELD_VISITOR_STATUS_NO:
			err = skipField(documentInput, bits)
		case spi.STORED_FIELD_VISITOR_STATUS_STOP:
			return nil
		}
		if err != nil {
			return err
		}
	}

	return nil
}

/*
DataInput over a document of a big chunk: the chunk was compressed in
slices of chunkSize bytes which are decompressed one at a time, as
the document is read.
*/
type slicedDocumentInput struct {
	*util.DataInputImpl
	r            *CompressingStoredFieldsReader
	length       int
	decompressed int
}

func newSlicedDocumentInput(r *CompressingStoredFieldsReader, length int) *slicedDocumentInput {
	ans := &slicedDocumentInput{r: r, length: length, decompressed: r.bytes.Length}
	ans.DataInputImpl = util.NewDataInput(ans)
	return ans
}

func (in *slicedDocumentInput) fillBuffer() error {
	assert(in.decompressed <= in.length)
	if in.decompressed == in.length {
		return io.EOF
	}
	toDecompress := minInt(in.length-in.decompressed, in.r.chunkSize)
	if err := in.r.decompressor.Decompress(in.r.fieldsStream, toDecompress, 0, toDecompress, in.r.bytes); err != nil {
		return err
	}
	in.decompressed += toDecompress
	return nil
}

func (in *slicedDocumentInput) ReadByte() (byte, error) {
	bytes := in.r.bytes
	if bytes.Length == 0 {
		if err := in.fillBuffer(); err != nil {
			return 0, err
		}
	}
	bytes.Length--
	bytes.Offset++
	return bytes.Bytes[bytes.Offset-1], nil
}

func (in *slicedDocumentInput) ReadBytes(buf []byte) error {
	bytes := in.r.bytes
	for len(buf) > bytes.Length {
		copy(buf, bytes.ToBytes())
		buf = buf[bytes.Length:]
		bytes.Offset += bytes.Length
		bytes.Length = 0
		if err := in.fillBuffer(); err != nil {
			return err
		}
	}
	copy(buf, bytes.Bytes[bytes.Offset:bytes.Offset+len(buf)])
	bytes.Offset += len(buf)
	bytes.Length -= len(buf)
	return nil
}

func (r *CompressingStoredFieldsReader) Clone() spi.StoredFieldsReader {
	assert2(!r.closed, "this FieldsReader is closed")
	return newCompressingStoredFieldsReaderFrom(r)
}

func (r *CompressingStoredFieldsReader) Version() int { return r.version }

func (r *CompressingStoredFieldsReader) CompressionMode() CompressionMode { return r.compressionMode }

func (r *CompressingStoredFieldsReader) ChunkSize() int { return r.chunkSize }

func (r *CompressingStoredFieldsReader) PackedIntsVersion() int { return r.packedIntsVersion }

func (r *CompressingStoredFieldsReader) MaxPointer() int64 { return r.maxPointer }

func (r *CompressingStoredFieldsReader) RamBytesUsed() int64 {
	return r.indexReader.RamBytesUsed()
}

func (r *CompressingStoredFieldsReader) CheckIntegrity() error {
	if err := r.ensureOpen(); err != nil {
		return err
	}
	if r.version >= VERSION_CHECKSUM {
		_, err := store.ChecksumEntireFile(r.fieldsStream)
		return err
	}
	return nil
}

func (r *CompressingStoredFieldsReader) chunkIterator(startDocID int) (*ChunkIterator, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	return newChunkIterator(r, startDocID)
}

/*
Iterates over the chunks of a reader, in order. The data file is read
through a checksum input from its first byte, so that the footer can
be verified once every chunk has been visited.
*/
type ChunkIterator struct {
	r               *CompressingStoredFieldsReader
	fieldsStream    store.ChecksumIndexInput
	spare           *util.BytesRef
	bytes           *util.BytesRef
	docBase         int
	chunkDocs       int
	numStoredFields []int
	lengths         []int
}

func newChunkIterator(r *CompressingStoredFieldsReader, startDocID int) (*ChunkIterator, error) {
	in := r.fieldsStream.Clone()
	if err := in.Seek(0); err != nil {
		return nil, err
	}
	it := &ChunkIterator{
		r:               r,
		fieldsStream:    store.NewBufferedChecksumIndexInput(in),
		spare:           util.NewEmptyBytesRef(),
		bytes:           util.NewEmptyBytesRef(),
		docBase:         -1,
		numStoredFields: make([]int, 1),
		lengths:         make([]int, 1),
	}
	startPointer, err := r.indexReader.StartPointer(startDocID)
	if err != nil {
		return nil, err
	}
	if err = it.fieldsStream.Seek(startPointer); err != nil {
		return nil, err
	}
	return it, nil
}

// Go to the chunk containing the provided doc ID.
func (it *ChunkIterator) next(doc int) error {
	assert(doc >= it.docBase+it.chunkDocs)
	startPointer, err := it.r.indexReader.StartPointer(doc)
	if err != nil {
		return err
	}
	if err = it.fieldsStream.Seek(startPointer); err != nil {
		return err
	}

	docBase, err := int32AsInt(it.fieldsStream.ReadVInt())
	if err != nil {
		return err
	}
	chunkDocs, err := int32AsInt(it.fieldsStream.ReadVInt())
	if err != nil {
		return err
	}
	if docBase < it.docBase+it.chunkDocs || chunkDocs <= 0 || docBase+chunkDocs > it.r.numDocs {
		return codec.NewCorruptIndexError(it.fieldsStream,
			"Corrupted: current docBase=%v, current numDocs=%v, new docBase=%v, new numDocs=%v",
			it.docBase, it.chunkDocs, docBase, chunkDocs)
	}
	it.docBase = docBase
	it.chunkDocs = chunkDocs

	if chunkDocs > len(it.numStoredFields) {
		newLength := util.Oversize(chunkDocs, 4)
		it.numStoredFields = make([]int, newLength)
		it.lengths = make([]int, newLength)
	}

	if chunkDocs == 1 {
		if it.numStoredFields[0], err = int32AsInt(it.fieldsStream.ReadVInt()); err != nil {
			return err
		}
		if it.lengths[0], err = int32AsInt(it.fieldsStream.ReadVInt()); err != nil {
			return err
		}
		return nil
	}
	if err = it.readInts(it.numStoredFields[:chunkDocs], "bitsPerStoredFields"); err != nil {
		return err
	}
	return it.readInts(it.lengths[:chunkDocs], "bitsPerLength")
}

// Reverse of saveInts().
func (it *ChunkIterator) readInts(values []int, name string) error {
	bitsPerValue, err := int32AsInt(it.fieldsStream.ReadVInt())
	if err != nil {
		return err
	}
	switch {
	case bitsPerValue == 0:
		v, err := int32AsInt(it.fieldsStream.ReadVInt())
		if err != nil {
			return err
		}
		for i := range values {
			values[i] = v
		}
	case bitsPerValue < 0 || bitsPerValue > 31:
		return codec.NewCorruptIndexError(it.fieldsStream, "%v=%v", name, bitsPerValue)
	default:
		pit, err := packed.NewReaderIteratorNoHeader(it.fieldsStream,
			it.r.packedIntsVersion, len(values), bitsPerValue)
		if err != nil {
			return err
		}
		for i := range values {
			v, err := pit.Next()
			if err != nil {
				return err
			}
			values[i] = int(v)
		}
	}
	return nil
}

// Decompress the chunk.
func (it *ChunkIterator) decompress() error {
	// decompress data
	chunkSize := it.chunkSize()
	if it.r.version >= VERSION_BIG_CHUNKS && chunkSize >= 2*it.r.chunkSize {
		it.bytes.Offset, it.bytes.Length = 0, 0
		for decompressed := 0; decompressed < chunkSize; {
			toDecompress := minInt(chunkSize-decompressed, it.r.chunkSize)
			if err := it.r.decompressor.Decompress(it.fieldsStream, toDecompress, 0, toDecompress, it.spare); err != nil {
				return err
			}
			it.bytes.Grow(it.bytes.Length + it.spare.Length)
			copy(it.bytes.Bytes[it.bytes.Length:], it.spare.ToBytes())
			it.bytes.Length += it.spare.Length
			decompressed += toDecompress
		}
	} else {
		if err := it.r.decompressor.Decompress(it.fieldsStream, chunkSize, 0, chunkSize, it.bytes); err != nil {
			return err
		}
	}
	if it.bytes.Length != chunkSize {
		return codec.NewCorruptIndexError(it.fieldsStream,
			"Corrupted: expected chunk size = %v, got %v", chunkSize, it.bytes.Length)
	}
	return nil
}

// Uncompressed size of the current chunk.
func (it *ChunkIterator) chunkSize() int {
	sum := 0
	for _, l := range it.lengths[:it.chunkDocs] {
		sum += l
	}
	return sum
}

// Copy compressed data.
func (it *ChunkIterator) copyCompressedData(out util.DataOutput) error {
	assert(it.r.version == VERSION_CURRENT)
	chunkEnd := it.r.maxPointer
	if it.docBase+it.chunkDocs < it.r.numDocs {
		var err error
		if chunkEnd, err = it.r.indexReader.StartPointer(it.docBase + it.chunkDocs); err != nil {
			return err
		}
	}
	return out.CopyBytes(it.fieldsStream, chunkEnd-it.fieldsStream.FilePointer())
}

// Check integrity of the data. The iterator is not usable after this
// method has been called.
func (it *ChunkIterator) checkIntegrity() error {
	if it.r.version >= VERSION_CHECKSUM {
		if err := it.fieldsStream.Seek(it.fieldsStream.Length() - codec.FOOTER_LENGTH); err != nil {
			return err
		}
		_, err := codec.CheckFooter(it.fieldsStream)
		return err
	}
	return nil
}

func (it *ChunkIterator) Close() error {
	return it.fieldsStream.Close()
}
