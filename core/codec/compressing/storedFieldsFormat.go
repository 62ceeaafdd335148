package compressing

import (
	"fmt"

	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util/packed"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("compressing")

var (
	ErrInvalidChunkSize       = errors.New("chunkSize must be >= 1")
	ErrInvalidMaxDocsPerChunk = errors.Errorf("maxDocsPerChunk must be in [1, %v]", MAX_DOCUMENTS_PER_CHUNK)
)

// Optional settings shared by the compressing formats.
type FormatOption func(*formatOptions)

type formatOptions struct {
	maxDocsPerChunk int
	blockSize       int
	metrics         *Metrics
}

func defaultFormatOptions() formatOptions {
	return formatOptions{
		maxDocsPerChunk: MAX_DOCUMENTS_PER_CHUNK,
		blockSize:       PACKED_BLOCK_SIZE,
	}
}

// Flush a chunk once it holds n documents, even if it is smaller than
// chunkSize bytes.
func WithMaxDocsPerChunk(n int) FormatOption {
	return func(o *formatOptions) { o.maxDocsPerChunk = n }
}

// Block size of the block-packed streams of term vectors.
func WithBlockSize(n int) FormatOption {
	return func(o *formatOptions) { o.blockSize = n }
}

// Record flush and merge counters in m.
func WithMetrics(m *Metrics) FormatOption {
	return func(o *formatOptions) { o.metrics = m }
}

func newFormatOptions(chunkSize int, opts []FormatOption) (formatOptions, error) {
	o := defaultFormatOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if chunkSize < 1 {
		return o, errors.Wrapf(ErrInvalidChunkSize, "got %v", chunkSize)
	}
	if o.maxDocsPerChunk < 1 || o.maxDocsPerChunk > MAX_DOCUMENTS_PER_CHUNK {
		return o, errors.Wrapf(ErrInvalidMaxDocsPerChunk, "got %v", o.maxDocsPerChunk)
	}
	if o.blockSize < packed.MIN_BLOCK_SIZE || o.blockSize > packed.MAX_BLOCK_SIZE ||
		o.blockSize&(o.blockSize-1) != 0 {
		return o, errors.Errorf("blockSize must be a power of two in [%v, %v], got %v",
			packed.MIN_BLOCK_SIZE, packed.MAX_BLOCK_SIZE, o.blockSize)
	}
	return o, nil
}

// codec/compressing/CompressingStoredFieldsFormat.java

/*
A StoredFieldsFormat that compresses documents in chunks in order to
improve the compression ratio.

For a chunk size of chunkSize bytes, this StoredFieldsFormat does not
support documents larger than (2^31 - chunkSize) bytes.

For optimal performance, you should use a MergePolicy that returns
segments that have the biggest byte size first.
*/
type CompressingStoredFieldsFormat struct {
	formatName      string
	segmentSuffix   string
	compressionMode CompressionMode
	chunkSize       int
	maxDocsPerChunk int
	metrics         *Metrics
}

/*
Create a new CompressingStoredFieldsFormat

formatName is the name of the format. This name will be used in the
file formats to perform CheckHeader().

segmentSuffix is the segment suffix. This suffix is added to the
result file name only if it's not the empty string.

The compressionMode parameter allows you to choose between compression
algorithms that have various compression and decompression speeds so
that you can pick the one that best fits your indexing and searching
throughput. You should never instantiate two
CompressingStoredFieldsFormats that have the same name but different
CompressionModes.

chunkSize is the minimum byte size of a chunk of documents. A value
of 1 can make sense if there is redundancy across fields. Higher
values of chunkSize should improve the compression ratio but will
require more memory at indexing time and might make document loading
a little slower (depending on the size of your OS cache compared to
the size of your index).
*/
func NewCompressingStoredFieldsFormat(formatName, segmentSuffix string,
	compressionMode CompressionMode, chunkSize int, opts ...FormatOption) (*CompressingStoredFieldsFormat, error) {

	o, err := newFormatOptions(chunkSize, opts)
	if err != nil {
		return nil, err
	}
	if compressionMode == nil {
		return nil, errors.Wrap(ErrUnknownCompressionMode, "nil compression mode")
	}
	return &CompressingStoredFieldsFormat{
		formatName:      formatName,
		segmentSuffix:   segmentSuffix,
		compressionMode: compressionMode,
		chunkSize:       chunkSize,
		maxDocsPerChunk: o.maxDocsPerChunk,
		metrics:         o.metrics,
	}, nil
}

func (format *CompressingStoredFieldsFormat) FieldsReader(d store.Directory,
	si *model.SegmentInfo, fn model.FieldInfos, ctx store.IOContext) (spi.StoredFieldsReader, error) {

	return NewCompressingStoredFieldsReader(d, si, format.segmentSuffix, fn,
		ctx, format.formatName, format.compressionMode)
}

func (format *CompressingStoredFieldsFormat) FieldsWriter(d store.Directory,
	si *model.SegmentInfo, ctx store.IOContext) (spi.StoredFieldsWriter, error) {

	w, err := NewCompressingStoredFieldsWriter(d, si, format.segmentSuffix, ctx,
		format.formatName, format.compressionMode, format.chunkSize)
	if err != nil {
		return nil, err
	}
	w.maxDocsPerChunk = format.maxDocsPerChunk
	w.metrics = format.metrics
	return w, nil
}

func (format *CompressingStoredFieldsFormat) String() string {
	return fmt.Sprintf("CompressingStoredFieldsFormat(compressionMode=%v, chunkSize=%v)",
		format.compressionMode, format.chunkSize)
}
