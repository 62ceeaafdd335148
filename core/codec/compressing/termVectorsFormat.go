package compressing

import (
	"fmt"

	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/pkg/errors"
)

// codec/compressing/CompressingTermVectorsFormat.java

// A TermVectorsFormat that compresses chunks of documents together
// in order to improve the compression ratio.
type CompressingTermVectorsFormat struct {
	formatName      string
	segmentSuffix   string
	compressionMode CompressionMode
	chunkSize       int
	maxDocsPerChunk int
	blockSize       int
	metrics         *Metrics
}

/*
Create a new CompressingTermVectorsFormat

formatName is the name of the format. This name will be used in the
file formats to perform codec header checks.

The compressionMode parameter allows you to choose between compression
algorithms that have various compression and decompression speeds so
that you can pick the one that best fits your indexing and searching
throughput. You should never instantiate two CompressingTermVectorsFormats
that have the same name but different CompressionModes.

chunkSize is the minimum byte size of a chunk of documents. Higher
values of chunkSize should improve the compression ratio but will
require more memory at indexing time and might make document loading
a little slower (depending on the size of your OS cache compared to
the size of your index).

Readers and writers of the same segment must agree on the block size
given by WithBlockSize.
*/
func NewCompressingTermVectorsFormat(formatName, segmentSuffix string,
	compressionMode CompressionMode, chunkSize int, opts ...FormatOption) (*CompressingTermVectorsFormat, error) {

	o, err := newFormatOptions(chunkSize, opts)
	if err != nil {
		return nil, err
	}
	if compressionMode == nil {
		return nil, errors.Wrap(ErrUnknownCompressionMode, "nil compression mode")
	}
	return &CompressingTermVectorsFormat{
		formatName:      formatName,
		segmentSuffix:   segmentSuffix,
		compressionMode: compressionMode,
		chunkSize:       chunkSize,
		maxDocsPerChunk: o.maxDocsPerChunk,
		blockSize:       o.blockSize,
		metrics:         o.metrics,
	}, nil
}

func (vf *CompressingTermVectorsFormat) VectorsReader(d store.Directory,
	segmentInfo *model.SegmentInfo, fieldsInfos model.FieldInfos,
	context store.IOContext) (spi.TermVectorsReader, error) {

	return NewCompressingTermVectorsReader(d, segmentInfo, vf.segmentSuffix,
		fieldsInfos, context, vf.formatName, vf.compressionMode, vf.blockSize)
}

func (vf *CompressingTermVectorsFormat) VectorsWriter(d store.Directory,
	segmentInfo *model.SegmentInfo,
	context store.IOContext) (spi.TermVectorsWriter, error) {

	w, err := NewCompressingTermVectorsWriter(d, segmentInfo, vf.segmentSuffix,
		context, vf.formatName, vf.compressionMode, vf.chunkSize, vf.blockSize)
	if err != nil {
		return nil, err
	}
	w.maxDocsPerChunk = vf.maxDocsPerChunk
	w.metrics = vf.metrics
	return w, nil
}

func (vf *CompressingTermVectorsFormat) String() string {
	return fmt.Sprintf("CompressingTermVectorsFormat(compressionMode=%v, chunkSize=%v)",
		vf.compressionMode, vf.chunkSize)
}
