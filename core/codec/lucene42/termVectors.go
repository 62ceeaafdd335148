package lucene42

import (
	"github.com/balzaczyy/golucene-compressing/core/codec/compressing"
)

// lucene42/Lucene42TermVectorsFormat.java

/*
Lucene 4.2 term vectors format.

Very similarly to Lucene41StoredFieldsFormat, this format is based on
compressed chunks of data, with document-level granularity so that a
document can never span across distinct chunks. Moreover, data is
made as compact as possible:

- textual data is compressed using the very light LZ4 compression
algorithm,
- binary data is written using fixed-size blocks of packed ints.

Term vectors are stored using two files

- a data file where terms, frequencies, positions, offsets and
payloads are stored,
- an index file, loaded into memory, used to locate specific
documents in the data file.

Looking up term vectors for any document requires at most 1 disk seek.

File formats

1. vector_data

A vector data file (extension .tvd). This file stores terms,
frequencies, positions, offsets and payloads for every document. Upon
writing a new segment, it accumulates data into memory until the
buffer used to store terms and payloads grows beyond 4KB. Then it
flushes all metadata, terms and positions to disk using LZ4
compression for terms and payloads and blocks of packed ints for
positions

Here is a more detailed description of the vector data file format:

- VectorData (.tvd) --> <Header>, PackedIntsVersion, ChunkSize, <Chunk>^ChunkCount, Footer
- Header --> CodecHeader
- PackedIntsVersion --> packed.VERSION_CURRENT as a VInt
- ChunkSize is the number of bytes of terms to accumulate before
  flushing, as a VInt
- ChunkCount is not known in advance and is the number of chunks
  necessary to store all documents of the segment
- Chunk --> DocBase, ChunkDocs, <NumFields>, <FieldNums>, <FieldNumOffs>, <Flags>,
  <NumTerms>, <TermLengths>, <TermFreqs>, <Positions>, <StartOffsets>, <Lengths>,
  <PayloadLengths>, <TermAndPayloads>
- DocBase is the ID of the first doc of the chunk as a VInt
- ChunkDocs is the number of documents in the chunk
- NumFields --> DocNumFields^ChunkDocs
- DocNumFields is the number of fields for each doc, written as a
  VInt if ChunkDocs==1 and as blocks of 64 packed ints otherwise
- FieldNums --> Token, (TotalDistinctFields - 8)?, FieldNum^TotalDistinctFields
- Token is a byte: the 3 upper bits are min(TotalDistinctFields - 1, 7)
  and the 5 lower bits are the number of bits per FieldNum; the VInt
  that follows is present when the upper bits are all set
- FieldNum is a distinct field number of the chunk, sorted, as a
  PackedInts array
- FieldNumOffs --> FieldNumOff^TotalFields, as a PackedInts array
- FieldNumOff is the offset of the field number in FieldNums
- TotalFields is the total number of fields (sum of the values of NumFields)
- Flags --> Bit <FieldFlags>
- Bit is a VInt which when 0 means that fields have the same options
  for every document in the chunk
- FieldFlags --> if Bit==0: Flag^TotalDistinctFields else Flag^TotalFields
- Flag: a 3-bits int where:
  - the first bit means that the field has positions
  - the second bit means that the field has offsets
  - the third bit means that the field has payloads
- NumTerms --> BitsRequired, FieldNumTerms^TotalFields
- FieldNumTerms: the number of terms for each field, as a PackedInts
  array of BitsRequired bits per value
- TermLengths --> PrefixLength^TotalTerms SuffixLength^TotalTerms
- TotalTerms: total number of terms (sum of NumTerms)
- PrefixLength, SuffixLength: the length of the common prefix with the
  previous term of the field and of the rest of the term, using blocks
  of 64 packed ints
- TermFreqs --> TermFreqMinus1^TotalTerms
- TermFreqMinus1: (frequency - 1) for each term using blocks of 64 packed ints
- Positions --> PositionDelta^TotalPositions
- TotalPositions is the sum of frequencies of terms of all fields that have positions
- PositionDelta: the absolute position for the first position of a
  term, and the difference with the previous positions for following
  positions using blocks of 64 packed ints
- StartOffsets --> (AvgCharsPerTerm^TotalDistinctFields) StartOffsetDelta^TotalOffsets
- TotalOffsets is the sum of frequencies of terms of all fields that have offsets
- AvgCharsPerTerm: average number of chars per term, encoded as a
  float32 on 4 bytes. They are present as soon as one field of the
  chunk has offsets, and are 0 for fields without positions.
- StartOffsetDelta: (startOffset - previousStartOffset - AvgCharsPerTerm
  * PositionDelta). previousStartOffset is 0 for the first offset of
  a term, using blocks of 64 packed ints
- Lengths --> LengthMinusTermLength^TotalOffsets
- LengthMinusTermLength: (endOffset - startOffset - termLength) using blocks of 64 packed ints
- PayloadLengths --> PayloadLength^TotalPayloads
- TotalPayloads is the sum of frequencies of terms of all fields that have payloads
- PayloadLength is the payload length encoded using blocks of 64 packed ints
- TermAndPayloads --> LZ4-compressed representation of <DocTermsAndPayloads>^ChunkDocs
- DocTermsAndPayloads --> Terms Payloads
- Terms: term suffix bytes of all the fields of the doc
- Payloads: payload bytes of all the fields of the doc
- Footer --> CodecFooter

2. vector_index

An index file (extension .tvx).

- VectorIndex (.tvx) --> <Header>, <ChunkIndex>, MaxPointer, Footer
- Header --> CodecHeader
- ChunkIndex: see compressing.StoredFieldsIndexWriter
- MaxPointer --> the end of the data file before its footer, as a VLong
- Footer --> CodecFooter
*/
type Lucene42TermVectorsFormat struct {
	*compressing.CompressingTermVectorsFormat
}

// Options such as compressing.WithMetrics are passed through; the
// compression mode and chunk size are fixed.
func NewLucene42TermVectorsFormat(opts ...compressing.FormatOption) (*Lucene42TermVectorsFormat, error) {
	format, err := compressing.NewCompressingTermVectorsFormat("Lucene41StoredFields", "",
		compressing.COMPRESSION_MODE_FAST, 1<<12, opts...)
	if err != nil {
		return nil, err
	}
	return &Lucene42TermVectorsFormat{format}, nil
}
