package compressing

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/document"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/stretchr/testify/require"
)

func newTestStoredFieldsFormat(t *testing.T, mode CompressionMode, chunkSize int, opts ...FormatOption) *CompressingStoredFieldsFormat {
	format, err := NewCompressingStoredFieldsFormat("TestStoredFields", "", mode, chunkSize, opts...)
	require.NoError(t, err)
	return format
}

func writeStoredDocs(t *testing.T, format spi.StoredFieldsFormat, dir store.Directory,
	segment string, fis model.FieldInfos, docs []*document.Document) *model.SegmentInfo {

	si := model.NewSegmentInfo(dir, segment, len(docs))
	w, err := format.FieldsWriter(dir, si, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	for _, doc := range docs {
		require.NoError(t, w.StartDocument())
		for _, f := range doc.Fields() {
			require.NoError(t, w.WriteField(fis.FieldInfoByName(f.Name()), f))
		}
		require.NoError(t, w.FinishDocument())
	}
	require.NoError(t, w.Finish(fis, len(docs)))
	require.NoError(t, w.Close())
	return si
}

func loadStoredDoc(t *testing.T, r spi.StoredFieldsReader, docID int) *document.Document {
	visitor := document.NewDocumentStoredFieldVisitor()
	require.NoError(t, r.VisitDocument(docID, visitor))
	return visitor.Document()
}

func requireSameDocument(t *testing.T, expected, actual *document.Document) {
	require.Equal(t, len(expected.Fields()), len(actual.Fields()))
	for i, f := range expected.Fields() {
		g := actual.Fields()[i]
		require.Equal(t, f.Name(), g.Name())
		require.Equal(t, f.NumericValue(), g.NumericValue(), f.Name())
		require.True(t, bytes.Equal(f.BinaryValue(), g.BinaryValue()), f.Name())
		if f.NumericValue() == nil && f.BinaryValue() == nil {
			require.Equal(t, f.StringValue(), g.StringValue(), f.Name())
		}
	}
}

func randomStoredDocs(r *rand.Rand, n int) []*document.Document {
	docs := make([]*document.Document, n)
	for i := range docs {
		doc := document.NewDocument()
		doc.Add(document.NewStringField("id", fmt.Sprintf("v%d", i)))
		if r.Intn(3) > 0 {
			doc.Add(document.NewStringField("body", string(randomBytes(r, r.Intn(300), 5))))
		}
		switch r.Intn(5) {
		case 0:
			bin := make([]byte, r.Intn(100))
			r.Read(bin)
			doc.Add(document.NewBinaryField("bin", bin))
		case 1:
			doc.Add(document.NewIntField("i", r.Int31()-1<<30))
		case 2:
			doc.Add(document.NewLongField("l", r.Int63()-1<<62))
		case 3:
			doc.Add(document.NewFloatField("f", r.Float32()))
		case 4:
			doc.Add(document.NewDoubleField("d", r.NormFloat64()))
		}
		docs[i] = doc
	}
	return docs
}

func TestStoredFieldsAllTypes(t *testing.T) {
	doc := document.NewDocument()
	doc.Add(document.NewStringField("id", "héllo wörld"))
	doc.Add(document.NewStringField("body", ""))
	doc.Add(document.NewBinaryField("bin", []byte{0, 1, 2, 255}))
	doc.Add(document.NewIntField("i", -42))
	doc.Add(document.NewLongField("l", 1<<40))
	doc.Add(document.NewFloatField("f", 3.25))
	doc.Add(document.NewDoubleField("d", -1e300))
	doc.Add(document.NewStringField("id", "second value"))
	docs := []*document.Document{doc, document.NewDocument(), doc}

	fis := storedFieldInfos()
	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			dir := store.NewRAMDirectory()
			format := newTestStoredFieldsFormat(t, mode, 1<<14)
			si := writeStoredDocs(t, format, dir, "_0", fis, docs)

			r, err := format.FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
			require.NoError(t, err)
			defer r.Close()
			for i, expected := range docs {
				requireSameDocument(t, expected, loadStoredDoc(t, r, i))
			}
			require.NoError(t, r.CheckIntegrity())
		})
	}
}

func TestStoredFieldsManySmallChunks(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	docs := randomStoredDocs(r, 10)
	fis := storedFieldInfos()
	dir := store.NewRAMDirectory()
	format := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14, WithMaxDocsPerChunk(4))
	si := writeStoredDocs(t, format, dir, "_0", fis, docs)

	reader, err := format.FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer reader.Close()
	require.Equal(t, "v7", loadStoredDoc(t, reader, 7).Get("id"))
	// random access order
	for _, i := range r.Perm(len(docs)) {
		requireSameDocument(t, docs[i], loadStoredDoc(t, reader, i))
	}

	visitor := document.NewDocumentStoredFieldVisitorOf("id")
	require.NoError(t, reader.VisitDocument(3, visitor))
	require.Equal(t, 1, len(visitor.Document().Fields()))
	require.Equal(t, "v3", visitor.Document().Get("id"))

	_, err = reader.(*CompressingStoredFieldsReader).indexReader.StartPointer(10)
	require.True(t, codec.IsCorruption(err))
}

func TestStoredFieldsRandom(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	fis := storedFieldInfos()
	for _, mode := range allModes {
		for _, chunkSize := range []int{1, 100, 1 << 14} {
			docs := randomStoredDocs(r, 300)
			dir := store.NewRAMDirectory()
			format := newTestStoredFieldsFormat(t, mode, chunkSize)
			si := writeStoredDocs(t, format, dir, "_0", fis, docs)

			reader, err := format.FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
			require.NoError(t, err)
			for i, doc := range docs {
				requireSameDocument(t, doc, loadStoredDoc(t, reader, i))
			}
			require.NoError(t, reader.CheckIntegrity())
			require.NoError(t, reader.Close())
		}
	}
}

func TestStoredFieldsBigDocuments(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	fis := storedFieldInfos()
	docs := make([]*document.Document, 5)
	for i := range docs {
		docs[i] = document.NewDocument()
		docs[i].Add(document.NewStringField("id", fmt.Sprintf("v%d", i)))
		// several times chunkSize, so that the chunk gets sliced
		docs[i].Add(document.NewStringField("body", string(randomBytes(r, 5000+r.Intn(3000), 20))))
	}
	for _, mode := range allModes {
		dir := store.NewRAMDirectory()
		format := newTestStoredFieldsFormat(t, mode, 1000)
		si := writeStoredDocs(t, format, dir, "_0", fis, docs)

		reader, err := format.FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
		require.NoError(t, err)
		for _, i := range []int{3, 0, 4, 1, 2} {
			requireSameDocument(t, docs[i], loadStoredDoc(t, reader, i))
		}
		// the body is skipped while the id is read
		visitor := document.NewDocumentStoredFieldVisitorOf("id")
		require.NoError(t, reader.VisitDocument(2, visitor))
		require.Equal(t, "v2", visitor.Document().Get("id"))
		require.NoError(t, reader.Close())
	}
}

func TestStoredFieldsTruncatedFile(t *testing.T) {
	fis := storedFieldInfos()
	dir := store.NewRAMDirectory()
	format := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	si := writeStoredDocs(t, format, dir, "_0", fis, randomStoredDocs(rand.New(rand.NewSource(10)), 20))

	rewriteFile(t, dir, "_0.fdt", func(data []byte) []byte { return data[:len(data)-1] })
	_, err := format.FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.True(t, codec.IsCorruption(err), "%v", err)
}

func TestStoredFieldsChecksumMismatch(t *testing.T) {
	fis := storedFieldInfos()
	dir := store.NewRAMDirectory()
	format := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	si := writeStoredDocs(t, format, dir, "_0", fis, randomStoredDocs(rand.New(rand.NewSource(11)), 20))

	rewriteFile(t, dir, "_0.fdt", func(data []byte) []byte {
		// flip a bit in the last chunk, past the headers
		data[len(data)-codec.FOOTER_LENGTH-5] ^= 0x10
		return data
	})
	reader, err := format.FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer reader.Close()
	err = reader.CheckIntegrity()
	require.True(t, codec.IsCorruption(err), "%v", err)
}

func TestStoredFieldsCorruptIndexHeader(t *testing.T) {
	fis := storedFieldInfos()
	dir := store.NewRAMDirectory()
	format := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	si := writeStoredDocs(t, format, dir, "_0", fis, randomStoredDocs(rand.New(rand.NewSource(12)), 3))

	other := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	other.formatName = "OtherStoredFields"
	_, err := other.FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.Error(t, err)
}

func TestStoredFieldsAbort(t *testing.T) {
	fis := storedFieldInfos()
	dir := store.NewRAMDirectory()
	format := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	w, err := format.FieldsWriter(dir, model.NewSegmentInfo(dir, "_0", 1), store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, w.StartDocument())
	require.NoError(t, w.WriteField(fis.FieldInfoByName("id"), document.NewStringField("id", "x")))
	require.NoError(t, w.FinishDocument())
	require.True(t, dir.FileExists("_0.fdt"))

	w.Abort()
	require.False(t, dir.FileExists("_0.fdt"))
	require.False(t, dir.FileExists("_0.fdx"))
}

func TestStoredFieldsFinishDocCountMismatch(t *testing.T) {
	fis := storedFieldInfos()
	dir := store.NewRAMDirectory()
	format := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	w, err := format.FieldsWriter(dir, model.NewSegmentInfo(dir, "_0", 2), store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.StartDocument())
	require.NoError(t, w.FinishDocument())
	require.Error(t, w.Finish(fis, 2))
}

func TestStoredFieldsClosed(t *testing.T) {
	fis := storedFieldInfos()
	dir := store.NewRAMDirectory()
	format := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	si := writeStoredDocs(t, format, dir, "_0", fis, randomStoredDocs(rand.New(rand.NewSource(13)), 2))

	w, err := format.FieldsWriter(dir, model.NewSegmentInfo(dir, "_1", 0), store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.Equal(t, store.ErrAlreadyClosed, w.StartDocument())

	reader, err := format.FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	clone := reader.Clone()
	require.NoError(t, reader.Close())
	require.Equal(t, store.ErrAlreadyClosed, reader.VisitDocument(0, document.NewDocumentStoredFieldVisitor()))
	// clones own their input
	require.Equal(t, "v1", loadStoredDoc(t, clone, 1).Get("id"))
	require.NoError(t, clone.Close())
}

func TestStoredFieldsFormatOptions(t *testing.T) {
	_, err := NewCompressingStoredFieldsFormat("X", "", COMPRESSION_MODE_FAST, 0)
	require.Error(t, err)
	_, err = NewCompressingStoredFieldsFormat("X", "", nil, 10)
	require.Error(t, err)
	_, err = NewCompressingStoredFieldsFormat("X", "", COMPRESSION_MODE_FAST, 10, WithMaxDocsPerChunk(0))
	require.Error(t, err)
	_, err = NewCompressingStoredFieldsFormat("X", "", COMPRESSION_MODE_FAST, 10, WithMaxDocsPerChunk(MAX_DOCUMENTS_PER_CHUNK+1))
	require.Error(t, err)
	_, err = NewCompressingStoredFieldsFormat("X", "", COMPRESSION_MODE_FAST, 10, WithBlockSize(100))
	require.Error(t, err)

	format, err := NewCompressingStoredFieldsFormat("X", "", COMPRESSION_MODE_HIGH_COMPRESSION, 10)
	require.NoError(t, err)
	require.Equal(t, "CompressingStoredFieldsFormat(compressionMode=HIGH_COMPRESSION, chunkSize=10)", format.String())
}
