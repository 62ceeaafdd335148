package compressing

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/document"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/stretchr/testify/require"
)

func vectorFieldInfos() model.FieldInfos {
	opts := model.INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS
	return model.NewFieldInfos([]*model.FieldInfo{
		model.NewFieldInfo("title", true, 0, true, false, opts),
		model.NewFieldInfo("body", true, 1, true, true, opts),
		model.NewFieldInfo("tags", true, 2, true, false, model.INDEX_OPT_DOCS_AND_FREQS),
		model.NewFieldInfo("plain", true, 3, true, true, opts),
	})
}

func newTestTermVectorsFormat(t *testing.T, mode CompressionMode, chunkSize int, opts ...FormatOption) *CompressingTermVectorsFormat {
	format, err := NewCompressingTermVectorsFormat("TestTermVectors", "", mode, chunkSize, opts...)
	require.NoError(t, err)
	return format
}

func writeVectorDocs(t *testing.T, format spi.TermVectorsFormat, dir store.Directory,
	segment string, fis model.FieldInfos, docs []*document.TermVectors) *model.SegmentInfo {

	si := model.NewSegmentInfo(dir, segment, len(docs))
	w, err := format.VectorsWriter(dir, si, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	for _, doc := range docs {
		require.NoError(t, w.(*CompressingTermVectorsWriter).AddAllDocVectors(doc, fis))
	}
	require.NoError(t, w.Finish(fis, len(docs)))
	require.NoError(t, w.Close())
	return si
}

type occurrenceDump struct {
	position, start, end int
	payload              string
}

type termDump struct {
	term        string
	freq        int
	occurrences []occurrenceDump
}

type fieldDump struct {
	positions, offsets, payloads bool
	terms                        []termDump
}

// Flattens fields so that vectors read back can be compared with the
// ones that were written. Fields without terms are left out.
func dumpVectors(t *testing.T, fields model.Fields) map[string]fieldDump {
	ans := make(map[string]fieldDump)
	if fields == nil {
		return ans
	}
	for _, name := range fields.Names() {
		terms := fields.Terms(name)
		if terms == nil || terms.Size() == 0 {
			continue
		}
		fd := fieldDump{
			positions: terms.HasPositions(),
			offsets:   terms.HasOffsets(),
			payloads:  terms.HasPayloads(),
		}
		it := terms.Iterator(nil)
		for {
			term, err := it.Next()
			require.NoError(t, err)
			if term == nil {
				break
			}
			freq, err := it.TotalTermFreq()
			require.NoError(t, err)
			td := termDump{term: string(term), freq: int(freq)}

			dpe, err := it.DocsAndPositions(nil, nil)
			require.NoError(t, err)
			if !fd.positions && !fd.offsets {
				require.Nil(t, dpe)
			} else {
				require.NotNil(t, dpe)
				doc, err := dpe.NextDoc()
				require.NoError(t, err)
				require.Equal(t, 0, doc)
				for i := 0; i < int(freq); i++ {
					var o occurrenceDump
					o.position, err = dpe.NextPosition()
					require.NoError(t, err)
					o.start, err = dpe.StartOffset()
					require.NoError(t, err)
					o.end, err = dpe.EndOffset()
					require.NoError(t, err)
					payload, err := dpe.Payload()
					require.NoError(t, err)
					o.payload = string(payload)
					td.occurrences = append(td.occurrences, o)
				}
				doc, err = dpe.NextDoc()
				require.NoError(t, err)
				require.Equal(t, model.NO_MORE_DOCS, doc)
			}
			fd.terms = append(fd.terms, td)
		}
		ans[name] = fd
	}
	return ans
}

var vocabulary = []string{"a", "ab", "abc", "abcd", "b", "bar", "baz", "foo", "foobar", "lucene", "lz4", "zebra", "zz"}

func randomVectors(r *rand.Rand, fis model.FieldInfos, n int) []*document.TermVectors {
	docs := make([]*document.TermVectors, n)
	for i := range docs {
		tv := document.NewTermVectors()
		for _, fi := range fis.Values {
			if r.Intn(4) == 0 {
				continue
			}
			positions := r.Intn(2) == 0
			offsets := r.Intn(2) == 0
			payloads := positions && fi.HasPayloads() && r.Intn(2) == 0
			f := tv.AddField(fi, positions, offsets, payloads)
			numTokens := r.Intn(40)
			if !positions && !offsets {
				for j := 0; j < numTokens; j++ {
					f.AddTerm(vocabulary[r.Intn(len(vocabulary))], 1+r.Intn(3))
				}
				continue
			}
			offset := 0
			for pos := 0; pos < numTokens; pos++ {
				term := vocabulary[r.Intn(len(vocabulary))]
				if r.Intn(10) == 0 {
					// a term outside the vocabulary, occasionally long
					term = string(randomBytes(r, 1+r.Intn(50), 26))
				}
				offset += r.Intn(3)
				var payload []byte
				if payloads && r.Intn(3) > 0 {
					payload = randomBytes(r, r.Intn(8), 4)
				}
				f.AddOccurrence(term, pos, offset, offset+len(term), payload)
				offset += len(term)
			}
		}
		docs[i] = tv
	}
	return docs
}

func TestTermVectorsRandom(t *testing.T) {
	r := rand.New(rand.NewSource(20))
	fis := vectorFieldInfos()
	for _, mode := range allModes {
		for _, chunkSize := range []int{1, 300, 1 << 12} {
			t.Run(fmt.Sprintf("%v/%d", mode, chunkSize), func(t *testing.T) {
				docs := randomVectors(r, fis, 150)
				dir := store.NewRAMDirectory()
				format := newTestTermVectorsFormat(t, mode, chunkSize)
				si := writeVectorDocs(t, format, dir, "_0", fis, docs)

				reader, err := format.VectorsReader(dir, si, fis, store.IO_CONTEXT_READ)
				require.NoError(t, err)
				defer reader.Close()
				for _, i := range r.Perm(len(docs)) {
					actual, err := reader.Get(i)
					require.NoError(t, err)
					require.Equal(t, dumpVectors(t, docs[i]), dumpVectors(t, actual), "doc %v", i)
				}
				require.NoError(t, reader.CheckIntegrity())
			})
		}
	}
}

func TestTermVectorsOffsets(t *testing.T) {
	fis := vectorFieldInfos()
	tv := document.NewTermVectors()
	body := tv.AddField(fis.FieldInfoByName("body"), true, true, true)
	// "foo bar foo baz"
	body.AddOccurrence("foo", 0, 0, 3, []byte("p0"))
	body.AddOccurrence("bar", 1, 4, 7, nil)
	body.AddOccurrence("foo", 2, 8, 11, []byte("p2"))
	body.AddOccurrence("baz", 3, 12, 15, nil)
	title := tv.AddField(fis.FieldInfoByName("title"), false, true, false)
	title.AddOccurrence("hello", -1, 0, 5, nil)
	title.AddOccurrence("world", -1, 6, 11, nil)
	tags := tv.AddField(fis.FieldInfoByName("tags"), false, false, false)
	tags.AddTerm("go", 2)

	dir := store.NewRAMDirectory()
	format := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST, 1<<12)
	si := writeVectorDocs(t, format, dir, "_0", fis, []*document.TermVectors{tv, document.NewTermVectors()})
	reader, err := format.VectorsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer reader.Close()

	fields, err := reader.Get(0)
	require.NoError(t, err)
	require.Equal(t, []string{"title", "body", "tags"}, fields.Names())
	require.Equal(t, 3, fields.Size())
	require.Nil(t, fields.Terms("plain"))

	require.Equal(t, fieldDump{
		positions: true, offsets: true, payloads: true,
		terms: []termDump{
			{"bar", 1, []occurrenceDump{{1, 4, 7, ""}}},
			{"baz", 1, []occurrenceDump{{3, 12, 15, ""}}},
			{"foo", 2, []occurrenceDump{{0, 0, 3, "p0"}, {2, 8, 11, "p2"}}},
		},
	}, dumpVectors(t, fields)["body"])
	require.Equal(t, fieldDump{
		offsets: true,
		terms: []termDump{
			{"hello", 1, []occurrenceDump{{-1, 0, 5, ""}}},
			{"world", 1, []occurrenceDump{{-1, 6, 11, ""}}},
		},
	}, dumpVectors(t, fields)["title"])
	require.Equal(t, fieldDump{
		terms: []termDump{{"go", 2, nil}},
	}, dumpVectors(t, fields)["tags"])

	terms := fields.Terms("body")
	require.Equal(t, int64(3), terms.Size())
	require.Equal(t, 1, terms.DocCount())
	require.Equal(t, int64(-1), terms.SumTotalTermFreq())

	// empty documents have no vectors
	empty, err := reader.Get(1)
	require.NoError(t, err)
	require.Nil(t, empty)

	_, err = reader.Get(2)
	require.True(t, codec.IsCorruption(err), "%v", err)
}

func TestTermVectorsSeekCeil(t *testing.T) {
	fis := vectorFieldInfos()
	tv := document.NewTermVectors()
	f := tv.AddField(fis.FieldInfoByName("tags"), false, false, false)
	for _, term := range []string{"apple", "banana", "bananas", "cherry"} {
		f.AddTerm(term, 1)
	}
	dir := store.NewRAMDirectory()
	format := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST_DECOMPRESSION, 1<<12)
	si := writeVectorDocs(t, format, dir, "_0", fis, []*document.TermVectors{tv})
	reader, err := format.VectorsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer reader.Close()

	fields, err := reader.Get(0)
	require.NoError(t, err)
	it := fields.Terms("tags").Iterator(nil)

	status, err := it.SeekCeil([]byte("banana"))
	require.NoError(t, err)
	require.Equal(t, model.SEEK_STATUS_FOUND, status)
	require.Equal(t, "banana", string(it.Term()))

	status, err = it.SeekCeil([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, model.SEEK_STATUS_NOT_FOUND, status)
	require.Equal(t, "banana", string(it.Term()))

	status, err = it.SeekCeil([]byte("bananaz"))
	require.NoError(t, err)
	require.Equal(t, model.SEEK_STATUS_NOT_FOUND, status)
	require.Equal(t, "cherry", string(it.Term()))

	found, err := it.SeekExact([]byte("apple"))
	require.NoError(t, err)
	require.True(t, found)

	status, err = it.SeekCeil([]byte("dates"))
	require.NoError(t, err)
	require.Equal(t, model.SEEK_STATUS_END, status)

	require.Error(t, it.SeekExactByPosition(0))
	require.Equal(t, int64(-1), it.Ord())

	// reusing the enum restarts from the first term
	it = fields.Terms("tags").Iterator(it)
	term, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, "apple", string(term))
	docs, err := it.Docs(nil, nil)
	require.NoError(t, err)
	freq, err := docs.Freq()
	require.Error(t, err)
	doc, err := docs.NextDoc()
	require.NoError(t, err)
	require.Equal(t, 0, doc)
	freq, err = docs.Freq()
	require.NoError(t, err)
	require.Equal(t, 1, freq)

	liveDocs := util.NewFixedBitSetOf(1)
	docs, err = it.Docs(liveDocs, docs)
	require.NoError(t, err)
	doc, err = docs.NextDoc()
	require.NoError(t, err)
	require.Equal(t, model.NO_MORE_DOCS, doc)
}

func TestTermVectorsAddProx(t *testing.T) {
	fis := vectorFieldInfos()
	dir := store.NewRAMDirectory()
	format := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST, 1<<12)
	si := model.NewSegmentInfo(dir, "_0", 1)
	w, err := format.VectorsWriter(dir, si, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)

	// positions 2, 5, 9 with a payload on 5; offsets [1,4) [10,13) [20,23)
	positions := util.NewGrowableByteArrayDataOutput(16)
	require.NoError(t, positions.WriteVInt(2<<1))
	require.NoError(t, positions.WriteVInt(3<<1|1))
	require.NoError(t, positions.WriteVInt(2))
	require.NoError(t, positions.WriteBytes([]byte("pl")))
	require.NoError(t, positions.WriteVInt(4<<1))
	offsets := util.NewGrowableByteArrayDataOutput(16)
	for _, v := range []int32{1, 3, 6, 3, 7, 3} {
		require.NoError(t, offsets.WriteVInt(v))
	}

	require.NoError(t, w.StartDocument(1))
	require.NoError(t, w.StartField(fis.FieldInfoByName("body"), 1, true, true, true))
	require.NoError(t, w.StartTerm([]byte("abc"), 3))
	require.NoError(t, w.AddProx(3,
		store.NewByteArrayDataInput(positions.ToBytes()),
		store.NewByteArrayDataInput(offsets.ToBytes())))
	require.NoError(t, w.FinishTerm())
	require.NoError(t, w.FinishField())
	require.NoError(t, w.FinishDocument())
	require.NoError(t, w.Finish(fis, 1))
	require.NoError(t, w.Close())

	reader, err := format.VectorsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer reader.Close()
	fields, err := reader.Get(0)
	require.NoError(t, err)
	require.Equal(t, []termDump{{"abc", 3, []occurrenceDump{
		{2, 1, 4, ""}, {5, 10, 13, "pl"}, {9, 20, 23, ""},
	}}}, dumpVectors(t, fields)["body"].terms)
}

func TestTermVectorsWriterErrors(t *testing.T) {
	fis := vectorFieldInfos()
	dir := store.NewRAMDirectory()
	format := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST, 1<<12)
	w, err := format.VectorsWriter(dir, model.NewSegmentInfo(dir, "_0", 1), store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)

	require.NoError(t, w.StartDocument(2))
	require.Error(t, w.StartField(fis.FieldInfoByName("body"), 1, false, false, true))
	require.NoError(t, w.StartField(fis.FieldInfoByName("tags"), 0, false, false, false))
	require.NoError(t, w.FinishField())
	// only one of the two announced fields was written
	require.Error(t, w.FinishDocument())

	w.Abort()
	require.False(t, dir.FileExists("_0.tvd"))
	require.False(t, dir.FileExists("_0.tvx"))
	require.Equal(t, store.ErrAlreadyClosed, w.StartDocument(0))
}

func TestTermVectorsCorruption(t *testing.T) {
	fis := vectorFieldInfos()
	docs := randomVectors(rand.New(rand.NewSource(21)), fis, 30)
	format := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST, 1<<12)

	dir := store.NewRAMDirectory()
	si := writeVectorDocs(t, format, dir, "_0", fis, docs)
	rewriteFile(t, dir, "_0.tvd", func(data []byte) []byte { return data[:len(data)-1] })
	_, err := format.VectorsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.True(t, codec.IsCorruption(err), "%v", err)

	dir = store.NewRAMDirectory()
	si = writeVectorDocs(t, format, dir, "_0", fis, docs)
	rewriteFile(t, dir, "_0.tvd", func(data []byte) []byte {
		data[len(data)-codec.FOOTER_LENGTH-3] ^= 0x01
		return data
	})
	reader, err := format.VectorsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer reader.Close()
	require.True(t, codec.IsCorruption(reader.CheckIntegrity()))

	// readers must agree with the writer on the block size
	other := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST, 1<<12, WithBlockSize(128))
	dir = store.NewRAMDirectory()
	si = writeVectorDocs(t, other, dir, "_0", fis, docs)
	reader2, err := other.VectorsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer reader2.Close()
	fields, err := reader2.Get(7)
	require.NoError(t, err)
	require.Equal(t, dumpVectors(t, docs[7]), dumpVectors(t, fields))
}
