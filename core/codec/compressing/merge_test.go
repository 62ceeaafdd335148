package compressing

import (
	"math/rand"
	"testing"

	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/document"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type testSegment struct {
	si      *model.SegmentInfo
	stored  []*document.Document
	vectors []*document.TermVectors
}

func mergeFieldInfos() model.FieldInfos {
	opts := model.INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS
	return model.NewFieldInfos([]*model.FieldInfo{
		model.NewFieldInfo("id", false, 0, false, false, 0),
		model.NewFieldInfo("body", true, 1, true, true, opts),
		model.NewFieldInfo("bin", false, 2, false, false, 0),
		model.NewFieldInfo("i", false, 3, false, false, 0),
		model.NewFieldInfo("l", false, 4, false, false, 0),
		model.NewFieldInfo("f", false, 5, false, false, 0),
		model.NewFieldInfo("d", false, 6, false, false, 0),
		model.NewFieldInfo("title", true, 7, true, false, opts),
	})
}

func writeSegment(t *testing.T, r *rand.Rand, dir store.Directory, name string, numDocs int,
	fis model.FieldInfos, sf *CompressingStoredFieldsFormat, vf *CompressingTermVectorsFormat) *testSegment {

	seg := &testSegment{
		stored:  randomStoredDocs(r, numDocs),
		vectors: randomVectors(r, model.NewFieldInfos([]*model.FieldInfo{fis.FieldInfoByName("body"), fis.FieldInfoByName("title")}), numDocs),
	}
	seg.si = writeStoredDocs(t, sf, dir, name, fis, seg.stored)
	writeVectorDocs(t, vf, dir, name, fis, seg.vectors)
	return seg
}

type openSegment struct {
	stored  spi.StoredFieldsReader
	vectors spi.TermVectorsReader
}

func (s *openSegment) Close() error {
	return util.Close(s.stored, s.vectors)
}

func openTestSegment(t *testing.T, dir store.Directory, si *model.SegmentInfo, fis model.FieldInfos,
	sf *CompressingStoredFieldsFormat, vf *CompressingTermVectorsFormat) *openSegment {

	stored, err := sf.FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	vectors, err := vf.VectorsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	return &openSegment{stored, vectors}
}

func mergeSegments(t *testing.T, dir store.Directory, name string, fis model.FieldInfos,
	sf *CompressingStoredFieldsFormat, vf *CompressingTermVectorsFormat, readers []*spi.MergeReader) *model.SegmentInfo {

	expected := 0
	for _, r := range readers {
		expected += r.NumDocs()
	}
	si := model.NewSegmentInfo(dir, name, expected)
	state := &spi.MergeState{Segment: si, FieldInfos: fis, Readers: readers}

	fw, err := sf.FieldsWriter(dir, si, mergeContext(si))
	require.NoError(t, err)
	n, err := fw.Merge(state)
	require.NoError(t, err)
	require.Equal(t, expected, n)
	require.NoError(t, fw.Close())

	vw, err := vf.VectorsWriter(dir, si, mergeContext(si))
	require.NoError(t, err)
	n, err = vw.Merge(state)
	require.NoError(t, err)
	require.Equal(t, expected, n)
	require.NoError(t, vw.Close())
	return si
}

func mergeContext(si *model.SegmentInfo) store.IOContext {
	return store.NewIOContextForMerge(&store.MergeInfo{TotalDocCount: si.DocCount()})
}

func checkMerged(t *testing.T, merged *openSegment, segs []*testSegment, liveDocs []util.Bits) {
	doc := 0
	for i, seg := range segs {
		for j := range seg.stored {
			if liveDocs[i] != nil && !liveDocs[i].At(j) {
				continue
			}
			requireSameDocument(t, seg.stored[j], loadStoredDoc(t, merged.stored, doc))
			fields, err := merged.vectors.Get(doc)
			require.NoError(t, err)
			require.Equal(t, dumpVectors(t, seg.vectors[j]), dumpVectors(t, fields), "doc %v", doc)
			doc++
		}
	}
	require.NoError(t, CheckIntegrityAll(merged.stored, merged.vectors))
}

func TestMergeBulkCopiesFullChunks(t *testing.T) {
	r := rand.New(rand.NewSource(30))
	fis := mergeFieldInfos()
	metrics := NewMetrics(prometheus.NewRegistry())
	sf := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14, WithMaxDocsPerChunk(4), WithMetrics(metrics))
	vf := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST, 1<<14, WithMaxDocsPerChunk(4), WithMetrics(metrics))
	dir := store.NewRAMDirectory()

	segs := []*testSegment{
		writeSegment(t, r, dir, "_0", 10, fis, sf, vf),
		writeSegment(t, r, dir, "_1", 10, fis, sf, vf),
	}
	var readers []*spi.MergeReader
	for _, seg := range segs {
		s := openTestSegment(t, dir, seg.si, fis, sf, vf)
		defer s.Close()
		readers = append(readers, &spi.MergeReader{
			MaxDoc: 10, FieldInfos: fis, FieldsReader: s.stored, VectorsReader: s.vectors,
		})
	}

	tracked := store.NewTrackingDirectoryWrapper(dir)
	si := mergeSegments(t, tracked, "_2", fis, sf, vf, readers)
	require.Equal(t, []string{"_2.fdt", "_2.fdx", "_2.tvd", "_2.tvx"}, tracked.CreatedFiles())
	merged := openTestSegment(t, dir, si, fis, sf, vf)
	defer merged.Close()
	checkMerged(t, merged, segs, []util.Bits{nil, nil})

	// the two full chunks of the first segment are copied, its last
	// chunk is left pending so that every chunk of the second segment
	// has to be decoded
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.BulkCopiedChunks.WithLabelValues("TestStoredFields")))
	require.Equal(t, 12.0, testutil.ToFloat64(metrics.ReencodedDocs.WithLabelValues("TestStoredFields")))
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.BulkCopiedChunks.WithLabelValues("TestTermVectors")))
	require.Equal(t, 12.0, testutil.ToFloat64(metrics.ReencodedDocs.WithLabelValues("TestTermVectors")))
	require.True(t, testutil.ToFloat64(metrics.ChunksFlushed.WithLabelValues("TestStoredFields")) > 0)
}

func TestMergeWithDeletions(t *testing.T) {
	r := rand.New(rand.NewSource(31))
	fis := mergeFieldInfos()
	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			sf := newTestStoredFieldsFormat(t, mode, 500, WithMaxDocsPerChunk(8))
			vf := newTestTermVectorsFormat(t, mode, 500, WithMaxDocsPerChunk(8))
			dir := store.NewRAMDirectory()

			segs := []*testSegment{
				writeSegment(t, r, dir, "_0", 50, fis, sf, vf),
				writeSegment(t, r, dir, "_1", 37, fis, sf, vf),
				writeSegment(t, r, dir, "_2", 5, fis, sf, vf),
			}
			liveDocs := make([]util.Bits, len(segs))
			var readers []*spi.MergeReader
			for i, seg := range segs {
				n := len(seg.stored)
				if i < 2 {
					bits := util.NewFixedBitSetOf(n)
					bits.SetRange(0, n)
					for d := 0; d < n; d += 1 + r.Intn(6) {
						bits.Clear(d)
					}
					liveDocs[i] = bits
				}
				s := openTestSegment(t, dir, seg.si, fis, sf, vf)
				defer s.Close()
				readers = append(readers, &spi.MergeReader{
					MaxDoc: n, LiveDocs: liveDocs[i], FieldInfos: fis,
					FieldsReader: s.stored, VectorsReader: s.vectors,
				})
			}

			si := mergeSegments(t, dir, "_3", fis, sf, vf, readers)
			merged := openTestSegment(t, dir, si, fis, sf, vf)
			defer merged.Close()
			checkMerged(t, merged, segs, liveDocs)
		})
	}
}

func TestMergeAllDeleted(t *testing.T) {
	r := rand.New(rand.NewSource(32))
	fis := mergeFieldInfos()
	sf := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	vf := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	dir := store.NewRAMDirectory()
	seg := writeSegment(t, r, dir, "_0", 6, fis, sf, vf)
	s := openTestSegment(t, dir, seg.si, fis, sf, vf)
	defer s.Close()

	si := mergeSegments(t, dir, "_1", fis, sf, vf, []*spi.MergeReader{{
		MaxDoc: 6, LiveDocs: util.NewFixedBitSetOf(6), FieldInfos: fis,
		FieldsReader: s.stored, VectorsReader: s.vectors,
	}})
	require.Equal(t, 0, si.DocCount())
	merged := openTestSegment(t, dir, si, fis, sf, vf)
	require.NoError(t, merged.Close())
}

func TestMergeIncompatibleSegments(t *testing.T) {
	r := rand.New(rand.NewSource(33))
	fis := mergeFieldInfos()
	metrics := NewMetrics(nil)
	sf := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14, WithMaxDocsPerChunk(4), WithMetrics(metrics))
	vf := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST, 1<<14, WithMaxDocsPerChunk(4), WithMetrics(metrics))
	hsf := newTestStoredFieldsFormat(t, COMPRESSION_MODE_HIGH_COMPRESSION, 1<<14, WithMaxDocsPerChunk(4))
	hvf := newTestTermVectorsFormat(t, COMPRESSION_MODE_HIGH_COMPRESSION, 1<<14, WithMaxDocsPerChunk(4))
	dir := store.NewRAMDirectory()

	seg := writeSegment(t, r, dir, "_0", 12, fis, hsf, hvf)
	s := openTestSegment(t, dir, seg.si, fis, hsf, hvf)
	defer s.Close()

	seg2 := writeSegment(t, r, dir, "_1", 12, fis, sf, vf)
	s2 := openTestSegment(t, dir, seg2.si, fis, sf, vf)
	defer s2.Close()
	// field numbers differ from the merged segment
	mergedInfos := model.NewFieldInfos([]*model.FieldInfo{
		model.NewFieldInfo("id", false, 0, false, false, 0),
		model.NewFieldInfo("title", true, 1, true, false, model.INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS),
		model.NewFieldInfo("bin", false, 2, false, false, 0),
		model.NewFieldInfo("i", false, 3, false, false, 0),
		model.NewFieldInfo("l", false, 4, false, false, 0),
		model.NewFieldInfo("f", false, 5, false, false, 0),
		model.NewFieldInfo("d", false, 6, false, false, 0),
		model.NewFieldInfo("body", true, 7, true, true, model.INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS),
	})

	si := mergeSegments(t, dir, "_2", mergedInfos, sf, vf, []*spi.MergeReader{
		{MaxDoc: 12, FieldInfos: fis, FieldsReader: s.stored, VectorsReader: s.vectors},
		{MaxDoc: 12, FieldInfos: fis, FieldsReader: s2.stored, VectorsReader: s2.vectors},
	})
	merged := openTestSegment(t, dir, si, mergedInfos, sf, vf)
	defer merged.Close()

	require.Equal(t, 0.0, testutil.ToFloat64(metrics.BulkCopiedChunks.WithLabelValues("TestStoredFields")))
	require.Equal(t, 24.0, testutil.ToFloat64(metrics.ReencodedDocs.WithLabelValues("TestStoredFields")))
	require.Equal(t, 24.0, testutil.ToFloat64(metrics.ReencodedDocs.WithLabelValues("TestTermVectors")))

	for i := 0; i < 24; i++ {
		src := seg
		if i >= 12 {
			src = seg2
		}
		requireSameDocument(t, src.stored[i%12], loadStoredDoc(t, merged.stored, i))
		fields, err := merged.vectors.Get(i)
		require.NoError(t, err)
		require.Equal(t, dumpVectors(t, src.vectors[i%12]), dumpVectors(t, fields))
		if fields != nil && fields.Size() == 2 {
			// fields come back in the merged segment's number order
			require.Equal(t, []string{"title", "body"}, fields.Names())
		}
	}
}

func TestMergeAborted(t *testing.T) {
	r := rand.New(rand.NewSource(34))
	fis := mergeFieldInfos()
	sf := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	vf := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	dir := store.NewRAMDirectory()
	seg := writeSegment(t, r, dir, "_0", 60, fis, sf, vf)
	s := openTestSegment(t, dir, seg.si, fis, sf, vf)
	defer s.Close()

	liveDocs := util.NewFixedBitSetOf(60)
	liveDocs.SetRange(0, 60)
	liveDocs.Clear(0)
	si := model.NewSegmentInfo(dir, "_1", 59)
	state := &spi.MergeState{
		Segment:    si,
		FieldInfos: fis,
		Readers: []*spi.MergeReader{{
			MaxDoc: 60, LiveDocs: liveDocs, FieldInfos: fis,
			FieldsReader: s.stored, VectorsReader: s.vectors,
		}},
		CheckAbort: spi.NewCheckAbort(func() bool { return true }),
	}

	tracked := store.NewTrackingDirectoryWrapper(dir)
	fw, err := sf.FieldsWriter(tracked, si, mergeContext(si))
	require.NoError(t, err)
	require.True(t, tracked.ContainsFile("_1.fdt"))
	_, err = fw.Merge(state)
	require.Equal(t, spi.ErrMergeAborted, errors.Cause(err))
	fw.Abort()
	require.False(t, dir.FileExists("_1.fdt"))

	vw, err := vf.VectorsWriter(tracked, si, mergeContext(si))
	require.NoError(t, err)
	require.True(t, tracked.ContainsFile("_1.tvx"))
	_, err = vw.Merge(state)
	require.Equal(t, spi.ErrMergeAborted, errors.Cause(err))
	vw.Abort()
	require.False(t, dir.FileExists("_1.tvd"))

	require.Empty(t, tracked.CreatedFiles())
}
