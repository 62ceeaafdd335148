package lucene42

import (
	"testing"

	"github.com/balzaczyy/golucene-compressing/core/codec/compressing"
	"github.com/balzaczyy/golucene-compressing/core/document"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/stretchr/testify/require"
)

func TestLucene42TermVectors(t *testing.T) {
	format, err := NewLucene42TermVectorsFormat()
	require.NoError(t, err)
	require.Equal(t, "CompressingTermVectorsFormat(compressionMode=FAST, chunkSize=4096)", format.String())

	info := model.NewFieldInfo("body", true, 0, true, true,
		model.INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS)
	fis := model.NewFieldInfos([]*model.FieldInfo{info})

	vectors := document.NewTermVectors()
	f := vectors.AddField(info, true, true, true)
	f.AddOccurrence("quick", 0, 0, 5, []byte{1})
	f.AddOccurrence("brown", 1, 6, 11, nil)
	f.AddOccurrence("quick", 2, 12, 17, nil)

	dir := store.NewRAMDirectory()
	si := model.NewSegmentInfo(dir, "_1", 1)
	w, err := format.VectorsWriter(dir, si, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, w.(*compressing.CompressingTermVectorsWriter).AddAllDocVectors(vectors, fis))
	require.NoError(t, w.Finish(fis, 1))
	require.NoError(t, w.Close())
	require.True(t, dir.FileExists("_1.tvd"))
	require.True(t, dir.FileExists("_1.tvx"))

	r, err := format.VectorsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer r.Close()
	fields, err := r.Get(0)
	require.NoError(t, err)
	require.Equal(t, []string{"body"}, fields.Names())

	it := fields.Terms("body").Iterator(nil)
	found, err := it.SeekExact([]byte("quick"))
	require.NoError(t, err)
	require.True(t, found)
	freq, err := it.TotalTermFreq()
	require.NoError(t, err)
	require.Equal(t, int64(2), freq)

	dpe, err := it.DocsAndPositions(nil, nil)
	require.NoError(t, err)
	_, err = dpe.NextDoc()
	require.NoError(t, err)
	pos, err := dpe.NextPosition()
	require.NoError(t, err)
	require.Equal(t, 0, pos)
	payload, err := dpe.Payload()
	require.NoError(t, err)
	require.Equal(t, []byte{1}, payload)
	pos, err = dpe.NextPosition()
	require.NoError(t, err)
	require.Equal(t, 2, pos)
	start, err := dpe.StartOffset()
	require.NoError(t, err)
	require.Equal(t, 12, start)
}
