package lucene41

import (
	"fmt"
	"strings"
	"testing"

	"github.com/balzaczyy/golucene-compressing/core/codec/compressing"
	"github.com/balzaczyy/golucene-compressing/core/document"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestLucene41StoredFields(t *testing.T) {
	metrics := compressing.NewMetrics(nil)
	format, err := NewLucene41StoredFieldsFormat(compressing.WithMetrics(metrics))
	require.NoError(t, err)
	require.Equal(t, "CompressingStoredFieldsFormat(compressionMode=FAST, chunkSize=16384)", format.String())

	fis := model.NewFieldInfos([]*model.FieldInfo{
		model.NewFieldInfo("id", false, 0, false, false, 0),
		model.NewFieldInfo("text", false, 1, false, false, 0),
	})
	dir := store.NewRAMDirectory()
	si := model.NewSegmentInfo(dir, "_0", 100)
	w, err := format.FieldsWriter(dir, si, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.NoError(t, w.StartDocument())
		require.NoError(t, w.WriteField(fis.FieldInfoByNumber(0), document.NewStringField("id", fmt.Sprint(i))))
		require.NoError(t, w.WriteField(fis.FieldInfoByNumber(1),
			document.NewStringField("text", strings.Repeat("redundant log line ", 20))))
		require.NoError(t, w.FinishDocument())
	}
	require.NoError(t, w.Finish(fis, 100))
	require.NoError(t, w.Close())

	names, err := dir.ListAll()
	require.NoError(t, err)
	require.Equal(t, []string{"_0.fdt", "_0.fdx"}, names)
	// 100 docs of ~400 bytes fill several 16KB chunks
	require.True(t, testutil.ToFloat64(metrics.ChunksFlushed.WithLabelValues("Lucene41StoredFields")) >= 2)

	r, err := format.FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer r.Close()
	visitor := document.NewDocumentStoredFieldVisitor()
	require.NoError(t, r.VisitDocument(42, visitor))
	require.Equal(t, "42", visitor.Document().Get("id"))
	require.NoError(t, r.CheckIntegrity())

	// files written by the generic format with another name are rejected
	other, err := compressing.NewCompressingStoredFieldsFormat("OtherStoredFields", "",
		compressing.COMPRESSION_MODE_FAST, 1<<14)
	require.NoError(t, err)
	_, err = other.FieldsReader(dir, si, fis, store.IO_CONTEXT_READ)
	require.Error(t, err)
}
