package compressing

import (
	"math/rand"
	"testing"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/document"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentClones(t *testing.T) {
	r := rand.New(rand.NewSource(40))
	fis := mergeFieldInfos()
	sf := newTestStoredFieldsFormat(t, COMPRESSION_MODE_HIGH_COMPRESSION, 300)
	vf := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST, 300)
	dir := store.NewRAMDirectory()
	seg := writeSegment(t, r, dir, "_0", 200, fis, sf, vf)
	s := openTestSegment(t, dir, seg.si, fis, sf, vf)
	defer s.Close()

	expectedVectors := make([]map[string]fieldDump, len(seg.vectors))
	for i, tv := range seg.vectors {
		expectedVectors[i] = dumpVectors(t, tv)
	}

	var g errgroup.Group
	for worker := 0; worker < 8; worker++ {
		stored, vectors := s.stored.Clone(), s.vectors.Clone()
		order := r.Perm(len(seg.stored))
		g.Go(func() error {
			defer stored.Close()
			defer vectors.Close()
			for _, doc := range order {
				visitor := document.NewDocumentStoredFieldVisitor()
				if err := stored.VisitDocument(doc, visitor); err != nil {
					return err
				}
				if got, want := visitor.Document().Get("id"), seg.stored[doc].Get("id"); got != want {
					return errors.Errorf("doc %v: got id %q, want %q", doc, got, want)
				}
				if _, err := vectors.Get(doc); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// the vectors themselves are compared outside of the workers since
	// the comparison helpers are not goroutine safe
	for i, want := range expectedVectors {
		fields, err := s.vectors.Get(i)
		require.NoError(t, err)
		require.Equal(t, want, dumpVectors(t, fields))
	}
}

func TestCheckIntegrityAll(t *testing.T) {
	r := rand.New(rand.NewSource(41))
	fis := mergeFieldInfos()
	sf := newTestStoredFieldsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	vf := newTestTermVectorsFormat(t, COMPRESSION_MODE_FAST, 1<<14)
	dir := store.NewRAMDirectory()
	seg := writeSegment(t, r, dir, "_0", 20, fis, sf, vf)
	s := openTestSegment(t, dir, seg.si, fis, sf, vf)
	require.NoError(t, CheckIntegrityAll(s.stored, s.vectors, nil))
	require.NoError(t, s.Close())

	rewriteFile(t, dir, "_0.tvd", func(data []byte) []byte {
		data[len(data)-codec.FOOTER_LENGTH-1] ^= 0xff
		return data
	})
	s = openTestSegment(t, dir, seg.si, fis, sf, vf)
	defer s.Close()
	err := CheckIntegrityAll(s.stored.Clone(), s.vectors.Clone())
	require.True(t, codec.IsCorruption(err), "%v", err)
}
