package compressing

import (
	"testing"

	"github.com/balzaczyy/golucene-compressing/core/index/model"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/stretchr/testify/require"
)

func storedFieldInfos() model.FieldInfos {
	return model.NewFieldInfos([]*model.FieldInfo{
		model.NewFieldInfo("id", false, 0, false, false, 0),
		model.NewFieldInfo("body", false, 1, false, false, 0),
		model.NewFieldInfo("bin", false, 2, false, false, 0),
		model.NewFieldInfo("i", false, 3, false, false, 0),
		model.NewFieldInfo("l", false, 4, false, false, 0),
		model.NewFieldInfo("f", false, 5, false, false, 0),
		model.NewFieldInfo("d", false, 6, false, false, 0),
	})
}

func readFile(t *testing.T, dir store.Directory, name string) []byte {
	in, err := dir.OpenInput(name, store.IO_CONTEXT_READ)
	require.NoError(t, err)
	defer in.Close()
	data := make([]byte, in.Length())
	require.NoError(t, in.ReadBytes(data))
	return data
}

// Replaces the content of name with what f returns.
func rewriteFile(t *testing.T, dir store.Directory, name string, f func([]byte) []byte) {
	data := f(readFile(t, dir, name))
	require.NoError(t, dir.DeleteFile(name))
	out, err := dir.CreateOutput(name, store.IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, out.WriteBytes(data))
	require.NoError(t, out.Close())
}
