package store

import (
	"hash/crc32"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferedChecksumMatchesCRC32(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	data := make([]byte, 5000)
	r.Read(data)

	bc := newBufferedChecksum(crc32.NewIEEE())
	for off := 0; off < len(data); {
		// mix single bytes, small writes and writes larger than the buffer
		n := 1 + r.Intn(3*CHECKSUM_BUFFER_SIZE)
		if r.Intn(3) == 0 {
			n = 1
		}
		if off+n > len(data) {
			n = len(data) - off
		}
		_, err := bc.Write(data[off : off+n])
		require.NoError(t, err)
		off += n
	}
	require.Equal(t, crc32.ChecksumIEEE(data), bc.Sum32())

	bc.Reset()
	bc.Write([]byte{1, 2, 3})
	require.Equal(t, crc32.ChecksumIEEE([]byte{1, 2, 3}), bc.Sum32())
}

func TestChecksumIndexInput(t *testing.T) {
	d := NewRAMDirectory()
	out, err := d.CreateOutput("f", IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i * 7)
	}
	require.NoError(t, out.WriteBytes(data))
	written := out.Checksum()
	require.NoError(t, out.Close())

	in, err := d.OpenChecksumInput("f", IO_CONTEXT_READONCE)
	require.NoError(t, err)
	defer in.Close()
	b, err := in.ReadByte()
	require.NoError(t, err)
	require.Equal(t, data[0], b)
	// forward seeks read through the skipped bytes
	require.NoError(t, in.Seek(500))
	require.Equal(t, int64(500), in.FilePointer())
	require.Error(t, in.Seek(10))
	require.NoError(t, in.ReadBytes(make([]byte, 500)))
	require.Equal(t, written, in.Checksum())
	require.Equal(t, int64(crc32.ChecksumIEEE(data)), in.Checksum())
}

func TestTrackingDirectoryWrapper(t *testing.T) {
	d := NewRAMDirectory()
	w := NewTrackingDirectoryWrapper(d)
	for _, name := range []string{"_0.fdx", "_0.fdt", "_0.tvd"} {
		out, err := w.CreateOutput(name, IO_CONTEXT_DEFAULT)
		require.NoError(t, err)
		require.NoError(t, out.Close())
	}
	require.Equal(t, []string{"_0.fdt", "_0.fdx", "_0.tvd"}, w.CreatedFiles())

	require.NoError(t, w.DeleteFile("_0.tvd"))
	require.False(t, w.ContainsFile("_0.tvd"))
	require.False(t, d.FileExists("_0.tvd"))
	require.True(t, w.ContainsFile("_0.fdt"))

	// files created behind the wrapper's back are not tracked
	out, err := d.CreateOutput("_1.fdt", IO_CONTEXT_DEFAULT)
	require.NoError(t, err)
	require.NoError(t, out.Close())
	require.Equal(t, []string{"_0.fdt", "_0.fdx"}, w.CreatedFiles())
}
