package compressing

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var allModes = []CompressionModeDefaults{
	COMPRESSION_MODE_FAST,
	COMPRESSION_MODE_HIGH_COMPRESSION,
	COMPRESSION_MODE_FAST_DECOMPRESSION,
}

func compressWith(t *testing.T, c Compressor, data []byte) []byte {
	out := util.NewGrowableByteArrayDataOutput(16)
	require.NoError(t, c.Compress(data, out))
	return append([]byte(nil), out.ToBytes()...)
}

func TestCompressionModeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			c := mode.NewCompressor()
			d := mode.NewDecompressor()
			for name, data := range lz4Inputs(r) {
				compressed := compressWith(t, c, data)

				in := store.NewByteArrayDataInput(compressed)
				buf := util.NewEmptyBytesRef()
				require.NoError(t, d.Decompress(in, len(data), 0, len(data), buf), name)
				require.Equal(t, len(data), buf.Length, name)
				require.True(t, bytes.Equal(data, buf.ToBytes()), name)

				if len(data) > 10 {
					offset, length := r.Intn(len(data)/2), r.Intn(len(data)/2)
					in = store.NewByteArrayDataInput(compressed)
					require.NoError(t, d.Clone().Decompress(in, len(data), offset, length, buf), name)
					require.Equal(t, data[offset:offset+length], buf.ToBytes(), name)
				}
			}
		})
	}
}

func TestCompressionModeEmptyInput(t *testing.T) {
	for _, mode := range allModes {
		compressed := compressWith(t, mode.NewCompressor(), nil)
		require.NotEmpty(t, compressed, mode.String())
		buf := util.NewEmptyBytesRef()
		require.NoError(t, mode.NewDecompressor().Decompress(store.NewByteArrayDataInput(compressed), 0, 0, 0, buf))
		require.Equal(t, 0, buf.Length)
	}
}

func TestCompressorsAreReusable(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for _, mode := range allModes {
		c, d := mode.NewCompressor(), mode.NewDecompressor()
		var compressed [][]byte
		var inputs [][]byte
		for i := 0; i < 5; i++ {
			data := randomBytes(r, 1+r.Intn(5000), 1+r.Intn(10))
			inputs = append(inputs, data)
			compressed = append(compressed, compressWith(t, c, data))
		}
		buf := util.NewEmptyBytesRef()
		for i, data := range inputs {
			require.NoError(t, d.Decompress(store.NewByteArrayDataInput(compressed[i]), len(data), 0, len(data), buf))
			require.Equal(t, data, buf.ToBytes())
		}
	}
}

func TestDeflateLengthMismatch(t *testing.T) {
	data := bytes.Repeat([]byte("deflate"), 100)
	compressed := compressWith(t, COMPRESSION_MODE_HIGH_COMPRESSION.NewCompressor(), data)
	d := COMPRESSION_MODE_HIGH_COMPRESSION.NewDecompressor()
	buf := util.NewEmptyBytesRef()

	err := d.Decompress(store.NewByteArrayDataInput(compressed), len(data)-1, 0, 10, buf)
	require.True(t, codec.IsCorruption(err), "%v", err)

	err = d.Decompress(store.NewByteArrayDataInput(compressed), len(data)+1, 0, 10, buf)
	require.True(t, codec.IsCorruption(err), "%v", err)
}

func TestParseCompressionMode(t *testing.T) {
	for name, expected := range map[string]CompressionMode{
		"fast":               COMPRESSION_MODE_FAST,
		"FAST":               COMPRESSION_MODE_FAST,
		" high_compression ": COMPRESSION_MODE_HIGH_COMPRESSION,
		"fast-decompression": COMPRESSION_MODE_FAST_DECOMPRESSION,
		"FAST_DECOMPRESSION": COMPRESSION_MODE_FAST_DECOMPRESSION,
		"High-Compression":   COMPRESSION_MODE_HIGH_COMPRESSION,
	} {
		mode, err := ParseCompressionMode(name)
		require.NoError(t, err, name)
		require.Equal(t, expected, mode, name)
	}
	_, err := ParseCompressionMode("snappy")
	require.Equal(t, ErrUnknownCompressionMode, errors.Cause(err))
}
