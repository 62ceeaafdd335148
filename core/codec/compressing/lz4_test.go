package compressing

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/balzaczyy/golucene-compressing/core/store"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

func randomBytes(r *rand.Rand, n, alphabet int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte('a' + r.Intn(alphabet))
	}
	return data
}

// inputs exercising literals only, short and long matches, overlapping
// matches and incompressible data
func lz4Inputs(r *rand.Rand) map[string][]byte {
	random := make([]byte, 1<<14)
	r.Read(random)
	text := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 500)
	return map[string][]byte{
		"empty":       {},
		"one":         {42},
		"tiny":        []byte("abc"),
		"twelve":      []byte("abcdabcdabcd"),
		"zeros":       make([]byte, 1<<16+100),
		"run":         bytes.Repeat([]byte{'x'}, 300),
		"text":        text,
		"smallAlpha":  randomBytes(r, 50000, 2),
		"largeAlpha":  randomBytes(r, 20000, 26),
		"random":      random,
		"longLiteral": append(append([]byte{}, random[:400]...), bytes.Repeat([]byte{7}, 400)...),
	}
}

func lz4Compress(t *testing.T, compress func([]byte, util.DataOutput) error, data []byte) []byte {
	out := util.NewGrowableByteArrayDataOutput(16)
	require.NoError(t, compress(data, out))
	return append([]byte(nil), out.ToBytes()...)
}

func lz4Decompress(t *testing.T, compressed []byte, length int) []byte {
	dest := make([]byte, length+7)
	n, err := LZ4Decompress(store.NewByteArrayDataInput(compressed), length, dest, 0)
	require.NoError(t, err)
	require.True(t, n >= length, "decompressed %v < %v", n, length)
	return dest[:length]
}

func TestLZ4RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	ht := new(LZ4HashTable)
	htHC := new(LZ4HCHashTable)
	compressors := map[string]func([]byte, util.DataOutput) error{
		"fast": func(b []byte, out util.DataOutput) error { return LZ4Compress(b, out, ht) },
		"hc":   func(b []byte, out util.DataOutput) error { return LZ4CompressHC(b, out, htHC) },
	}
	for cname, compress := range compressors {
		for name, data := range lz4Inputs(r) {
			t.Run(cname+"/"+name, func(t *testing.T) {
				compressed := lz4Compress(t, compress, data)
				require.Equal(t, data, lz4Decompress(t, compressed, len(data)))

				if len(data) > 0 {
					// standard LZ4 block format
					dest := make([]byte, len(data))
					n, err := lz4.UncompressBlock(compressed, dest)
					require.NoError(t, err)
					require.Equal(t, len(data), n)
					require.Equal(t, data, dest)
				}
			})
		}
	}
}

func TestLZ4HCCompressesBetter(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	data := randomBytes(r, 1<<15, 4)
	fast := lz4Compress(t, func(b []byte, out util.DataOutput) error {
		return LZ4Compress(b, out, new(LZ4HashTable))
	}, data)
	hc := lz4Compress(t, func(b []byte, out util.DataOutput) error {
		return LZ4CompressHC(b, out, new(LZ4HCHashTable))
	}, data)
	require.True(t, len(hc) <= len(fast), "hc=%v fast=%v", len(hc), len(fast))
}

func TestLZ4DecompressForeignBlocks(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for name, data := range lz4Inputs(r) {
		if len(data) == 0 {
			continue
		}
		t.Run(name, func(t *testing.T) {
			compressed := make([]byte, lz4.CompressBlockBound(len(data)))
			n, err := lz4.CompressBlock(data, compressed, nil)
			require.NoError(t, err)
			if n == 0 {
				t.Skip("incompressible input")
			}
			require.Equal(t, data, lz4Decompress(t, compressed[:n], len(data)))
		})
	}
}

func TestLZ4PartialDecompression(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), 1000)
	compressed := lz4Compress(t, func(b []byte, out util.DataOutput) error {
		return LZ4Compress(b, out, new(LZ4HashTable))
	}, data)
	dest := make([]byte, len(data)+7)
	n, err := LZ4Decompress(store.NewByteArrayDataInput(compressed), 100, dest, 0)
	require.NoError(t, err)
	require.True(t, n >= 100)
	require.Equal(t, data[:100], dest[:100])
}

func TestLZ4CorruptInput(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 64)
	compressed := lz4Compress(t, func(b []byte, out util.DataOutput) error {
		return LZ4Compress(b, out, new(LZ4HashTable))
	}, data)

	// a match pointing before the start of the output
	bad := []byte{0x14, 'a', 0xff, 0x00, 0x00}
	_, err := LZ4Decompress(store.NewByteArrayDataInput(bad), 64, make([]byte, 64+7), 0)
	require.Error(t, err)

	// truncated input
	_, err = LZ4Decompress(store.NewByteArrayDataInput(compressed[:len(compressed)/2]), len(data), make([]byte, len(data)+7), 0)
	require.Error(t, err)
}
