package compressing

import (
	"strings"

	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/pkg/errors"
)

// codec/compressing/CompressionMode.java

/*
A compression mode. Tells how much effort should be spent on
compression and decompression of stored fields.
*/
type CompressionMode interface {
	// Create a new Compressor instance.
	NewCompressor() Compressor
	// Create a new Decompressor instance.
	NewDecompressor() Decompressor
	String() string
}

var ErrUnknownCompressionMode = errors.New("unknown compression mode")

const (
	/*
		A compression mode that trades compression ratio for speed.
		Although the compression ratio might remain high, compression and
		decompression are very fast. Use this mode with indices that have
		a high update rate but should be able to load documents from disk
		quickly.
	*/
	COMPRESSION_MODE_FAST = CompressionModeDefaults(1)
	/*
		A compression mode that trades speed for compression ratio.
		Although compression and decompression might be slow, this
		compression mode should provide a good compression ratio. This
		mode might be interesting if/when your index size is much bigger
		than your OS cache.
	*/
	COMPRESSION_MODE_HIGH_COMPRESSION = CompressionModeDefaults(2)
	/*
		This compression mode is similar to FAST but it spends more time
		compressing in order to improve the compression ratio. This
		compression mode is best used with indices that have a low update
		rate but should be able to load documents from disk quickly.
	*/
	COMPRESSION_MODE_FAST_DECOMPRESSION = CompressionModeDefaults(3)
)

type CompressionModeDefaults int

func (m CompressionModeDefaults) NewCompressor() Compressor {
	switch m {
	case COMPRESSION_MODE_FAST:
		return &lz4FastCompressor{ht: new(LZ4HashTable)}
	case COMPRESSION_MODE_HIGH_COMPRESSION:
		// 6 is the default level of zlib, a good trade-off
		return newDeflateCompressor(6)
	case COMPRESSION_MODE_FAST_DECOMPRESSION:
		return &lz4HighCompressor{ht: new(LZ4HCHashTable)}
	default:
		panic(errors.Wrapf(ErrUnknownCompressionMode, "mode=%d", int(m)))
	}
}

func (m CompressionModeDefaults) NewDecompressor() Decompressor {
	switch m {
	case COMPRESSION_MODE_FAST, COMPRESSION_MODE_FAST_DECOMPRESSION:
		return lz4Decompressor{}
	case COMPRESSION_MODE_HIGH_COMPRESSION:
		return newDeflateDecompressor()
	default:
		panic(errors.Wrapf(ErrUnknownCompressionMode, "mode=%d", int(m)))
	}
}

func (m CompressionModeDefaults) String() string {
	switch m {
	case COMPRESSION_MODE_FAST:
		return "FAST"
	case COMPRESSION_MODE_HIGH_COMPRESSION:
		return "HIGH_COMPRESSION"
	case COMPRESSION_MODE_FAST_DECOMPRESSION:
		return "FAST_DECOMPRESSION"
	default:
		return "UNKNOWN"
	}
}

// Returns the mode registered under name (case-insensitive, "_" or "-"
// separated), e.g. "fast" or "high_compression".
func ParseCompressionMode(name string) (CompressionMode, error) {
	switch normalizeModeName(name) {
	case "fast":
		return COMPRESSION_MODE_FAST, nil
	case "high_compression":
		return COMPRESSION_MODE_HIGH_COMPRESSION, nil
	case "fast_decompression":
		return COMPRESSION_MODE_FAST_DECOMPRESSION, nil
	default:
		return nil, errors.Wrapf(ErrUnknownCompressionMode, "%q", name)
	}
}

func normalizeModeName(name string) string {
	return strings.Replace(strings.ToLower(strings.TrimSpace(name)), "-", "_", -1)
}

// codec/compressing/Compressor.java

// A data compressor.
type Compressor interface {
	/*
		Compress bytes into out. It is the responsibility of the
		compressor to add all necessary information so that a
		Decompressor will know when to stop decompressing bytes from the
		stream.
	*/
	Compress(bytes []byte, out util.DataOutput) error
}

// codec/compressing/Decompressor.java

// A decompressor.
type Decompressor interface {
	/*
		Decompress bytes that were stored between offsets offset and
		offset+length in the original stream from the compressed stream
		in to buf. After returning, buf.Length must be equal to length.
		Implementations of this method are free to resize buf.Bytes
		depending on their needs.
	*/
	Decompress(in util.DataInput, originalLength, offset, length int, buf *util.BytesRef) error
	Clone() Decompressor
}
