package compressing

import (
	"bytes"
	"io"

	"github.com/balzaczyy/golucene-compressing/core/codec"
	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
)

// Raw deflate streams, prefixed with their compressed length as a
// vint so that the decompressor knows where to stop reading.
type deflateCompressor struct {
	level int
	buf   bytes.Buffer
	w     *flate.Writer
}

func newDeflateCompressor(level int) *deflateCompressor {
	return &deflateCompressor{level: level}
}

func (c *deflateCompressor) Compress(data []byte, out util.DataOutput) (err error) {
	c.buf.Reset()
	if c.w == nil {
		if c.w, err = flate.NewWriter(&c.buf, c.level); err != nil {
			return errors.Wrapf(err, "deflate level %v", c.level)
		}
	} else {
		c.w.Reset(&c.buf)
	}
	if _, err = c.w.Write(data); err != nil {
		return err
	}
	if err = c.w.Close(); err != nil {
		return err
	}
	if err = out.WriteVInt(int32(c.buf.Len())); err != nil {
		return err
	}
	return out.WriteBytes(c.buf.Bytes())
}

type deflateDecompressor struct {
	compressed []byte
	r          io.ReadCloser
}

func newDeflateDecompressor() *deflateDecompressor {
	return &deflateDecompressor{}
}

func (d *deflateDecompressor) Decompress(in util.DataInput, originalLength, offset, length int, buf *util.BytesRef) error {
	assert(offset+length <= originalLength)
	compressedLength, err := in.ReadVInt()
	if err != nil {
		return err
	}
	if compressedLength < 0 {
		return codec.NewCorruptIndexError(in, "negative compressed length: %v", compressedLength)
	}
	if cap(d.compressed) < int(compressedLength) {
		d.compressed = make([]byte, util.Oversize(int(compressedLength), 1))
	}
	d.compressed = d.compressed[:compressedLength]
	if err = in.ReadBytes(d.compressed); err != nil {
		return err
	}

	src := bytes.NewReader(d.compressed)
	if d.r == nil {
		d.r = flate.NewReader(src)
	} else if err = d.r.(flate.Resetter).Reset(src, nil); err != nil {
		return err
	}

	if len(buf.Bytes) < originalLength+1 {
		buf.Bytes = make([]byte, util.Oversize(originalLength+1, 1))
	}
	// read one byte past the expected end so that longer streams are detected
	n, err := io.ReadFull(d.r, buf.Bytes[:originalLength+1])
	switch err {
	case io.ErrUnexpectedEOF, io.EOF:
	case nil:
		return codec.NewCorruptIndexError(in,
			"lengths mismatch: more than %v bytes inflated", originalLength)
	default:
		return codec.NewCorruptIndexError(in, "inflate failed: %v", err)
	}
	if n != originalLength {
		return codec.NewCorruptIndexError(in, "lengths mismatch: %v != %v", n, originalLength)
	}
	buf.Offset = offset
	buf.Length = length
	return nil
}

func (d *deflateDecompressor) Clone() Decompressor {
	return newDeflateDecompressor()
}
