package util

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type sliceIO struct {
	buf []byte
	pos int
}

func (s *sliceIO) WriteByte(b byte) error {
	s.buf = append(s.buf, b)
	return nil
}

func (s *sliceIO) WriteBytes(buf []byte) error {
	s.buf = append(s.buf, buf...)
	return nil
}

func (s *sliceIO) ReadByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, io.EOF
	}
	s.pos++
	return s.buf[s.pos-1], nil
}

func (s *sliceIO) ReadBytes(buf []byte) error {
	if s.pos+len(buf) > len(s.buf) {
		return io.ErrUnexpectedEOF
	}
	copy(buf, s.buf[s.pos:])
	s.pos += len(buf)
	return nil
}

func TestDataInputOutputRoundTrip(t *testing.T) {
	s := &sliceIO{}
	out := NewDataOutput(s)
	require.NoError(t, out.WriteInt(-7))
	require.NoError(t, out.WriteLong(math.MinInt64))
	require.NoError(t, out.WriteShort(-2))
	for _, v := range []int32{0, 127, 128, 16383, 16384, math.MaxInt32, -1} {
		require.NoError(t, out.WriteVInt(v))
	}
	for _, v := range []int64{0, 127, 128, math.MaxInt64} {
		require.NoError(t, out.WriteVLong(v))
	}
	require.NoError(t, out.WriteString("héllo"))
	require.NoError(t, out.WriteBytes([]byte{9, 9, 9}))
	require.NoError(t, out.WriteByte(42))

	in := NewDataInput(s)
	i, err := in.ReadInt()
	require.NoError(t, err)
	require.Equal(t, int32(-7), i)
	l, err := in.ReadLong()
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64), l)
	sh, err := in.ReadShort()
	require.NoError(t, err)
	require.Equal(t, int16(-2), sh)
	for _, v := range []int32{0, 127, 128, 16383, 16384, math.MaxInt32, -1} {
		n, err := in.ReadVInt()
		require.NoError(t, err)
		require.Equal(t, v, n)
	}
	for _, v := range []int64{0, 127, 128, math.MaxInt64} {
		n, err := in.ReadVLong()
		require.NoError(t, err)
		require.Equal(t, v, n)
	}
	str, err := in.ReadString()
	require.NoError(t, err)
	require.Equal(t, "héllo", str)
	require.NoError(t, in.SkipBytes(3))
	b, err := in.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(42), b)

	_, err = in.ReadInt()
	require.Error(t, err)
}

func TestCopyBytes(t *testing.T) {
	src := &sliceIO{}
	for i := 0; i < 40000; i++ {
		src.buf = append(src.buf, byte(i))
	}
	dst := &sliceIO{}
	require.NoError(t, NewDataOutput(dst).CopyBytes(NewDataInput(src), 40000))
	require.Equal(t, src.buf, dst.buf)
}
