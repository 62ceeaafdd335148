package util

import (
	"math"
	"math/rand"
	"testing"

	tassert "github.com/stretchr/testify/assert"
)

func TestZigZagLongRoundTrip(t *testing.T) {
	edges := []int64{0, 1, -1, 2, -2, math.MaxInt64, math.MinInt64, math.MaxInt32, math.MinInt32}
	for _, v := range edges {
		tassert.Equal(t, v, ZigZagDecodeLong(ZigZagEncodeLong(v)), "value %v", v)
	}
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 100000; i++ {
		v := int64(r.Uint64())
		tassert.Equal(t, v, ZigZagDecodeLong(ZigZagEncodeLong(v)))
	}
}

func TestZigZagIntRoundTrip(t *testing.T) {
	edges := []int32{0, 1, -1, math.MaxInt32, math.MinInt32}
	for _, v := range edges {
		tassert.Equal(t, v, ZigZagDecodeInt(ZigZagEncodeInt(v)), "value %v", v)
	}
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100000; i++ {
		v := int32(r.Uint32())
		tassert.Equal(t, v, ZigZagDecodeInt(ZigZagEncodeInt(v)))
	}
}

// Small absolute values map to small unsigned values regardless of sign.
func TestZigZagOrdering(t *testing.T) {
	tassert.Equal(t, int64(0), ZigZagEncodeLong(0))
	tassert.Equal(t, int64(1), ZigZagEncodeLong(-1))
	tassert.Equal(t, int64(2), ZigZagEncodeLong(1))
	tassert.Equal(t, int64(3), ZigZagEncodeLong(-2))
	tassert.Equal(t, int64(-1), ZigZagEncodeLong(math.MinInt64))
	tassert.Equal(t, int64(-2), ZigZagEncodeLong(math.MaxInt64))
}
