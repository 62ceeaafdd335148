package util

// util/BitUtil.java

// Same as ZigZagEncodeLong but on 32-bit integers.
func ZigZagEncodeInt(i int32) int32 {
	return (i >> 31) ^ (i << 1)
}

// Same as ZigZagDecodeLong but on 32-bit integers.
func ZigZagDecodeInt(i int32) int32 {
	return int32(uint32(i)>>1) ^ -(i & 1)
}

/*
Zig-zag encode the provided long. Assuming the input is a signed long
whose absolute value can be stored on n bits, the returned value will
be an unsigned long that can be stored on n+1 bits.
*/
func ZigZagEncodeLong(l int64) int64 {
	return (l >> 63) ^ (l << 1)
}

// Decode a long previously encoded with ZigZagEncodeLong.
func ZigZagDecodeLong(l int64) int64 {
	return int64(uint64(l)>>1) ^ -(l & 1)
}
