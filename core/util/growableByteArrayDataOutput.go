package util

// util/GrowableByteArrayDataOutput.java

/*
A DataOutput that can be used to build a []byte. Bytes holds the
written data in Bytes[:Length]; setting Length to 0 rewinds the
output without releasing the buffer.
*/
type GrowableByteArrayDataOutput struct {
	*DataOutputImpl
	Bytes  []byte
	Length int
}

// Create a GrowableByteArrayDataOutput with the given initial capacity.
func NewGrowableByteArrayDataOutput(cp int) *GrowableByteArrayDataOutput {
	ans := &GrowableByteArrayDataOutput{Bytes: make([]byte, Oversize(cp, 1))}
	ans.DataOutputImpl = NewDataOutput(ans)
	return ans
}

func (out *GrowableByteArrayDataOutput) WriteByte(b byte) error {
	if out.Length >= len(out.Bytes) {
		out.Bytes = GrowByteSlice(out.Bytes, out.Length+1)
	}
	out.Bytes[out.Length] = b
	out.Length++
	return nil
}

func (out *GrowableByteArrayDataOutput) WriteBytes(b []byte) error {
	newLength := out.Length + len(b)
	if newLength > len(out.Bytes) {
		out.Bytes = GrowByteSlice(out.Bytes, newLength)
	}
	copy(out.Bytes[out.Length:], b)
	out.Length = newLength
	return nil
}

// Returns the written bytes. The slice is only valid until the next write.
func (out *GrowableByteArrayDataOutput) ToBytes() []byte {
	return out.Bytes[:out.Length]
}
