package util

// util/BytesRef.java

/* An empty byte slice for convenience */
var EMPTY_BYTES = []byte{}

/*
Represents []byte, as a slice (offset + length) into an existing
[]byte.

Decompressors use it as a reusable scratch buffer: Bytes is grown when
needed and never shrunk, and Offset/Length address the decoded range.
A BytesRef must not be shared by concurrent decode calls.
*/
type BytesRef struct {
	// The contents of the BytesRef.
	Bytes  []byte
	Offset int
	Length int
}

func NewEmptyBytesRef() *BytesRef {
	return NewBytesRefFrom(EMPTY_BYTES)
}

func NewBytesRef(bytes []byte, offset, length int) *BytesRef {
	return &BytesRef{
		Bytes:  bytes,
		Offset: offset,
		Length: length,
	}
}

func NewBytesRefFrom(bytes []byte) *BytesRef {
	return NewBytesRef(bytes, 0, len(bytes))
}

func (br *BytesRef) ToBytes() []byte {
	return br.Bytes[br.Offset : br.Offset+br.Length]
}

// Ensures len(Bytes) >= capacity, keeping the current content.
func (br *BytesRef) Grow(capacity int) {
	br.Bytes = GrowByteSlice(br.Bytes, capacity)
}

/*
Copies the bytes from the given BytesRef.

NOTE: if this would exceed the slice size, this method creates a new
reference array.
*/
func (br *BytesRef) CopyBytes(other *BytesRef) {
	if len(br.Bytes)-br.Offset < other.Length {
		br.Bytes = make([]byte, other.Length)
		br.Offset = 0
	}
	copy(br.Bytes[br.Offset:], other.ToBytes())
	br.Length = other.Length
}

// Returns a copy of the referenced bytes.
func DeepCopyOf(other *BytesRef) *BytesRef {
	ans := NewEmptyBytesRef()
	ans.CopyBytes(other)
	return ans
}
