package util

// util/Accountable.java

// Implemented by readers that keep their chunk index in memory.
type Accountable interface {
	// Memory held by the object, in bytes.
	RamBytesUsed() int64
}
