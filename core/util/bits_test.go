package util

import (
	"testing"
)

func TestFixedBitSet(t *testing.T) {
	b := NewFixedBitSetOf(130)
	b.SetRange(0, 130)
	if c := b.Cardinality(); c != 130 {
		t.Fatalf("Expected 130 but was %v", c)
	}
	b.Clear(64)
	b.Clear(129)
	if b.At(64) || b.At(129) || !b.At(63) || !b.At(128) {
		t.Errorf("Unexpected bits: %v", b)
	}
	if c := b.Cardinality(); c != 128 {
		t.Errorf("Expected 128 but was %v", c)
	}
	var live MutableBits = b
	if live.Length() != 130 {
		t.Errorf("Expected 130 but was %v", live.Length())
	}
}
