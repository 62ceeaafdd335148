package util

import (
	"testing"
)

/* Ensure nextSize() gives linear amortized cost of realloc/copy */
func TestGrowth(t *testing.T) {
	var currentSize = 0
	var copyCost int64 = 0

	// Make sure it hits math.MaxInt32, if we insist:
	for currentSize != MAX_ARRAY_LENGTH {
		nextSize := Oversize(1+currentSize, NUM_BYTES_OBJECT_REF)
		assert2(nextSize > currentSize, "%v -> %v", currentSize, nextSize)
		if currentSize > 0 {
			copyCost += int64(currentSize)
			copyCostPerElement := float64(copyCost) / float64(currentSize)
			assert2(copyCostPerElement < 10, "cost %v", copyCostPerElement)
		}
		currentSize = nextSize
	}
}

func TestOversizeSmallArrays(t *testing.T) {
	if n := Oversize(0, 1); n != 0 {
		t.Errorf("Expected 0 but was %v", n)
	}
	// minimum extra of 3, rounded up to 8 for bytes
	if n := Oversize(1, 1); n != 8 {
		t.Errorf("Expected 8 but was %v", n)
	}
	if n := Oversize(1, 8); n != 4 {
		t.Errorf("Expected 4 but was %v", n)
	}
	if n := Oversize(100, 4); n != 112 {
		t.Errorf("Expected 112 but was %v", n)
	}
}

func TestGrowByteSlice(t *testing.T) {
	arr := []byte{1, 2, 3}
	grown := GrowByteSlice(arr, 10)
	if len(grown) < 10 {
		t.Fatalf("Expected at least 10 but was %v", len(grown))
	}
	for i, v := range arr {
		if grown[i] != v {
			t.Errorf("Content lost at %v", i)
		}
	}
	if same := GrowByteSlice(grown, 5); len(same) != len(grown) {
		t.Errorf("Slice should never shrink")
	}
}
