package model

// index/IndexableField.java

/*
Represents a single field for indexing. For stored fields exactly one
of StringValue(), BinaryValue() and NumericValue() is meaningful.
*/
type IndexableField interface {
	// Field name
	Name() string
	// Non-nil if this field has a binary value
	BinaryValue() []byte
	// Non-empty if this field has a string value
	StringValue() string
	// Non-nil if this field has a numeric value: one of int32, int64,
	// float32 or float64.
	NumericValue() interface{}
}
