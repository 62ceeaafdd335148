package document

import (
	"bytes"
	"fmt"
	"strconv"
)

// document/StoredField.java

/*
A field whose value is stored so that IndexSearcher.doc() and
IndexReader.document() will return the field and its value. The
value is one of string, []byte, int32, int64, float32 or float64.
*/
type Field struct {
	_name string      // Field's name
	_data interface{} // Field's value
}

func newField(name string, value interface{}) *Field {
	assert2(name != "", "name cannot be empty")
	return &Field{_name: name, _data: value}
}

// Create a stored-only field with the given string value.
func NewStringField(name, value string) *Field {
	return newField(name, value)
}

/*
Create a stored-only field with the given binary value. The slice is
not copied, so don't change it until you're done with the field.
*/
func NewBinaryField(name string, value []byte) *Field {
	assert2(value != nil, "value cannot be nil")
	return newField(name, value)
}

func NewIntField(name string, value int32) *Field     { return newField(name, value) }
func NewLongField(name string, value int64) *Field    { return newField(name, value) }
func NewFloatField(name string, value float32) *Field { return newField(name, value) }
func NewDoubleField(name string, value float64) *Field {
	return newField(name, value)
}

func (f *Field) Name() string {
	return f._name
}

func (f *Field) StringValue() string {
	switch v := f._data.(type) {
	case string:
		return v
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return ""
	}
}

func (f *Field) NumericValue() interface{} {
	switch f._data.(type) {
	case int32, int64, float32, float64:
		return f._data
	default:
		return nil
	}
}

func (f *Field) BinaryValue() []byte {
	if v, ok := f._data.([]byte); ok {
		return v
	}
	return nil
}

// Returns the raw value of the field.
func (f *Field) Value() interface{} {
	return f._data
}

func (f *Field) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "stored<%v:", f._name)
	if f._data != nil {
		fmt.Fprint(&buf, f._data)
	}
	fmt.Fprint(&buf, ">")
	return buf.String()
}

func assert2(ok bool, msg string) {
	if !ok {
		panic(msg)
	}
}
