package document

import (
	"github.com/balzaczyy/golucene-compressing/core/codec/spi"
	"github.com/balzaczyy/golucene-compressing/core/index/model"
)

// document/Document.java

/*
Documents are the unit of indexing and search.

A Document is a set of fields. Each field has a name and a value.
Only stored fields are carried back from the stored-fields reader.
*/
type Document struct {
	fields []model.IndexableField
}

/** Constructs a new document with no fields. */
func NewDocument() *Document {
	return &Document{make([]model.IndexableField, 0)}
}

func (doc *Document) Fields() []model.IndexableField {
	return doc.fields
}

/*
Adds a field to a document. Several fields may be added with the same
name.
*/
func (doc *Document) Add(field model.IndexableField) {
	doc.fields = append(doc.fields, field)
}

/*
Returns the string value of the field with the given name if any
exist in this document, or "". If multiple fields exist with this
name, this method returns the first value added.
*/
func (doc *Document) Get(name string) string {
	for _, field := range doc.fields {
		if field.Name() == name && field.BinaryValue() == nil {
			return field.StringValue()
		}
	}
	return ""
}

// Returns the first field with the given name, or nil.
func (doc *Document) Field(name string) model.IndexableField {
	for _, field := range doc.fields {
		if field.Name() == name {
			return field
		}
	}
	return nil
}

// document/DocumentStoredFieldVisitor.java

/*
A StoredFieldVisitor that creates a Document containing all stored
fields, or only specific requested fields provided to
NewDocumentStoredFieldVisitorOf().
*/
type DocumentStoredFieldVisitor struct {
	doc         *Document
	fieldsToAdd map[string]bool
}

/** Load all stored fields. */
func NewDocumentStoredFieldVisitor() *DocumentStoredFieldVisitor {
	return &DocumentStoredFieldVisitor{
		doc: NewDocument(),
	}
}

/** Load only fields named in the provided set. */
func NewDocumentStoredFieldVisitorOf(fields ...string) *DocumentStoredFieldVisitor {
	ans := NewDocumentStoredFieldVisitor()
	ans.fieldsToAdd = make(map[string]bool)
	for _, name := range fields {
		ans.fieldsToAdd[name] = true
	}
	return ans
}

func (visitor *DocumentStoredFieldVisitor) BinaryField(fi *model.FieldInfo, value []byte) error {
	visitor.doc.Add(NewBinaryField(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) StringField(fi *model.FieldInfo, value string) error {
	visitor.doc.Add(NewStringField(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) IntField(fi *model.FieldInfo, value int32) error {
	visitor.doc.Add(NewIntField(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) LongField(fi *model.FieldInfo, value int64) error {
	visitor.doc.Add(NewLongField(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) FloatField(fi *model.FieldInfo, value float32) error {
	visitor.doc.Add(NewFloatField(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) DoubleField(fi *model.FieldInfo, value float64) error {
	visitor.doc.Add(NewDoubleField(fi.Name, value))
	return nil
}

func (visitor *DocumentStoredFieldVisitor) NeedsField(fi *model.FieldInfo) (status spi.StoredFieldVisitorStatus, err error) {
	if visitor.fieldsToAdd == nil {
		status = spi.STORED_FIELD_VISITOR_STATUS_YES
	} else if _, ok := visitor.fieldsToAdd[fi.Name]; ok {
		status = spi.STORED_FIELD_VISITOR_STATUS_YES
	} else {
		status = spi.STORED_FIELD_VISITOR_STATUS_NO
	}
	return
}

func (visitor *DocumentStoredFieldVisitor) Document() *Document {
	return visitor.doc
}
