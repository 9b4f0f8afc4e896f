package nlp

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

type Field string

const (
	FieldFirstName        Field = "firstName"
	FieldMiddleName       Field = "middleName"
	FieldLastName         Field = "lastName"
	FieldName             Field = "name"
	FieldGender           Field = "gender"
	FieldDateOfBirth      Field = "dateOfBirth"
	FieldAge              Field = "age"
	FieldAddressLine1     Field = "addressLine1"
	FieldAddressLine2     Field = "addressLine2"
	FieldCity             Field = "city"
	FieldState            Field = "state"
	FieldPinCode          Field = "pinCode"
	FieldAddress          Field = "address"
	FieldPhone            Field = "phone"
	FieldEmergencyContact Field = "emergencyContact"
	FieldEmail            Field = "email"
	FieldOccupation       Field = "occupation"
	FieldNationality      Field = "nationality"

	// FieldRawText holds the whole OCR text when nothing structured was found.
	FieldRawText Field = "rawText"
)

var (
	ErrInvalidInput = errors.New("invalid field map")
	ErrUnknownField = fmt.Errorf("%w: unknown field", ErrInvalidInput)
)

// Fields lists the vocabulary in canonical order.
var Fields = []Field{
	FieldFirstName, FieldMiddleName, FieldLastName, FieldName,
	FieldGender, FieldDateOfBirth, FieldAge,
	FieldAddressLine1, FieldAddressLine2, FieldCity, FieldState, FieldPinCode, FieldAddress,
	FieldPhone, FieldEmergencyContact, FieldEmail,
	FieldOccupation, FieldNationality,
}

var knownFields = func() map[Field]bool {
	known := make(map[Field]bool, len(Fields)+1)
	for _, f := range Fields {
		known[f] = true
	}
	known[FieldRawText] = true
	return known
}()

// reserved keys may travel alongside field values in stored documents and are
// ignored when decoding.
var reservedKeys = map[string]bool{
	"metadata":             true,
	"verificationResults":  true,
	"verification_results": true,
}

func ParseField(name string) (Field, error) {
	f := Field(strings.TrimSpace(name))
	if !knownFields[f] {
		return "", fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	return f, nil
}

func (f Field) Valid() bool {
	return knownFields[f]
}

// FieldMap is an insertion ordered Field to string mapping. The zero value is
// ready to use.
type FieldMap struct {
	keys   []Field
	values map[Field]string
}

func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[Field]string)}
}

// Set stores value under f. Re-setting a key keeps its original position.
func (m *FieldMap) Set(f Field, value string) {
	if m.values == nil {
		m.values = make(map[Field]string)
	}
	if _, ok := m.values[f]; !ok {
		m.keys = append(m.keys, f)
	}
	m.values[f] = value
}

func (m *FieldMap) Get(f Field) (string, bool) {
	if m == nil || m.values == nil {
		return "", false
	}
	v, ok := m.values[f]
	return v, ok
}

// Value returns the stored value or "" when absent.
func (m *FieldMap) Value(f Field) string {
	v, _ := m.Get(f)
	return v
}

func (m *FieldMap) Has(f Field) bool {
	_, ok := m.Get(f)
	return ok
}

func (m *FieldMap) Delete(f Field) {
	if m == nil || m.values == nil {
		return
	}
	if _, ok := m.values[f]; !ok {
		return
	}
	delete(m.values, f)
	for i, k := range m.keys {
		if k == f {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *FieldMap) Keys() []Field {
	if m == nil {
		return nil
	}
	out := make([]Field, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *FieldMap) Each(fn func(f Field, value string)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Map returns an unordered copy keyed by field name.
func (m *FieldMap) Map() map[string]string {
	out := make(map[string]string, m.Len())
	m.Each(func(f Field, v string) {
		out[string(f)] = v
	})
	return out
}

func (m *FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	stream := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowStream(&buf)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, k := range m.Keys() {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(string(k))
		stream.WriteString(m.values[k])
	}
	stream.WriteObjectEnd()

	if err := stream.Flush(); err != nil {
		return nil, err
	}
	if stream.Error != nil {
		return nil, stream.Error
	}

	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the key order of the document, skips reserved container
// keys and rejects keys outside the field vocabulary.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	decoded := NewFieldMap()

	iter := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowIterator(data)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnIterator(iter)

	if iter.WhatIsNext() == jsoniter.NilValue {
		iter.ReadNil()
		*m = *decoded
		return nil
	}
	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return fmt.Errorf("%w: expected object", ErrInvalidInput)
	}

	var fieldErr error
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		if reservedKeys[key] {
			it.Skip()
			return true
		}

		f, err := ParseField(key)
		if err != nil {
			fieldErr = err
			return false
		}

		switch it.WhatIsNext() {
		case jsoniter.StringValue:
			decoded.Set(f, it.ReadString())
		case jsoniter.NumberValue:
			decoded.Set(f, it.ReadNumber().String())
		case jsoniter.NilValue:
			it.ReadNil()
		default:
			fieldErr = fmt.Errorf("%w: field %q must be a string", ErrInvalidInput, key)
			return false
		}
		return true
	})

	if fieldErr != nil {
		return fieldErr
	}
	if iter.Error != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, iter.Error)
	}

	*m = *decoded
	return nil
}
