package nlp

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMapKeepsInsertionOrder(t *testing.T) {
	m := NewFieldMap()
	m.Set(FieldPhone, "9876543210")
	m.Set(FieldEmail, "jane@x.com")
	m.Set(FieldName, "Jane")
	m.Set(FieldPhone, "+91-9876543210")

	assert.Equal(t, []Field{FieldPhone, FieldEmail, FieldName}, m.Keys())
	assert.Equal(t, "+91-9876543210", m.Value(FieldPhone))

	m.Delete(FieldEmail)
	assert.Equal(t, []Field{FieldPhone, FieldName}, m.Keys())
	assert.False(t, m.Has(FieldEmail))
}

func TestFieldMapJSONOrder(t *testing.T) {
	in := `{"pinCode":"560001","name":"Jane Doe","age":31,"email":"jane@x.com","metadata":{"source":"form"}}`

	var m FieldMap
	require.NoError(t, jsoniter.Unmarshal([]byte(in), &m))

	assert.Equal(t, []Field{FieldPinCode, FieldName, FieldAge, FieldEmail}, m.Keys())
	assert.Equal(t, "31", m.Value(FieldAge))

	out, err := jsoniter.Marshal(&m)
	require.NoError(t, err)
	assert.Equal(t, `{"pinCode":"560001","name":"Jane Doe","age":"31","email":"jane@x.com"}`, string(out))
}

func TestFieldMapRejectsUnknownKeys(t *testing.T) {
	var m FieldMap
	err := jsoniter.Unmarshal([]byte(`{"name":"Jane","favouriteColour":"blue"}`), &m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestFieldMapRejectsNonStringValues(t *testing.T) {
	var m FieldMap
	err := jsoniter.Unmarshal([]byte(`{"name":["Jane"]}`), &m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = jsoniter.Unmarshal([]byte(`["name"]`), &m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFieldMapNullValuesAreAbsent(t *testing.T) {
	var m FieldMap
	require.NoError(t, jsoniter.Unmarshal([]byte(`{"name":null,"city":"Pune"}`), &m))
	assert.Equal(t, []Field{FieldCity}, m.Keys())
}

func TestParseField(t *testing.T) {
	f, err := ParseField("dateOfBirth")
	require.NoError(t, err)
	assert.Equal(t, FieldDateOfBirth, f)

	_, err = ParseField("salary")
	assert.ErrorIs(t, err, ErrUnknownField)

	assert.True(t, FieldRawText.Valid())
}
