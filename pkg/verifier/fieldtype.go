package verifier

import (
	"regexp"
	"strings"

	"docverify/pkg/nlp"
)

type FieldType string

const (
	TypeText    FieldType = "text"
	TypeEmail   FieldType = "email"
	TypePhone   FieldType = "phone"
	TypeDate    FieldType = "date"
	TypeAddress FieldType = "address"
	TypeName    FieldType = "name"
	TypeAge     FieldType = "age"
	TypeGender  FieldType = "gender"
)

var declaredTypes = map[nlp.Field]FieldType{
	nlp.FieldName:             TypeName,
	nlp.FieldFirstName:        TypeName,
	nlp.FieldMiddleName:       TypeName,
	nlp.FieldLastName:         TypeName,
	nlp.FieldGender:           TypeGender,
	nlp.FieldAge:              TypeAge,
	nlp.FieldDateOfBirth:      TypeDate,
	nlp.FieldEmail:            TypeEmail,
	nlp.FieldPhone:            TypePhone,
	nlp.FieldEmergencyContact: TypePhone,
	nlp.FieldAddress:          TypeAddress,
	nlp.FieldAddressLine1:     TypeAddress,
	nlp.FieldAddressLine2:     TypeAddress,
}

var (
	phoneLike = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
	dateLike  = regexp.MustCompile(`^\d{1,4}[\-/.]\d{1,2}[\-/.]\d{1,4}$`)
)

// DetectFieldType uses the field's declared type, and for free text fields
// falls back to the shape of the value.
func DetectFieldType(field nlp.Field, value string) FieldType {
	if t, ok := declaredTypes[field]; ok {
		return t
	}

	v := strings.TrimSpace(value)
	switch {
	case strings.Contains(v, "@"):
		return TypeEmail
	case phoneLike.MatchString(v):
		return TypePhone
	case dateLike.MatchString(v):
		return TypeDate
	}
	return TypeText
}
