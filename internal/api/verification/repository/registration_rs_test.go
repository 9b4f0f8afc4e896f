package verificationRepository

import (
	"testing"
	"time"

	"docverify/internal/entity"
	"docverify/pkg/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\`, escapeLike(`50% off_now \`))
	assert.Equal(t, "jane", escapeLike("jane"))
}

func TestMakeRegistration(t *testing.T) {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	row := RegistrationDB{
		SubmittedData:       []byte(`{"firstName":"Jane","email":"jane@example.com"}`),
		VerificationResults: []byte(`[{"field":"firstName","original_value":"Jane","submitted_value":"Jane","match":true,"confidence":100,"similarity":1,"field_type":"name","timestamp":"2024-05-01T08:00:00Z"}]`),
		Summary:             []byte(`{"total_fields":1,"matched_fields":1,"average_confidence":100,"overall_match":true}`),
		CreatedAt:           created,
	}
	row.ID.String, row.ID.Valid = "01HREG", true
	row.VerificationStatus.String, row.VerificationStatus.Valid = "verified", true

	reg, err := makeRegistration(row)
	require.NoError(t, err)

	assert.Equal(t, "01HREG", reg.ID)
	assert.Equal(t, entity.VerificationVerified, reg.VerificationStatus)
	assert.Equal(t, []nlp.Field{nlp.FieldFirstName, nlp.FieldEmail}, reg.SubmittedData.Keys())
	require.Len(t, reg.VerificationResults, 1)
	assert.True(t, reg.VerificationResults[0].Match)
	assert.True(t, reg.Summary.OverallMatch)
	assert.Equal(t, created, reg.CreatedAt)
}

func TestMakeRegistrationRejectsCorruptJSON(t *testing.T) {
	_, err := makeRegistration(RegistrationDB{Summary: []byte(`{`)})
	assert.Error(t, err)
}
