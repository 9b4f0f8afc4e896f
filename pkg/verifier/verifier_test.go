package verifier

import (
	"testing"
	"time"

	"docverify/pkg/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestVerifier() *Verifier {
	return New(DefaultConfig(), WithClock(func() time.Time { return fixedNow }))
}

func fieldMap(pairs ...string) *nlp.FieldMap {
	m := nlp.NewFieldMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(nlp.Field(pairs[i]), pairs[i+1])
	}
	return m
}

func TestVerifyFieldEmptyValues(t *testing.T) {
	v := newTestVerifier()

	out := v.VerifyField(nlp.FieldName, "  ", "")
	assert.True(t, out.Match)
	assert.Equal(t, 100, out.Confidence)

	out = v.VerifyField(nlp.FieldName, "", "Jane")
	assert.False(t, out.Match)
	assert.Equal(t, 50, out.Confidence)

	out = v.VerifyField(nlp.FieldName, "Jane", " ")
	assert.False(t, out.Match)
	assert.Equal(t, 0, out.Confidence)
}

func TestVerifyFieldExactMatchShortcut(t *testing.T) {
	v := newTestVerifier()
	values := []string{"Jane Doe", "jane@x.com", "+91-9876543210", "12/05/1990", "31", "Female", "12 Oak St", "x", "!!"}

	for _, f := range append(nlp.Fields, nlp.FieldRawText) {
		for _, s := range values {
			out := v.VerifyField(f, s, s)
			assert.True(t, out.Match, "%s/%q", f, s)
			assert.Equal(t, 100, out.Confidence, "%s/%q", f, s)
		}
	}
}

func TestVerifyFieldNormalizedEquality(t *testing.T) {
	out := newTestVerifier().VerifyField(nlp.FieldCity, "  SPRINGFIELD ", "springfield")
	assert.True(t, out.Match)
	assert.Equal(t, 100, out.Confidence)
}

func TestVerifyFieldNames(t *testing.T) {
	v := newTestVerifier()

	out := v.VerifyField(nlp.FieldName, "Jane Marie Doe", "Jane Doe")
	assert.False(t, out.Match)
	assert.Equal(t, 67, out.Confidence)
	assert.Contains(t, out.Notes, "phonetic")

	out = v.VerifyField(nlp.FieldName, "Jonathan Smith", "Jonathon Smith")
	assert.True(t, out.Match)
	assert.Equal(t, 100, out.Confidence)

	out = v.VerifyField(nlp.FieldName, "Doe Jane", "Jane Doe")
	assert.True(t, out.Match)
	assert.Equal(t, 100, out.Confidence)

	// a submitted token is consumed by its first match
	out = v.VerifyField(nlp.FieldName, "Ravi Ravi", "Ravi Kumar")
	assert.False(t, out.Match)
	assert.Equal(t, 50, out.Confidence)

	out = v.VerifyField(nlp.FieldFirstName, "Jane", "Mark")
	assert.False(t, out.Match)
	assert.Equal(t, 0, out.Confidence)
}

func TestVerifyFieldAge(t *testing.T) {
	v := newTestVerifier()

	cases := []struct {
		original, submitted string
		match               bool
		confidence          int
	}{
		{"30", "31", true, 90},
		{"31", "30", true, 90},
		{"30", "32", false, 70},
		{"30", "33", false, 20},
		{"30", "34", false, 10},
		{"30", "40", false, 0},
		{"030", "30", true, 100},
		{"thirty", "30", false, 0},
	}

	for _, tc := range cases {
		out := v.VerifyField(nlp.FieldAge, tc.original, tc.submitted)
		assert.Equal(t, tc.match, out.Match, "%s vs %s", tc.original, tc.submitted)
		assert.Equal(t, tc.confidence, out.Confidence, "%s vs %s", tc.original, tc.submitted)
	}
}

func TestVerifyFieldAgeStaysInRange(t *testing.T) {
	v := newTestVerifier()

	for _, pair := range [][2]string{
		{"0", "1000000000000000000"},
		{"9223372036854775807", "-9223372036854775808"},
		{"1", "999"},
		{"1234", "1234"},
	} {
		out := v.VerifyField(nlp.FieldAge, pair[0], pair[1])
		assert.False(t, out.Match, "%s vs %s", pair[0], pair[1])
		assert.GreaterOrEqual(t, out.Confidence, 0, "%s vs %s", pair[0], pair[1])
		assert.LessOrEqual(t, out.Confidence, 100, "%s vs %s", pair[0], pair[1])
	}

	assert.Equal(t, "invalid age", v.VerifyField(nlp.FieldAge, "0", "1000000000000000000").Notes)
}

func TestVerifyFieldGender(t *testing.T) {
	v := newTestVerifier()

	assert.Equal(t, Outcome{Match: true, Confidence: 100, Similarity: 0, Notes: "gender match"},
		withoutSimilarity(v.VerifyField(nlp.FieldGender, "M", "Male")))
	assert.False(t, v.VerifyField(nlp.FieldGender, "Female", "Male").Match)
	assert.Equal(t, 0, v.VerifyField(nlp.FieldGender, "F", "Male").Confidence)
}

func withoutSimilarity(o Outcome) Outcome {
	o.Similarity = 0
	return o
}

func TestVerifyFieldEmail(t *testing.T) {
	v := newTestVerifier()

	out := v.VerifyField(nlp.FieldEmail, "jane@x.com", "jane@x.com")
	assert.True(t, out.Match)
	assert.Equal(t, 100, out.Confidence)

	out = v.VerifyField(nlp.FieldEmail, "jane@x.com", "jane@y.com")
	assert.False(t, out.Match)
	assert.Equal(t, 0, out.Confidence)
	assert.Equal(t, "different domains", out.Notes)

	out = v.VerifyField(nlp.FieldEmail, "jane.doe@x.com", "jane.dOe1@X.com")
	assert.True(t, out.Match)
	assert.Equal(t, 89, out.Confidence)

	out = v.VerifyField(nlp.FieldEmail, "jane", "jane@x.com")
	assert.False(t, out.Match)
	assert.Equal(t, "invalid format", out.Notes)
}

func TestVerifyFieldPhone(t *testing.T) {
	v := newTestVerifier()

	out := v.VerifyField(nlp.FieldPhone, "9876543210", "+91-9876543210")
	assert.True(t, out.Match)
	assert.Equal(t, 90, out.Confidence)

	out = v.VerifyField(nlp.FieldPhone, "(987) 654-3210", "987 654 3210")
	assert.True(t, out.Match)
	assert.Equal(t, 100, out.Confidence)

	out = v.VerifyField(nlp.FieldEmergencyContact, "+1 9876543210", "+44 9876543210")
	assert.True(t, out.Match)
	assert.Equal(t, 85, out.Confidence)

	out = v.VerifyField(nlp.FieldPhone, "9876543210", "9123456780")
	assert.False(t, out.Match)
	assert.Equal(t, 0, out.Confidence)
}

func TestVerifyFieldDate(t *testing.T) {
	v := newTestVerifier()

	out := v.VerifyField(nlp.FieldDateOfBirth, "12/05/1990", "1990-05-12")
	assert.True(t, out.Match)
	assert.Equal(t, 100, out.Confidence)

	out = v.VerifyField(nlp.FieldDateOfBirth, "12 March 1990", "12-03-90")
	assert.True(t, out.Match)
	assert.Equal(t, 100, out.Confidence)

	out = v.VerifyField(nlp.FieldDateOfBirth, "12/05/1990", "13/05/1990")
	assert.True(t, out.Match)
	assert.Equal(t, 67, out.Confidence)

	out = v.VerifyField(nlp.FieldDateOfBirth, "12/05/1990", "13/06/1990")
	assert.False(t, out.Match)
	assert.Equal(t, 33, out.Confidence)

	out = v.VerifyField(nlp.FieldDateOfBirth, "sometime in spring", "12/05/1990")
	assert.False(t, out.Match)
	assert.Equal(t, 0, out.Confidence)
	assert.Equal(t, "invalid date format", out.Notes)
}

func TestVerifyFieldAddress(t *testing.T) {
	v := newTestVerifier()

	out := v.VerifyField(nlp.FieldAddress, "12 Oak St, Springfield", "99 Elm Ave, Shelbyville")
	assert.False(t, out.Match)
	assert.Equal(t, 0, out.Confidence)

	out = v.VerifyField(nlp.FieldAddress, "12, MG Road, Bangalore, Karnataka", "12 M.G. Road Bangalore")
	assert.True(t, out.Match)
	assert.Equal(t, 67, out.Confidence)

	out = v.VerifyField(nlp.FieldAddressLine1, "Flat 4, Green Park Apartments", "Flat 4 Green Park Apts")
	assert.Equal(t, 75, out.Confidence)
	assert.True(t, out.Match)
}

func TestVerifyFieldGenericText(t *testing.T) {
	v := newTestVerifier()

	out := v.VerifyField(nlp.FieldOccupation, "Engineer", "Enginer")
	assert.True(t, out.Match)
	assert.Equal(t, 88, out.Confidence)

	out = v.VerifyField(nlp.FieldNationality, "Indian", "Kenyan")
	assert.False(t, out.Match)
	assert.Equal(t, 33, out.Confidence)
}

func TestVerifyDocumentScenarios(t *testing.T) {
	v := newTestVerifier()

	cases := []struct {
		name       string
		extracted  *nlp.FieldMap
		submitted  *nlp.FieldMap
		match      bool
		confidence int
	}{
		{"exact email", fieldMap("email", "jane@x.com"), fieldMap("email", "jane@x.com"), true, 100},
		{"phone country code", fieldMap("phone", "9876543210"), fieldMap("phone", "+91-9876543210"), true, 90},
		{"age off by one", fieldMap("age", "30"), fieldMap("age", "31"), true, 90},
		{"address mismatch", fieldMap("address", "12 Oak St, Springfield"), fieldMap("address", "99 Elm Ave, Shelbyville"), false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := v.VerifyDocument(tc.extracted, tc.submitted)
			require.Len(t, report.Results, 1)
			assert.Equal(t, tc.match, report.Results[0].Match)
			assert.Equal(t, tc.confidence, report.Results[0].Confidence)
			assert.Equal(t, fixedNow, report.Results[0].Timestamp)
		})
	}
}

func TestVerifyDocumentOrderAndSkips(t *testing.T) {
	extracted := fieldMap("name", "Jane Doe", "email", "jane@x.com", "city", "Pune")
	submitted := fieldMap(
		"email", "jane@x.com",
		"rawText", "ignored",
		"phone", "   ",
		"occupation", "Engineer",
		"name", "Jane Doe",
	)

	report := newTestVerifier().VerifyDocument(extracted, submitted)
	require.Len(t, report.Results, 3)

	assert.Equal(t, nlp.FieldEmail, report.Results[0].Field)
	assert.Equal(t, TypeEmail, report.Results[0].FieldType)

	assert.Equal(t, nlp.FieldOccupation, report.Results[1].Field)
	assert.Equal(t, "", report.Results[1].OriginalValue)
	assert.Equal(t, 50, report.Results[1].Confidence)
	assert.False(t, report.Results[1].Match)
	assert.Equal(t, TypeText, report.Results[1].FieldType)

	assert.Equal(t, nlp.FieldName, report.Results[2].Field)
	assert.Equal(t, TypeName, report.Results[2].FieldType)

	assert.Equal(t, Summary{TotalFields: 3, MatchedFields: 2, AverageConfidence: 83, OverallMatch: false}, report.Summary)
}

func TestVerifyDocumentEmptySubmission(t *testing.T) {
	report := newTestVerifier().VerifyDocument(fieldMap("name", "Jane"), nlp.NewFieldMap())
	assert.Empty(t, report.Results)
	assert.Equal(t, Summary{}, report.Summary)
	assert.False(t, report.Summary.OverallMatch)

	report = newTestVerifier().VerifyDocument(nil, fieldMap("name", "Jane"))
	require.Len(t, report.Results, 1)
	assert.Equal(t, 50, report.Results[0].Confidence)
}

func TestVerifyDocumentIsDeterministic(t *testing.T) {
	extracted := fieldMap("name", "Jane Doe", "dateOfBirth", "12/05/1990", "phone", "+91-9876543210")
	submitted := fieldMap("phone", "9876543210", "name", "Jane D", "dateOfBirth", "12-05-1990")

	v := newTestVerifier()
	assert.Equal(t, v.VerifyDocument(extracted, submitted), v.VerifyDocument(extracted, submitted))
}

func TestSummarizeConsistency(t *testing.T) {
	cfg := DefaultConfig()

	results := []FieldResult{
		{Match: true, Confidence: 100},
		{Match: true, Confidence: 90},
		{Match: true, Confidence: 85},
		{Match: false, Confidence: 0},
	}
	s := Summarize(results, cfg)
	assert.Equal(t, 4, s.TotalFields)
	assert.Equal(t, 3, s.MatchedFields)
	assert.Equal(t, 69, s.AverageConfidence)
	assert.True(t, s.OverallMatch)

	// ratio clears 0.7 but the average does not
	results = []FieldResult{
		{Match: true, Confidence: 70},
		{Match: true, Confidence: 70},
		{Match: true, Confidence: 70},
		{Match: false, Confidence: 0},
	}
	s = Summarize(results, cfg)
	assert.Equal(t, 53, s.AverageConfidence)
	assert.False(t, s.OverallMatch)

	for _, rs := range [][]FieldResult{
		{{Match: true, Confidence: 100}},
		{{Match: false, Confidence: 50}, {Match: true, Confidence: 90}},
		{{Match: true, Confidence: 60}, {Match: true, Confidence: 61}, {Match: false, Confidence: 59}},
	} {
		s := Summarize(rs, cfg)
		ratio := float64(s.MatchedFields) / float64(s.TotalFields)
		assert.Equal(t, ratio >= 0.7 && s.AverageConfidence >= 60, s.OverallMatch)
		assert.GreaterOrEqual(t, s.AverageConfidence, 0)
		assert.LessOrEqual(t, s.AverageConfidence, 100)
	}
}

func TestDetectFieldType(t *testing.T) {
	assert.Equal(t, TypePhone, DetectFieldType(nlp.FieldEmergencyContact, "Ravi"))
	assert.Equal(t, TypeAddress, DetectFieldType(nlp.FieldAddressLine2, "MG Road"))
	assert.Equal(t, TypeEmail, DetectFieldType(nlp.FieldOccupation, "contact@firm.com"))
	assert.Equal(t, TypePhone, DetectFieldType(nlp.FieldCity, "+91 98765 43210"))
	assert.Equal(t, TypeDate, DetectFieldType(nlp.FieldState, "01/02/2000"))
	assert.Equal(t, TypeText, DetectFieldType(nlp.FieldPinCode, "560001"))
}

func TestParseDate(t *testing.T) {
	cases := map[string]Date{
		"12/05/1990":       {1990, 5, 12},
		"1990-05-12":       {1990, 5, 12},
		"05/13/1990":       {1990, 5, 13},
		"01.02.49":         {2049, 2, 1},
		"01.02.50":         {1950, 2, 1},
		"12 March 1990":    {1990, 3, 12},
		"DOB 3 Sept. 2001": {2001, 9, 3},
	}
	for in, want := range cases {
		got, ok := ParseDate(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"31/02/1990", "12/1990", "", "45/45/1990", "1/2/345"} {
		_, ok := ParseDate(in)
		assert.False(t, ok, in)
	}
}
