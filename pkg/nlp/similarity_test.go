package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Jane   DOE ", "jane doe"},
		{"José Ñúñez", "jose nunez"},
		{"Jane.Doe@Example.COM", "jane.doe@example.com"},
		{"12, Oak St.\n Springfield!", "12 oak st. springfield"},
		{"+91-98765 43210", "91-98765 43210"},
		{"snake_case\tvalue", "snake_case value"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "Normalize(%q)", tc.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Ångström  Lane #4",
		"MR. Ravi-Kumar  (Sr.)",
		"ＦＵＬＬ width",
		"mixed\r\nline\tbreaks",
		"émigré@café.fr",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize not idempotent for %q", in)
	}
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, EditDistance("", ""))
	assert.Equal(t, 3, EditDistance("", "abc"))
	assert.Equal(t, 3, EditDistance("kitten", "sitting"))
	assert.Equal(t, 1, EditDistance("jane", "jame"))
	assert.Equal(t, 1, EditDistance("josé", "jose"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("", "abc"))
	assert.Equal(t, 0.0, Similarity("abc", ""))
	assert.Equal(t, 1.0, Similarity("jane", "jane"))
	assert.InDelta(t, 0.75, Similarity("jane", "jame"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
}

func TestSimilaritySymmetricAndBounded(t *testing.T) {
	pairs := [][2]string{
		{"jonathan", "jon"},
		{"springfield", "shelbyville"},
		{"a", "b"},
		{"ravi kumar", "kumar ravi"},
		{"", "x"},
	}

	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		assert.InDelta(t, ab, ba, 1e-9, "similarity not symmetric for %q/%q", p[0], p[1])
		assert.GreaterOrEqual(t, ab, 0.0)
		assert.LessOrEqual(t, ab, 1.0)
	}
}

func TestSoundex(t *testing.T) {
	assert.Equal(t, "R163", Soundex("Robert"))
	assert.Equal(t, "R163", Soundex("Rupert"))
	assert.Equal(t, "A261", Soundex("Ashcraft"))
	assert.Equal(t, "T522", Soundex("Tymczak"))
	assert.Equal(t, "P236", Soundex("Pfister"))
	assert.Equal(t, "O165", Soundex("O'Brien"))
	assert.Equal(t, "", Soundex("123"))
}

func TestPhoneticSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, PhoneticSimilarity("Robert", "Rupert"))
	assert.Equal(t, 0.0, PhoneticSimilarity("Robert", ""))
	assert.InDelta(t, 0.5, PhoneticSimilarity("Smith", "Smyth Jones"), 1e-9)
}

func TestJaroWinkler(t *testing.T) {
	assert.Equal(t, 1.0, JaroWinkler("Jane Doe", "jane doe"))
	assert.Greater(t, JaroWinkler("Jane Doe", "Jane Dow"), JaroWinkler("Jane Doe", "Mark Twain"))
	assert.Equal(t, 0.0, JaroWinkler("", "jane"))
}
