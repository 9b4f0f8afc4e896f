package verifier

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"docverify/pkg/nlp"
)

type comparison struct {
	original      string
	submitted     string
	normOriginal  string
	normSubmitted string
}

type strategy func(cfg Config, c comparison) Outcome

var strategies = map[nlp.Field]strategy{
	nlp.FieldName:             compareNames,
	nlp.FieldFirstName:        compareNames,
	nlp.FieldMiddleName:       compareNames,
	nlp.FieldLastName:         compareNames,
	nlp.FieldAge:              compareAges,
	nlp.FieldGender:           compareGenders,
	nlp.FieldEmail:            compareEmails,
	nlp.FieldPhone:            comparePhones,
	nlp.FieldEmergencyContact: comparePhones,
	nlp.FieldDateOfBirth:      compareDates,
	nlp.FieldAddress:          compareAddresses,
	nlp.FieldAddressLine1:     compareAddresses,
	nlp.FieldAddressLine2:     compareAddresses,
}

func strategyFor(field nlp.Field) strategy {
	if s, ok := strategies[field]; ok {
		return s
	}
	return compareText
}

func percent(ratio float64) int {
	return int(math.Round(100 * ratio))
}

func compareText(cfg Config, c comparison) Outcome {
	conf := percent(nlp.Similarity(c.normOriginal, c.normSubmitted))
	return Outcome{
		Match:      conf >= cfg.TextThreshold,
		Confidence: conf,
		Notes:      fmt.Sprintf("text similarity %d%%", conf),
	}
}

// compareNames pairs each extracted token with at most one submitted token.
func compareNames(cfg Config, c comparison) Outcome {
	original := strings.Fields(c.normOriginal)
	submitted := strings.Fields(c.normSubmitted)
	if len(original) == 0 || len(submitted) == 0 {
		return compareText(cfg, c)
	}

	used := make([]bool, len(submitted))
	matched := 0
	for _, o := range original {
		for j, s := range submitted {
			if used[j] {
				continue
			}
			if nlp.Similarity(o, s) > cfg.NameTokenSimilarity {
				used[j] = true
				matched++
				break
			}
		}
	}

	conf := percent(float64(matched) / float64(max(len(original), len(submitted))))
	phonetic := nlp.PhoneticSimilarity(c.normOriginal, c.normSubmitted)

	return Outcome{
		Match:      conf >= cfg.NameThreshold,
		Confidence: conf,
		Notes: fmt.Sprintf("%d of %d name tokens matched, phonetic similarity %.2f",
			matched, max(len(original), len(submitted)), phonetic),
	}
}

// maxAgeDigits bounds parsed ages so the difference cannot overflow.
const maxAgeDigits = 3

func compareAges(_ Config, c comparison) Outcome {
	if len(c.normOriginal) > maxAgeDigits || len(c.normSubmitted) > maxAgeDigits {
		return Outcome{Notes: "invalid age"}
	}
	a, errA := strconv.Atoi(c.normOriginal)
	b, errB := strconv.Atoi(c.normSubmitted)
	if errA != nil || errB != nil || a < 0 || b < 0 {
		return Outcome{Notes: "invalid age"}
	}

	diff := a - b
	if diff < 0 {
		diff = -diff
	}

	switch diff {
	case 0:
		return Outcome{Match: true, Confidence: 100, Notes: "exact age match"}
	case 1:
		return Outcome{Match: true, Confidence: 90, Notes: "age differs by 1 year"}
	case 2:
		return Outcome{Match: false, Confidence: 70, Notes: "age differs by 2 years"}
	}

	conf := 0
	if diff <= 5 {
		conf = 50 - 10*diff
	}

	return Outcome{
		Confidence: conf,
		Notes:      fmt.Sprintf("age differs by %d years", diff),
	}
}

func canonicalGender(v string) string {
	switch v {
	case "m", "male":
		return "male"
	case "f", "female":
		return "female"
	}
	return "other"
}

func compareGenders(_ Config, c comparison) Outcome {
	if canonicalGender(c.normOriginal) == canonicalGender(c.normSubmitted) {
		return Outcome{Match: true, Confidence: 100, Notes: "gender match"}
	}
	return Outcome{Notes: "gender mismatch"}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func compareEmails(cfg Config, c comparison) Outcome {
	o := strings.ToLower(c.original)
	s := strings.ToLower(c.submitted)
	if !emailPattern.MatchString(o) || !emailPattern.MatchString(s) {
		return Outcome{Notes: "invalid format"}
	}

	oLocal, oDomain, _ := strings.Cut(o, "@")
	sLocal, sDomain, _ := strings.Cut(s, "@")
	if oDomain != sDomain {
		return Outcome{Notes: "different domains"}
	}

	conf := percent(nlp.Similarity(oLocal, sLocal))
	return Outcome{
		Match:      conf >= cfg.EmailThreshold,
		Confidence: conf,
		Notes:      fmt.Sprintf("same domain, local part similarity %d%%", conf),
	}
}

func digitsOnly(v string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, v)
}

func comparePhones(_ Config, c comparison) Outcome {
	o := digitsOnly(c.original)
	s := digitsOnly(c.submitted)

	switch {
	case o == "" || s == "":
		return Outcome{Notes: "no digits to compare"}
	case o == s:
		return Outcome{Match: true, Confidence: 100, Notes: "exact number match"}
	case strings.Contains(o, s) || strings.Contains(s, o):
		return Outcome{Match: true, Confidence: 90, Notes: "number matches ignoring country code"}
	case len(o) >= 10 && len(s) >= 10 && o[len(o)-10:] == s[len(s)-10:]:
		return Outcome{Match: true, Confidence: 85, Notes: "last 10 digits match"}
	}

	return Outcome{Notes: "numbers differ"}
}

func compareDates(_ Config, c comparison) Outcome {
	a, okA := ParseDate(c.original)
	b, okB := ParseDate(c.submitted)
	if !okA || !okB {
		return Outcome{Notes: "invalid date format"}
	}
	if a == b {
		return Outcome{Match: true, Confidence: 100, Notes: "exact date match"}
	}

	agree := 0
	if a.Year == b.Year {
		agree++
	}
	if a.Month == b.Month {
		agree++
	}
	if a.Day == b.Day {
		agree++
	}

	return Outcome{
		Match:      agree >= 2,
		Confidence: percent(float64(agree) / 3),
		Notes:      fmt.Sprintf("%d of 3 date parts match", agree),
	}
}

var addressSeparators = regexp.MustCompile(`[^\p{L}\p{N}]+`)

func addressTokens(v string, minLen int) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(addressSeparators.ReplaceAllString(v, " ")) {
		if len([]rune(t)) > minLen {
			tokens[t] = true
		}
	}
	return tokens
}

func compareAddresses(cfg Config, c comparison) Outcome {
	o := addressTokens(c.normOriginal, cfg.AddressMinTokenLen)
	s := addressTokens(c.normSubmitted, cfg.AddressMinTokenLen)
	if len(o) == 0 || len(s) == 0 {
		return Outcome{Notes: "no comparable address tokens"}
	}

	common := 0
	for t := range o {
		if s[t] {
			common++
		}
	}

	conf := percent(float64(common) / float64(max(len(o), len(s))))
	return Outcome{
		Match:      conf >= cfg.AddressThreshold,
		Confidence: conf,
		Notes:      fmt.Sprintf("%d shared address tokens", common),
	}
}
