package nlp

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Transform post-processes a captured value. Returning false rejects the
// match so the next rule for the field is tried.
type Transform func(value string) (string, bool)

type Rule struct {
	Pattern   *regexp.Regexp
	Labelled  bool
	Transform Transform
}

type FieldRules struct {
	Field Field
	Rules []Rule
	// Shadows lists fields whose bare rules are skipped on a line where a
	// labelled rule of Field matched.
	Shadows []Field
}

type ExtractorConfig struct {
	// CountryCode is the national dialling code without '+', e.g. "91".
	CountryCode string
	// MobileClass is the character class a national mobile number starts with.
	MobileClass string
	// NameStopwords reject title-case headings that look like a person's name.
	NameStopwords []string
}

func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		CountryCode: "91",
		MobileClass: "[6-9]",
		NameStopwords: []string{
			"form", "application", "registration", "details", "detail", "information",
			"certificate", "card", "government", "india", "republic", "personal",
			"contact", "address", "date", "birth", "identity", "department", "office",
		},
	}
}

// labelled builds a label anchored pattern where the label must be followed
// by ':' or '-'.
func labelled(labels, value string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:` + labels + `)\s*[:\-]\s*` + value)
}

// labelledLoose also accepts plain whitespace after the label. Used for
// values with a recognisable shape.
func labelledLoose(labels, value string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:` + labels + `)(?:\s*[:\-]\s*|\s+)` + value)
}

// DefaultRules returns the rule table in evaluation order.
func DefaultRules(cfg ExtractorConfig) []FieldRules {
	phone := PhoneTransform(cfg.CountryCode, cfg.MobileClass)
	cc := regexp.QuoteMeta(cfg.CountryCode)
	bareName := nameTransform(cfg.NameStopwords)

	return []FieldRules{
		{Field: FieldFirstName, Rules: []Rule{
			{Pattern: labelled(`first\s*name|given\s*name|f\.?\s*name`, `(.+)$`), Labelled: true, Transform: TextTransform},
		}},
		{Field: FieldMiddleName, Rules: []Rule{
			{Pattern: labelled(`middle\s*name|m\.?\s*name`, `(.+)$`), Labelled: true, Transform: TextTransform},
		}},
		{Field: FieldLastName, Rules: []Rule{
			{Pattern: labelled(`last\s*name|surname|family\s*name|l\.?\s*name`, `(.+)$`), Labelled: true, Transform: TextTransform},
		}},
		{Field: FieldName, Rules: []Rule{
			{Pattern: labelled(`full\s*name|name|applicant(?:'s)?\s*name|name\s*of\s*(?:the\s*)?applicant`, `(.+)$`), Labelled: true, Transform: TextTransform},
			{Pattern: regexp.MustCompile(`^([A-Z][a-z]+ [A-Z][a-z]+(?: [A-Z][a-z]+)?)$`), Transform: bareName},
		}},
		{Field: FieldGender, Rules: []Rule{
			{Pattern: labelledLoose(`gender|sex`, `(\w+)`), Labelled: true, Transform: GenderTransform},
			{Pattern: regexp.MustCompile(`(?i)\b(male|female)\s*$`), Transform: GenderTransform},
		}},
		{Field: FieldDateOfBirth, Rules: []Rule{
			{Pattern: labelledLoose(`date\s*of\s*birth|birth\s*date|d\.?o\.?b\.?`, `(.+)$`), Labelled: true, Transform: DateTransform},
			{Pattern: regexp.MustCompile(`(?i)^born(?:\s*on)?\s*[:\-]?\s*(.+)$`), Transform: DateTransform},
			{Pattern: regexp.MustCompile(`\b(\d{1,2}\s*[\-/.]\s*\d{1,2}\s*[\-/.]\s*\d{2,4})\b`), Transform: DateTransform},
		}},
		{Field: FieldAge, Rules: []Rule{
			{Pattern: labelledLoose(`age`, `(\d{1,3})\b`), Labelled: true, Transform: AgeTransform},
			{Pattern: regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:years?|yrs?)\.?\s*old\b`), Transform: AgeTransform},
		}},
		{Field: FieldAddressLine1, Rules: []Rule{
			{Pattern: labelled(`address\s*line\s*1|addr\.?\s*line\s*1|address\s*1`, `(.+)$`), Labelled: true, Transform: TextTransform},
			{Pattern: labelled(`(?:permanent\s*|residential\s*|current\s*)?address`, `(.+)$`), Labelled: true, Transform: TextTransform},
		}},
		{Field: FieldAddressLine2, Rules: []Rule{
			{Pattern: labelled(`address\s*line\s*2|addr\.?\s*line\s*2|address\s*2`, `(.+)$`), Labelled: true, Transform: TextTransform},
			{Pattern: labelled(`street|locality|area`, `(.+)$`), Labelled: true, Transform: TextTransform},
		}},
		{Field: FieldCity, Rules: []Rule{
			{Pattern: labelled(`city|town|district`, `(.+)$`), Labelled: true, Transform: TextTransform},
		}},
		{Field: FieldState, Rules: []Rule{
			{Pattern: labelled(`state|province`, `(.+)$`), Labelled: true, Transform: TextTransform},
		}},
		{Field: FieldPinCode, Rules: []Rule{
			{Pattern: labelledLoose(`pin\s*code|pincode|postal\s*code|zip\s*code|zip|pin`, `(\d{5,6})\b`), Labelled: true, Transform: PinCodeTransform},
			{Pattern: regexp.MustCompile(`\b(\d{6})\b`), Transform: PinCodeTransform},
		}},
		{Field: FieldPhone, Rules: []Rule{
			{Pattern: labelledLoose(`phone\s*number|phone\s*no\.?|phone|mobile\s*number|mobile\s*no\.?|mobile|mob\.?|contact\s*number|contact\s*no\.?|contact|tel\.?|telephone`, `([+\d\s\-()]{10,20})$`), Labelled: true, Transform: phone},
			{Pattern: regexp.MustCompile(`(\+?` + cc + `[\-\s]?` + cfg.MobileClass + `\d{9})\b`), Transform: phone},
			{Pattern: regexp.MustCompile(`\b(` + cfg.MobileClass + `\d{9})\b`), Transform: phone},
		}},
		{Field: FieldEmergencyContact, Rules: []Rule{
			{Pattern: labelled(`emergency\s*contact(?:\s*(?:number|no\.?))?|emergency\s*(?:phone|number|no\.?)|emergency`, `(.+)$`), Labelled: true, Transform: phone},
		}, Shadows: []Field{FieldPhone}},
		{Field: FieldEmail, Rules: []Rule{
			{Pattern: labelledLoose(`e-?mail\s*id|e-?mail\s*address|e-?mail`, `([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`), Labelled: true, Transform: EmailTransform},
			{Pattern: regexp.MustCompile(`([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`), Transform: EmailTransform},
		}},
		{Field: FieldOccupation, Rules: []Rule{
			{Pattern: labelled(`occupation|profession|designation|job`, `(.+)$`), Labelled: true, Transform: TextTransform},
		}},
		{Field: FieldNationality, Rules: []Rule{
			{Pattern: labelled(`nationality|citizenship`, `(.+)$`), Labelled: true, Transform: TextTransform},
		}},
	}
}

// TextTransform trims, drops one trailing ':' or ',' and strips non-word
// characters from both ends.
func TextTransform(value string) (string, bool) {
	value = strings.TrimSpace(value)
	value = strings.TrimSuffix(value, ":")
	value = strings.TrimSuffix(value, ",")
	value = strings.TrimFunc(value, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	if value == "" {
		return "", false
	}
	return value, true
}

func nameTransform(stopwords []string) Transform {
	stop := make(map[string]bool, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = true
	}

	return func(value string) (string, bool) {
		value, ok := TextTransform(value)
		if !ok {
			return "", false
		}
		for _, token := range Tokens(value) {
			if stop[token] {
				return "", false
			}
		}
		return value, true
	}
}

// GenderTransform maps any matched value to Male, Female or Other.
func GenderTransform(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "m", "male":
		return "Male", true
	case "f", "female":
		return "Female", true
	}
	return "Other", true
}

var (
	pinCodeShape = regexp.MustCompile(`^\d{5,6}$`)
	ageShape     = regexp.MustCompile(`^\d{1,3}$`)
	dateShape    = regexp.MustCompile(`\d{1,4}\s*[\-/.]\s*\d{1,2}\s*[\-/.]\s*\d{1,4}`)
	emailShape   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func PinCodeTransform(value string) (string, bool) {
	value = strings.TrimSpace(value)
	return value, pinCodeShape.MatchString(value)
}

func AgeTransform(value string) (string, bool) {
	value = strings.TrimSpace(value)
	return value, ageShape.MatchString(value)
}

// DateTransform keeps the numeric date inside value when there is one, and
// otherwise accepts any text that carries a digit (e.g. "12 March 1990").
func DateTransform(value string) (string, bool) {
	if d := dateShape.FindString(value); d != "" {
		return strings.Join(strings.Fields(d), ""), true
	}
	value, ok := TextTransform(value)
	if !ok || !strings.ContainsAny(value, "0123456789") {
		return "", false
	}
	return value, true
}

func EmailTransform(value string) (string, bool) {
	value = strings.TrimRight(strings.TrimSpace(value), ".,;:")
	return value, emailShape.MatchString(value)
}

// PhoneTransform strips everything but digits and '+', drops the national
// country code, and formats national mobile numbers as +CC-XXXXXXXXXX.
// Numbers outside 10 to 15 digits are rejected.
func PhoneTransform(countryCode, mobileClass string) Transform {
	mobile := regexp.MustCompile(`^` + mobileClass + `\d{9}$`)

	return func(value string) (string, bool) {
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '+' {
				return r
			}
			return -1
		}, value)

		national := cleaned
		switch {
		case strings.HasPrefix(national, "+"+countryCode):
			national = strings.TrimPrefix(national, "+"+countryCode)
		case strings.HasPrefix(national, countryCode) && len(national) == 10+len(countryCode):
			national = strings.TrimPrefix(national, countryCode)
		}

		if mobile.MatchString(national) {
			return fmt.Sprintf("+%s-%s", countryCode, national), true
		}

		digits := strings.ReplaceAll(cleaned, "+", "")
		if len(digits) < 10 || len(digits) > 15 {
			return "", false
		}
		if strings.HasPrefix(strings.TrimSpace(value), "+") {
			return "+" + digits, true
		}
		return digits, true
	}
}
