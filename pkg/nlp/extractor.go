package nlp

import (
	"strings"
)

// FieldExtractor turns OCR text into a FieldMap. It is immutable after
// construction and safe for concurrent use.
type FieldExtractor struct {
	rules []FieldRules
	// fallbacks run over the whole text when the line pass finds nothing
	fallbacks []FieldRules
}

type ExtractorOption func(*FieldExtractor)

// WithRules replaces the default rule table.
func WithRules(rules []FieldRules) ExtractorOption {
	return func(e *FieldExtractor) {
		e.rules = rules
	}
}

func NewFieldExtractor(cfg ExtractorConfig, options ...ExtractorOption) *FieldExtractor {
	rules := DefaultRules(cfg)
	e := &FieldExtractor{rules: rules}

	for _, option := range options {
		option(e)
	}

	e.fallbacks = []FieldRules{
		{Field: FieldEmail, Rules: bareRules(rules, FieldEmail)},
		{Field: FieldPhone, Rules: bareRules(rules, FieldPhone)},
	}

	return e
}

func bareRules(rules []FieldRules, f Field) []Rule {
	var out []Rule
	for _, fr := range rules {
		if fr.Field != f {
			continue
		}
		for _, r := range fr.Rules {
			if !r.Labelled {
				out = append(out, r)
			}
		}
	}
	return out
}

// Extract never fails. Empty input yields an empty map; text with no
// recognisable field yields {rawText: text} plus any bare email or phone.
func (e *FieldExtractor) Extract(rawText string) *FieldMap {
	fields := NewFieldMap()

	for _, line := range splitLines(rawText) {
		labelledHits := e.applyLine(line, true, nil, fields)
		e.applyLine(line, false, labelledHits, fields)
	}

	if fields.Len() == 0 {
		e.fallback(rawText, fields)
		return fields
	}

	deriveName(fields)
	deriveAddress(fields)

	return fields
}

// applyLine runs the labelled or the bare rules of every unresolved field
// against line. Fields in skip are left alone. It returns the fields with a
// rule pattern matching the line, plus the fields they shadow, even when the
// transform rejected the value or the field was already locked.
func (e *FieldExtractor) applyLine(line string, labelledPass bool, skip map[Field]bool, fields *FieldMap) map[Field]bool {
	hits := map[Field]bool{}

	for _, fr := range e.rules {
		if skip[fr.Field] {
			continue
		}
		locked := fields.Has(fr.Field)

		for _, rule := range fr.Rules {
			if rule.Labelled != labelledPass {
				continue
			}

			value, ok := match(rule, line)
			if !ok {
				continue
			}
			hits[fr.Field] = true
			for _, f := range fr.Shadows {
				hits[f] = true
			}

			if locked {
				break
			}
			if value, ok = applyTransform(rule, value); ok {
				fields.Set(fr.Field, value)
				break
			}
		}
	}

	return hits
}

func (e *FieldExtractor) fallback(rawText string, fields *FieldMap) {
	if strings.TrimSpace(rawText) == "" {
		return
	}
	fields.Set(FieldRawText, rawText)

	for _, fr := range e.fallbacks {
		for _, rule := range fr.Rules {
			value, ok := match(rule, rawText)
			if !ok {
				continue
			}
			if value, ok = applyTransform(rule, value); ok {
				fields.Set(fr.Field, value)
				break
			}
		}
	}
}

func match(rule Rule, text string) (string, bool) {
	m := rule.Pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}

func applyTransform(rule Rule, value string) (string, bool) {
	if rule.Transform == nil {
		return TextTransform(value)
	}
	return rule.Transform(value)
}

func splitLines(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r'
	})

	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func deriveName(fields *FieldMap) {
	if fields.Has(FieldName) {
		return
	}

	var parts []string
	for _, f := range []Field{FieldFirstName, FieldMiddleName, FieldLastName} {
		if v := fields.Value(f); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) > 0 {
		fields.Set(FieldName, strings.Join(parts, " "))
	}
}

func deriveAddress(fields *FieldMap) {
	var parts []string
	for _, f := range []Field{FieldAddressLine1, FieldAddressLine2, FieldCity, FieldState, FieldPinCode} {
		if v := fields.Value(f); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) > 0 {
		fields.Set(FieldAddress, strings.Join(parts, ", "))
	}
}
