package verifier

import (
	"math"
	"strings"
	"time"

	"docverify/pkg/nlp"
)

// Config holds the match thresholds. Confidence thresholds are on the 0..100
// scale, similarity thresholds on 0..1.
type Config struct {
	TextThreshold       int
	NameThreshold       int
	NameTokenSimilarity float64
	EmailThreshold      int
	AddressThreshold    int
	// AddressMinTokenLen drops address tokens of this length or shorter.
	AddressMinTokenLen   int
	OverallMatchRatio    float64
	MinAverageConfidence int
}

func DefaultConfig() Config {
	return Config{
		TextThreshold:        70,
		NameThreshold:        70,
		NameTokenSimilarity:  0.8,
		EmailThreshold:       80,
		AddressThreshold:     60,
		AddressMinTokenLen:   2,
		OverallMatchRatio:    0.7,
		MinAverageConfidence: 60,
	}
}

type Outcome struct {
	Match      bool    `json:"match"`
	Confidence int     `json:"confidence"`
	Similarity float64 `json:"similarity"`
	Notes      string  `json:"notes,omitempty"`
}

type FieldResult struct {
	Field          nlp.Field `json:"field"`
	OriginalValue  string    `json:"original_value"`
	SubmittedValue string    `json:"submitted_value"`
	Match          bool      `json:"match"`
	Confidence     int       `json:"confidence"`
	Similarity     float64   `json:"similarity"`
	Notes          string    `json:"notes,omitempty"`
	FieldType      FieldType `json:"field_type"`
	Timestamp      time.Time `json:"timestamp"`
}

type Summary struct {
	TotalFields       int  `json:"total_fields"`
	MatchedFields     int  `json:"matched_fields"`
	AverageConfidence int  `json:"average_confidence"`
	OverallMatch      bool `json:"overall_match"`
}

type Report struct {
	Results []FieldResult `json:"results"`
	Summary Summary       `json:"summary"`
}

// Verifier compares extracted against submitted values. It holds no mutable
// state and is safe for concurrent use.
type Verifier struct {
	cfg Config
	now func() time.Time
}

type Option func(*Verifier)

// WithClock sets the source of result timestamps.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

func New(cfg Config, options ...Option) *Verifier {
	v := &Verifier{
		cfg: cfg,
		now: time.Now,
	}
	for _, option := range options {
		option(v)
	}
	return v
}

func (v *Verifier) Config() Config {
	return v.cfg
}

// VerifyField never fails: values a field parser cannot read come back as a
// non-match with confidence 0 and a note.
func (v *Verifier) VerifyField(field nlp.Field, original, submitted string) Outcome {
	o := strings.TrimSpace(original)
	s := strings.TrimSpace(submitted)

	switch {
	case o == "" && s == "":
		return Outcome{Match: true, Confidence: 100, Similarity: 1, Notes: "both values empty"}
	case o == "":
		return Outcome{Match: false, Confidence: 50, Notes: "value not found in document"}
	case s == "":
		return Outcome{Match: false, Confidence: 0, Notes: "no submitted value"}
	}

	no, ns := nlp.Normalize(o), nlp.Normalize(s)
	if no == ns {
		return Outcome{Match: true, Confidence: 100, Similarity: 1, Notes: "exact match"}
	}

	cmp := comparison{original: o, submitted: s, normOriginal: no, normSubmitted: ns}
	out := strategyFor(field)(v.cfg, cmp)
	out.Similarity = nlp.Similarity(no, ns)

	return out
}

// VerifyDocument checks every non-blank submitted field, in submission order,
// against the extracted value of the same name.
func (v *Verifier) VerifyDocument(extracted, submitted *nlp.FieldMap) Report {
	results := make([]FieldResult, 0, submitted.Len())

	submitted.Each(func(f nlp.Field, value string) {
		if f == nlp.FieldRawText || strings.TrimSpace(value) == "" {
			return
		}

		original := extracted.Value(f)
		out := v.VerifyField(f, original, value)

		results = append(results, FieldResult{
			Field:          f,
			OriginalValue:  original,
			SubmittedValue: value,
			Match:          out.Match,
			Confidence:     out.Confidence,
			Similarity:     out.Similarity,
			Notes:          out.Notes,
			FieldType:      DetectFieldType(f, value),
			Timestamp:      v.now(),
		})
	})

	return Report{
		Results: results,
		Summary: Summarize(results, v.cfg),
	}
}

// Summarize reports an overall match when the matched ratio and the rounded
// average confidence both clear their thresholds. No results is never a match.
func Summarize(results []FieldResult, cfg Config) Summary {
	total := len(results)
	if total == 0 {
		return Summary{}
	}

	matched, sum := 0, 0
	for _, r := range results {
		if r.Match {
			matched++
		}
		sum += r.Confidence
	}

	avg := int(math.Round(float64(sum) / float64(total)))
	ratio := float64(matched) / float64(total)

	return Summary{
		TotalFields:       total,
		MatchedFields:     matched,
		AverageConfidence: avg,
		OverallMatch:      ratio >= cfg.OverallMatchRatio && avg >= cfg.MinAverageConfidence,
	}
}
