package policy

import (
	"log/slog"
	"regexp"
)

// CompiledPattern is a pre-compiled redaction rule.
type CompiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

// bodyMetricPatterns match numeric calorie, weight and BMI figures.
var bodyMetricPatterns = []struct {
	name        string
	pattern     string
	replacement string
}{
	{
		name:        "calories",
		pattern:     `(?i)\b\d[\d,.]*\s*(?:-\s*\d[\d,.]*\s*)?(?:k?cals?|kilocalories|calories)\b`,
		replacement: "[amount removed]",
	},
	{
		name:        "body_weight",
		pattern:     `(?i)\b\d+(?:[.,]\d+)?\s*(?:-\s*\d+(?:[.,]\d+)?\s*)?(?:kgs?|kilos?|kilograms?|lbs?|pounds?|stones?)\b`,
		replacement: "[amount removed]",
	},
	{
		name:        "bmi",
		pattern:     `(?i)\bbmi\s*(?:of|is|=|:)?\s*\d+(?:[.,]\d+)?`,
		replacement: "BMI",
	},
}

// Redactor strips numeric body-metric content from model-produced text.
// It is safe for concurrent use.
type Redactor struct {
	patterns []*CompiledPattern
}

// NewRedactor compiles the built-in body-metric patterns. Invalid patterns are
// logged and skipped.
func NewRedactor() *Redactor {
	r := &Redactor{}
	for _, p := range bodyMetricPatterns {
		compiled, err := regexp.Compile(p.pattern)
		if err != nil {
			slog.Error("Failed to compile redaction pattern, skipping", "pattern", p.name, "error", err)
			continue
		}
		r.patterns = append(r.patterns, &CompiledPattern{
			Name:        p.name,
			Regex:       compiled,
			Replacement: p.replacement,
		})
	}
	return r
}

// Redact applies every pattern to text in order.
func (r *Redactor) Redact(text string) string {
	if r == nil || text == "" {
		return text
	}
	for _, p := range r.patterns {
		text = p.Regex.ReplaceAllString(text, p.Replacement)
	}
	return text
}

// RedactAll applies Redact to every element, returning a new slice.
func (r *Redactor) RedactAll(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = r.Redact(s)
	}
	return out
}
