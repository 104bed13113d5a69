// Package policy implements the safety gates applied to user input and to
// model output.
package policy

import "strings"

// Flags is the result of classifying a user message.
type Flags struct {
	Crisis          bool
	RestrictedTopic bool
}

// crisisSignals are literal phrases that indicate self-harm or suicide risk.
// Matching is a best-effort substring heuristic with no scoring or word
// boundaries, so "send it" also matches "end it".
var crisisSignals = []string{
	"suicide",
	"self-harm",
	"kill myself",
	"end it",
	"overdose",
	"jump off",
	"cutting",
	"can not go on",
	"can't go on",
	"ending it",
}

// restrictedSignals cover diet, weight and calorie talk, which the buddy
// redirects instead of advising on.
var restrictedSignals = []string{
	"diet",
	"calorie",
	"weight loss",
	"lose weight",
	"losing weight",
	"keto",
	"fasting",
	"bmi",
	"fat burn",
}

// Classify scans text for crisis and restricted-topic signals.
// Empty text yields zero Flags.
func Classify(text string) Flags {
	if strings.TrimSpace(text) == "" {
		return Flags{}
	}
	lower := strings.ToLower(text)
	return Flags{
		Crisis:          containsAny(lower, crisisSignals),
		RestrictedTopic: containsAny(lower, restrictedSignals),
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
