// Package extract recovers a structured buddy response from model output
// that is not guaranteed to follow the requested schema.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/Brian-C69/calm-campus/internal/domain"
)

// Candidate is a schema-compliant model reply. SuggestedActions holds the
// raw elements so the sanitizer can apply its own rules.
type Candidate struct {
	Mode             domain.Mode
	MessageForUser   string
	FollowUpQuestion string
	SuggestedActions []any
	Strategy         string
}

// Strategy turns raw model text into text that may parse as a JSON object.
// Unwrap reports false when the strategy does not apply.
type Strategy struct {
	Name   string
	Unwrap func(raw string) (string, bool)
}

var fencePattern = regexp.MustCompile("(?s)```[A-Za-z]*[ \t]*\\r?\\n?(.*?)```")

// Strategies are tried in order; the first one that yields a valid
// candidate wins.
var Strategies = []Strategy{
	{Name: "raw", Unwrap: unwrapRaw},
	{Name: "fenced", Unwrap: unwrapFenced},
	{Name: "braces", Unwrap: unwrapBraces},
}

func unwrapRaw(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	return s, s != ""
}

func unwrapFenced(raw string) (string, bool) {
	m := fencePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	s := strings.TrimSpace(m[1])
	return s, s != ""
}

func unwrapBraces(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// Extract returns the first valid candidate produced by Strategies, or nil.
func Extract(raw string) *Candidate {
	for _, s := range Strategies {
		text, ok := s.Unwrap(raw)
		if !ok {
			continue
		}
		if c := parse(text); c != nil {
			c.Strategy = s.Name
			return c
		}
	}
	return nil
}

// parse validates that text is a JSON object carrying all four required keys.
func parse(text string) *Candidate {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil
	}

	mode, ok := nonEmptyString(obj["mode"])
	if !ok {
		return nil
	}
	message, ok := nonEmptyString(obj["message_for_user"])
	if !ok {
		return nil
	}
	followUp, ok := nonEmptyString(obj["follow_up_question"])
	if !ok {
		return nil
	}
	actions, ok := actionList(obj["suggested_actions"])
	if !ok {
		return nil
	}

	return &Candidate{
		Mode:             domain.ParseMode(mode),
		MessageForUser:   message,
		FollowUpQuestion: followUp,
		SuggestedActions: actions,
	}
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// actionList accepts an array (possibly empty) or a single non-empty string,
// which is promoted to a one-element list.
func actionList(v any) ([]any, bool) {
	switch a := v.(type) {
	case []any:
		return a, true
	case string:
		if strings.TrimSpace(a) == "" {
			return nil, false
		}
		return []any{a}, true
	default:
		return nil, false
	}
}
