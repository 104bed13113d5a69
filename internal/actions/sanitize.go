// Package actions enforces output-side policy on suggested actions.
package actions

import (
	"strings"
	"unicode/utf8"

	"github.com/Brian-C69/calm-campus/internal/domain"
)

const (
	// MaxActionRunes bounds the length of a single action.
	MaxActionRunes = 120

	// CrisisAction is seeded when a crisis reply carries no help-seeking action.
	CrisisAction = "Reach out to a trusted person or hotline right now."

	reachOutPrefix = "Reach out to "
)

// helpSeekingPhrases mark an action as pointing the user at real people or
// services.
var helpSeekingPhrases = []string{
	"reach out",
	"contact",
	" call ",
	"hotline",
	"helpline",
	"crisis line",
	"talk to",
	"counsel",
	"trusted",
	"emergency",
}

// Options carries the request facts the sanitizer needs.
type Options struct {
	Crisis       bool
	ContactNames []string
}

// Sanitize normalizes raw model actions into at most domain.MaxSuggestedActions
// strings. Applying it to its own output returns the same list.
func Sanitize(raw []any, opts Options) []string {
	out := make([]string, 0, domain.MaxSuggestedActions)
	seen := make(map[string]struct{}, len(raw))

	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = truncate(strings.TrimSpace(s), MaxActionRunes)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
		if len(out) == domain.MaxSuggestedActions {
			break
		}
	}

	names := cleanNames(opts.ContactNames)
	if len(names) > 0 && !mentionsAny(out, names) {
		if name, ok := synthesizableName(names); ok {
			out = place(out, reachOutPrefix+name, nil)
		}
	}

	// The crisis action must not evict the contact mention, or the next pass
	// would put it back.
	if opts.Crisis && !anyHelpSeeking(out) {
		out = place(out, CrisisAction, func(a string) bool { return mentionsAny([]string{a}, names) })
	}

	return out
}

// FromStrings is Sanitize for an already typed list.
func FromStrings(actions []string, opts Options) []string {
	raw := make([]any, len(actions))
	for i, a := range actions {
		raw[i] = a
	}
	return Sanitize(raw, opts)
}

// IsHelpSeeking reports whether action points the user towards help.
func IsHelpSeeking(action string) bool {
	lower := " " + strings.ToLower(action) + " "
	for _, p := range helpSeekingPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func anyHelpSeeking(actions []string) bool {
	for _, a := range actions {
		if IsHelpSeeking(a) {
			return true
		}
	}
	return false
}

// place appends action. When the list is full it takes the last slot that
// keep does not protect, or the last slot if every one is protected.
func place(actions []string, action string, keep func(string) bool) []string {
	if len(actions) < domain.MaxSuggestedActions {
		return append(actions, action)
	}
	slot := len(actions) - 1
	if keep != nil {
		for i := len(actions) - 1; i >= 0; i-- {
			if !keep(actions[i]) {
				slot = i
				break
			}
		}
	}
	actions[slot] = action
	return actions
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func mentionsAny(actions, names []string) bool {
	for _, a := range actions {
		lower := strings.ToLower(a)
		for _, n := range names {
			if strings.Contains(lower, strings.ToLower(n)) {
				return true
			}
		}
	}
	return false
}

// synthesizableName returns the first name whose reach-out action fits
// without truncation, so the action still mentions it on a second pass.
func synthesizableName(names []string) (string, bool) {
	limit := MaxActionRunes - utf8.RuneCountInString(reachOutPrefix)
	for _, n := range names {
		if utf8.RuneCountInString(n) <= limit {
			return n, true
		}
	}
	return "", false
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
