package contextpack

import (
	"strings"
	"unicode/utf8"

	"github.com/Brian-C69/calm-campus/internal/domain"
)

// Tone and style hints appended after the domain lines.
const (
	toneGentle   = "be extra gentle"
	toneSteady   = "steady and practical"
	toneMomentum = "support momentum"
	styleCompact = "compact and structured"
	styleBrief   = "brief and warm"
)

var (
	lowMoodWords      = []string{"low", "anxious", "sad", "stressed", "down", "overwhelmed", "tired", "lonely"}
	neutralMoodWords  = []string{"neutral", "okay", "ok", "fine", "meh", "mixed"}
	positiveMoodWords = []string{"good", "happy", "great", "positive", "calm", "energized", "better"}
)

// toneHint derives a tone hint from the mood summary. Low signals win over
// neutral, neutral over positive, so "not great, pretty low" reads as low.
func toneHint(req *domain.ChatRequest) string {
	if !req.Consented(domain.ConsentMood) || req.Mood == nil {
		return ""
	}
	words := strings.FieldsFunc(strings.ToLower(req.Mood.Summary), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	has := func(set []string) bool {
		for _, w := range words {
			for _, s := range set {
				if w == s {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has(lowMoodWords):
		return toneGentle
	case has(neutralMoodWords):
		return toneSteady
	case has(positiveMoodWords):
		return toneMomentum
	default:
		return ""
	}
}

// styleHint derives a reply style from the length of the latest user turn.
func styleHint(history []domain.HistoryEntry) string {
	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		if h.Role != domain.RoleUser || h.Content == "" {
			continue
		}
		n := utf8.RuneCountInString(strings.TrimSpace(h.Content))
		switch {
		case n > longMessageRunes:
			return styleCompact
		case n < shortMessageRunes:
			return styleBrief
		default:
			return ""
		}
	}
	return ""
}
