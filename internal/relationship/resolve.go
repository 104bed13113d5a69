// Package relationship answers questions about the user's saved contacts
// from structured data, without asking the model.
package relationship

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Brian-C69/calm-campus/internal/domain"
)

// listedContactsCap bounds how many contacts the not-found answer lists.
const listedContactsCap = 3

// synonym maps a word-bounded pattern onto a canonical relationship label.
type synonym struct {
	canonical string
	re        *regexp.Regexp
}

var synonyms = compileSynonyms(map[string][]string{
	"mother":      {"mom", "mum", "mommy", "mother"},
	"father":      {"dad", "father"},
	"best friend": {"bff", "best friend", "bestie"},
	"sister":      {"sis", "sister"},
	"brother":     {"bro", "brother"},
	"partner":     {"partner", "boyfriend", "girlfriend"},
	"roommate":    {"roommate", "roomie"},
	"grandmother": {"grandma", "grandmother"},
	"grandfather": {"grandpa", "grandfather"},
})

// identityPhrases mark a message as a question about who someone is.
var identityPhrases = []string{
	"who is my",
	"who's my",
	"whos my",
	"who are my",
	"my contacts",
	"my support people",
}

// canonicalOrder fixes iteration order so matches are deterministic.
var canonicalOrder = []string{
	"mother", "father", "best friend", "sister", "brother",
	"partner", "roommate", "grandmother", "grandfather",
}

func compileSynonyms(table map[string][]string) []synonym {
	var out []synonym
	for _, canonical := range canonicalOrder {
		words := table[canonical]
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(w)
		}
		out = append(out, synonym{
			canonical: canonical,
			re:        regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
		})
	}
	return out
}

// Labels returns the canonical labels named in msg, in table order.
func Labels(msg string) []string {
	var labels []string
	for _, s := range matching(msg) {
		labels = append(labels, s.canonical)
	}
	return labels
}

func matching(msg string) []synonym {
	var out []synonym
	for _, s := range synonyms {
		if s.re.MatchString(msg) {
			out = append(out, s)
		}
	}
	return out
}

// IsQuery reports whether msg asks about a relationship or saved contacts.
func IsQuery(msg string) bool {
	if len(Labels(msg)) > 0 {
		return true
	}
	lower := strings.ToLower(msg)
	for _, p := range identityPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Resolve answers msg from the consented contacts. It returns nil only when
// there are no contacts, leaving the question to the model.
func Resolve(msg string, contacts []domain.ContactRecord) *domain.BuddyResponse {
	if len(contacts) == 0 {
		return nil
	}

	asked := matching(msg)
	for _, s := range asked {
		if matched := withRelationship(contacts, s); len(matched) > 0 {
			return found(s.canonical, matched)
		}
	}
	var labels []string
	for _, s := range asked {
		labels = append(labels, s.canonical)
	}
	return notFound(labels, contacts)
}

// withRelationship matches saved relationship labels with the same word
// boundaries as the question, so "mum" finds "Mother" but "mother" does not
// find "grandmother".
func withRelationship(contacts []domain.ContactRecord, s synonym) []domain.ContactRecord {
	var out []domain.ContactRecord
	for _, c := range contacts {
		if s.re.MatchString(c.Relationship) {
			out = append(out, c)
		}
	}
	return out
}

func found(label string, matched []domain.ContactRecord) *domain.BuddyResponse {
	names := make([]string, len(matched))
	for i, c := range matched {
		names[i] = displayName(c)
	}
	first := names[0]

	subject := label + " is"
	if len(names) > 1 {
		subject = label + "s are"
	}
	return &domain.BuddyResponse{
		Mode:             domain.ModeCheckIn,
		MessageForUser:   fmt.Sprintf("From what you've shared, your %s %s.", subject, joinNames(names)),
		FollowUpQuestion: fmt.Sprintf("Would it help to reach out to %s today?", first),
		SuggestedActions: []string{
			"Reach out to " + first,
			fmt.Sprintf("Send %s a short message about how you're doing", first),
		},
	}
}

func notFound(labels []string, contacts []domain.ContactRecord) *domain.BuddyResponse {
	listed := contacts
	if len(listed) > listedContactsCap {
		listed = listed[:listedContactsCap]
	}
	described := make([]string, len(listed))
	for i, c := range listed {
		described[i] = describe(c)
	}

	opening := "I don't have that relationship saved."
	if len(labels) > 0 {
		opening = fmt.Sprintf("I don't have your %s saved.", labels[0])
	}
	return &domain.BuddyResponse{
		Mode:             domain.ModeCheckIn,
		MessageForUser:   fmt.Sprintf("%s Here is who you've shared with me: %s.", opening, strings.Join(described, "; ")),
		FollowUpQuestion: "Would you like to add them to your contacts, or reach out to someone on this list?",
		SuggestedActions: []string{"Reach out to " + displayName(listed[0]), "Update your support contacts"},
	}
}

func displayName(c domain.ContactRecord) string {
	switch {
	case strings.TrimSpace(c.Name) != "":
		return strings.TrimSpace(c.Name)
	case strings.TrimSpace(c.Relationship) != "":
		return "your " + strings.TrimSpace(c.Relationship)
	default:
		return "a trusted contact"
	}
}

func describe(c domain.ContactRecord) string {
	name := displayName(c)
	if rel := strings.TrimSpace(c.Relationship); rel != "" && strings.TrimSpace(c.Name) != "" {
		return fmt.Sprintf("%s (%s)", name, rel)
	}
	return name
}

func joinNames(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
