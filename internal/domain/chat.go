// Package domain contains core domain types for the CalmCampus buddy server.
package domain

// Role values accepted in prompt messages and history entries.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MaxHistoryEntries is how many trailing history entries are sent to the model.
const MaxHistoryEntries = 8

// HistoryEntry is one prior conversation turn supplied by the client.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a buddy chat request. Domain payloads are
// pointers so an absent payload can be told apart from an empty one; each is
// read only when its consent flag is true.
type ChatRequest struct {
	Message      string          `json:"message" validate:"required"`
	History      []HistoryEntry  `json:"history,omitempty"`
	ConsentFlags map[string]bool `json:"consentFlags,omitempty"`

	Mood      *MoodData      `json:"mood,omitempty"`
	Timetable *TimetableData `json:"timetable,omitempty"`
	Tasks     *TasksData     `json:"tasks,omitempty"`
	Sleep     *SleepData     `json:"sleep,omitempty"`
	Contacts  *ContactsData  `json:"contacts,omitempty"`
	Profile   *ProfileData   `json:"profile,omitempty"`
	Period    *PeriodData    `json:"period,omitempty"`
	Movement  *MovementData  `json:"movement,omitempty"`
}

// Consented reports whether the client granted access to the named domain.
func (r *ChatRequest) Consented(flag string) bool {
	if r == nil || r.ConsentFlags == nil {
		return false
	}
	return r.ConsentFlags[flag]
}

// ConsentedContacts returns the contact records the pipeline may read.
// The slice is the caller's; it must not be modified.
func (r *ChatRequest) ConsentedContacts() []ContactRecord {
	if !r.Consented(ConsentContacts) || r.Contacts == nil {
		return nil
	}
	return r.Contacts.Top
}

// NormalizedHistory drops incomplete entries and keeps the last
// MaxHistoryEntries, preserving chronological order.
func (r *ChatRequest) NormalizedHistory() []HistoryEntry {
	if r == nil {
		return nil
	}
	out := make([]HistoryEntry, 0, len(r.History))
	for _, h := range r.History {
		if h.Role == "" || h.Content == "" {
			continue
		}
		out = append(out, h)
	}
	if len(out) > MaxHistoryEntries {
		out = out[len(out)-MaxHistoryEntries:]
	}
	return out
}

// PromptMessage is one entry of the model invocation payload.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
