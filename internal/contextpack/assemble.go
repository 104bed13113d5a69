// Package contextpack builds the consent-gated context block that is sent to
// the model alongside the user's message.
package contextpack

import (
	"fmt"
	"strings"
	"time"

	"github.com/Brian-C69/calm-campus/internal/domain"
)

// Per-domain caps.
const (
	moodNotesCap      = 3
	nextClassesCap    = 2
	tasksCap          = 5
	contactsCap       = 3
	longMessageRunes  = 280
	shortMessageRunes = 40
)

// section describes one personal-data domain. format returns zero or more
// lines and is only called when the consent flag is set.
type section struct {
	name   string
	flag   string
	format func(req *domain.ChatRequest) []string
}

// sections is ordered by prompt priority. Time and hints are handled by
// Assemble because they are derived, not read from a single domain.
var sections = []section{
	{name: "mood", flag: domain.ConsentMood, format: formatMood},
	{name: "profile", flag: domain.ConsentProfile, format: formatProfile},
	{name: "timetable", flag: domain.ConsentTimetable, format: formatTimetable},
	{name: "tasks", flag: domain.ConsentTasks, format: formatTasks},
	{name: "sleep", flag: domain.ConsentSleep, format: formatSleep},
	{name: "cycle", flag: domain.ConsentPeriod, format: formatPeriod},
	{name: "movement", flag: domain.ConsentMovement, format: formatMovement},
	{name: "contacts", flag: domain.ConsentContacts, format: formatContacts},
}

// Assemble returns the context block for req, or "" when no consented domain
// produced a line. now is the user's local time.
func Assemble(req *domain.ChatRequest, now time.Time) string {
	if req == nil {
		return ""
	}

	var lines []string
	for _, s := range sections {
		if !req.Consented(s.flag) {
			continue
		}
		lines = append(lines, s.format(req)...)
	}
	if len(lines) == 0 {
		return ""
	}

	out := make([]string, 0, len(lines)+3)
	out = append(out, "Local time: "+now.Format("Monday 15:04"))
	out = append(out, lines...)
	if hint := toneHint(req); hint != "" {
		out = append(out, "Tone hint: "+hint)
	}
	if hint := styleHint(req.History); hint != "" {
		out = append(out, "Style hint: "+hint)
	}

	return "Context:\n- " + strings.Join(out, "\n- ")
}

// Included returns the names of the domains that contribute at least one
// line for req, in prompt order.
func Included(req *domain.ChatRequest) []string {
	if req == nil {
		return nil
	}
	var names []string
	for _, s := range sections {
		if req.Consented(s.flag) && len(s.format(req)) > 0 {
			names = append(names, s.name)
		}
	}
	return names
}

func formatMood(req *domain.ChatRequest) []string {
	m := req.Mood
	if m == nil {
		return nil
	}
	var lines []string
	if s := strings.TrimSpace(m.Summary); s != "" {
		lines = append(lines, "Mood: "+s)
	}
	if notes := nonEmpty(m.RecentNotes); len(notes) > 0 {
		lines = append(lines, "Mood notes: "+strings.Join(capSlice(notes, moodNotesCap), " | "))
	}
	return lines
}

func formatProfile(req *domain.ChatRequest) []string {
	p := req.Profile
	if p == nil {
		return nil
	}
	var parts []string
	if p.Nickname != "" {
		parts = append(parts, "Name: "+p.Nickname)
	}
	if p.Course != "" {
		parts = append(parts, "Course: "+p.Course)
	}
	if p.Year != "" {
		parts = append(parts, "Year: "+p.Year.String())
	}
	if len(parts) == 0 {
		return nil
	}
	return []string{"Profile: " + strings.Join(parts, ", ")}
}

func formatTimetable(req *domain.ChatRequest) []string {
	t := req.Timetable
	if t == nil {
		return nil
	}
	var lines []string
	if len(t.Today) > 0 {
		lines = append(lines, "Today classes: "+joinClasses(t.Today))
	}
	if len(t.Next) > 0 {
		lines = append(lines, "Next classes: "+joinClasses(capSlice(t.Next, nextClassesCap)))
	}
	return lines
}

func joinClasses(entries []domain.ClassEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = formatClass(e)
	}
	return strings.Join(parts, " ; ")
}

func formatClass(e domain.ClassEntry) string {
	title := firstNonEmpty(e.Title, e.Subject, "Class")
	at := firstNonEmpty(e.Time, e.StartTime)
	s := title + " @ " + at
	if e.Location != "" {
		s += " (" + e.Location + ")"
	}
	return strings.TrimSpace(s)
}

func formatTasks(req *domain.ChatRequest) []string {
	t := req.Tasks
	if t == nil || len(t.Pending) == 0 {
		return nil
	}
	pending := capSlice(t.Pending, tasksCap)
	parts := make([]string, len(pending))
	for i, task := range pending {
		p := []string{firstNonEmpty(task.Title, "Task")}
		if task.Due != "" {
			p = append(p, "due "+task.Due)
		}
		if task.Priority != "" {
			p = append(p, "p"+task.Priority.String())
		}
		parts[i] = strings.Join(p, " ")
	}
	return []string{"Top tasks: " + strings.Join(parts, " ; ")}
}

func formatSleep(req *domain.ChatRequest) []string {
	s := req.Sleep
	if s == nil {
		return nil
	}
	var lines []string
	if s.RecentAverage != "" {
		lines = append(lines, "Sleep avg: "+s.RecentAverage)
	}
	if s.LastNight != "" {
		lines = append(lines, "Last night: "+s.LastNight)
	}
	return lines
}

func formatPeriod(req *domain.ChatRequest) []string {
	p := req.Period
	if p == nil {
		return nil
	}
	var lines []string
	if p.Summary != "" {
		lines = append(lines, "Cycle summary: "+p.Summary)
	}
	if p.NextPeriodHint != "" {
		lines = append(lines, "Next period: "+p.NextPeriodHint)
	}
	if p.OvulationWindow != "" {
		lines = append(lines, "Ovulation window: "+p.OvulationWindow)
	}
	return lines
}

func formatMovement(req *domain.ChatRequest) []string {
	m := req.Movement
	if m == nil {
		return nil
	}
	var lines []string
	if m.RecentSummary != "" {
		lines = append(lines, "Movement: "+m.RecentSummary)
	}
	if m.EnergyNotes != "" {
		lines = append(lines, "Energy: "+m.EnergyNotes)
	}
	return lines
}

func formatContacts(req *domain.ChatRequest) []string {
	c := req.Contacts
	if c == nil || len(c.Top) == 0 {
		return nil
	}
	top := capSlice(c.Top, contactsCap)
	parts := make([]string, len(top))
	for i, contact := range top {
		parts[i] = formatContact(contact)
	}
	return []string{"Support contacts: " + strings.Join(parts, " ; ")}
}

func formatContact(c domain.ContactRecord) string {
	switch {
	case c.Name != "" && c.Relationship != "":
		return fmt.Sprintf("%s (%s)", c.Name, c.Relationship)
	default:
		return firstNonEmpty(c.Name, c.Relationship, "contact")
	}
}

func capSlice[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
