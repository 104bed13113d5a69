package domain

// Consent flag names as sent by the mobile client.
const (
	ConsentMood      = "mood"
	ConsentTimetable = "timetable"
	ConsentTasks     = "tasks"
	ConsentSleep     = "sleep"
	ConsentContacts  = "contacts"
	ConsentProfile   = "profile"
	ConsentPeriod    = "period"
	ConsentMovement  = "movement"
)

// MoodData summarizes recent mood check-ins.
type MoodData struct {
	Summary     string   `json:"summary,omitempty"`
	RecentNotes []string `json:"recentNotes,omitempty"`
}

// ClassEntry is a single timetable slot. Older clients send subject/startTime
// instead of title/time.
type ClassEntry struct {
	Title     string `json:"title,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Time      string `json:"time,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	Location  string `json:"location,omitempty"`
}

// TimetableData holds today's classes and the upcoming ones.
type TimetableData struct {
	Today []ClassEntry `json:"today,omitempty"`
	Next  []ClassEntry `json:"next,omitempty"`
}

// TaskEntry is a pending study task.
type TaskEntry struct {
	Title    string     `json:"title,omitempty"`
	Due      string     `json:"due,omitempty"`
	Priority FlexString `json:"priority,omitempty"`
}

// TasksData holds the pending task list, most urgent first.
type TasksData struct {
	Pending []TaskEntry `json:"pending,omitempty"`
}

// SleepData holds sleep log summaries.
type SleepData struct {
	RecentAverage string `json:"recentAverage,omitempty"`
	LastNight     string `json:"lastNight,omitempty"`
}

// ContactRecord is a trusted contact the user saved in the app.
type ContactRecord struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	ContactType  string `json:"contactType,omitempty"`
}

// ContactsData holds the user's top support contacts.
type ContactsData struct {
	Top []ContactRecord `json:"top,omitempty"`
}

// ProfileData holds the user's self-described profile.
type ProfileData struct {
	Nickname string     `json:"nickname,omitempty"`
	Course   string     `json:"course,omitempty"`
	Year     FlexString `json:"year,omitempty"`
}

// PeriodData holds cycle tracking summaries.
type PeriodData struct {
	Summary         string `json:"summary,omitempty"`
	NextPeriodHint  string `json:"nextPeriodHint,omitempty"`
	OvulationWindow string `json:"ovulationWindow,omitempty"`
}

// MovementData holds activity summaries.
type MovementData struct {
	RecentSummary string `json:"recentSummary,omitempty"`
	EnergyNotes   string `json:"energyNotes,omitempty"`
}
