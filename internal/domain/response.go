package domain

// Mode is the conversational mode the buddy answers in.
type Mode string

const (
	// ModeCheckIn is a light wellbeing check-in.
	ModeCheckIn Mode = "check_in"
	// ModeSupport is emotional support, also used for every fallback.
	ModeSupport Mode = "support"
	// ModeStudyPlanner is study and schedule planning.
	ModeStudyPlanner Mode = "study_planner"
)

// MaxSuggestedActions caps the suggested action list.
const MaxSuggestedActions = 5

// ParseMode maps a model-supplied mode onto a known Mode. Unknown values
// fall back to ModeSupport.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeCheckIn, ModeSupport, ModeStudyPlanner:
		return Mode(s)
	default:
		return ModeSupport
	}
}

// BuddyResponse is the structured reply returned to the app.
type BuddyResponse struct {
	Mode             Mode     `json:"mode"`
	MessageForUser   string   `json:"message_for_user"`
	FollowUpQuestion string   `json:"follow_up_question"`
	SuggestedActions []string `json:"suggested_actions"`
	Error            string   `json:"error,omitempty"`
}

// Complete reports whether all four required fields are populated.
func (r *BuddyResponse) Complete() bool {
	return r != nil &&
		r.Mode != "" &&
		r.MessageForUser != "" &&
		r.FollowUpQuestion != "" &&
		r.SuggestedActions != nil
}
