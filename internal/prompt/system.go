// Package prompt composes the instructions and message sequence sent to the
// model.
package prompt

import (
	"strings"

	"github.com/Brian-C69/calm-campus/internal/domain"
	"github.com/Brian-C69/calm-campus/internal/policy"
)

// identityInstructions names the assistant and pins its self-description.
const identityInstructions = `You are CalmCampus Buddy, a gentle university wellbeing and study assistant. You are Bernard's Well Being LLM.
If asked what model or AI you are, clearly state: "I'm Bernard's Well Being LLM, running locally for CalmCampus." Do not claim to be from Google, OpenAI or any other provider.`

// scopeInstructions lists what the buddy must not do.
const scopeInstructions = `You are not a doctor. Do not provide diagnosis, medication, or diet/weight advice. Use body-neutral language. You may discuss period/cycle patterns gently (non-clinical, no contraception or medical claims).
Safety first: if the user hints at crisis, stay calm, urge contacting real humans or hotlines, and keep responses short and kind.
Academic scope: you do NOT provide homework or assignment answers or tutor-style solutions. If asked for that, gently redirect to tutors, lecturers, or study resources and keep the focus on wellbeing and planning.
No hidden alerts or secret reporting. If a data domain is not consented, ignore it.`

// outputSchema is the only place the response shape is requested from the
// model. Compliance is checked by the extract package.
const outputSchema = `Respond in JSON only, with exactly these keys:
- mode: one of "check_in", "support", "study_planner"
- message_for_user: string
- follow_up_question: string
- suggested_actions: array of up to 5 short strings
No prose outside the JSON object. No code fences.`

// Conditional directives.
const (
	CrisisDirective     = "Crisis flag true: prioritize safety. Include at least one suggested action to contact a trusted person, counselor or hotline."
	RestrictedDirective = "Restricted topic: the user is asking about diet, calories or weight. Do not give numbers, plans or targets. Gently redirect to regular meals, rest, body-neutral self-care and campus health services."
	ToneDirective       = "Keep tone warm and practical; 3-5 sentences max."
)

// BuildSystem returns the system instruction for a request classified as
// flags. The fixed preamble always comes first.
func BuildSystem(flags policy.Flags) string {
	sections := []string{identityInstructions, scopeInstructions, outputSchema}

	if flags.Crisis {
		sections = append(sections, CrisisDirective)
	}
	if flags.RestrictedTopic {
		sections = append(sections, RestrictedDirective)
	}
	if !flags.Crisis && !flags.RestrictedTopic {
		sections = append(sections, ToneDirective)
	}

	return strings.Join(sections, "\n\n")
}

// BuildMessages returns the invocation payload: the system message, the
// normalized history, then the user turn carrying the context block.
func BuildMessages(system, context string, history []domain.HistoryEntry, message string) []domain.PromptMessage {
	msgs := make([]domain.PromptMessage, 0, len(history)+2)
	msgs = append(msgs, domain.PromptMessage{Role: domain.RoleSystem, Content: system})

	for _, h := range history {
		// Only one system message is allowed and it is ours.
		if h.Role != domain.RoleUser && h.Role != domain.RoleAssistant {
			continue
		}
		msgs = append(msgs, domain.PromptMessage{Role: h.Role, Content: h.Content})
	}

	msgs = append(msgs, domain.PromptMessage{Role: domain.RoleUser, Content: UserTurn(context, message)})
	return msgs
}

// UserTurn formats the final user message.
func UserTurn(context, message string) string {
	if context == "" {
		return "User: " + message
	}
	return context + "\n\nUser: " + message
}
