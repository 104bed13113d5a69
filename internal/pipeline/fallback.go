package pipeline

import "github.com/Brian-C69/calm-campus/internal/domain"

// genericFallback is the canned reply used when neither the model nor the
// relationship resolver produced an answer.
func genericFallback(crisis bool) domain.BuddyResponse {
	if crisis {
		return domain.BuddyResponse{
			Mode:             domain.ModeSupport,
			MessageForUser:   "I care about your safety. Please reach out to someone you trust or a local crisis line right now.",
			FollowUpQuestion: "Can you contact a friend, family member, or helpline right now?",
			SuggestedActions: []string{
				"Contact a trusted person",
				"Call a local crisis line",
				"Take slow breaths and move to a safe space",
			},
		}
	}
	return domain.BuddyResponse{
		Mode:             domain.ModeSupport,
		MessageForUser:   "Sorry, I had trouble reaching the buddy right now. Want to try again in a moment?",
		FollowUpQuestion: "What else would you like help with?",
		SuggestedActions: []string{
			"Retry in a few seconds",
			"Share one small thing stressing you right now",
		},
	}
}
