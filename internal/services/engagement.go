package services

import "github.com/regrowhq/regrow-backend/internal/types"

// Engagement flags gate qualitative language hints in the UI. Each flag pairs
// an engagement-count floor with a score floor; none of them parse journal
// text and none are persisted.

func ComputeEngagementFlags(p *types.Profile) types.EngagementFlags {
	return types.EngagementFlags{
		PositiveLanguage: p.JournalEntriesCount >= 5 && p.ConsistencyScore >= 0.6,
		Gratitude:        p.JournalEntriesCount >= 10 && p.SelfCareScore >= 0.7,
		Strength:         p.JournalEntriesCount >= 15 && p.EmotionalStabilityScore >= 0.6,
		SelfCompassion:   p.TotalChatSessions >= 5 && p.SelfCareScore >= 0.6,
		GrowthMindset:    p.JournalEntriesCount >= 20 && p.ConsistencyScore >= 0.7,
	}
}
