package types

import "time"

// Progress is the derived read model handed to the UI. All values come from
// the profile record; nothing here is persisted separately.
type Progress struct {
	HealingDays             int             `json:"healing_days"`
	CurrentStreak           int             `json:"current_streak"`
	ActiveDaysInWindow      int             `json:"active_days_in_window"`
	ConsistencyScore        float64         `json:"consistency_score"`
	SelfCareScore           float64         `json:"self_care_score"`
	EmotionalStabilityScore float64         `json:"emotional_stability_score"`
	CurrentGrowthStage      GrowthStage     `json:"current_growth_stage"`
	UnlockedAchievementIDs  []string        `json:"unlocked_achievement_ids"`
	AchievedMilestoneIDs    []string        `json:"achieved_milestone_ids"`
	EngagementFlags         EngagementFlags `json:"engagement_flags"`
}

// EngagementFlags are computed-on-demand booleans gating qualitative hints in
// the UI. They are never persisted.
type EngagementFlags struct {
	PositiveLanguage bool `json:"positive_language"`
	Gratitude        bool `json:"gratitude"`
	Strength         bool `json:"strength"`
	SelfCompassion   bool `json:"self_compassion"`
	GrowthMindset    bool `json:"growth_mindset"`
}

// MilestoneUnlock describes a single newly achieved milestone, surfaced for
// celebratory UI.
type MilestoneUnlock struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	AfterDuration string      `json:"after_duration"`
	Stage         GrowthStage `json:"stage,omitempty"`
	StageAdvanced bool        `json:"stage_advanced"`
}

// Snapshot is the full-state export: the raw record plus the derived values
// at export time.
type Snapshot struct {
	ExportedAt time.Time `json:"exported_at"`
	Profile    *Profile  `json:"profile"`
	Progress   Progress  `json:"progress"`
}
