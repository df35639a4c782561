package types

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DayLayout is the canonical encoding for calendar days in the activity log.
const DayLayout = "2006-01-02"

// ActivityLogRetentionDays bounds how many calendar days the activity log
// keeps. Older entries are trimmed on write.
const ActivityLogRetentionDays = 90

type GrowthStage string

const (
	StageSeed    GrowthStage = "seed"
	StageSprout  GrowthStage = "sprout"
	StageSapling GrowthStage = "sapling"
	StageTree    GrowthStage = "tree"
	StageBloom   GrowthStage = "bloom"
)

var stageRank = map[GrowthStage]int{
	StageSeed:    0,
	StageSprout:  1,
	StageSapling: 2,
	StageTree:    3,
	StageBloom:   4,
}

// Rank orders stages for monotonicity checks. Unknown stages rank below seed.
func (s GrowthStage) Rank() int {
	if r, ok := stageRank[s]; ok {
		return r
	}
	return -1
}

func (s GrowthStage) Valid() bool {
	_, ok := stageRank[s]
	return ok
}

// Profile is the single durable record per installation. It is created at
// onboarding completion, mutated only through the profile service, and
// deleted only by an explicit full erase.
type Profile struct {
	ID                      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StartDate               time.Time      `gorm:"not null;column:start_date" json:"start_date"`
	NoContactStartDate      time.Time      `gorm:"not null;column:no_contact_start_date" json:"no_contact_start_date"`
	JournalEntriesCount     int            `gorm:"not null;default:0;column:journal_entries_count" json:"journal_entries_count"`
	TotalChatSessions       int            `gorm:"not null;default:0;column:total_chat_sessions" json:"total_chat_sessions"`
	ChatSessionsToday       int            `gorm:"not null;default:0;column:chat_sessions_today" json:"chat_sessions_today"`
	LastChatSessionDate     *time.Time     `gorm:"column:last_chat_session_date" json:"last_chat_session_date,omitempty"`
	AppOpenedToday          int            `gorm:"not null;default:0;column:app_opened_today" json:"app_opened_today"`
	LastActiveDate          *time.Time     `gorm:"column:last_active_date" json:"last_active_date,omitempty"`
	DailyActivityLog        datatypes.JSON `gorm:"column:daily_activity_log" json:"daily_activity_log"`
	UnlockedAchievementIDs  datatypes.JSON `gorm:"column:unlocked_achievement_ids" json:"unlocked_achievement_ids"`
	AchievedMilestoneIDs    datatypes.JSON `gorm:"column:achieved_milestone_ids" json:"achieved_milestone_ids"`
	CurrentGrowthStage      GrowthStage    `gorm:"not null;default:seed;column:current_growth_stage" json:"current_growth_stage"`
	ConsistencyScore        float64        `gorm:"not null;default:0;column:consistency_score" json:"consistency_score"`
	SelfCareScore           float64        `gorm:"not null;default:0;column:self_care_score" json:"self_care_score"`
	EmotionalStabilityScore float64        `gorm:"not null;default:0;column:emotional_stability_score" json:"emotional_stability_score"`
	CreatedAt               time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string { return "profile" }

// ActivityDays decodes the activity log into day-truncated UTC times,
// deduplicated and sorted ascending. Malformed entries are dropped.
func (p *Profile) ActivityDays() []time.Time {
	var raw []string
	if len(p.DailyActivityLog) > 0 {
		_ = json.Unmarshal(p.DailyActivityLog, &raw)
	}
	seen := make(map[string]struct{}, len(raw))
	days := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		if _, dup := seen[s]; dup {
			continue
		}
		d, err := time.ParseInLocation(DayLayout, s, time.UTC)
		if err != nil {
			continue
		}
		seen[s] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// SetActivityDays re-encodes the activity log, deduplicated, sorted
// ascending, and trimmed to the retention window's most recent entries.
func (p *Profile) SetActivityDays(days []time.Time) error {
	seen := make(map[string]struct{}, len(days))
	keys := make([]string, 0, len(days))
	for _, d := range days {
		k := d.UTC().Format(DayLayout)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > ActivityLogRetentionDays {
		keys = keys[len(keys)-ActivityLogRetentionDays:]
	}
	raw, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	p.DailyActivityLog = datatypes.JSON(raw)
	return nil
}

// AchievementIDs decodes the unlocked-achievement set in insertion order.
func (p *Profile) AchievementIDs() []string {
	return decodeIDs(p.UnlockedAchievementIDs)
}

// HasAchievement reports whether id is already unlocked.
func (p *Profile) HasAchievement(id string) bool {
	return containsID(p.AchievementIDs(), id)
}

// AddAchievement appends id, ignoring duplicates.
func (p *Profile) AddAchievement(id string) error {
	ids, changed := appendID(p.AchievementIDs(), id)
	if !changed {
		return nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	p.UnlockedAchievementIDs = datatypes.JSON(raw)
	return nil
}

// MilestoneIDs decodes the achieved-milestone set in insertion order.
func (p *Profile) MilestoneIDs() []string {
	return decodeIDs(p.AchievedMilestoneIDs)
}

// HasMilestone reports whether id is already achieved.
func (p *Profile) HasMilestone(id string) bool {
	return containsID(p.MilestoneIDs(), id)
}

// AddMilestone appends id, ignoring duplicates.
func (p *Profile) AddMilestone(id string) error {
	ids, changed := appendID(p.MilestoneIDs(), id)
	if !changed {
		return nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	p.AchievedMilestoneIDs = datatypes.JSON(raw)
	return nil
}

// AdvanceGrowthStage moves to stage only when it is the immediate next
// stage. The stage never regresses and never skips.
func (p *Profile) AdvanceGrowthStage(stage GrowthStage) bool {
	if !stage.Valid() {
		return false
	}
	if stage.Rank() != p.CurrentGrowthStage.Rank()+1 {
		return false
	}
	p.CurrentGrowthStage = stage
	return true
}

func decodeIDs(raw datatypes.JSON) []string {
	var ids []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &ids)
	}
	out := ids[:0]
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func appendID(ids []string, id string) ([]string, bool) {
	if containsID(ids, id) {
		return ids, false
	}
	return append(ids, id), true
}
