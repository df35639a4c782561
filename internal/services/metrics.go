package services

import (
	"math"
	"time"

	"github.com/regrowhq/regrow-backend/internal/types"
)

// Pure calculator over the profile record. Scores are recomputed and cached
// on the record by every mutating operation; nothing here reads or writes
// storage.

// HealingDays returns the whole 24-hour periods elapsed since the no-contact
// anchor, floored at 1 so rate divisions are always defined.
func HealingDays(noContactStart, now time.Time) int {
	days := int(now.Sub(noContactStart).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// DayOf truncates t to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// ActiveDaysInWindow counts distinct activity days inside the healing window
// [today − windowDays, today].
func ActiveDaysInWindow(activityDays []time.Time, windowDays int, now time.Time) int {
	today := DayOf(now)
	windowStart := today.AddDate(0, 0, -windowDays)
	seen := make(map[time.Time]struct{}, len(activityDays))
	for _, d := range activityDays {
		day := DayOf(d)
		if day.Before(windowStart) || day.After(today) {
			continue
		}
		seen[day] = struct{}{}
	}
	return len(seen)
}

// Streak counts consecutive activity days ending at today or yesterday. A
// single missed day (today) keeps the run alive; a two-day gap breaks it.
func Streak(activityDays []time.Time, now time.Time) int {
	present := make(map[time.Time]struct{}, len(activityDays))
	for _, d := range activityDays {
		present[DayOf(d)] = struct{}{}
	}

	today := DayOf(now)
	yesterday := today.AddDate(0, 0, -1)

	var anchor time.Time
	if _, ok := present[today]; ok {
		anchor = today
	} else if _, ok := present[yesterday]; ok {
		anchor = yesterday
	} else {
		return 0
	}

	streak := 1
	for cur := anchor.AddDate(0, 0, -1); ; cur = cur.AddDate(0, 0, -1) {
		if _, ok := present[cur]; !ok {
			break
		}
		streak++
	}
	// The seed day is an anchor, not a counted interval.
	return streak - 1
}

// ConsistencyScore blends journaling rate, app-usage rate inside the healing
// window, and a diminishing persistence bonus. Result is clamped to [0, 1].
func ConsistencyScore(p *types.Profile, now time.Time) float64 {
	days := HealingDays(p.NoContactStartDate, now)

	journalRate := float64(p.JournalEntriesCount) / float64(days)
	journal := clamp(0, 0.4, 0.4*math.Min(1, journalRate*3.0))

	active := ActiveDaysInWindow(p.ActivityDays(), days, now)
	usage := clamp(0, 0.3, 0.5*(float64(active)/float64(days)))

	persistence := math.Min(0.3, 0.3*math.Sqrt(float64(days))/30.0)

	return clamp01(journal + usage + persistence)
}

// SelfCareScore blends chat engagement, journaling, and achievement progress.
// Result is clamped to [0, 1].
func SelfCareScore(p *types.Profile, now time.Time) float64 {
	days := HealingDays(p.NoContactStartDate, now)

	chat := clamp(0, 0.4, 2.0*(float64(p.TotalChatSessions)/float64(days)))
	journal := clamp(0, 0.3, 5.0*(float64(p.JournalEntriesCount)/float64(days)))
	achievements := clamp(0, 0.3, 0.4*(float64(len(p.AchievementIDs()))/20.0))

	return clamp01(chat + journal + achievements)
}

// EmotionalStabilityScore combines a saturating time component with the two
// engagement scores. Callers pass freshly computed consistency and self-care
// values so the cached record never feeds stale inputs into itself.
func EmotionalStabilityScore(p *types.Profile, now time.Time, consistency, selfCare float64) float64 {
	days := HealingDays(p.NoContactStartDate, now)
	timePart := math.Min(0.5, 0.3+0.005*float64(days))
	return clamp01(timePart + 0.25*consistency + 0.25*selfCare)
}

// RecomputeScores refreshes all three cached scores on the record.
func RecomputeScores(p *types.Profile, now time.Time) {
	consistency := ConsistencyScore(p, now)
	selfCare := SelfCareScore(p, now)
	p.ConsistencyScore = consistency
	p.SelfCareScore = selfCare
	p.EmotionalStabilityScore = EmotionalStabilityScore(p, now, consistency, selfCare)
}

// RecomputeScoresAfterChat refreshes self-care and emotional stability only.
// Chat activity does not feed consistency, so the cached consistency score is
// reused as-is.
func RecomputeScoresAfterChat(p *types.Profile, now time.Time) {
	selfCare := SelfCareScore(p, now)
	p.SelfCareScore = selfCare
	p.EmotionalStabilityScore = EmotionalStabilityScore(p, now, p.ConsistencyScore, selfCare)
}

func clamp(min, max, v float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(0, 1, v)
}
