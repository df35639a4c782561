package services

import (
	"math"
	"testing"
	"time"

	"github.com/regrowhq/regrow-backend/internal/types"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func dayAgo(n int) time.Time {
	return DayOf(testNow).AddDate(0, 0, -n)
}

func profileWith(journal, chats int, noContactDaysAgo int, activity []time.Time) *types.Profile {
	p := &types.Profile{
		StartDate:           testNow.Add(-time.Duration(noContactDaysAgo) * 24 * time.Hour),
		NoContactStartDate:  testNow.Add(-time.Duration(noContactDaysAgo) * 24 * time.Hour),
		JournalEntriesCount: journal,
		TotalChatSessions:   chats,
		CurrentGrowthStage:  types.StageSeed,
	}
	if err := p.SetActivityDays(activity); err != nil {
		panic(err)
	}
	return p
}

func TestHealingDaysFloorsAtOne(t *testing.T) {
	if got := HealingDays(testNow, testNow); got != 1 {
		t.Fatalf("healing days at zero elapsed: want=1 got=%d", got)
	}
	if got := HealingDays(testNow.Add(-6*time.Hour), testNow); got != 1 {
		t.Fatalf("healing days under a day: want=1 got=%d", got)
	}
	if got := HealingDays(testNow.Add(-10*24*time.Hour), testNow); got != 10 {
		t.Fatalf("healing days at 10 days: want=10 got=%d", got)
	}
}

func TestStreakTodayYesterdayDayBefore(t *testing.T) {
	log := []time.Time{dayAgo(0), dayAgo(1), dayAgo(2)}
	if got := Streak(log, testNow); got != 2 {
		t.Fatalf("streak {today,yesterday,day-before}: want=2 got=%d", got)
	}
}

func TestStreakTodayOnly(t *testing.T) {
	if got := Streak([]time.Time{dayAgo(0)}, testNow); got != 0 {
		t.Fatalf("streak {today}: want=0 got=%d", got)
	}
}

func TestStreakYesterdayGrace(t *testing.T) {
	log := []time.Time{dayAgo(1), dayAgo(2)}
	if got := Streak(log, testNow); got != 1 {
		t.Fatalf("streak {yesterday,day-before}: want=1 got=%d", got)
	}
}

func TestStreakBrokenAfterTwoDayGap(t *testing.T) {
	log := []time.Time{dayAgo(2), dayAgo(3), dayAgo(4)}
	if got := Streak(log, testNow); got != 0 {
		t.Fatalf("streak with 2-day gap: want=0 got=%d", got)
	}
}

func TestStreakEmptyLog(t *testing.T) {
	if got := Streak(nil, testNow); got != 0 {
		t.Fatalf("streak of empty log: want=0 got=%d", got)
	}
}

func TestStreakIgnoresGapBeyondRun(t *testing.T) {
	// A run of 4 ending today, plus stale activity past a gap.
	log := []time.Time{dayAgo(0), dayAgo(1), dayAgo(2), dayAgo(3), dayAgo(10), dayAgo(11)}
	if got := Streak(log, testNow); got != 3 {
		t.Fatalf("streak with stale tail: want=3 got=%d", got)
	}
}

func TestActiveDaysInWindowExcludesOlderEntries(t *testing.T) {
	log := []time.Time{dayAgo(0), dayAgo(1), dayAgo(5), dayAgo(20)}
	if got := ActiveDaysInWindow(log, 10, testNow); got != 3 {
		t.Fatalf("active days in 10-day window: want=3 got=%d", got)
	}
}

func TestConsistencyScoreWorkedExample(t *testing.T) {
	// 10 healing days, 5 journal entries, activity on the last 6 days.
	activity := []time.Time{dayAgo(0), dayAgo(1), dayAgo(2), dayAgo(3), dayAgo(4), dayAgo(5)}
	p := profileWith(5, 2, 10, activity)

	got := ConsistencyScore(p, testNow)
	want := 0.4 + 0.3 + 0.3*math.Sqrt(10)/30
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("consistency: want=%.10f got=%.10f", want, got)
	}
}

func TestSelfCareScoreWorkedExample(t *testing.T) {
	p := profileWith(5, 2, 10, nil)
	got := SelfCareScore(p, testNow)
	// chat: 2*(2/10)=0.4 capped at 0.4; journal: 5*(5/10) capped at 0.3; no achievements.
	want := 0.4 + 0.3
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("self-care: want=%.10f got=%.10f", want, got)
	}
}

func TestEmotionalStabilityUsesFreshInputs(t *testing.T) {
	p := profileWith(5, 2, 10, nil)
	consistency := ConsistencyScore(p, testNow)
	selfCare := SelfCareScore(p, testNow)
	got := EmotionalStabilityScore(p, testNow, consistency, selfCare)
	want := 0.35 + 0.25*consistency + 0.25*selfCare
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("emotional stability: want=%.10f got=%.10f", want, got)
	}
}

func TestScoresClampedUnderExtremeCounts(t *testing.T) {
	var activity []time.Time
	for i := 0; i < 90; i++ {
		activity = append(activity, dayAgo(i))
	}
	cases := []struct {
		name    string
		profile *types.Profile
	}{
		{"huge counts, one day", profileWith(1_000_000, 1_000_000, 0, activity)},
		{"huge counts, long history", profileWith(1_000_000, 1_000_000, 3650, activity)},
		{"zero everything", profileWith(0, 0, 0, nil)},
	}
	for _, tc := range cases {
		RecomputeScores(tc.profile, testNow)
		for name, score := range map[string]float64{
			"consistency": tc.profile.ConsistencyScore,
			"self_care":   tc.profile.SelfCareScore,
			"stability":   tc.profile.EmotionalStabilityScore,
		} {
			if score < 0 || score > 1 {
				t.Fatalf("%s: %s score out of [0,1]: %f", tc.name, name, score)
			}
		}
	}
}

func TestMovingAnchorForwardNeverRaisesPersistenceBonus(t *testing.T) {
	activity := []time.Time{dayAgo(0), dayAgo(1)}
	far := profileWith(0, 0, 400, activity)
	near := profileWith(0, 0, 5, activity)

	// With no journal entries the score is usage + persistence; shrinking
	// history can only shrink the persistence term for a fixed usage rate.
	farDays := HealingDays(far.NoContactStartDate, testNow)
	nearDays := HealingDays(near.NoContactStartDate, testNow)
	farBonus := math.Min(0.3, 0.3*math.Sqrt(float64(farDays))/30)
	nearBonus := math.Min(0.3, 0.3*math.Sqrt(float64(nearDays))/30)
	if nearBonus > farBonus {
		t.Fatalf("persistence bonus grew when history shrank: near=%f far=%f", nearBonus, farBonus)
	}
}

func TestRecomputeScoresAfterChatKeepsConsistency(t *testing.T) {
	p := profileWith(3, 0, 10, []time.Time{dayAgo(0)})
	RecomputeScores(p, testNow)
	before := p.ConsistencyScore

	p.TotalChatSessions = 4
	RecomputeScoresAfterChat(p, testNow)
	if p.ConsistencyScore != before {
		t.Fatalf("consistency changed on chat recompute: want=%f got=%f", before, p.ConsistencyScore)
	}
	if p.SelfCareScore == 0 {
		t.Fatalf("self-care not refreshed after chat")
	}
}
