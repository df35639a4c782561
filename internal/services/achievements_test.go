package services

import (
	"reflect"
	"testing"

	"github.com/regrowhq/regrow-backend/internal/catalog"
	"github.com/regrowhq/regrow-backend/internal/platform/logger"
	"github.com/regrowhq/regrow-backend/internal/types"
)

func newAchievementEngine(t *testing.T) *AchievementEngine {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return NewAchievementEngine(log, cat)
}

func TestAchievementsUnlockMultipleInOneCall(t *testing.T) {
	engine := newAchievementEngine(t)
	p := &types.Profile{JournalEntriesCount: 12}

	unlocked, err := engine.CheckJournal(p)
	if err != nil {
		t.Fatalf("CheckJournal: %v", err)
	}
	want := []string{"journal_1_entries", "journal_5_entries", "journal_10_entries"}
	if !reflect.DeepEqual(unlocked, want) {
		t.Fatalf("unlocked: want=%v got=%v", want, unlocked)
	}
}

func TestAchievementsIdempotent(t *testing.T) {
	engine := newAchievementEngine(t)
	p := &types.Profile{JournalEntriesCount: 7}

	first, err := engine.CheckJournal(p)
	if err != nil {
		t.Fatalf("CheckJournal: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first pass unlock count: want=2 got=%d", len(first))
	}

	second, err := engine.CheckJournal(p)
	if err != nil {
		t.Fatalf("CheckJournal: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("second pass unlocked: %v", second)
	}

	ids := p.AchievementIDs()
	seen := make(map[string]int)
	for _, id := range ids {
		seen[id]++
		if seen[id] > 1 {
			t.Fatalf("duplicate achievement id %q in %v", id, ids)
		}
	}
}

func TestAchievementsNothingBelowFirstThreshold(t *testing.T) {
	engine := newAchievementEngine(t)
	p := &types.Profile{JournalEntriesCount: 0}

	unlocked, err := engine.CheckJournal(p)
	if err != nil {
		t.Fatalf("CheckJournal: %v", err)
	}
	if len(unlocked) != 0 {
		t.Fatalf("unlocked at zero entries: %v", unlocked)
	}
}

func TestAchievementsLoweredCounterRevokesNothing(t *testing.T) {
	engine := newAchievementEngine(t)
	p := &types.Profile{JournalEntriesCount: 5}
	if _, err := engine.CheckJournal(p); err != nil {
		t.Fatalf("CheckJournal: %v", err)
	}
	before := len(p.AchievementIDs())

	p.JournalEntriesCount = 2
	unlocked, err := engine.CheckJournal(p)
	if err != nil {
		t.Fatalf("CheckJournal: %v", err)
	}
	if len(unlocked) != 0 {
		t.Fatalf("unlocked on lowered counter: %v", unlocked)
	}
	if got := len(p.AchievementIDs()); got != before {
		t.Fatalf("achievement count changed: want=%d got=%d", before, got)
	}
}

func TestEngagementFlags(t *testing.T) {
	p := &types.Profile{
		JournalEntriesCount: 10,
		TotalChatSessions:   5,
		ConsistencyScore:    0.65,
		SelfCareScore:       0.72,
	}
	flags := ComputeEngagementFlags(p)
	if !flags.PositiveLanguage {
		t.Fatalf("positive_language: want=true")
	}
	if !flags.Gratitude {
		t.Fatalf("gratitude: want=true")
	}
	if !flags.SelfCompassion {
		t.Fatalf("self_compassion: want=true")
	}
	if flags.Strength {
		t.Fatalf("strength requires 15 entries, want=false")
	}
	if flags.GrowthMindset {
		t.Fatalf("growth_mindset requires 20 entries, want=false")
	}
}
