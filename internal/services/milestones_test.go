package services

import (
	"testing"
	"time"

	"github.com/regrowhq/regrow-backend/internal/catalog"
	"github.com/regrowhq/regrow-backend/internal/platform/logger"
	"github.com/regrowhq/regrow-backend/internal/types"
)

func newMilestoneEngine(t *testing.T) *MilestoneEngine {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return NewMilestoneEngine(log, cat)
}

func tenuredProfile(daysAgo int) *types.Profile {
	p := &types.Profile{
		StartDate:          testNow.Add(-time.Duration(daysAgo) * 24 * time.Hour),
		NoContactStartDate: testNow.Add(-time.Duration(daysAgo) * 24 * time.Hour),
		CurrentGrowthStage: types.StageSeed,
	}
	_ = p.SetActivityDays(nil)
	return p
}

func TestMilestoneNothingMetBeforeFirstThreshold(t *testing.T) {
	engine := newMilestoneEngine(t)
	p := tenuredProfile(0)

	unlock, err := engine.CheckNext(p, testNow)
	if err != nil {
		t.Fatalf("CheckNext: %v", err)
	}
	if unlock != nil {
		t.Fatalf("unexpected unlock on a fresh record: %+v", unlock)
	}
}

func TestMilestoneAtMostOnePerCall(t *testing.T) {
	engine := newMilestoneEngine(t)
	// Dormant for 40 days: every threshold through 30d is newly satisfied.
	p := tenuredProfile(40)

	wantOrder := []string{
		"milestone_24_hours",
		"milestone_3_days",
		"milestone_7_days",
		"milestone_14_days",
		"milestone_30_days",
	}
	for i, want := range wantOrder {
		unlock, err := engine.CheckNext(p, testNow)
		if err != nil {
			t.Fatalf("CheckNext call %d: %v", i+1, err)
		}
		if unlock == nil {
			t.Fatalf("CheckNext call %d: want=%s got=nil", i+1, want)
		}
		if unlock.ID != want {
			t.Fatalf("CheckNext call %d: want=%s got=%s", i+1, want, unlock.ID)
		}
		if got := len(p.MilestoneIDs()); got != i+1 {
			t.Fatalf("milestone count after call %d: want=%d got=%d", i+1, i+1, got)
		}
	}

	// 60d not reached; the sixth call unlocks nothing.
	unlock, err := engine.CheckNext(p, testNow)
	if err != nil {
		t.Fatalf("CheckNext after catch-up: %v", err)
	}
	if unlock != nil {
		t.Fatalf("unexpected unlock past tenure: %+v", unlock)
	}
}

func TestMilestoneStageAdvancesInOrder(t *testing.T) {
	engine := newMilestoneEngine(t)
	p := tenuredProfile(100)

	wantStages := map[string]types.GrowthStage{
		"milestone_24_hours": types.StageSeed,
		"milestone_3_days":   types.StageSeed,
		"milestone_7_days":   types.StageSprout,
		"milestone_14_days":  types.StageSprout,
		"milestone_30_days":  types.StageSapling,
		"milestone_60_days":  types.StageTree,
		"milestone_90_days":  types.StageBloom,
	}
	for i := 0; i < len(wantStages); i++ {
		unlock, err := engine.CheckNext(p, testNow)
		if err != nil {
			t.Fatalf("CheckNext: %v", err)
		}
		if unlock == nil {
			t.Fatalf("call %d: expected an unlock", i+1)
		}
		if want := wantStages[unlock.ID]; p.CurrentGrowthStage != want {
			t.Fatalf("stage after %s: want=%s got=%s", unlock.ID, want, p.CurrentGrowthStage)
		}
	}
	if p.CurrentGrowthStage != types.StageBloom {
		t.Fatalf("final stage: want=%s got=%s", types.StageBloom, p.CurrentGrowthStage)
	}
}

func TestMilestoneIdempotentOncePerID(t *testing.T) {
	engine := newMilestoneEngine(t)
	p := tenuredProfile(2)

	first, err := engine.CheckNext(p, testNow)
	if err != nil {
		t.Fatalf("CheckNext: %v", err)
	}
	if first == nil || first.ID != "milestone_24_hours" {
		t.Fatalf("first unlock: want=milestone_24_hours got=%+v", first)
	}
	second, err := engine.CheckNext(p, testNow)
	if err != nil {
		t.Fatalf("CheckNext: %v", err)
	}
	if second != nil {
		t.Fatalf("second call re-unlocked: %+v", second)
	}
	if got := len(p.MilestoneIDs()); got != 1 {
		t.Fatalf("milestone count: want=1 got=%d", got)
	}
}

func TestGrowthStageNeverRegressesOrSkips(t *testing.T) {
	p := &types.Profile{CurrentGrowthStage: types.StageSprout}
	if p.AdvanceGrowthStage(types.StageSeed) {
		t.Fatalf("stage regressed to seed")
	}
	if p.AdvanceGrowthStage(types.StageTree) {
		t.Fatalf("stage skipped sapling")
	}
	if !p.AdvanceGrowthStage(types.StageSapling) {
		t.Fatalf("valid advance refused")
	}
	if p.CurrentGrowthStage != types.StageSapling {
		t.Fatalf("stage: want=%s got=%s", types.StageSapling, p.CurrentGrowthStage)
	}
}
