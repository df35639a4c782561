package services

import (
	"time"

	"github.com/regrowhq/regrow-backend/internal/catalog"
	"github.com/regrowhq/regrow-backend/internal/platform/logger"
	"github.com/regrowhq/regrow-backend/internal/types"
)

// MilestoneEngine evaluates elapsed-time thresholds against the record.
// Elapsed time is measured from the record's start date: milestones reward
// app tenure, while the scores reward no-contact duration.
type MilestoneEngine struct {
	log *logger.Logger
	cat *catalog.Catalog
}

func NewMilestoneEngine(baseLog *logger.Logger, cat *catalog.Catalog) *MilestoneEngine {
	return &MilestoneEngine{
		log: baseLog.With("engine", "MilestoneEngine"),
		cat: cat,
	}
}

// CheckNext unlocks at most the first met, not-yet-achieved milestone and
// applies its growth-stage advance. Stopping after one unlock keeps a
// long-dormant record from surfacing every missed milestone at once. Returns
// nil when nothing new is unlocked.
func (e *MilestoneEngine) CheckNext(p *types.Profile, now time.Time) (*types.MilestoneUnlock, error) {
	elapsed := now.Sub(p.StartDate)
	for _, m := range e.cat.Milestones {
		if elapsed < m.After {
			// Table ascends; nothing further can be met.
			break
		}
		if p.HasMilestone(m.ID) {
			continue
		}
		if err := p.AddMilestone(m.ID); err != nil {
			return nil, err
		}
		advanced := false
		if m.Stage != "" {
			advanced = p.AdvanceGrowthStage(m.Stage)
		}
		e.log.Info("Milestone unlocked",
			"milestone", m.ID,
			"stage", p.CurrentGrowthStage,
			"stage_advanced", advanced,
		)
		return &types.MilestoneUnlock{
			ID:            m.ID,
			Title:         m.Title,
			AfterDuration: m.After.String(),
			Stage:         m.Stage,
			StageAdvanced: advanced,
		}, nil
	}
	return nil, nil
}
