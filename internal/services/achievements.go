package services

import (
	"github.com/regrowhq/regrow-backend/internal/catalog"
	"github.com/regrowhq/regrow-backend/internal/platform/logger"
	"github.com/regrowhq/regrow-backend/internal/types"
)

// AchievementEngine evaluates count-based thresholds. Unlike the milestone
// engine it may unlock several achievements in one call; re-running with
// unchanged counters is a no-op.
type AchievementEngine struct {
	log *logger.Logger
	cat *catalog.Catalog
}

func NewAchievementEngine(baseLog *logger.Logger, cat *catalog.Catalog) *AchievementEngine {
	return &AchievementEngine{
		log: baseLog.With("engine", "AchievementEngine"),
		cat: cat,
	}
}

// CheckJournal unlocks every journal-entry achievement whose threshold the
// current counter satisfies and that is not yet unlocked. Returns the newly
// unlocked ids in ascending threshold order.
func (e *AchievementEngine) CheckJournal(p *types.Profile) ([]string, error) {
	var unlocked []string
	for _, a := range e.cat.JournalAchievements {
		if p.JournalEntriesCount < a.Threshold {
			break
		}
		if p.HasAchievement(a.ID) {
			continue
		}
		if err := p.AddAchievement(a.ID); err != nil {
			return unlocked, err
		}
		unlocked = append(unlocked, a.ID)
	}
	if len(unlocked) > 0 {
		e.log.Info("Achievements unlocked", "ids", unlocked, "journal_entries", p.JournalEntriesCount)
	}
	return unlocked, nil
}
