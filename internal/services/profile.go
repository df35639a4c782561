package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/regrowhq/regrow-backend/internal/platform/logger"
	"github.com/regrowhq/regrow-backend/internal/repos"
	"github.com/regrowhq/regrow-backend/internal/types"
)

var (
	// ErrProfileNotFound is returned when an operation runs before onboarding
	// created the record (or after a full erase).
	ErrProfileNotFound = errors.New("no profile exists")
	// ErrProfileExists is returned when onboarding runs twice.
	ErrProfileExists = errors.New("a profile already exists")
	// ErrFutureDate rejects no-contact anchors later than now.
	ErrFutureDate = errors.New("no-contact start date cannot be in the future")
	// ErrEmptyJournalEntry rejects blank journal submissions.
	ErrEmptyJournalEntry = errors.New("journal entry text is empty")
)

// ProfileService is the exclusive writer of the profile record. Every
// operation is one serialized transaction: load, mutate counters, recompute
// cached scores, run the relevant unlock engine, persist. A failed persist
// discards the in-memory mutation and leaves the durable record authoritative.
type ProfileService interface {
	Create(ctx context.Context, noContactStart time.Time) (*types.Profile, error)
	Get(ctx context.Context) (*types.Profile, error)
	Progress(ctx context.Context) (*types.Progress, error)
	RecordAppOpen(ctx context.Context) (*types.Profile, error)
	RecordJournalEntry(ctx context.Context, text string) (*types.Profile, []string, error)
	RecordJournalDeletion(ctx context.Context) (*types.Profile, error)
	RecordChatSession(ctx context.Context) (*types.Profile, error)
	SetNoContactStartDate(ctx context.Context, noContactStart time.Time) (*types.Profile, error)
	CheckMilestones(ctx context.Context) (*types.MilestoneUnlock, error)
	ExportSnapshot(ctx context.Context) (*types.Snapshot, error)
	EraseAll(ctx context.Context) error
}

type profileService struct {
	db           *gorm.DB
	log          *logger.Logger
	profiles     repos.ProfileRepo
	milestones   *MilestoneEngine
	achievements *AchievementEngine

	// mu serializes all writes; score recomputation reads counters mutated
	// earlier in the same transaction.
	mu  sync.Mutex
	now func() time.Time
}

func NewProfileService(
	db *gorm.DB,
	baseLog *logger.Logger,
	profileRepo repos.ProfileRepo,
	milestoneEngine *MilestoneEngine,
	achievementEngine *AchievementEngine,
) ProfileService {
	return &profileService{
		db:           db,
		log:          baseLog.With("service", "ProfileService"),
		profiles:     profileRepo,
		milestones:   milestoneEngine,
		achievements: achievementEngine,
		now:          time.Now,
	}
}

func (s *profileService) load(ctx context.Context) (*types.Profile, error) {
	p, err := s.profiles.Get(ctx, nil)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (s *profileService) persist(ctx context.Context, p *types.Profile) error {
	if err := s.profiles.Save(ctx, nil, p); err != nil {
		s.log.Error("Failed to persist profile", "error", err)
		return fmt.Errorf("persist profile: %w", err)
	}
	return nil
}

func (s *profileService) Create(ctx context.Context, noContactStart time.Time) (*types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if noContactStart.After(now) {
		return nil, ErrFutureDate
	}
	if _, err := s.profiles.Get(ctx, nil); err == nil {
		return nil, ErrProfileExists
	} else if !errors.Is(err, repos.ErrNotFound) {
		return nil, fmt.Errorf("check existing profile: %w", err)
	}

	p := &types.Profile{
		ID:                 uuid.New(),
		StartDate:          now,
		NoContactStartDate: noContactStart,
		CurrentGrowthStage: types.StageSeed,
	}
	if err := p.SetActivityDays(nil); err != nil {
		return nil, err
	}
	p.UnlockedAchievementIDs = []byte("[]")
	p.AchievedMilestoneIDs = []byte("[]")
	RecomputeScores(p, now)

	if err := s.profiles.Create(ctx, nil, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.log.Info("Profile created", "id", p.ID, "no_contact_start_date", p.NoContactStartDate)
	return p, nil
}

func (s *profileService) Get(ctx context.Context) (*types.Profile, error) {
	return s.load(ctx)
}

func (s *profileService) Progress(ctx context.Context) (*types.Progress, error) {
	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	progress := s.deriveProgress(p, s.now())
	return &progress, nil
}

func (s *profileService) deriveProgress(p *types.Profile, now time.Time) types.Progress {
	days := HealingDays(p.NoContactStartDate, now)
	activityDays := p.ActivityDays()
	return types.Progress{
		HealingDays:             days,
		CurrentStreak:           Streak(activityDays, now),
		ActiveDaysInWindow:      ActiveDaysInWindow(activityDays, days, now),
		ConsistencyScore:        p.ConsistencyScore,
		SelfCareScore:           p.SelfCareScore,
		EmotionalStabilityScore: p.EmotionalStabilityScore,
		CurrentGrowthStage:      p.CurrentGrowthStage,
		UnlockedAchievementIDs:  p.AchievementIDs(),
		AchievedMilestoneIDs:    p.MilestoneIDs(),
		EngagementFlags:         ComputeEngagementFlags(p),
	}
}

// touchDailyActivity applies the reset-on-new-day rule to the app-open
// counter, stamps the last-active date, and records today in the activity
// log (trimmed to the retention window). openedDelta is 1 for an app open
// and 0 for journal activity.
func (s *profileService) touchDailyActivity(p *types.Profile, now time.Time, openedDelta int) error {
	if p.LastActiveDate == nil || !SameDay(*p.LastActiveDate, now) {
		p.AppOpenedToday = openedDelta
	} else {
		p.AppOpenedToday += openedDelta
	}
	ts := now
	p.LastActiveDate = &ts
	return p.SetActivityDays(append(p.ActivityDays(), DayOf(now)))
}

func (s *profileService) RecordAppOpen(ctx context.Context) (*types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()

	newDay := p.LastActiveDate == nil || !SameDay(*p.LastActiveDate, now)
	if err := s.touchDailyActivity(p, now, 1); err != nil {
		return nil, err
	}
	if newDay {
		// Today became a fresh activity day, which feeds consistency.
		RecomputeScores(p, now)
	}

	if err := s.persist(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) RecordJournalEntry(ctx context.Context, text string) (*types.Profile, []string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyJournalEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	now := s.now()

	p.JournalEntriesCount++
	if err := s.touchDailyActivity(p, now, 0); err != nil {
		return nil, nil, err
	}
	RecomputeScores(p, now)

	unlocked, err := s.achievements.CheckJournal(p)
	if err != nil {
		return nil, nil, err
	}
	if len(unlocked) > 0 {
		// Achievement count feeds self-care; refresh once more.
		RecomputeScores(p, now)
	}

	if err := s.persist(ctx, p); err != nil {
		return nil, nil, err
	}
	return p, unlocked, nil
}

func (s *profileService) RecordJournalDeletion(ctx context.Context) (*types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if p.JournalEntriesCount > 0 {
		p.JournalEntriesCount--
	}
	if err := s.touchDailyActivity(p, now, 0); err != nil {
		return nil, err
	}
	RecomputeScores(p, now)

	// Unlocks are monotonic; a lowered counter revokes nothing, and the
	// engine is a no-op for already-unlocked thresholds.
	if _, err := s.achievements.CheckJournal(p); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) RecordChatSession(ctx context.Context) (*types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if p.LastChatSessionDate == nil || !SameDay(*p.LastChatSessionDate, now) {
		p.ChatSessionsToday = 1
	} else {
		p.ChatSessionsToday++
	}
	ts := now
	p.LastChatSessionDate = &ts
	p.TotalChatSessions++

	RecomputeScoresAfterChat(p, now)

	if err := s.persist(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) SetNoContactStartDate(ctx context.Context, noContactStart time.Time) (*types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if noContactStart.After(now) {
		return nil, ErrFutureDate
	}

	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	p.NoContactStartDate = noContactStart
	// Moving the anchor toward now shrinks history; scores and streak may
	// drop and that is accepted.
	RecomputeScores(p, now)

	if err := s.persist(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("No-contact start date updated", "no_contact_start_date", noContactStart)
	return p, nil
}

func (s *profileService) CheckMilestones(ctx context.Context) (*types.MilestoneUnlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	unlock, err := s.milestones.CheckNext(p, s.now())
	if err != nil {
		return nil, err
	}
	if unlock == nil {
		return nil, nil
	}
	if err := s.persist(ctx, p); err != nil {
		return nil, err
	}
	return unlock, nil
}

func (s *profileService) ExportSnapshot(ctx context.Context) (*types.Snapshot, error) {
	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &types.Snapshot{
		ExportedAt: now,
		Profile:    p,
		Progress:   s.deriveProgress(p, now),
	}, nil
}

func (s *profileService) EraseAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.profiles.Delete(ctx, nil); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("erase profile: %w", err)
	}
	s.log.Info("Profile erased")
	return nil
}
