package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/regrowhq/regrow-backend/internal/platform/logger"
	"github.com/regrowhq/regrow-backend/internal/types"
)

// ErrNotFound is returned when no profile record exists yet.
var ErrNotFound = errors.New("profile record not found")

// ProfileRepo persists the single profile record. Exactly one row exists per
// installation; Get returns ErrNotFound before onboarding or after an erase.
type ProfileRepo interface {
	Get(ctx context.Context, tx *gorm.DB) (*types.Profile, error)
	Create(ctx context.Context, tx *gorm.DB, profile *types.Profile) error
	Save(ctx context.Context, tx *gorm.DB, profile *types.Profile) error
	Delete(ctx context.Context, tx *gorm.DB) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (pr *profileRepo) Get(ctx context.Context, tx *gorm.DB) (*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Profile
	if err := transaction.WithContext(ctx).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (pr *profileRepo) Create(ctx context.Context, tx *gorm.DB, profile *types.Profile) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if profile == nil {
		return errors.New("no profile given")
	}
	return transaction.WithContext(ctx).Create(profile).Error
}

func (pr *profileRepo) Save(ctx context.Context, tx *gorm.DB, profile *types.Profile) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if profile == nil {
		return errors.New("no profile given")
	}
	return transaction.WithContext(ctx).Save(profile).Error
}

func (pr *profileRepo) Delete(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	res := transaction.WithContext(ctx).Where("1 = 1").Delete(&types.Profile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
