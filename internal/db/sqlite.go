package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/regrowhq/regrow-backend/internal/platform/envutil"
	"github.com/regrowhq/regrow-backend/internal/platform/logger"
	"github.com/regrowhq/regrow-backend/internal/types"
)

type SQLiteService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSQLiteService(log *logger.Logger) (*SQLiteService, error) {
	serviceLog := log.With("service", "SQLiteService")

	path := envutil.String("SQLITE_PATH", "regrow.db")

	serviceLog.Info("Opening sqlite database...", "path", path)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		serviceLog.Error("Failed to open sqlite database", "error", err)
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Single-writer discipline: the profile service serializes writes, and
	// WAL keeps readers from blocking the writer.
	if err := db.Exec(`PRAGMA journal_mode=WAL;`).Error; err != nil {
		serviceLog.Warn("Failed to enable WAL mode", "error", err)
	}
	if err := db.Exec(`PRAGMA foreign_keys=ON;`).Error; err != nil {
		serviceLog.Warn("Failed to enable foreign keys", "error", err)
	}

	return &SQLiteService{db: db, log: serviceLog}, nil
}

func (s *SQLiteService) AutoMigrateAll() error {
	s.log.Info("Auto migrating sqlite tables...")
	if err := s.db.AutoMigrate(
		&types.Profile{},
	); err != nil {
		s.log.Error("Auto migration failed for sqlite tables", "error", err)
		return err
	}
	return nil
}

func (s *SQLiteService) DB() *gorm.DB {
	return s.db
}
