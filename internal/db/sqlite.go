package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/envutil"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

type SQLiteService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSQLiteService(log *logger.Logger) (*SQLiteService, error) {
	serviceLog := log.With("service", "SQLiteService")
	path := envutil.String("SQLITE_PATH", "sproutlearn.db")

	serviceLog.Info("opening sqlite database", "path", path)
	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One writer at a time; sqlite locks the whole database on write.
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &SQLiteService{db: gormDB, log: serviceLog}, nil
}

func (s *SQLiteService) AutoMigrateAll() error {
	s.log.Info("auto migrating sqlite tables")
	return s.db.AutoMigrate(
		&types.ParentAccount{},
		&types.ChildProfile{},
		&types.SessionLog{},
		&types.SafetyIncident{},
		&types.ProgressSnapshot{},
		&types.AchievementGrant{},
	)
}

func (s *SQLiteService) DB() *gorm.DB {
	return s.db
}
