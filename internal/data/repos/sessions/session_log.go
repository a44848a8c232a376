package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type SessionLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.SessionLog) ([]*types.SessionLog, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.SessionLog, error)
	ListByChildAndRange(ctx context.Context, tx *gorm.DB, childID uuid.UUID, from, to time.Time) ([]*types.SessionLog, error)
	CountByChild(ctx context.Context, tx *gorm.DB, childID uuid.UUID) (int64, error)
}

type sessionLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionLogRepo(db *gorm.DB, baseLog *logger.Logger) SessionLogRepo {
	repoLog := baseLog.With("repo", "SessionLogRepo")
	return &sessionLogRepo{db: db, log: repoLog}
}

func (r *sessionLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.SessionLog) ([]*types.SessionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(logs) == 0 {
		return []*types.SessionLog{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *sessionLogRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.SessionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SessionLog
	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sessionLogRepo) ListByChildAndRange(ctx context.Context, tx *gorm.DB, childID uuid.UUID, from, to time.Time) ([]*types.SessionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SessionLog
	if err := transaction.WithContext(ctx).
		Where("child_id = ? AND created_at >= ? AND created_at < ?", childID, from, to).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sessionLogRepo) CountByChild(ctx context.Context, tx *gorm.DB, childID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SessionLog{}).
		Where("child_id = ?", childID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
