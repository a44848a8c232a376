package safety

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type SafetyIncidentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, incidents []*types.SafetyIncident) ([]*types.SafetyIncident, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SafetyIncident, error)
	ListByChildAndRange(ctx context.Context, tx *gorm.DB, childID uuid.UUID, from, to time.Time) ([]*types.SafetyIncident, error)
	CountByChildSince(ctx context.Context, tx *gorm.DB, childID uuid.UUID, since time.Time) (int64, error)
	PurgeOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type safetyIncidentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSafetyIncidentRepo(db *gorm.DB, baseLog *logger.Logger) SafetyIncidentRepo {
	repoLog := baseLog.With("repo", "SafetyIncidentRepo")
	return &safetyIncidentRepo{db: db, log: repoLog}
}

func (r *safetyIncidentRepo) Create(ctx context.Context, tx *gorm.DB, incidents []*types.SafetyIncident) ([]*types.SafetyIncident, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(incidents) == 0 {
		return []*types.SafetyIncident{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&incidents).Error; err != nil {
		return nil, err
	}
	return incidents, nil
}

func (r *safetyIncidentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SafetyIncident, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SafetyIncident
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *safetyIncidentRepo) ListByChildAndRange(ctx context.Context, tx *gorm.DB, childID uuid.UUID, from, to time.Time) ([]*types.SafetyIncident, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SafetyIncident
	if err := transaction.WithContext(ctx).
		Where("child_id = ? AND created_at >= ? AND created_at < ?", childID, from, to).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *safetyIncidentRepo) CountByChildSince(ctx context.Context, tx *gorm.DB, childID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SafetyIncident{}).
		Where("child_id = ? AND created_at >= ?", childID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *safetyIncidentRepo) PurgeOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&types.SafetyIncident{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
