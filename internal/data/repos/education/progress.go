package education

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressSnapshotRepo interface {
	Create(ctx context.Context, tx *gorm.DB, snapshots []*types.ProgressSnapshot) ([]*types.ProgressSnapshot, error)
	ListByChildAndRange(ctx context.Context, tx *gorm.DB, childID uuid.UUID, from, to time.Time) ([]*types.ProgressSnapshot, error)
	CountByChildAndSubject(ctx context.Context, tx *gorm.DB, childID uuid.UUID, subject string) (int64, error)
}

type progressSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) ProgressSnapshotRepo {
	repoLog := baseLog.With("repo", "ProgressSnapshotRepo")
	return &progressSnapshotRepo{db: db, log: repoLog}
}

func (r *progressSnapshotRepo) Create(ctx context.Context, tx *gorm.DB, snapshots []*types.ProgressSnapshot) ([]*types.ProgressSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(snapshots) == 0 {
		return []*types.ProgressSnapshot{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *progressSnapshotRepo) ListByChildAndRange(ctx context.Context, tx *gorm.DB, childID uuid.UUID, from, to time.Time) ([]*types.ProgressSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProgressSnapshot
	if err := transaction.WithContext(ctx).
		Where("child_id = ? AND created_at >= ? AND created_at < ?", childID, from, to).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressSnapshotRepo) CountByChildAndSubject(ctx context.Context, tx *gorm.DB, childID uuid.UUID, subject string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ProgressSnapshot{}).
		Where("child_id = ? AND subject = ?", childID, subject).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type AchievementGrantRepo interface {
	// Grant inserts the achievement if the child does not already hold
	// it. Returns true when a new row was written.
	Grant(ctx context.Context, tx *gorm.DB, grant *types.AchievementGrant) (bool, error)
	ListByChild(ctx context.Context, tx *gorm.DB, childID uuid.UUID) ([]*types.AchievementGrant, error)
}

type achievementGrantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementGrantRepo(db *gorm.DB, baseLog *logger.Logger) AchievementGrantRepo {
	repoLog := baseLog.With("repo", "AchievementGrantRepo")
	return &achievementGrantRepo{db: db, log: repoLog}
}

func (r *achievementGrantRepo) Grant(ctx context.Context, tx *gorm.DB, grant *types.AchievementGrant) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "child_id"}, {Name: "key"}},
			DoNothing: true,
		}).
		Create(grant)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *achievementGrantRepo) ListByChild(ctx context.Context, tx *gorm.DB, childID uuid.UUID) ([]*types.AchievementGrant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AchievementGrant
	if err := transaction.WithContext(ctx).
		Where("child_id = ?", childID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
