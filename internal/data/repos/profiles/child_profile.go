package profiles

import (
	"context"

	"github.com/google/uuid"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type ChildProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.ChildProfile) ([]*types.ChildProfile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ChildProfile, error)
	ListByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*types.ChildProfile, error)
	UpdateAge(ctx context.Context, tx *gorm.DB, id uuid.UUID, age int) error
	UpdateName(ctx context.Context, tx *gorm.DB, id uuid.UUID, name string) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type childProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChildProfileRepo(db *gorm.DB, baseLog *logger.Logger) ChildProfileRepo {
	repoLog := baseLog.With("repo", "ChildProfileRepo")
	return &childProfileRepo{db: db, log: repoLog}
}

func (r *childProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.ChildProfile) ([]*types.ChildProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(profiles) == 0 {
		return []*types.ChildProfile{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *childProfileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ChildProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChildProfile
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

func (r *childProfileRepo) ListByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*types.ChildProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChildProfile
	if err := transaction.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *childProfileRepo) UpdateAge(ctx context.Context, tx *gorm.DB, id uuid.UUID, age int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ChildProfile{}).
		Where("id = ?", id).
		Update("age", age).Error
}

func (r *childProfileRepo) UpdateName(ctx context.Context, tx *gorm.DB, id uuid.UUID, name string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ChildProfile{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (r *childProfileRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ChildProfile{}).Error
}
