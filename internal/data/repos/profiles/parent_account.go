package profiles

import (
	"context"

	"github.com/google/uuid"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type ParentAccountRepo interface {
	Create(ctx context.Context, tx *gorm.DB, accounts []*types.ParentAccount) ([]*types.ParentAccount, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ParentAccount, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.ParentAccount, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	UpdatePINHash(ctx context.Context, tx *gorm.DB, id uuid.UUID, pinHash string) error
}

type parentAccountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParentAccountRepo(db *gorm.DB, baseLog *logger.Logger) ParentAccountRepo {
	repoLog := baseLog.With("repo", "ParentAccountRepo")
	return &parentAccountRepo{db: db, log: repoLog}
}

func (r *parentAccountRepo) Create(ctx context.Context, tx *gorm.DB, accounts []*types.ParentAccount) ([]*types.ParentAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(accounts) == 0 {
		return []*types.ParentAccount{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *parentAccountRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ParentAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ParentAccount
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

func (r *parentAccountRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.ParentAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ParentAccount
	if err := transaction.WithContext(ctx).
		Where("email = ?", email).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *parentAccountRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ParentAccount{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *parentAccountRepo) UpdatePINHash(ctx context.Context, tx *gorm.DB, id uuid.UUID, pinHash string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ParentAccount{}).
		Where("id = ?", id).
		Update("pin_hash", pinHash).Error
}
