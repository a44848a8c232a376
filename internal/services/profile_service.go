package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	apperrors "github.com/sproutlearn/sproutlearn-backend/internal/pkg/errors"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	safetyengine "github.com/sproutlearn/sproutlearn-backend/internal/safety"
)

// ProfileService manages child profiles under a parent account. Ages
// are validated against the classifier so an unservable age can never
// be stored.
type ProfileService interface {
	CreateChild(ctx context.Context, parentID uuid.UUID, name string, age int) (*types.ChildProfile, error)
	GetChild(ctx context.Context, parentID, childID uuid.UUID) (*types.ChildProfile, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*types.ChildProfile, error)
	UpdateChildAge(ctx context.Context, parentID, childID uuid.UUID, age int) error
	DeleteChild(ctx context.Context, parentID, childID uuid.UUID) error
}

type profileService struct {
	log      *logger.Logger
	children repos.ChildProfileRepo
}

func NewProfileService(log *logger.Logger, children repos.ChildProfileRepo) ProfileService {
	return &profileService{
		log:      log.With("service", "ProfileService"),
		children: children,
	}
}

func (s *profileService) CreateChild(ctx context.Context, parentID uuid.UUID, name string, age int) (*types.ChildProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: child name required", apperrors.ErrInvalidArgument)
	}
	if _, err := safetyengine.Classify(age); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}

	now := time.Now().UTC()
	child := &types.ChildProfile{
		ID:        uuid.New(),
		ParentID:  parentID,
		Name:      name,
		Age:       age,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.children.Create(ctx, nil, []*types.ChildProfile{child}); err != nil {
		return nil, fmt.Errorf("create child profile: %w", err)
	}

	s.log.Info("child profile created", "profile_id", child.ID, "age", age)
	return child, nil
}

func (s *profileService) GetChild(ctx context.Context, parentID, childID uuid.UUID) (*types.ChildProfile, error) {
	children, err := s.children.GetByIDs(ctx, nil, []uuid.UUID{childID})
	if err != nil {
		return nil, fmt.Errorf("load child profile: %w", err)
	}
	if len(children) == 0 {
		return nil, apperrors.ErrNotFound
	}
	child := children[0]
	if child.ParentID != parentID {
		return nil, apperrors.ErrUnauthorized
	}
	return child, nil
}

func (s *profileService) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*types.ChildProfile, error) {
	return s.children.ListByParent(ctx, nil, parentID)
}

func (s *profileService) UpdateChildAge(ctx context.Context, parentID, childID uuid.UUID, age int) error {
	if _, err := safetyengine.Classify(age); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	if _, err := s.GetChild(ctx, parentID, childID); err != nil {
		return err
	}
	return s.children.UpdateAge(ctx, nil, childID, age)
}

func (s *profileService) DeleteChild(ctx context.Context, parentID, childID uuid.UUID) error {
	if _, err := s.GetChild(ctx, parentID, childID); err != nil {
		return err
	}
	return s.children.Delete(ctx, nil, childID)
}
