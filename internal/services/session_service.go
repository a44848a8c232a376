package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

// SessionService serves the parent dashboard's transcript and progress
// views. Every call checks that the child belongs to the caller.
type SessionService interface {
	Transcript(ctx context.Context, parentID, childID uuid.UUID, from, to time.Time) ([]*types.SessionLog, error)
	Progress(ctx context.Context, parentID, childID uuid.UUID, from, to time.Time) ([]*types.ProgressSnapshot, error)
	Achievements(ctx context.Context, parentID, childID uuid.UUID) ([]*types.AchievementGrant, error)
}

type sessionService struct {
	log       *logger.Logger
	profiles  ProfileService
	logs      repos.SessionLogRepo
	snapshots repos.ProgressSnapshotRepo
	grants    repos.AchievementGrantRepo
}

func NewSessionService(
	log *logger.Logger,
	profiles ProfileService,
	logs repos.SessionLogRepo,
	snapshots repos.ProgressSnapshotRepo,
	grants repos.AchievementGrantRepo,
) SessionService {
	return &sessionService{
		log:       log.With("service", "SessionService"),
		profiles:  profiles,
		logs:      logs,
		snapshots: snapshots,
		grants:    grants,
	}
}

func (s *sessionService) Transcript(ctx context.Context, parentID, childID uuid.UUID, from, to time.Time) ([]*types.SessionLog, error) {
	if _, err := s.profiles.GetChild(ctx, parentID, childID); err != nil {
		return nil, err
	}
	return s.logs.ListByChildAndRange(ctx, nil, childID, from, to)
}

func (s *sessionService) Progress(ctx context.Context, parentID, childID uuid.UUID, from, to time.Time) ([]*types.ProgressSnapshot, error) {
	if _, err := s.profiles.GetChild(ctx, parentID, childID); err != nil {
		return nil, err
	}
	return s.snapshots.ListByChildAndRange(ctx, nil, childID, from, to)
}

func (s *sessionService) Achievements(ctx context.Context, parentID, childID uuid.UUID) ([]*types.AchievementGrant, error) {
	if _, err := s.profiles.GetChild(ctx, parentID, childID); err != nil {
		return nil, err
	}
	return s.grants.ListByChild(ctx, nil, childID)
}
