package stages

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

type milestone struct {
	turns int64
	key   string
	title string
}

var milestones = []milestone{
	{turns: 1, key: "first_question", title: "First Question!"},
	{turns: 10, key: "curious_mind", title: "Curious Mind"},
	{turns: 50, key: "super_learner", title: "Super Learner"},
	{turns: 200, key: "knowledge_explorer", title: "Knowledge Explorer"},
}

// AchievementStage grants milestone achievements from the child's
// lifetime turn count. Grants are idempotent, so replays and races on
// the same milestone collapse to one row.
type AchievementStage struct {
	grants repos.AchievementGrantRepo
	logs   repos.SessionLogRepo
	log    *logger.Logger
}

func NewAchievementStage(grants repos.AchievementGrantRepo, logs repos.SessionLogRepo, baseLog *logger.Logger) *AchievementStage {
	return &AchievementStage{
		grants: grants,
		logs:   logs,
		log:    baseLog.With("stage", config.StageAchievement),
	}
}

func (s *AchievementStage) Name() string { return config.StageAchievement }

func (s *AchievementStage) Apply(ctx context.Context, turn *pipeline.Context) error {
	count, err := s.logs.CountByChild(ctx, nil, turn.ProfileID)
	if err != nil {
		return fmt.Errorf("count turns: %w", err)
	}
	// The parent-logger stage has not written this turn yet.
	count++

	var granted []string
	for _, m := range milestones {
		if count < m.turns {
			break
		}
		fresh, err := s.grants.Grant(ctx, nil, &types.AchievementGrant{
			ID:        uuid.New(),
			ChildID:   turn.ProfileID,
			Key:       m.key,
			Title:     m.title,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("grant achievement %q: %w", m.key, err)
		}
		if fresh {
			granted = append(granted, m.key)
		}
	}

	if len(granted) > 0 {
		s.log.Info("achievements granted",
			"profile_id", turn.ProfileID,
			"granted", granted,
		)
	}
	turn.SetStageMeta(config.StageAchievement, map[string]any{
		"granted": granted,
	})
	return nil
}
