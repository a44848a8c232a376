package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

// ProgressTrackerStage persists one learning snapshot per completed
// turn. It runs after the safety gate, so blocked turns never reach it.
type ProgressTrackerStage struct {
	snapshots repos.ProgressSnapshotRepo
	log       *logger.Logger
}

func NewProgressTrackerStage(snapshots repos.ProgressSnapshotRepo, log *logger.Logger) *ProgressTrackerStage {
	return &ProgressTrackerStage{
		snapshots: snapshots,
		log:       log.With("stage", config.StageProgress),
	}
}

func (s *ProgressTrackerStage) Name() string { return config.StageProgress }

func (s *ProgressTrackerStage) Apply(ctx context.Context, turn *pipeline.Context) error {
	subject := "general"
	complexity := 0.0
	onTopic := false
	var concepts []string

	if meta, ok := turn.Metadata[config.StageTutor].(map[string]any); ok {
		if v, ok := meta["subject"].(string); ok {
			subject = v
		}
		if v, ok := meta["complexity"].(float64); ok {
			complexity = v
		}
		if v, ok := meta["on_topic"].(bool); ok {
			onTopic = v
		}
		if v, ok := meta["concepts"].([]string); ok {
			concepts = v
		}
	}

	conceptsJSON, err := json.Marshal(concepts)
	if err != nil {
		return fmt.Errorf("marshal concepts: %w", err)
	}

	snapshot := &types.ProgressSnapshot{
		ID:              uuid.New(),
		ChildID:         turn.ProfileID,
		SessionID:       turn.SessionID,
		Subject:         subject,
		InteractionType: "question",
		Complexity:      complexity,
		OnTopic:         onTopic,
		Concepts:        datatypes.JSON(conceptsJSON),
		CreatedAt:       time.Now().UTC(),
	}

	if _, err := s.snapshots.Create(ctx, nil, []*types.ProgressSnapshot{snapshot}); err != nil {
		return fmt.Errorf("write progress snapshot: %w", err)
	}

	turn.SetStageMeta(config.StageProgress, map[string]any{
		"snapshot_id": snapshot.ID.String(),
		"subject":     subject,
	})
	return nil
}
