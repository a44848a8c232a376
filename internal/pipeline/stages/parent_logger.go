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

// ParentLoggerStage writes the turn transcript for the parent
// dashboard. It runs last so the metadata of every earlier stage lands
// in the row.
type ParentLoggerStage struct {
	sessionLogs repos.SessionLogRepo
	log         *logger.Logger
}

func NewParentLoggerStage(sessionLogs repos.SessionLogRepo, log *logger.Logger) *ParentLoggerStage {
	return &ParentLoggerStage{
		sessionLogs: sessionLogs,
		log:         log.With("stage", config.StageParentLogger),
	}
}

func (s *ParentLoggerStage) Name() string { return config.StageParentLogger }

func (s *ParentLoggerStage) Apply(ctx context.Context, turn *pipeline.Context) error {
	flagsJSON, err := json.Marshal(turn.SafetyFlags)
	if err != nil {
		return fmt.Errorf("marshal flags: %w", err)
	}
	metaJSON, err := json.Marshal(turn.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	blocked := turn.Safety != nil && !turn.Safety.Safe
	row := &types.SessionLog{
		ID:           uuid.New(),
		SessionID:    turn.SessionID,
		ChildID:      turn.ProfileID,
		ChildAge:     turn.ChildAge,
		InputText:    turn.InputText,
		ResponseText: turn.ResponseText,
		Blocked:      blocked,
		SafetyFlags:  datatypes.JSON(flagsJSON),
		Metadata:     datatypes.JSON(metaJSON),
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.sessionLogs.Create(ctx, nil, []*types.SessionLog{row}); err != nil {
		return fmt.Errorf("write session log: %w", err)
	}
	return nil
}
