package stages

import (
	"context"
	"fmt"

	"github.com/sproutlearn/sproutlearn-backend/internal/clients/modelclient"
	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	safetyengine "github.com/sproutlearn/sproutlearn-backend/internal/safety"
)

// ModelRespondStage asks the tutoring model for the raw answer. The
// output is draft text; the adaptation stage rewrites it for the band.
type ModelRespondStage struct {
	client modelclient.Client
	log    *logger.Logger
}

func NewModelRespondStage(client modelclient.Client, log *logger.Logger) *ModelRespondStage {
	return &ModelRespondStage{
		client: client,
		log:    log.With("stage", config.StageModelRespond),
	}
}

func (s *ModelRespondStage) Name() string { return config.StageModelRespond }

func (s *ModelRespondStage) Apply(ctx context.Context, turn *pipeline.Context) error {
	band, err := safetyengine.Classify(turn.ChildAge)
	if err != nil {
		return err
	}

	system := fmt.Sprintf(
		"You are a friendly STEM tutor for children. The learner is %d years old (%s band). "+
			"Answer accurately, stay on educational topics, and never request personal information.",
		turn.ChildAge, band,
	)

	text, err := s.client.GenerateText(ctx, system, turn.InputText)
	if err != nil {
		return fmt.Errorf("model generation: %w", err)
	}

	turn.ResponseText = text
	turn.SetStageMeta(config.StageModelRespond, map[string]any{
		"band": string(band),
	})
	return nil
}
