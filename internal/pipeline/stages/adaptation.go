package stages

import (
	"context"

	"github.com/sproutlearn/sproutlearn-backend/internal/adaptation"
	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	safetyengine "github.com/sproutlearn/sproutlearn-backend/internal/safety"
)

// AdaptationStage rewrites the model's draft for the child's age band.
// It only ever sees text the safety gate already passed.
type AdaptationStage struct {
	adapter *adaptation.Adapter
	log     *logger.Logger
}

func NewAdaptationStage(adapter *adaptation.Adapter, log *logger.Logger) *AdaptationStage {
	return &AdaptationStage{
		adapter: adapter,
		log:     log.With("stage", config.StageAdaptation),
	}
}

func (s *AdaptationStage) Name() string { return config.StageAdaptation }

func (s *AdaptationStage) Apply(_ context.Context, turn *pipeline.Context) error {
	band, err := safetyengine.Classify(turn.ChildAge)
	if err != nil {
		return err
	}

	turn.ResponseText = s.adapter.Adapt(turn.ResponseText, band, turn.ChildName)
	turn.SetStageMeta(config.StageAdaptation, map[string]any{
		"band": string(band),
	})
	return nil
}
