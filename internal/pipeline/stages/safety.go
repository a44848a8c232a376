package stages

import (
	"context"

	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	"github.com/sproutlearn/sproutlearn-backend/internal/observability"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	safetyengine "github.com/sproutlearn/sproutlearn-backend/internal/safety"
)

// IncidentRecorder persists the audit record for a blocked turn.
type IncidentRecorder interface {
	RecordBlockedTurn(ctx context.Context, turn *pipeline.Context) error
}

// SafetyStage gates every turn. It is the only stage the orchestrator
// consults for a verdict; an unsafe result puts the redirect message in
// ResponseText and stops the pipeline.
type SafetyStage struct {
	engine    *safetyengine.Engine
	incidents IncidentRecorder
	log       *logger.Logger
}

func NewSafetyStage(engine *safetyengine.Engine, incidents IncidentRecorder, log *logger.Logger) *SafetyStage {
	return &SafetyStage{
		engine:    engine,
		incidents: incidents,
		log:       log.With("stage", config.StageSafety),
	}
}

func (s *SafetyStage) Name() string { return config.StageSafety }

func (s *SafetyStage) Apply(ctx context.Context, turn *pipeline.Context) error {
	res := s.engine.Evaluate(ctx, turn.InputText, turn.ChildAge)
	turn.Safety = res
	turn.SafetyFlags = append(turn.SafetyFlags, res.Flags...)
	turn.SetStageMeta(config.StageSafety, map[string]any{
		"safe":            res.Safe,
		"category":        string(res.Category),
		"severity":        int(res.Severity),
		"score":           res.Score,
		"age_appropriate": res.AgeAppropriate,
		"parent_alert":    res.ParentAlert,
	})

	observability.Get().IncEvaluation(res.Safe)
	if res.Safe {
		return nil
	}

	observability.Get().IncBlocked(string(res.Category), res.Severity.String())
	turn.ResponseText = res.Redirect

	// Blocking must not depend on storage health. A failed incident
	// write is logged at error level but the block stands.
	if s.incidents != nil {
		if err := s.incidents.RecordBlockedTurn(ctx, turn); err != nil {
			s.log.Error("incident write failed",
				"session_id", turn.SessionID,
				"profile_id", turn.ProfileID,
				"error", err.Error(),
			)
		}
	}
	return nil
}

// Verdict fails closed: a turn with no evaluation result is unsafe.
func (s *SafetyStage) Verdict(turn *pipeline.Context) bool {
	return turn.Safety != nil && turn.Safety.Safe
}
