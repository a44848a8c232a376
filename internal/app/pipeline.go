package app

import (
	"fmt"

	"github.com/sproutlearn/sproutlearn-backend/internal/adaptation"
	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline/stages"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	safetyengine "github.com/sproutlearn/sproutlearn-backend/internal/safety"
	"github.com/sproutlearn/sproutlearn-backend/internal/services"
)

// wirePipeline builds the stage list in the configured order and hands
// it to the orchestrator. Config validation already guarantees the
// safety stage is first; an unknown stage name is still a wiring error.
func wirePipeline(
	cfg *config.AppConfig,
	log *logger.Logger,
	clients Clients,
	repos Repos,
	incidents services.IncidentService,
) (*pipeline.Orchestrator, error) {
	log.Info("wiring pipeline", "order", cfg.Pipeline.Order)

	engine := safetyengine.NewEngine(cfg, log, engineCache(clients))
	adapter := adaptation.NewAdapter(cfg, log)

	byName := map[string]pipeline.Stage{
		config.StageSafety:       stages.NewSafetyStage(engine, incidents, log),
		config.StageModelRespond: stages.NewModelRespondStage(clients.Model, log),
		config.StageAdaptation:   stages.NewAdaptationStage(adapter, log),
		config.StageTutor:        stages.NewTutorStage(cfg, log),
		config.StageProgress:     stages.NewProgressTrackerStage(repos.ProgressSnapshots, log),
		config.StageAchievement:  stages.NewAchievementStage(repos.AchievementGrants, repos.SessionLogs, log),
		config.StageParentLogger: stages.NewParentLoggerStage(repos.SessionLogs, log),
	}

	ordered := make([]pipeline.Stage, 0, len(cfg.Pipeline.Order))
	for _, name := range cfg.Pipeline.Order {
		stage, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown pipeline stage %q", name)
		}
		ordered = append(ordered, stage)
	}

	return pipeline.NewOrchestrator(log, ordered), nil
}
