package app

import (
	"fmt"
	"time"

	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/envutil"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"github.com/sproutlearn/sproutlearn-backend/internal/services"
)

type Services struct {
	ParentAuth services.ParentAuthService
	Profiles   services.ProfileService
	Turns      services.TurnService
	Sessions   services.SessionService
	Incidents  services.IncidentService
}

func wireServices(
	log *logger.Logger,
	repos Repos,
	orchestrator *pipeline.Orchestrator,
	incidents services.IncidentService,
) (Services, error) {
	log.Info("wiring services")

	jwtSecret := envutil.String("JWT_SECRET_KEY", "")
	if jwtSecret == "" {
		return Services{}, fmt.Errorf("missing JWT_SECRET_KEY")
	}
	tokenTTL := time.Duration(envutil.Int("PARENT_TOKEN_TTL_SECONDS", 86400)) * time.Second

	parentAuth, err := services.NewParentAuthService(log, repos.ParentAccounts, jwtSecret, tokenTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init parent auth: %w", err)
	}

	profiles := services.NewProfileService(log, repos.ChildProfiles)
	turns := services.NewTurnService(log, repos.ChildProfiles, orchestrator)
	sessions := services.NewSessionService(log, profiles, repos.SessionLogs, repos.ProgressSnapshots, repos.AchievementGrants)

	return Services{
		ParentAuth: parentAuth,
		Profiles:   profiles,
		Turns:      turns,
		Sessions:   sessions,
		Incidents:  incidents,
	}, nil
}
