package app

import (
	"github.com/sproutlearn/sproutlearn-backend/internal/http/handlers"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	ParentAuth *handlers.ParentAuthHandler
	Turn       *handlers.TurnHandler
	Profile    *handlers.ProfileHandler
	Session    *handlers.SessionHandler
	Incident   *handlers.IncidentHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("wiring handlers")
	return Handlers{
		Health:     handlers.NewHealthHandler(),
		ParentAuth: handlers.NewParentAuthHandler(log, services.ParentAuth),
		Turn:       handlers.NewTurnHandler(log, services.Turns),
		Profile:    handlers.NewProfileHandler(log, services.Profiles),
		Session:    handlers.NewSessionHandler(log, services.Sessions),
		Incident:   handlers.NewIncidentHandler(log, services.Profiles, services.Incidents),
	}
}
