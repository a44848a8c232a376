package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/sproutlearn/sproutlearn-backend/internal/http"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:                  log,
		HealthHandler:        handlers.Health,
		ParentAuthHandler:    handlers.ParentAuth,
		ParentAuthMiddleware: middleware.ParentAuth,
		TurnHandler:          handlers.Turn,
		ProfileHandler:       handlers.Profile,
		SessionHandler:       handlers.Session,
		IncidentHandler:      handlers.Incident,
	})
}
