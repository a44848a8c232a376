package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/sproutlearn/sproutlearn-backend/internal/http/handlers"
	httpMW "github.com/sproutlearn/sproutlearn-backend/internal/http/middleware"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	ParentAuthHandler    *httpH.ParentAuthHandler
	ParentAuthMiddleware *httpMW.ParentAuthMiddleware

	TurnHandler     *httpH.TurnHandler
	ProfileHandler  *httpH.ProfileHandler
	SessionHandler  *httpH.SessionHandler
	IncidentHandler *httpH.IncidentHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("sproutlearn-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Parent auth (public)
		if cfg.ParentAuthHandler != nil {
			api.POST("/register", cfg.ParentAuthHandler.Register)
			api.POST("/login", cfg.ParentAuthHandler.Login)
		}

		// Tutoring turns (child-facing, no parent token)
		if cfg.TurnHandler != nil {
			api.POST("/turns", cfg.TurnHandler.ProcessTurn)
			api.GET("/sessions/:id/status", cfg.TurnHandler.SessionStatus)
			api.DELETE("/sessions/:id", cfg.TurnHandler.EndSession)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.ParentAuthMiddleware != nil {
			protected.Use(cfg.ParentAuthMiddleware.RequireParent())
		}

		// Parent account
		if cfg.ParentAuthHandler != nil {
			protected.POST("/parent/pin", cfg.ParentAuthHandler.ChangePIN)
		}

		// Child profiles
		if cfg.ProfileHandler != nil {
			protected.POST("/children", cfg.ProfileHandler.CreateChild)
			protected.GET("/children", cfg.ProfileHandler.ListChildren)
			protected.GET("/children/:id", cfg.ProfileHandler.GetChild)
			protected.PATCH("/children/:id/age", cfg.ProfileHandler.UpdateChildAge)
			protected.DELETE("/children/:id", cfg.ProfileHandler.DeleteChild)
		}

		// Session history and progress
		if cfg.SessionHandler != nil {
			protected.GET("/children/:id/transcript", cfg.SessionHandler.Transcript)
			protected.GET("/children/:id/progress", cfg.SessionHandler.Progress)
			protected.GET("/children/:id/achievements", cfg.SessionHandler.Achievements)
		}

		// Safety incidents
		if cfg.IncidentHandler != nil {
			protected.GET("/children/:id/incidents", cfg.IncidentHandler.ListByChild)
			protected.GET("/children/:id/incidents/report", cfg.IncidentHandler.Report)
		}
	}

	return r
}
