package app

import (
	"github.com/sproutlearn/sproutlearn-backend/internal/http/middleware"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

type Middleware struct {
	ParentAuth *middleware.ParentAuthMiddleware
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("wiring middleware")
	return Middleware{
		ParentAuth: middleware.NewParentAuthMiddleware(log, services.ParentAuth),
	}
}
