package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/envutil"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

// Service is the storage handle the app wires repos against.
type Service interface {
	DB() *gorm.DB
	AutoMigrateAll() error
}

// New picks the driver from DB_DRIVER: "postgres" (default) or
// "sqlite" for single-host and development setups.
func New(log *logger.Logger) (Service, error) {
	driver := strings.ToLower(envutil.String("DB_DRIVER", "postgres"))
	switch driver {
	case "postgres":
		return NewPostgresService(log)
	case "sqlite":
		return NewSQLiteService(log)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}
