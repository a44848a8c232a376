package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	"github.com/sproutlearn/sproutlearn-backend/internal/db"
	"github.com/sproutlearn/sproutlearn-backend/internal/observability"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/envutil"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"github.com/sproutlearn/sproutlearn-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.AppConfig
	DB       *gorm.DB
	Router   *gin.Engine
	Repos    Repos
	Clients  Clients
	Services Services

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Sync()
		return nil, err
	}

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "sproutlearn-backend",
		Environment: logMode,
		Version:     envutil.String("SERVICE_VERSION", "dev"),
	})
	observability.NewMetrics(log)

	store, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := store.DB()

	clients, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	incidents := services.NewIncidentService(cfg, log, reposet.SafetyIncidents)

	orchestrator, err := wirePipeline(cfg, log, clients, reposet, incidents)
	if err != nil {
		log.Sync()
		return nil, err
	}

	serviceset, err := wireServices(log, reposet, orchestrator, incidents)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           theDB,
		Router:       router,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background workers: the metrics endpoint (when
// enabled) and the daily incident retention purge.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	observability.Get().StartServer(ctx, a.Log, envutil.String("METRICS_ADDR", ""))

	go a.runIncidentPurge(ctx)
}

func (a *App) runIncidentPurge(ctx context.Context) {
	interval := time.Duration(envutil.Int("INCIDENT_PURGE_INTERVAL_SECONDS", 86400)) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := a.Services.Incidents.PurgeExpired(ctx)
			if err != nil {
				a.Log.Error("incident purge failed", "error", err.Error())
				continue
			}
			if purged > 0 {
				a.Log.Info("purged expired incidents", "count", purged)
			}
		}
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Clients.EvalCache != nil {
		_ = a.Clients.EvalCache.Close()
	}
	if a.otelShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.otelShutdown(shutdownCtx)
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
