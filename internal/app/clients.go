package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/sproutlearn/sproutlearn-backend/internal/clients/modelclient"
	redisclient "github.com/sproutlearn/sproutlearn-backend/internal/clients/redis"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	safetyengine "github.com/sproutlearn/sproutlearn-backend/internal/safety"
)

type Clients struct {
	Model     modelclient.Client
	EvalCache redisclient.EvalCache
}

// wireClients builds the external clients. The model server is
// required; the redis evaluation cache is optional and skipped with a
// warning when REDIS_ADDR is unset.
func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("wiring clients")

	model, err := modelclient.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init model client: %w", err)
	}

	var evalCache redisclient.EvalCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		evalCache, err = redisclient.NewEvalCache(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init eval cache: %w", err)
		}
	} else {
		log.Warn("REDIS_ADDR unset, safety evaluation cache disabled")
	}

	return Clients{Model: model, EvalCache: evalCache}, nil
}

// engineCache adapts the optional redis cache to the engine interface;
// a nil client means no caching.
func engineCache(c Clients) safetyengine.EvaluationCache {
	if c.EvalCache == nil {
		return nil
	}
	return c.EvalCache
}
