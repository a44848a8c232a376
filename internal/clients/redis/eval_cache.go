package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/observability"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

// EvalCache stores safety-evaluation results in redis. Evaluation is
// deterministic per (text, age), so cached verdicts never go stale
// within a rules release; the TTL bounds memory, not correctness.
type EvalCache interface {
	Get(ctx context.Context, key string) (*types.SafetyResult, bool)
	Set(ctx context.Context, key string, res *types.SafetyResult)
	Close() error
}

type evalCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewEvalCache connects to REDIS_ADDR. Callers should treat a nil
// cache as "no caching" rather than requiring redis in development.
func NewEvalCache(log *logger.Logger) (EvalCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 15 * time.Minute
	if v := strings.TrimSpace(os.Getenv("SAFETY_CACHE_TTL_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			ttl = time.Duration(parsed) * time.Second
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &evalCache{
		log: log.With("service", "EvalCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *evalCache) Get(ctx context.Context, key string) (*types.SafetyResult, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("cache get failed", "error", err.Error())
		}
		observability.Get().IncCacheMiss()
		return nil, false
	}

	var res types.SafetyResult
	if err := json.Unmarshal(raw, &res); err != nil {
		c.log.Warn("cache entry corrupt, dropping", "error", err.Error())
		_ = c.rdb.Del(ctx, key).Err()
		observability.Get().IncCacheMiss()
		return nil, false
	}
	observability.Get().IncCacheHit()
	return &res, true
}

func (c *evalCache) Set(ctx context.Context, key string, res *types.SafetyResult) {
	raw, err := json.Marshal(res)
	if err != nil {
		c.log.Warn("cache marshal failed", "error", err.Error())
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "error", err.Error())
	}
}

func (c *evalCache) Close() error {
	return c.rdb.Close()
}
