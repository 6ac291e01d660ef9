// Package wire 提供依赖装配
package wire

import (
	"context"
	"fmt"

	draftapp "mimo-draft-api/internal/application/draft"
	"mimo-draft-api/internal/config"
	"mimo-draft-api/internal/infrastructure/llm"
	"mimo-draft-api/internal/infrastructure/persistence/redis"
	"mimo-draft-api/internal/interfaces/http/handler"
	"mimo-draft-api/internal/interfaces/http/middleware"
	"mimo-draft-api/internal/interfaces/http/router"
	wfchain "mimo-draft-api/internal/workflow/chain"
	"mimo-draft-api/pkg/logger"
)

// InitializeApp 手工装配整个应用。
// Redis 是可选依赖：未配置 host 时缓存与限流降级关闭，服务照常启动。
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	var (
		redisClient *redis.Client
		cache       draftapp.ResultCache
		limiter     middleware.RateLimiter
	)

	if cfg.Cache.Redis.Host != "" {
		client, err := redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("init redis: %w", err)
		}
		redisClient = client
		cache = redis.NewDraftCache(client)
		limiter = redis.NewRateLimiter(client)
	} else {
		logger.Warn(ctx, "redis not configured, draft cache and rate limiting disabled")
	}

	factory := llm.NewEinoFactory(cfg)
	chain := wfchain.NewDraftChain(factory)
	generator := draftapp.NewGenerator(chain, cache, cfg)

	draftHandler := handler.NewDraftHandler(cfg, generator)
	healthHandler := handler.NewHealthHandler(cfg, redisClient)

	r := router.New(cfg, draftHandler, healthHandler, limiter)

	cleanup := func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn(ctx, "failed to close redis client", "error", err.Error())
			}
		}
	}

	return r, cleanup, nil
}
