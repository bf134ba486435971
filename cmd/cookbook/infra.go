package main

import (
	"context"
	"fmt"
	"time"

	"cookbook-service/internal/config"
	"cookbook-service/internal/infra/cache"
	s3storage "cookbook-service/internal/storage/s3"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	redisKeyPrefix      = "cookbook:"
	redisConnectTimeout = 5 * time.Second
	cachePruneInterval  = 5 * time.Minute
)

// infra holds the optional backends. Redis and S3 are both optional; without
// Redis the asset cache lives in process memory.
type infra struct {
	store  cache.Store
	redis  redis.UniversalClient
	photos *s3storage.Client
	stop   context.CancelFunc
}

func connectInfra(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*infra, error) {
	in := &infra{}

	if cfg.Redis.Addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.Redis.Addr},
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
		defer cancel()

		redisCache := cache.NewRedisCache(client, redisKeyPrefix)
		if err := redisCache.Ping(pingCtx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}

		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis cache connected")
		in.redis = client
		in.store = redisCache
	} else {
		memory := cache.NewMemoryCache()
		pruneCtx, cancel := context.WithCancel(ctx)
		in.stop = cancel
		go pruneLoop(pruneCtx, memory)

		log.Info().Msg("redis not configured, using in-memory asset cache")
		in.store = memory
	}

	if cfg.PhotosEnabled() {
		client, err := s3storage.NewClient(&cfg.AWS)
		if err != nil {
			in.close(log)
			return nil, fmt.Errorf("create s3 client: %w", err)
		}
		log.Info().Str("bucket", cfg.AWS.PhotoBucket).Str("region", cfg.AWS.Region).Msg("photo storage enabled")
		in.photos = client
	}

	return in, nil
}

func pruneLoop(ctx context.Context, memory *cache.MemoryCache) {
	ticker := time.NewTicker(cachePruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			memory.Prune()
		}
	}
}

func (in *infra) close(log zerolog.Logger) {
	if in.stop != nil {
		in.stop()
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
}
