package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sitegen_server/config"
	"sitegen_server/internal/ai"
	"sitegen_server/internal/cache"
	"sitegen_server/internal/compress"
	"sitegen_server/internal/logger"
	"sitegen_server/internal/pacing"
	"sitegen_server/internal/pipeline"
	"sitegen_server/internal/types"
	"sitegen_server/internal/validator"
)

// newCompleter builds the raw completion backend. Tests replace it.
var newCompleter = func(cfg config.Config) (ai.Completer, error) {
	return ai.New(cfg.LLMProvider, cfg.APIKey(), cfg.LLMModel)
}

// app carries the dependencies shared by every command.
type app struct {
	cfg   config.Config
	log   *zap.Logger
	store *cache.ArtifactCache
	memo  *cache.SmartCache
	rdb   *redis.Client
}

func newApp(ctx context.Context, configDir string) (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	a := &app{cfg: cfg, log: logger.New(cfg.LogLevel, cfg.LogFormat)}

	backend, err := a.backend()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store, err = cache.Open(ctx, backend, a.log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open artifact cache: %w", err)
	}
	return a, nil
}

func (a *app) backend() (cache.Backend, error) {
	switch a.cfg.CacheBackend {
	case "redis":
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddress,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		return cache.NewRedisBackend(a.rdb, a.cfg.RedisCacheKey), nil
	case "memory":
		return cache.NewMemoryBackend(), nil
	case "file":
		return cache.NewFileBackend(a.cfg.CachePath), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", a.cfg.CacheBackend)
	}
}

func (a *app) orchestrator() (*pipeline.Orchestrator, error) {
	raw, err := newCompleter(a.cfg)
	if err != nil {
		return nil, err
	}
	client := ai.NewRetryingClient(raw, ai.RetryPolicy{
		MaxAttempts:   a.cfg.RetryMaxAttempts,
		SizeThreshold: a.cfg.LargeCallThreshold,
		Backoff:       a.cfg.RetryBackoff(),
	}, a.log)

	if a.memo == nil {
		a.memo, err = cache.NewSmartCache(0, 0)
		if err != nil {
			return nil, fmt.Errorf("create prompt cache: %w", err)
		}
	}

	return pipeline.New(pipeline.Deps{
		Client:     client,
		Store:      a.store,
		Validator:  validator.New(a.log, validator.WithTruncationCheckDisabled(a.cfg.DisableTruncationCheck)),
		Compressor: compress.New(a.cfg.CompressMinSize, a.memo),
		Gate:       pacing.NewIntervalGate(a.cfg.PacingInterval()),
		Logger:     a.log,
	}, a.options())
}

func (a *app) options() pipeline.Options {
	var priorities []types.Priority
	for _, p := range a.cfg.Priorities() {
		priorities = append(priorities, types.Priority(p))
	}
	return pipeline.Options{
		Model:               a.cfg.LLMModel,
		Temperature:         float32(a.cfg.LLMTemperature),
		BaseFileTokens:      a.cfg.MaxTokensBaseFile,
		PageTokens:          a.cfg.MaxTokensPage,
		ComponentTokens:     a.cfg.MaxTokensComponents,
		MaxPages:            a.cfg.MaxPages,
		MaxCustomComponents: a.cfg.MaxCustomComponents,
		PagePriorities:      priorities,
	}
}

func (a *app) Close() {
	if a.memo != nil {
		a.memo.Close()
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Warn("closing redis client", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
