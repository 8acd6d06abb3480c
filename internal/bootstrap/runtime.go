// Package bootstrap wires storage, cache and default content for the
// server and the command line tools.
package bootstrap

import (
	"context"
	"fmt"

	"streamsite/internal/cache"
	"streamsite/internal/config"
	"streamsite/internal/database"
	"streamsite/internal/middleware"
	"streamsite/internal/repository"
	"streamsite/internal/seed"
	"streamsite/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// EnsureAdmin creates the configured admin account when it is missing.
	EnsureAdmin bool
	// SeedDefaults fills empty content tables and site settings.
	SeedDefaults bool
}

// Runtime holds the connections shared by the process.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	Repos *repository.Repositories
}

// InitRuntime connects to the database and Redis, then optionally bootstraps
// the admin account and the default content.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// nil when Redis is unreachable
	rdb := cache.InitRedis(cfg.RedisURL)

	rt := &Runtime{
		DB:    db,
		Redis: rdb,
		Repos: repository.NewGormRepositories(db),
	}

	if opts.EnsureAdmin {
		auth := service.NewAuthService(rt.Repos.Users, cfg.AdminUsername)
		if _, err := auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
		}
	}

	if opts.SeedDefaults {
		content, err := seed.LoadDefaults()
		if err != nil {
			rt.Close()
			return nil, err
		}
		if err := seed.Defaults(ctx, rt.Repos, content); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to seed default content: %w", err)
		}
	}

	return rt, nil
}

// Close releases the database pool and the Redis client.
func (rt *Runtime) Close() {
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			middleware.Logger.Warn("redis close failed", "error", err)
		}
	}
	if sqlDB, err := rt.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			middleware.Logger.Warn("database close failed", "error", err)
		}
	}
}
