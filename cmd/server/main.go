// Command main is the entry point for the streamsite API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streamsite/internal/bootstrap"
	"streamsite/internal/config"
	"streamsite/internal/middleware"
	"streamsite/internal/observability"
	"streamsite/internal/server"
	"streamsite/internal/twitch"
)

// @title Streamsite API
// @version 1.0
// @description Public content and admin API for a streamer fan site

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "streamsite-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   1,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	release := &releaser{}
	release.add("tracing", shutdownTracing)
	fatalf := func(format string, args ...any) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		release.run(ctx)
		cancel()
		log.Fatalf(format, args...)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{
		EnsureAdmin:  true,
		SeedDefaults: cfg.SeedDefaults,
	})
	if err != nil {
		fatalf("Failed to initialize runtime: %v", err)
	}
	release.add("runtime", func(context.Context) error {
		rt.Close()
		return nil
	})

	deps := server.Deps{DB: rt.DB, Redis: rt.Redis, Repos: rt.Repos}
	if cfg.TwitchEnabled() {
		client, err := twitch.NewClient(cfg.TwitchClientID, cfg.TwitchClientSecret)
		if err != nil {
			fatalf("Failed to create Twitch client: %v", err)
		}
		deps.Stats = client
	} else {
		middleware.Logger.Warn("twitch credentials not set, channel stats disabled")
	}

	srv, err := server.NewServer(cfg, deps)
	if err != nil {
		fatalf("Failed to create server: %v", err)
	}
	srv.NewApp()
	release.add("server", srv.Shutdown)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		middleware.Logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		release.run(ctx)
	}()

	if err := srv.Start(); err != nil {
		fatalf("Server stopped: %v", err)
	}
	<-done
	middleware.Logger.Info("server shutdown complete")
}
