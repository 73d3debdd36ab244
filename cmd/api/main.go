package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"sovereign/api/internal/async"
	"sovereign/api/internal/cache"
	"sovereign/api/internal/config"
	"sovereign/api/internal/database"
	"sovereign/api/internal/handlers"
	"sovereign/api/internal/jobs"
	"sovereign/api/internal/log"
	"sovereign/api/internal/server"
	"sovereign/api/internal/service"
	"sovereign/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	if err := database.Migrate(ctx, cfg.Postgres); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	var archive service.ExportArchiver
	if cfg.Archive.Enabled() {
		exportArchive, err := storage.NewExportArchive(cfg.Archive)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init export archive")
		}
		if err := exportArchive.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure archive bucket failed")
		}
		archive = exportArchive
	}

	tasks := async.NewRunner(logger)

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, archive, tasks, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet, redisClient, tasks)

	scheduler := jobs.NewScheduler(handlerSet.AdminService(), logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, tasks, dbPool, redisClient)
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	scheduler *jobs.Scheduler,
	tasks *async.Runner,
	db *pgxpool.Pool,
	redisClient *redis.Client,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	scheduler.Stop()

	if err := tasks.Close(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("detached tasks still running at shutdown")
	}

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
