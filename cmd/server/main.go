package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/project-tktt/go-tracker/internal/analytics"
	"github.com/project-tktt/go-tracker/internal/api"
	"github.com/project-tktt/go-tracker/internal/cleaner"
	"github.com/project-tktt/go-tracker/internal/config"
	"github.com/project-tktt/go-tracker/internal/queue"
	"github.com/project-tktt/go-tracker/internal/scheduler"
	"github.com/project-tktt/go-tracker/internal/search"
	"github.com/project-tktt/go-tracker/internal/simplify"
	"github.com/project-tktt/go-tracker/internal/store"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "tracker-api").Logger()
	logger.Info().Msg("starting tracker API server")

	// Load configuration
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Redis client
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// Initialize Postgres store
	st, err := store.New(cfg.Postgres.ConnectionString)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer st.Close()
	logger.Info().Msg("postgres connected")

	// Initialize search index
	idx, err := search.New(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Index, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("elasticsearch connection failed")
	}
	if err := idx.EnsureIndex(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to ensure index")
	}
	logger.Info().Str("index", cfg.Elasticsearch.Index).Msg("elasticsearch connected")

	// Viewer timezone for the analytics pipeline
	loc := time.Local
	if cfg.Analytics.ViewerTimezone != "" {
		loc, err = time.LoadLocation(cfg.Analytics.ViewerTimezone)
		if err != nil {
			logger.Fatal().Err(err).Str("timezone", cfg.Analytics.ViewerTimezone).Msg("invalid viewer timezone")
		}
	}
	processor := analytics.NewProcessor(nil, loc)

	// Refresh pipeline
	client := simplify.NewClient(cfg.Simplify.BaseURL, cfg.Simplify.PageSize, cfg.Simplify.UserAgent)
	parser := simplify.NewParser(cleaner.NewCleaner())
	publisher := queue.NewPublisher(rdb, cfg.Redis.GeocodeQueue)
	refresher := simplify.NewService(client, parser, st, st, idx, publisher, logger)

	// Scheduled background refreshes
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(st, refresher, cfg.Scheduler.IntervalHours, logger)
		if err := sched.Start(ctx); err != nil {
			logger.Fatal().Err(err).Msg("scheduler start failed")
		}
		defer sched.Stop()
	}

	// HTTP layer
	router := api.NewRouter(st, refresher, client, idx, processor, api.Config{
		UserHeader:     cfg.Server.UserHeader,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Handler(),
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-sigChan
	logger.Info().Msg("shutdown signal received, stopping")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}

	logger.Info().Msg("graceful shutdown complete")
}
