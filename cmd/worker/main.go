package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/project-tktt/go-tracker/internal/config"
	"github.com/project-tktt/go-tracker/internal/geo"
	"github.com/project-tktt/go-tracker/internal/queue"
	"github.com/project-tktt/go-tracker/internal/search"
	"github.com/project-tktt/go-tracker/internal/store"
	"github.com/project-tktt/go-tracker/internal/worker"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "tracker-worker").Logger()
	logger.Info().Msg("starting geocode worker")

	// Load configuration
	cfg := config.Load()

	// Initialize Redis client
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Test Redis connection
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

	// Initialize components
	geocoder := geo.NewGeocoder(rdb, cfg.Geo.BaseURL, cfg.Geo.UserAgent, cfg.Redis.GeoCacheKey, cfg.Geo.RequestDelay, logger)
	consumer := queue.NewConsumer(rdb, cfg.Redis.GeocodeQueue, cfg.Worker.ConsumeTimeout)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	// Start worker pool (drains queue -> geocodes -> saves -> reindexes)
	wg.Add(1)
	go func() {
		defer wg.Done()
		w := worker.NewWorker(consumer, st, geocoder, idx, worker.Config{
			Concurrency: cfg.Worker.Concurrency,
		}, logger)
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("worker error")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info().Msg("shutdown signal received, stopping")
	cancel()

	// Wait for goroutines to finish
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info().Msg("graceful shutdown complete")
	case <-time.After(30 * time.Second):
		logger.Warn().Msg("shutdown timeout, forcing exit")
	}
}
