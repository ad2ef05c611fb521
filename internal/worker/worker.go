package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/project-tktt/go-tracker/internal/domain"
	"github.com/project-tktt/go-tracker/internal/geo"
	"github.com/project-tktt/go-tracker/internal/queue"
	"github.com/project-tktt/go-tracker/internal/simplify"
)

// ParsedStore loads and saves per-user parsed applications.
type ParsedStore interface {
	GetParsed(ctx context.Context, username string) ([]domain.TrackedApplication, error)
	SaveParsed(ctx context.Context, username string, apps []domain.TrackedApplication) error
}

// Geocoder resolves one location string.
type Geocoder interface {
	Resolve(ctx context.Context, location string) (domain.Coordinate, error)
}

// Indexer refreshes the search index after coordinates land.
type Indexer interface {
	BulkIndex(ctx context.Context, username string, apps []domain.TrackedApplication) error
}

// Worker drains geocode tasks from the queue and backfills coordinates on
// the parsed application sets. Geocoding is slow (rate-limited external
// API), which is why it runs here instead of inside the refresh request.
type Worker struct {
	consumer *queue.Consumer
	store    ParsedStore
	geocoder Geocoder
	indexer  Indexer
	logger   zerolog.Logger

	batchSize   int
	concurrency int
}

// Config holds worker configuration
type Config struct {
	Concurrency int
	BatchSize   int
}

// NewWorker creates a new worker
func NewWorker(
	consumer *queue.Consumer,
	store ParsedStore,
	geocoder Geocoder,
	indexer Indexer,
	cfg Config,
	logger zerolog.Logger,
) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}

	return &Worker{
		consumer:    consumer,
		store:       store,
		geocoder:    geocoder,
		indexer:     indexer,
		logger:      logger.With().Str("component", "worker").Logger(),
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
	}
}

// Run starts the worker pool
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Int("concurrency", w.concurrency).Msg("starting worker pool")

	var wg sync.WaitGroup
	errChan := make(chan error, w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			if err := w.runSingle(ctx, workerID); err != nil {
				errChan <- fmt.Errorf("worker %d: %w", workerID, err)
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errChan:
		return err
	case <-done:
		return nil
	}
}

func (w *Worker) runSingle(ctx context.Context, workerID int) error {
	log := w.logger.With().Int("worker", workerID).Logger()
	log.Info().Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker stopping")
			return nil
		default:
		}

		// ConsumeBatch uses BRPOP for the first item, so no CPU spinning
		tasks, err := w.consumer.ConsumeBatch(ctx, w.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("consume error")
			continue
		}

		for _, task := range tasks {
			if err := w.processUser(ctx, task.Username); err != nil {
				log.Error().Err(err).Str("username", task.Username).Msg("geocode task failed")
			}
		}
	}
}

// processUser resolves coordinates for every application of one user that
// doesn't have them yet, then persists and reindexes the updated set.
func (w *Worker) processUser(ctx context.Context, username string) error {
	apps, err := w.store.GetParsed(ctx, username)
	if err != nil {
		return fmt.Errorf("load parsed: %w", err)
	}
	if len(apps) == 0 {
		return nil
	}

	resolved, failed := 0, 0
	for i := range apps {
		if len(apps[i].Coordinates) > 0 {
			continue
		}

		coords := w.resolveLocations(ctx, apps[i].JobPostingLocation, &failed)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		apps[i].Coordinates = coords
		resolved += len(coords)
	}

	if err := w.store.SaveParsed(ctx, username, apps); err != nil {
		return fmt.Errorf("save parsed: %w", err)
	}
	if err := w.indexer.BulkIndex(ctx, username, apps); err != nil {
		w.logger.Error().Err(err).Str("username", username).Msg("reindex after geocode failed")
	}

	w.logger.Info().
		Str("username", username).
		Int("applications", len(apps)).
		Int("resolved", resolved).
		Int("failed", failed).
		Msg("geocode pass complete")
	return nil
}

func (w *Worker) resolveLocations(ctx context.Context, location string, failed *int) []domain.Coordinate {
	coords := []domain.Coordinate{}
	if strings.TrimSpace(location) == "" {
		return coords
	}

	for _, place := range simplify.SplitLocations(location) {
		// Remote postings have no meaningful point on the map.
		if strings.Contains(strings.ToLower(place), "remote") {
			continue
		}

		coord, err := w.geocoder.Resolve(ctx, place)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return coords
			}
			if !errors.Is(err, geo.ErrNotFound) {
				w.logger.Error().Err(err).Str("location", place).Msg("geocode failed")
			}
			*failed++
			continue
		}
		coords = append(coords, coord)
	}
	return coords
}
