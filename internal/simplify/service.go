package simplify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// ErrCookieExpired is returned when the upstream rejects the stored session
// cookie. The user has to capture a fresh one from their browser.
var ErrCookieExpired = errors.New("simplify session cookie rejected")

// ErrNoCookie is returned when a refresh is requested for a user who never
// stored a cookie.
var ErrNoCookie = errors.New("no simplify cookie stored for user")

// CookieStore provides the per-user session cookie.
type CookieStore interface {
	GetCookie(ctx context.Context, username string) (string, error)
}

// ParsedStore persists the parsed application set per user.
type ParsedStore interface {
	SaveParsed(ctx context.Context, username string, apps []domain.TrackedApplication) error
}

// Indexer makes the parsed applications searchable.
type Indexer interface {
	BulkIndex(ctx context.Context, username string, apps []domain.TrackedApplication) error
}

// TaskPublisher enqueues follow-up background work for a user.
type TaskPublisher interface {
	Publish(ctx context.Context, username string) error
}

// Service runs the full refresh pipeline for one user: fetch the tracker,
// parse it, persist the result, reindex, and queue geocoding.
type Service struct {
	client  *Client
	parser  *Parser
	cookies CookieStore
	parsed  ParsedStore
	indexer Indexer
	tasks   TaskPublisher
	logger  zerolog.Logger
}

// NewService wires the refresh pipeline
func NewService(client *Client, parser *Parser, cookies CookieStore, parsed ParsedStore, indexer Indexer, tasks TaskPublisher, logger zerolog.Logger) *Service {
	return &Service{
		client:  client,
		parser:  parser,
		cookies: cookies,
		parsed:  parsed,
		indexer: indexer,
		tasks:   tasks,
		logger:  logger.With().Str("component", "simplify").Logger(),
	}
}

// RefreshUser fetches and reprocesses one user's tracker. Geocoding runs
// later in the worker, so freshly fetched applications come back without
// coordinates until that pass completes.
func (s *Service) RefreshUser(ctx context.Context, username string) ([]domain.TrackedApplication, error) {
	cookie, err := s.cookies.GetCookie(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load cookie: %w", err)
	}
	if cookie == "" {
		return nil, ErrNoCookie
	}

	items, err := s.client.FetchTracker(ctx, cookie)
	if err != nil {
		return nil, fmt.Errorf("fetch tracker: %w", err)
	}

	apps := s.parser.Parse(items)
	s.logger.Info().
		Str("username", username).
		Int("fetched", len(items)).
		Int("parsed", len(apps)).
		Msg("tracker refreshed")

	if err := s.parsed.SaveParsed(ctx, username, apps); err != nil {
		return nil, fmt.Errorf("save parsed: %w", err)
	}

	if err := s.indexer.BulkIndex(ctx, username, apps); err != nil {
		// Search lags behind but the refresh itself succeeded.
		s.logger.Error().Err(err).Str("username", username).Msg("bulk index failed")
	}

	if err := s.tasks.Publish(ctx, username); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("enqueue geocode task failed")
	}

	return apps, nil
}
