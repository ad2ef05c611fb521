package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/project-tktt/go-tracker/internal/domain"
)

// UserLister enumerates users eligible for a scheduled refresh.
type UserLister interface {
	UsersWithCookie(ctx context.Context) ([]string, error)
}

// Refresher runs the tracker refresh pipeline for one user.
type Refresher interface {
	RefreshUser(ctx context.Context, username string) ([]domain.TrackedApplication, error)
}

// Scheduler re-fetches every connected user's tracker on a fixed interval so
// dashboards stay current without manual refreshes.
type Scheduler struct {
	cron      *cron.Cron
	users     UserLister
	refresher Refresher
	interval  time.Duration
	logger    zerolog.Logger
}

// New creates the refresh scheduler
func New(users UserLister, refresher Refresher, intervalHours int, logger zerolog.Logger) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = 6
	}
	return &Scheduler{
		cron:      cron.New(),
		users:     users,
		refresher: refresher,
		interval:  time.Duration(intervalHours) * time.Hour,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.refreshAll(ctx) }); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}

	s.cron.Start()
	s.logger.Info().Str("interval", s.interval.String()).Msg("scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) refreshAll(ctx context.Context) {
	users, err := s.users.UsersWithCookie(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list users failed")
		return
	}

	for _, username := range users {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.refresher.RefreshUser(ctx, username); err != nil {
			// A bad cookie for one user must not block the rest.
			s.logger.Error().Err(err).Str("username", username).Msg("scheduled refresh failed")
		}
	}

	s.logger.Info().Int("users", len(users)).Msg("scheduled refresh pass complete")
}
