package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/project-tktt/go-tracker/internal/analytics"
	"github.com/project-tktt/go-tracker/internal/domain"
	"github.com/project-tktt/go-tracker/internal/store"
)

// Store is the persistence surface the API needs.
type Store interface {
	UpsertCookie(ctx context.Context, username, cookie string) error
	GetCookie(ctx context.Context, username string) (string, error)
	GetParsed(ctx context.Context, username string) ([]domain.TrackedApplication, error)
	GetLists(ctx context.Context, username string) (store.ApplicationLists, error)
	SetMark(ctx context.Context, username, jobID, list string, value bool) error
	SetMarks(ctx context.Context, username string, jobIDs []string, list string, value bool) error
	GetFilterPreference(ctx context.Context, username string) (domain.FilterPreference, error)
	SaveFilterPreference(ctx context.Context, username string, pref domain.FilterPreference) error
	CreateSnapshot(ctx context.Context, snap store.Snapshot) (store.Snapshot, error)
	ListSnapshots(ctx context.Context, username string) ([]store.SnapshotInfo, error)
	GetSnapshot(ctx context.Context, username, id string) (store.Snapshot, error)
	DeleteSnapshot(ctx context.Context, username, id string) error
}

// Refresher runs the tracker refresh pipeline for one user.
type Refresher interface {
	RefreshUser(ctx context.Context, username string) ([]domain.TrackedApplication, error)
}

// Fetcher fetches raw tracker items with a caller-supplied cookie.
type Fetcher interface {
	FetchTracker(ctx context.Context, cookie string) ([]json.RawMessage, error)
}

// Searcher queries one user's indexed applications.
type Searcher interface {
	Search(ctx context.Context, username, query string, size int) ([]domain.TrackedApplication, error)
}

// Router holds the HTTP layer's dependencies.
type Router struct {
	store     Store
	refresher Refresher
	fetcher   Fetcher
	searcher  Searcher
	processor *analytics.Processor
	logger    zerolog.Logger

	userHeader     string
	allowedOrigins string
}

// Config holds HTTP layer settings.
type Config struct {
	UserHeader     string
	AllowedOrigins string
}

// NewRouter creates the API router
func NewRouter(st Store, refresher Refresher, fetcher Fetcher, searcher Searcher, processor *analytics.Processor, cfg Config, logger zerolog.Logger) *Router {
	return &Router{
		store:          st,
		refresher:      refresher,
		fetcher:        fetcher,
		searcher:       searcher,
		processor:      processor,
		logger:         logger.With().Str("component", "api").Logger(),
		userHeader:     cfg.UserHeader,
		allowedOrigins: cfg.AllowedOrigins,
	}
}

// Handler builds the gin engine with all routes registered.
func (r *Router) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(r.logger))
	engine.Use(Timing())
	engine.Use(CORS(r.allowedOrigins))

	engine.GET("/healthz", r.health)

	v1 := engine.Group("/api/v1")
	v1.Use(Identity(r.userHeader))
	{
		v1.GET("/simplify/tracker", r.getTracker)
		v1.POST("/simplify/refresh", r.refresh)
		v1.GET("/simplify/parsed", r.getParsed)
		v1.GET("/simplify/cookie", r.getCookie)
		v1.PUT("/simplify/cookie", r.putCookie)

		v1.GET("/applications", r.getApplications)
		v1.POST("/applications", r.updateApplication)
		v1.POST("/applications/bulk", r.bulkUpdateApplications)

		v1.GET("/analytics/data", r.analyticsData)
		v1.GET("/analytics/filters", r.getFilters)
		v1.PUT("/analytics/filters", r.putFilters)
		v1.GET("/analytics/snapshots", r.listSnapshots)
		v1.POST("/analytics/snapshots", r.createSnapshot)
		v1.GET("/analytics/snapshots/:id", r.getSnapshot)
		v1.DELETE("/analytics/snapshots/:id", r.deleteSnapshot)

		v1.GET("/search", r.search)
	}

	return engine
}

func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
