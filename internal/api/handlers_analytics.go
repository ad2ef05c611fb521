package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/project-tktt/go-tracker/internal/domain"
	"github.com/project-tktt/go-tracker/internal/store"
)

// filtersFromQuery builds the analytics filter set from query parameters.
// List parameters are comma-separated; unknown or malformed values leave
// the clause inactive.
func filtersFromQuery(c *gin.Context) domain.AnalyticsFilters {
	f := domain.AnalyticsFilters{
		DateRange:       domain.DateRange(c.Query("date_range")),
		CustomStartDate: c.Query("custom_start_date"),
		CustomEndDate:   c.Query("custom_end_date"),
		Companies:       splitParam(c.Query("companies")),
		Locations:       splitParam(c.Query("locations")),
		Statuses:        splitParam(c.Query("statuses")),
	}
	if v, err := strconv.ParseFloat(c.Query("salary_min"), 64); err == nil {
		f.SalaryMin = &v
	}
	if v, err := strconv.ParseFloat(c.Query("salary_max"), 64); err == nil {
		f.SalaryMax = &v
	}
	return f
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// analyticsData computes the full dashboard payload server-side. When a
// snapshot_id is given the frozen data is processed instead of the live set.
func (r *Router) analyticsData(c *gin.Context) {
	username := currentUser(c)

	var apps []domain.TrackedApplication
	if snapshotID := c.Query("snapshot_id"); snapshotID != "" {
		snap, err := r.store.GetSnapshot(c.Request.Context(), username, snapshotID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Snapshot not found"})
				return
			}
			r.logger.Error().Err(err).Msg("load snapshot failed")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load snapshot"})
			return
		}
		apps = snap.Data
	} else {
		var err error
		apps, err = r.store.GetParsed(c.Request.Context(), username)
		if err != nil {
			r.logger.Error().Err(err).Msg("load parsed failed")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load tracked applications"})
			return
		}
	}

	c.JSON(http.StatusOK, r.processor.Process(apps, filtersFromQuery(c)))
}

func (r *Router) getFilters(c *gin.Context) {
	pref, err := r.store.GetFilterPreference(c.Request.Context(), currentUser(c))
	if err != nil {
		r.logger.Error().Err(err).Msg("get filter preference failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get filter preferences"})
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (r *Router) putFilters(c *gin.Context) {
	var pref domain.FilterPreference
	if err := c.ShouldBindJSON(&pref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid filter preferences"})
		return
	}

	if err := r.store.SaveFilterPreference(c.Request.Context(), currentUser(c), pref); err != nil {
		r.logger.Error().Err(err).Msg("save filter preference failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to save filter preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Filter preferences updated"})
}

type snapshotCreate struct {
	Name        string                   `json:"name" binding:"required"`
	Description string                   `json:"description"`
	Filters     *domain.AnalyticsFilters `json:"filters"`
}

func (r *Router) listSnapshots(c *gin.Context) {
	infos, err := r.store.ListSnapshots(c.Request.Context(), currentUser(c))
	if err != nil {
		r.logger.Error().Err(err).Msg("list snapshots failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch snapshots"})
		return
	}
	c.JSON(http.StatusOK, infos)
}

func (r *Router) createSnapshot(c *gin.Context) {
	var body snapshotCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "name is required"})
		return
	}

	username := currentUser(c)
	apps, err := r.store.GetParsed(c.Request.Context(), username)
	if err != nil {
		r.logger.Error().Err(err).Msg("load parsed failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load tracked applications"})
		return
	}
	if len(apps) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cannot create snapshot with no data"})
		return
	}

	snap, err := r.store.CreateSnapshot(c.Request.Context(), store.Snapshot{
		Username:    username,
		Name:        body.Name,
		Description: body.Description,
		Data:        apps,
		Filters:     body.Filters,
	})
	if err != nil {
		if errors.Is(err, store.ErrSnapshotLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Maximum number of snapshots reached. Please delete an existing snapshot first."})
			return
		}
		r.logger.Error().Err(err).Msg("create snapshot failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create snapshot"})
		return
	}

	c.JSON(http.StatusOK, store.SnapshotInfo{
		ID:          snap.ID,
		Username:    snap.Username,
		Name:        snap.Name,
		Description: snap.Description,
		CreatedAt:   snap.CreatedAt,
		DataCount:   len(snap.Data),
	})
}

func (r *Router) getSnapshot(c *gin.Context) {
	snap, err := r.store.GetSnapshot(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Snapshot not found"})
			return
		}
		r.logger.Error().Err(err).Msg("get snapshot failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch snapshot"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (r *Router) deleteSnapshot(c *gin.Context) {
	err := r.store.DeleteSnapshot(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Snapshot not found"})
			return
		}
		r.logger.Error().Err(err).Msg("delete snapshot failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete snapshot"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Snapshot deleted successfully"})
}

func (r *Router) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "q is required"})
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))

	apps, err := r.searcher.Search(c.Request.Context(), currentUser(c), query, size)
	if err != nil {
		r.logger.Error().Err(err).Msg("search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": apps})
}
