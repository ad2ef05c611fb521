package api

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/project-tktt/go-tracker/internal/analytics"
	"github.com/project-tktt/go-tracker/internal/store"
)

type applicationUpdate struct {
	JobID  string `json:"job_id" binding:"required"`
	Status string `json:"status" binding:"required"`
	Value  bool   `json:"value"`
}

type bulkApplicationUpdate struct {
	JobIDs []string `json:"job_ids" binding:"required"`
	Status string   `json:"status" binding:"required"`
	Value  bool     `json:"value"`
}

// mergedLists combines the hand-marked lists with the applied set derived
// from the tracker itself, so a posting applied to on Simplify shows as
// applied here without a manual mark.
func (r *Router) mergedLists(ctx context.Context, username string) (store.ApplicationLists, error) {
	lists, err := r.store.GetLists(ctx, username)
	if err != nil {
		return lists, err
	}

	apps, err := r.store.GetParsed(ctx, username)
	if err != nil {
		return lists, err
	}

	applied := make(map[string]bool, len(lists.Applied))
	for _, id := range lists.Applied {
		applied[id] = true
	}
	for _, app := range apps {
		if app.JobPostingID == "" || applied[app.JobPostingID] {
			continue
		}
		for _, ev := range app.StatusEvents {
			if analytics.NormalizeStatus(ev.Status) == "applied" {
				applied[app.JobPostingID] = true
				break
			}
		}
	}

	merged := make([]string, 0, len(applied))
	for id := range applied {
		merged = append(merged, id)
	}
	sort.Strings(merged)
	lists.Applied = merged
	return lists, nil
}

func (r *Router) getApplications(c *gin.Context) {
	lists, err := r.mergedLists(c.Request.Context(), currentUser(c))
	if err != nil {
		r.logger.Error().Err(err).Msg("get applications failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get applications"})
		return
	}
	c.JSON(http.StatusOK, lists)
}

func (r *Router) updateApplication(c *gin.Context) {
	var body applicationUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "job_id and status are required"})
		return
	}

	username := currentUser(c)
	if err := r.store.SetMark(c.Request.Context(), username, body.JobID, body.Status, body.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	lists, err := r.mergedLists(c.Request.Context(), username)
	if err != nil {
		r.logger.Error().Err(err).Msg("get applications failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get applications"})
		return
	}
	c.JSON(http.StatusOK, lists)
}

// bulkUpdateApplications applies one mark to many jobs at once so the UI
// doesn't flood the API with per-row requests.
func (r *Router) bulkUpdateApplications(c *gin.Context) {
	var body bulkApplicationUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "job_ids and status are required"})
		return
	}

	username := currentUser(c)
	if err := r.store.SetMarks(c.Request.Context(), username, body.JobIDs, body.Status, body.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	lists, err := r.mergedLists(c.Request.Context(), username)
	if err != nil {
		r.logger.Error().Err(err).Msg("get applications failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get applications"})
		return
	}
	c.JSON(http.StatusOK, lists)
}
