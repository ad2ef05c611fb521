package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/project-tktt/go-tracker/internal/simplify"
	"github.com/project-tktt/go-tracker/internal/store"
)

// getTracker proxies a raw tracker fetch with a cookie supplied by the
// caller, without touching the stored one. Useful for validating a cookie
// before saving it.
func (r *Router) getTracker(c *gin.Context) {
	cookie := c.GetHeader("Cookies")
	if cookie == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cookies header required"})
		return
	}

	items, err := r.fetcher.FetchTracker(c.Request.Context(), cookie)
	if err != nil {
		if errors.Is(err, simplify.ErrCookieExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Simplify rejected the cookie"})
			return
		}
		r.logger.Error().Err(err).Msg("tracker fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Failed to fetch tracker data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// refresh re-fetches the tracker with the stored cookie and reprocesses it.
func (r *Router) refresh(c *gin.Context) {
	username := currentUser(c)

	apps, err := r.refresher.RefreshUser(c.Request.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, simplify.ErrNoCookie), errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Simplify cookie not found"})
		case errors.Is(err, simplify.ErrCookieExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Simplify cookie expired, please update it"})
		default:
			r.logger.Error().Err(err).Str("username", username).Msg("refresh failed")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to refresh tracker data"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Tracker refreshed. Coordinates are being added in the background.",
		"items_count": len(apps),
	})
}

func (r *Router) getParsed(c *gin.Context) {
	apps, err := r.store.GetParsed(c.Request.Context(), currentUser(c))
	if err != nil {
		r.logger.Error().Err(err).Msg("read parsed failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to read parsed data"})
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (r *Router) getCookie(c *gin.Context) {
	cookie, err := r.store.GetCookie(c.Request.Context(), currentUser(c))
	if err != nil || cookie == "" {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			r.logger.Error().Err(err).Msg("get cookie failed")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get Simplify cookie"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"detail": "Simplify cookie not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cookie": cookie})
}

func (r *Router) putCookie(c *gin.Context) {
	var body struct {
		Cookie string `json:"cookie" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "cookie is required"})
		return
	}

	if err := r.store.UpsertCookie(c.Request.Context(), currentUser(c), body.Cookie); err != nil {
		r.logger.Error().Err(err).Msg("update cookie failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update Simplify cookie"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Simplify cookie updated successfully"})
}
