package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves liveness and readiness probes.
type SystemHandler struct {
	Ping func(ctx context.Context) error
}

func (h SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"status": "ok"}})
}

func (h SystemHandler) Ready(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(c.Request.Context()); err != nil {
			respondError(c, http.StatusServiceUnavailable, "database unreachable", err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"status": "ready"}})
}
