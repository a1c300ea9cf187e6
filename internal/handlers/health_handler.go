package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	storePing func(context.Context) error
}

// NewHealthHandler creates the healthcheck handler. storePing reports
// counter store health and may be nil when no store is configured.
func NewHealthHandler(storePing func(context.Context) error) *HealthHandler {
	return &HealthHandler{
		storePing: storePing,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if h.storePing != nil {
		if err := h.storePing(c.Request.Context()); err != nil {
			attachError(c, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"reason": "counter store unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
