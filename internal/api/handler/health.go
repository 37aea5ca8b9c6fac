package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	captionSource string
	font          string
}

// NewHealthHandler creates a new health handler that reports the active
// caption source and font.
func NewHealthHandler(captionSource, font string) *HealthHandler {
	return &HealthHandler{captionSource: captionSource, font: font}
}

// Health returns the health status of the service
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"caption_source": h.captionSource,
		"font":           h.font,
	})
}
