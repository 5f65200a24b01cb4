// Package status serves the dependency probes. They always answer 200;
// availability is reported in the body.
package status

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/cancerguard-api/internal/model"
)

// TextGenProbe reports the text generation service status.
type TextGenProbe interface {
	Status(ctx context.Context) model.StatusMessage
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	textgen TextGenProbe
	db      Pinger
}

func NewHandler(textgen TextGenProbe, db Pinger) *Handler {
	return &Handler{textgen: textgen, db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.GET("/gemini-status", h.GeminiStatus)
	// named after the hosted database the web client was first built against
	rg.GET("/supabase-status", h.DatabaseStatus)
}

func (h *Handler) GeminiStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.textgen.Status(c.Request.Context()))
}

func (h *Handler) DatabaseStatus(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Database status check failed")
		c.JSON(http.StatusOK, model.StatusMessage{
			Available: false,
			Message:   "Database error: " + err.Error(),
			Error:     true,
		})
		return
	}
	c.JSON(http.StatusOK, model.StatusMessage{
		Available: true,
		Message:   "Database is properly configured and working.",
	})
}
