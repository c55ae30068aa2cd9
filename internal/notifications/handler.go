package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler exposes the notification log.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new notifications handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers notification routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/events/:id/notifications", h.listForEvent)
}

// listForEvent handles GET /api/v1/events/:id/notifications
func (h *Handler) listForEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	out, err := h.service.ListForEvent(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out, "total": len(out)})
}
