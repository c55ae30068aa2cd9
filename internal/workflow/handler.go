package workflow

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tourism-portal/events-portal-backend/internal/auth"
	"tourism-portal/events-portal-backend/pkg/workflows"
)

// Handler handles HTTP requests for workflow operations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new workflow handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers workflow routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/events")
	{
		events.POST("/:id/transition", h.applyTransition)
		events.POST("/:id/cancel", h.cancelEvent)
		events.GET("/:id/history", h.getHistory)
		events.GET("/:id/actions", h.getAllowedActions)
		events.GET("/:id/status", h.getStatusSummary)
	}
}

type transitionBody struct {
	Action   string `json:"action" binding:"required"`
	Reason   string `json:"reason"`
	Comments string `json:"comments"`
}

type cancelBody struct {
	Reason string `json:"reason"`
}

// applyTransition handles POST /api/v1/events/:id/transition
func (h *Handler) applyTransition(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var body transitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	action, err := workflows.ParseAction(body.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := auth.ActorFrom(c)
	result, err := h.service.ApplyTransition(c.Request.Context(), TransitionRequest{
		EventID:   eventID,
		Action:    action,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Reason:    body.Reason,
		Comments:  body.Comments,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// cancelEvent handles POST /api/v1/events/:id/cancel
func (h *Handler) cancelEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	// Reason is optional for cancellation, an empty body is fine.
	var body cancelBody
	_ = c.ShouldBindJSON(&body)

	actor := auth.ActorFrom(c)
	result, err := h.service.Cancel(c.Request.Context(), eventID, actor.ID, actor.Role, body.Reason)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// getHistory handles GET /api/v1/events/:id/history
func (h *Handler) getHistory(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	entries, err := h.service.History(c.Request.Context(), eventID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// getAllowedActions handles GET /api/v1/events/:id/actions
func (h *Handler) getAllowedActions(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	actor := auth.ActorFrom(c)
	actions, err := h.service.AllowedActions(c.Request.Context(), eventID, actor.Role)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

// getStatusSummary handles GET /api/v1/events/:id/status
func (h *Handler) getStatusSummary(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	st, dur, err := h.service.StatusSummary(c.Request.Context(), eventID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            st,
		"time_in_status":    dur,
		"time_in_status_hr": dur.String(),
	})
}

// renderError maps the workflow error taxonomy to HTTP responses. Every
// denial carries a machine-readable kind plus the human-readable reason.
func (h *Handler) renderError(c *gin.Context, err error) {
	var (
		notFound    *NotFoundError
		invalid     *workflows.InvalidTransitionError
		unauthz     *workflows.UnauthorizedError
		shortReason *workflows.ReasonTooShortError
		storage     *StorageError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"kind": "not_found", "error": err.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusConflict, gin.H{"kind": "invalid_transition", "error": err.Error()})
	case errors.As(err, &unauthz):
		c.JSON(http.StatusForbidden, gin.H{"kind": "unauthorized", "error": err.Error()})
	case errors.As(err, &shortReason):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"kind":  "reason_too_short",
			"error": err.Error(),
			"min":   shortReason.Min,
		})
	case errors.As(err, &storage):
		h.logger.Error("storage failure", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"kind": "storage_failure", "error": "temporary storage failure, retry"})
	default:
		h.logger.Error("workflow request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
