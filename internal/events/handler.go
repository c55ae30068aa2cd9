package events

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tourism-portal/events-portal-backend/internal/auth"
	"tourism-portal/events-portal-backend/internal/status"
)

// Handler handles HTTP requests for event CRUD and listings
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new events handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers staff-facing event routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/events")
	{
		events.POST("", h.createEvent)
		events.GET("", h.listEvents)
		events.GET("/export", h.exportEvents)
		events.GET("/:id", h.getEvent)
		events.PUT("/:id", h.updateEvent)
	}
	categories := router.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
	}
}

// RegisterPublicRoutes registers the public calendar routes
func (h *Handler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/events", h.listPublicEvents)
	router.GET("/categories", h.listCategories)
}

func (h *Handler) createEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := auth.ActorFrom(c)
	event, err := h.service.CreateEvent(c.Request.Context(), req, actor.ID, actor.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *Handler) getEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.service.GetEvent(c.Request.Context(), id)
	if errors.Is(err, ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("failed to get event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *Handler) updateEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.service.UpdateEvent(c.Request.Context(), id, req)
	switch {
	case errors.Is(err, ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrEventLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, event)
	}
}

func (h *Handler) listEvents(c *gin.Context) {
	evts, err := h.service.ListEvents(c.Request.Context(), FiltersFromQuery(c))
	if err != nil {
		h.logger.Error("failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": evts, "total": len(evts)})
}

// exportEvents handles GET /api/v1/events/export, serving the filtered
// listing as a CSV download.
func (h *Handler) exportEvents(c *gin.Context) {
	evts, err := h.service.ListEvents(c.Request.Context(), FiltersFromQuery(c))
	if err != nil {
		h.logger.Error("failed to export events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="events.csv"`)
	if err := ExportCSV(c.Writer, evts, DefaultCSVOptions()); err != nil {
		h.logger.Error("failed to write csv export", zap.Error(err))
	}
}

func (h *Handler) listPublicEvents(c *gin.Context) {
	evts, err := h.service.ListPublicEvents(c.Request.Context(), FiltersFromQuery(c), time.Now().UTC())
	if err != nil {
		h.logger.Error("failed to list public events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": evts, "total": len(evts)})
}

func (h *Handler) createCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// FiltersFromQuery reads the shared listing filters from the query string.
// Dates accept RFC 3339 or plain YYYY-MM-DD.
func FiltersFromQuery(c *gin.Context) Filters {
	f := Filters{
		Search:    c.Query("search"),
		EventType: c.Query("type"),
		Status:    status.Code(c.Query("status")),
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.CategoryID = &id
		}
	}
	if t, ok := parseDate(c.Query("start_date")); ok {
		f.StartDate = &t
	}
	if t, ok := parseDate(c.Query("end_date")); ok {
		f.EndDate = &t
	}
	return f
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
