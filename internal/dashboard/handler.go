package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tourism-portal/events-portal-backend/internal/auth"
	"tourism-portal/events-portal-backend/internal/events"
)

// Handler serves the dashboard projections.
type Handler struct {
	events *events.Service
	cache  *SnapshotCache
	logger *zap.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(eventsService *events.Service, cache *SnapshotCache, logger *zap.Logger) *Handler {
	return &Handler{events: eventsService, cache: cache, logger: logger}
}

// RegisterRoutes registers dashboard routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	dash := router.Group("/dashboard")
	{
		dash.GET("/counters", h.getCounters)
		dash.GET("/events", h.getTabEvents)
	}
}

// getCounters handles GET /api/v1/dashboard/counters
func (h *Handler) getCounters(c *gin.Context) {
	actor := auth.ActorFrom(c)
	key := string(actor.Role) + "|" + c.Request.URL.RawQuery

	if counters, defaultTab, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, gin.H{"counters": counters, "default_tab": defaultTab})
		return
	}

	evts, err := h.events.ListEvents(c.Request.Context(), events.FiltersFromQuery(c))
	if err != nil {
		h.logger.Error("failed to load events for counters", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	counters := CountersFor(actor.Role, evts, now)
	defaultTab := DefaultTab(actor.Role, evts, now)
	h.cache.Set(key, counters, defaultTab)

	c.JSON(http.StatusOK, gin.H{
		"counters":    counters,
		"default_tab": defaultTab,
	})
}

// getTabEvents handles GET /api/v1/dashboard/events?tab=...
// Without a tab parameter the default tab for the current snapshot is used.
// The shared listing filters (search, category, dates, type) apply on top.
func (h *Handler) getTabEvents(c *gin.Context) {
	evts, err := h.events.ListEvents(c.Request.Context(), events.FiltersFromQuery(c))
	if err != nil {
		h.logger.Error("failed to load events for dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	actor := auth.ActorFrom(c)
	now := time.Now().UTC()

	tab := DefaultTab(actor.Role, evts, now)
	if raw := c.Query("tab"); raw != "" {
		parsed, ok := ParseTab(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tab"})
			return
		}
		tab = parsed
	}

	c.JSON(http.StatusOK, gin.H{
		"tab":    tab,
		"events": FilterByTab(tab, actor.Role, evts, now),
	})
}
