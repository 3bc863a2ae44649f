package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mzahan92/socialite/feed/internal/trending"
)

// TrendingScheduler is the admin surface of the trending scheduler
type TrendingScheduler interface {
	RefreshNow() error
	Status() trending.Status
}

// AdminHandler handles administrative trending operations
type AdminHandler struct {
	scheduler            TrendingScheduler
	manualTriggerEnabled bool
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(scheduler TrendingScheduler, manualTriggerEnabled bool) *AdminHandler {
	return &AdminHandler{scheduler: scheduler, manualTriggerEnabled: manualTriggerEnabled}
}

// RegisterAdminRoutes registers trending admin routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/feed/admin/trending/refresh", h.TriggerRefresh)
	g.GET("/feed/admin/trending/status", h.GetStatus)
}

// TriggerRefresh runs an immediate aggregation cycle. A cycle already in
// progress is a conflict, not a queued request.
func (h *AdminHandler) TriggerRefresh(c echo.Context) error {
	if !h.manualTriggerEnabled {
		return c.JSON(http.StatusForbidden, echo.Map{
			"success": false,
			"error":   "Manual trigger is disabled",
		})
	}

	if err := h.scheduler.RefreshNow(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, trending.ErrRefreshInProgress) {
			status = http.StatusConflict
		}
		return c.JSON(status, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "Trending refresh triggered",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetStatus reports the scheduler state
func (h *AdminHandler) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scheduler.Status())
}
