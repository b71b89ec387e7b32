package handlers

import (
	"net/http"

	"github.com/allknee486/Impulse/internal/errors"
	"github.com/allknee486/Impulse/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the heuristic dashboard metrics
type DashboardHandler struct {
	dashboardService services.DashboardServiceInterface
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService services.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetMetrics returns the savings heuristic metrics for the dashboard
func (h *DashboardHandler) GetMetrics(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	metrics, err := h.dashboardService.GetMetrics(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, metrics)
}
