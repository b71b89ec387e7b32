package handlers

import (
	"net/http"
	"time"

	"github.com/allknee486/Impulse/internal/errors"
	"github.com/allknee486/Impulse/internal/metrics"
	"github.com/allknee486/Impulse/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AnalyticsHandler exposes the aggregation engine over HTTP
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServiceInterface
	recorder         metrics.RecorderInterface
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService services.AnalyticsServiceInterface, recorder metrics.RecorderInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		recorder:         recorder,
	}
}

// respond runs one aggregation for the authenticated user, recording its
// latency and outcome, and maps engine input errors to validation responses.
func (h *AnalyticsHandler) respond(c echo.Context, operation string, compute func(userID uuid.UUID) (any, error)) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	started := time.Now()
	result, err := compute(userID)
	h.recorder.RecordAggregationQuery(operation, time.Since(started), err == nil)

	if err != nil {
		switch err {
		case services.ErrInvalidDateRange:
			return SendError(c, errors.ValidationDateRange)
		case services.ErrInvalidGroupBy:
			return SendError(c, errors.ValidationGroupBy)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// GetSummary returns the headline analytics metrics
func (h *AnalyticsHandler) GetSummary(c echo.Context) error {
	return h.respond(c, "summary", func(userID uuid.UUID) (any, error) {
		return h.analyticsService.GetSummary(userID)
	})
}

// GetSpendingByCategory returns per-category totals over an optional window
func (h *AnalyticsHandler) GetSpendingByCategory(c echo.Context) error {
	start, err := parseDateParam(c, "start_date")
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}
	end, err := parseDateParam(c, "end_date")
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}

	return h.respond(c, "spending_by_category", func(userID uuid.UUID) (any, error) {
		return h.analyticsService.GetSpendingByCategory(userID, start, end)
	})
}

// GetSpendingTrend returns the dense daily spending series
func (h *AnalyticsHandler) GetSpendingTrend(c echo.Context) error {
	days := getIntParam(c, "days", services.DefaultTrendDays)
	return h.respond(c, "spending_trend", func(userID uuid.UUID) (any, error) {
		return h.analyticsService.GetSpendingTrend(userID, days)
	})
}

// GetImpulseAnalysis returns the month-to-date impulse/planned split
func (h *AnalyticsHandler) GetImpulseAnalysis(c echo.Context) error {
	return h.respond(c, "impulse_analysis", func(userID uuid.UUID) (any, error) {
		return h.analyticsService.GetImpulseAnalysis(userID)
	})
}

// GetMonthlySummary returns the month-to-date dashboard metrics
func (h *AnalyticsHandler) GetMonthlySummary(c echo.Context) error {
	return h.respond(c, "monthly_summary", func(userID uuid.UUID) (any, error) {
		return h.analyticsService.GetMonthlySummary(userID)
	})
}

// GetStreak returns the days-without-impulse streak
func (h *AnalyticsHandler) GetStreak(c echo.Context) error {
	return h.respond(c, "streak", func(userID uuid.UUID) (any, error) {
		streak, err := h.analyticsService.GetStreak(userID)
		if err != nil {
			return nil, err
		}
		return map[string]int{"streak_days": streak}, nil
	})
}

// GetWeeklySpending returns the last N 7-day window totals
func (h *AnalyticsHandler) GetWeeklySpending(c echo.Context) error {
	weeks := getIntParam(c, "weeks", services.DefaultWeeklyWindows)
	return h.respond(c, "weekly_spending", func(userID uuid.UUID) (any, error) {
		return h.analyticsService.GetWeeklySpending(userID, weeks)
	})
}

// GetMonthlyComparison returns the month-over-month comparison
func (h *AnalyticsHandler) GetMonthlyComparison(c echo.Context) error {
	months := getIntParam(c, "months", services.DefaultComparisonMonths)
	return h.respond(c, "monthly_comparison", func(userID uuid.UUID) (any, error) {
		return h.analyticsService.GetMonthlyComparison(userID, months)
	})
}

// GetYearlyBreakdown returns per-year totals with monthly slices
func (h *AnalyticsHandler) GetYearlyBreakdown(c echo.Context) error {
	years := getIntParam(c, "years", services.DefaultBreakdownYears)
	return h.respond(c, "yearly_breakdown", func(userID uuid.UUID) (any, error) {
		return h.analyticsService.GetYearlyBreakdown(userID, years)
	})
}

// GetCategoryTrends returns the category x month trend matrix
func (h *AnalyticsHandler) GetCategoryTrends(c echo.Context) error {
	months := getIntParam(c, "months", services.DefaultTrendMonths)
	return h.respond(c, "category_trends", func(userID uuid.UUID) (any, error) {
		return h.analyticsService.GetCategoryTrends(userID, months)
	})
}

// GetHeatmap returns the dense per-day heatmap with window statistics
func (h *AnalyticsHandler) GetHeatmap(c echo.Context) error {
	year := getIntParam(c, "year", 0)
	days := getIntParam(c, "days", services.DefaultHeatmapDays)
	return h.respond(c, "heatmap", func(userID uuid.UUID) (any, error) {
		return h.analyticsService.GetHeatmap(userID, year, days)
	})
}

// GetTimeRange returns spending bucketed by a caller-supplied grouping unit
func (h *AnalyticsHandler) GetTimeRange(c echo.Context) error {
	start, err := parseDateParam(c, "start_date")
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}
	end, err := parseDateParam(c, "end_date")
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	}
	groupBy := c.QueryParam("group_by")

	return h.respond(c, "time_range", func(userID uuid.UUID) (any, error) {
		return h.analyticsService.GetTimeRange(userID, start, end, groupBy)
	})
}
