package handlers

import (
	"net/http"
	"time"

	"github.com/allknee486/Impulse/internal/dto"
	"github.com/allknee486/Impulse/internal/errors"
	"github.com/allknee486/Impulse/internal/models"
	"github.com/allknee486/Impulse/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService services.BudgetServiceInterface
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService services.BudgetServiceInterface) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// CreateBudget creates a new budget
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	amount, startDate, endDate, err := h.parseFields(req.Amount, req.StartDate, req.EndDate)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	budget, err := h.budgetService.CreateBudget(userID, req.Name, amount, startDate, endDate)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusCreated, budget)
}

// GetBudgets lists the user's budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgets, err := h.budgetService.GetBudgets(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, budgets)
}

// GetBudget retrieves a single budget
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("budgetId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	budget, err := h.budgetService.GetBudget(userID, budgetID)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, budget)
}

// GetActiveBudget retrieves the user's current active budget
func (h *BudgetHandler) GetActiveBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budget, err := h.budgetService.GetActiveBudget(userID)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, budget)
}

// CheckExists reports whether the user has created any budget
func (h *BudgetHandler) CheckExists(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	hasBudget, err := h.budgetService.HasBudget(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BudgetExistsResponse{HasBudget: hasBudget})
}

// UpdateBudget saves changes to a budget
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("budgetId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	var req dto.UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	amount, startDate, endDate, err := h.parseFields(req.Amount, req.StartDate, req.EndDate)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, req.Name, amount, *req.IsActive, startDate, endDate)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, budget)
}

// DeleteBudget removes a budget and its allocations
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("budgetId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		return h.mapError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetSummary returns the dashboard budget state
func (h *BudgetHandler) GetSummary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	summary, err := h.budgetService.GetSummary(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// GetAllocations lists a budget's category allocations
func (h *BudgetHandler) GetAllocations(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("budgetId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	allocations, err := h.budgetService.GetAllocations(userID, budgetID)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, allocations)
}

// UpdateAllocations upserts a budget's per-category allocated amounts
func (h *BudgetHandler) UpdateAllocations(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, err := uuid.Parse(c.Param("budgetId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	}

	var req dto.UpdateAllocationsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	allocations := make(map[uuid.UUID]decimal.Decimal, len(req.Allocations))
	for _, item := range req.Allocations {
		categoryID, err := uuid.Parse(item.CategoryID)
		if err != nil {
			return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid category ID"))
		}
		amount, err := parseAmount(item.Amount)
		if err != nil {
			return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
		}
		allocations[categoryID] = amount
	}

	updated, err := h.budgetService.UpdateAllocations(userID, budgetID, allocations)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

// GetBudgetVsActual compares the active budget's allocations against actual
// spending
func (h *BudgetHandler) GetBudgetVsActual(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	comparison, err := h.budgetService.GetBudgetVsActual(userID)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, comparison)
}

func (h *BudgetHandler) parseFields(amount, startDate, endDate string) (decimal.Decimal, time.Time, time.Time, error) {
	parsedAmount, err := parseAmount(amount)
	if err != nil {
		return decimal.Zero, time.Time{}, time.Time{}, err
	}

	start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
	if err != nil {
		return decimal.Zero, time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, time.Local)
	if err != nil {
		return decimal.Zero, time.Time{}, time.Time{}, err
	}

	return parsedAmount, start, end, nil
}

func (h *BudgetHandler) mapError(c echo.Context, err error) error {
	switch err {
	case services.ErrBudgetNotFound:
		return SendError(c, errors.BudgetNotFound)
	case services.ErrNoActiveBudget:
		return SendError(c, errors.BudgetNoActiveBudget)
	case services.ErrBudgetUnauthorized, services.ErrCategoryUnauthorized:
		return SendError(c, errors.AuthInsufficientPermission)
	case services.ErrCategoryNotFound:
		return SendError(c, errors.CategoryNotFound)
	case models.ErrBudgetAmountInvalid:
		return SendError(c, errors.BudgetInvalidAmount)
	case models.ErrBudgetDatesInvalid:
		return SendError(c, errors.BudgetInvalidDates)
	case models.ErrAllocationAmountInvalid:
		return SendError(c, errors.ValidationOutOfRange, errors.WithDetails(err.Error()))
	}
	return SendSystemError(c, err)
}
