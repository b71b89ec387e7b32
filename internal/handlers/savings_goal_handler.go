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

// SavingsGoalHandler handles savings goal HTTP requests
type SavingsGoalHandler struct {
	goalService services.SavingsGoalServiceInterface
}

// NewSavingsGoalHandler creates a new savings goal handler
func NewSavingsGoalHandler(goalService services.SavingsGoalServiceInterface) *SavingsGoalHandler {
	return &SavingsGoalHandler{
		goalService: goalService,
	}
}

// CreateGoal creates a new savings goal
func (h *SavingsGoalHandler) CreateGoal(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateSavingsGoalRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	amount, targetDate, err := h.parseFields(req.TargetAmount, req.TargetDate)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	goal, err := h.goalService.CreateGoal(userID, req.Name, amount, targetDate)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusCreated, goal)
}

// GetGoals lists the user's savings goals
func (h *SavingsGoalHandler) GetGoals(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	if c.QueryParam("active") == "true" {
		goals, err := h.goalService.GetActiveGoals(userID)
		if err != nil {
			return SendSystemError(c, err)
		}
		return c.JSON(http.StatusOK, goals)
	}

	goals, err := h.goalService.GetGoals(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, goals)
}

// GetGoal retrieves a single savings goal
func (h *SavingsGoalHandler) GetGoal(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	goalID, err := uuid.Parse(c.Param("goalId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid goal ID"))
	}

	goal, err := h.goalService.GetGoal(userID, goalID)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, goal)
}

// UpdateGoal saves changes to a savings goal
func (h *SavingsGoalHandler) UpdateGoal(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	goalID, err := uuid.Parse(c.Param("goalId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid goal ID"))
	}

	var req dto.UpdateSavingsGoalRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	amount, targetDate, err := h.parseFields(req.TargetAmount, req.TargetDate)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	goal, err := h.goalService.UpdateGoal(userID, goalID, req.Name, amount, targetDate)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, goal)
}

// DeleteGoal removes a savings goal
func (h *SavingsGoalHandler) DeleteGoal(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	goalID, err := uuid.Parse(c.Param("goalId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid goal ID"))
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		return h.mapError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AddProgress adds saved money toward a goal
func (h *SavingsGoalHandler) AddProgress(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	goalID, err := uuid.Parse(c.Param("goalId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid goal ID"))
	}

	var req dto.AddProgressRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	goal, err := h.goalService.AddProgress(userID, goalID, amount)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, goal)
}

// GetSummary aggregates all of the user's savings goals
func (h *SavingsGoalHandler) GetSummary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	summary, err := h.goalService.GetSummary(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *SavingsGoalHandler) parseFields(targetAmount, targetDate string) (decimal.Decimal, *time.Time, error) {
	amount, err := parseAmount(targetAmount)
	if err != nil {
		return decimal.Zero, nil, err
	}

	var date *time.Time
	if targetDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", targetDate, time.Local)
		if err != nil {
			return decimal.Zero, nil, err
		}
		date = &parsed
	}

	return amount, date, nil
}

func (h *SavingsGoalHandler) mapError(c echo.Context, err error) error {
	switch err {
	case services.ErrGoalNotFound:
		return SendError(c, errors.GoalNotFound)
	case services.ErrGoalUnauthorized:
		return SendError(c, errors.AuthInsufficientPermission)
	case services.ErrGoalAlreadyDone:
		return SendError(c, errors.GoalAlreadyDone)
	case models.ErrGoalAmountInvalid, models.ErrGoalProgressInvalid:
		return SendError(c, errors.GoalInvalidAmount)
	}
	return SendSystemError(c, err)
}
