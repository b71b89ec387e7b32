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

// TransactionHandler handles ledger HTTP requests
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransaction writes a new ledger entry
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	input, err := h.buildInput(req.BudgetID, req.CategoryID, req.Amount, req.Description, req.Notes, req.TransactionDate, req.IsImpulse)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	transaction, err := h.transactionService.CreateTransaction(userID, *input)
	if err != nil {
		return h.mapMutationError(c, err)
	}

	return c.JSON(http.StatusCreated, transaction)
}

// GetTransactions lists the user's transactions with optional filters
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	filters := models.TransactionFilters{
		UserID: userID,
		Offset: getIntParam(c, "offset", 0),
		Limit:  getIntParam(c, "limit", 50),
	}

	if categoryID, err := parseOptionalUUID(c.QueryParam("category_id")); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid category ID"))
	} else {
		filters.CategoryID = categoryID
	}
	if budgetID, err := parseOptionalUUID(c.QueryParam("budget_id")); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid budget ID"))
	} else {
		filters.BudgetID = budgetID
	}
	if impulseParam := c.QueryParam("is_impulse"); impulseParam != "" {
		impulse := impulseParam == "true"
		filters.IsImpulse = &impulse
	}
	if start, err := parseDateParam(c, "start_date"); err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	} else {
		filters.StartDate = start
	}
	if end, err := parseDateParam(c, "end_date"); err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails(err.Error()))
	} else {
		filters.EndDate = end
	}

	transactions, total, err := h.transactionService.GetTransactions(filters)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.TransactionListResponse{
		Transactions: transactions,
		Total:        total,
		Offset:       filters.Offset,
		Limit:        filters.Limit,
	})
}

// GetTransaction retrieves a single transaction
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("transactionId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	transaction, err := h.transactionService.GetTransaction(userID, transactionID)
	if err != nil {
		return h.mapMutationError(c, err)
	}

	return c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction saves changes to a ledger entry
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("transactionId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	var req dto.UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	input, err := h.buildInput(req.BudgetID, req.CategoryID, req.Amount, req.Description, req.Notes, req.TransactionDate, req.IsImpulse)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, *input)
	if err != nil {
		return h.mapMutationError(c, err)
	}

	return c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction removes a ledger entry
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("transactionId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		return h.mapMutationError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkImpulse flags a transaction as an impulse purchase
func (h *TransactionHandler) MarkImpulse(c echo.Context) error {
	return h.setImpulse(c, true)
}

// UnmarkImpulse clears the impulse flag on a transaction
func (h *TransactionHandler) UnmarkImpulse(c echo.Context) error {
	return h.setImpulse(c, false)
}

func (h *TransactionHandler) setImpulse(c echo.Context, isImpulse bool) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("transactionId"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	transaction, err := h.transactionService.SetImpulse(userID, transactionID, isImpulse)
	if err != nil {
		return h.mapMutationError(c, err)
	}

	return c.JSON(http.StatusOK, transaction)
}

// GetRecent lists the user's most recent transactions
func (h *TransactionHandler) GetRecent(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactions, err := h.transactionService.GetRecent(userID, getIntParam(c, "limit", 10))
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, transactions)
}

// GetImpulse lists the user's impulse purchases
func (h *TransactionHandler) GetImpulse(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactions, err := h.transactionService.GetImpulseTransactions(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, transactions)
}

// GetMonthlyTotal returns the user's month-to-date spend
func (h *TransactionHandler) GetMonthlyTotal(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	total, err := h.transactionService.GetMonthlyTotal(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	totalF, _ := total.Float64()
	return c.JSON(http.StatusOK, dto.MonthlyTotalResponse{Total: totalF})
}

func (h *TransactionHandler) buildInput(budgetID, categoryID, amount, description, notes, transactionDate string, isImpulse bool) (*services.TransactionInput, error) {
	parsedAmount, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}
	if parsedAmount.LessThanOrEqual(decimal.Zero) {
		return nil, models.ErrInvalidAmount
	}

	parsedBudgetID, err := parseOptionalUUID(budgetID)
	if err != nil {
		return nil, err
	}
	parsedCategoryID, err := parseOptionalUUID(categoryID)
	if err != nil {
		return nil, err
	}

	var date time.Time
	if transactionDate != "" {
		date, err = time.ParseInLocation("2006-01-02", transactionDate, time.Local)
		if err != nil {
			return nil, models.ErrTransactionDateMissing
		}
	}

	return &services.TransactionInput{
		BudgetID:        parsedBudgetID,
		CategoryID:      parsedCategoryID,
		Amount:          parsedAmount,
		Description:     description,
		Notes:           notes,
		TransactionDate: date,
		IsImpulse:       isImpulse,
	}, nil
}

func (h *TransactionHandler) mapMutationError(c echo.Context, err error) error {
	switch err {
	case services.ErrTransactionNotFound:
		return SendError(c, errors.TransactionNotFound)
	case services.ErrTransactionUnauthorized, services.ErrBudgetUnauthorized, services.ErrCategoryUnauthorized:
		return SendError(c, errors.AuthInsufficientPermission)
	case services.ErrBudgetNotFound:
		return SendError(c, errors.BudgetNotFound)
	case services.ErrCategoryNotFound:
		return SendError(c, errors.CategoryNotFound)
	case models.ErrInvalidAmount:
		return SendError(c, errors.TransactionInvalidAmount)
	case models.ErrDescriptionRequired, models.ErrTransactionDateMissing:
		return SendError(c, errors.ValidationRequiredField, errors.WithDetails(err.Error()))
	}
	return SendSystemError(c, err)
}
