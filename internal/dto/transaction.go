package dto

import "github.com/allknee486/Impulse/internal/models"

// CreateTransactionRequest contains ledger entry creation data
type CreateTransactionRequest struct {
	BudgetID        string `json:"budget_id" validate:"omitempty,uuid"`
	CategoryID      string `json:"category_id" validate:"omitempty,uuid"`
	Amount          string `json:"amount" validate:"required,money_amount"`
	Description     string `json:"description" validate:"required,min=1,max=255"`
	Notes           string `json:"notes" validate:"max=2000"`
	TransactionDate string `json:"transaction_date" validate:"omitempty,datetime=2006-01-02"`
	IsImpulse       bool   `json:"is_impulse"`
}

// UpdateTransactionRequest contains ledger entry update data
type UpdateTransactionRequest struct {
	BudgetID        string `json:"budget_id" validate:"omitempty,uuid"`
	CategoryID      string `json:"category_id" validate:"omitempty,uuid"`
	Amount          string `json:"amount" validate:"required,money_amount"`
	Description     string `json:"description" validate:"required,min=1,max=255"`
	Notes           string `json:"notes" validate:"max=2000"`
	TransactionDate string `json:"transaction_date" validate:"omitempty,datetime=2006-01-02"`
	IsImpulse       bool   `json:"is_impulse"`
}

// TransactionListResponse is a filtered page of transactions
type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Offset       int                  `json:"offset"`
	Limit        int                  `json:"limit"`
}

// MonthlyTotalResponse carries the month-to-date spend total
type MonthlyTotalResponse struct {
	Total float64 `json:"total"`
}
