package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilters is the filter vocabulary every ledger query speaks:
// owning user, optional category/budget/impulse constraints, a date window and
// an amount window. StartDate/EndDate are inclusive; EndBefore is an exclusive
// upper bound used for day-window checks.
type TransactionFilters struct {
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	BudgetID   *uuid.UUID
	IsImpulse  *bool
	StartDate  *time.Time
	EndDate    *time.Time
	EndBefore  *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal

	Offset int
	Limit  int
}
