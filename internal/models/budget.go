package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrBudgetNameRequired  = errors.New("budget name is required")
	ErrBudgetAmountInvalid = errors.New("budget amount must be positive")
	ErrBudgetDatesInvalid  = errors.New("budget end date must not be before start date")
)

// Budget is a spending ceiling over a date range. Transactions optionally
// reference a budget; its spent/remaining balances are always derived from the
// ledger, never stored.
type Budget struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string          `gorm:"type:varchar(200);not null" json:"name"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	IsActive  bool            `gorm:"not null;default:true" json:"is_active"`
	StartDate time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time       `gorm:"type:date;not null" json:"end_date"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`

	Allocations []BudgetCategoryAllocation `gorm:"foreignKey:BudgetID" json:"-"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}

	return b.Validate()
}

func (b *Budget) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now()
	return b.Validate()
}

// Validate checks the budget fields
func (b *Budget) Validate() error {
	if b.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if b.Name == "" {
		return ErrBudgetNameRequired
	}
	if b.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrBudgetAmountInvalid
	}
	if b.EndDate.Before(b.StartDate) {
		return ErrBudgetDatesInvalid
	}
	return nil
}

// Contains reports whether the given day falls within the budget's date range
// (inclusive on both ends).
func (b *Budget) Contains(day time.Time) bool {
	return !day.Before(b.StartDate) && !day.After(b.EndDate)
}

// TableName returns the table name for Budget
func (b *Budget) TableName() string {
	return "budgets"
}

// BudgetBalance carries the derived balances recomputed after every ledger
// mutation that touches a budget.
type BudgetBalance struct {
	ID         uuid.UUID       `json:"id"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Remaining  decimal.Decimal `json:"remaining"`
}
