package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrAllocationAmountInvalid = errors.New("allocated amount must not be negative")

// BudgetCategoryAllocation assigns part of a budget's amount to one category.
// Unique per (budget, category) pair; consumed only by budget-vs-actual.
type BudgetCategoryAllocation struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BudgetID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_allocations_budget_category" json:"budget_id"`
	CategoryID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_allocations_budget_category" json:"category_id"`
	AllocatedAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"allocated_amount"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`

	Budget   Budget   `gorm:"foreignKey:BudgetID" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (a *BudgetCategoryAllocation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return a.Validate()
}

func (a *BudgetCategoryAllocation) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return a.Validate()
}

// Validate checks the allocation fields
func (a *BudgetCategoryAllocation) Validate() error {
	if a.BudgetID == uuid.Nil || a.CategoryID == uuid.Nil {
		return errors.New("budget ID and category ID are required")
	}
	if a.AllocatedAmount.IsNegative() {
		return ErrAllocationAmountInvalid
	}
	return nil
}

// TableName returns the table name for BudgetCategoryAllocation
func (a *BudgetCategoryAllocation) TableName() string {
	return "budget_category_allocations"
}
