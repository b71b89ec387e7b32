package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrGoalNameRequired    = errors.New("savings goal name is required")
	ErrGoalAmountInvalid   = errors.New("target amount must not be negative")
	ErrGoalProgressInvalid = errors.New("progress amount must be greater than 0")
)

// SavingsGoal tracks money put aside for a named target.
type SavingsGoal struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"type:varchar(200);not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"current_amount"`
	TargetDate    *time.Time      `gorm:"type:date" json:"target_date,omitempty"`
	IsCompleted   bool            `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

func (g *SavingsGoal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	return g.Validate()
}

func (g *SavingsGoal) BeforeUpdate(tx *gorm.DB) error {
	return g.Validate()
}

// Validate checks the goal fields
func (g *SavingsGoal) Validate() error {
	if g.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if g.Name == "" {
		return ErrGoalNameRequired
	}
	if g.TargetAmount.IsNegative() {
		return ErrGoalAmountInvalid
	}
	return nil
}

// AddProgress adds the given amount to the goal and marks it completed once
// the target is reached.
func (g *SavingsGoal) AddProgress(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrGoalProgressInvalid
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.IsCompleted = true
	}
	return nil
}

// PercentageComplete returns completion as a percentage, capped at 100.
// A zero target yields 0 rather than a division fault.
func (g *SavingsGoal) PercentageComplete() float64 {
	if g.TargetAmount.IsZero() {
		return 0
	}
	pct, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	if pct > 100 {
		return 100
	}
	return pct
}

// RemainingAmount returns how much is still missing, never negative.
func (g *SavingsGoal) RemainingAmount() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// TableName returns the table name for SavingsGoal
func (g *SavingsGoal) TableName() string {
	return "savings_goals"
}
