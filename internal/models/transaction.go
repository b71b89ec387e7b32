package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidAmount          = errors.New("transaction amount must be positive")
	ErrDescriptionRequired    = errors.New("transaction description is required")
	ErrTransactionDateMissing = errors.New("transaction date is required")
)

// Transaction is a single expense in the ledger. Budget and category
// references are optional; deleting either leaves the transaction in place
// with the reference nulled out.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetID        *uuid.UUID      `gorm:"type:uuid;index" json:"budget_id,omitempty"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description     string          `gorm:"type:varchar(255);not null" json:"description"`
	Notes           string          `gorm:"type:text" json:"notes"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
	IsImpulse       bool            `gorm:"not null;default:false" json:"is_impulse"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`

	Budget   *Budget   `gorm:"foreignKey:BudgetID;constraint:OnDelete:SET NULL" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return t.Validate()
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if t.Description == "" {
		return ErrDescriptionRequired
	}
	if t.TransactionDate.IsZero() {
		return ErrTransactionDateMissing
	}
	return nil
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}
