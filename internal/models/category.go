package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UncategorizedLabel is the reserved grouping key for transactions that
// reference no category (or whose category was deleted).
const UncategorizedLabel = "Uncategorized"

const defaultCategoryColor = "#6B7280"

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryNameTooLong  = errors.New("category name must not exceed 100 characters")
)

// Category is a per-user spending bucket. Names are unique per user.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Color       string    `gorm:"type:varchar(7)" json:"color"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Color == "" {
		c.Color = defaultCategoryColor
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return c.Validate()
}

func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	return c.Validate()
}

// Validate checks the category fields
func (c *Category) Validate() error {
	if c.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if c.Name == "" {
		return ErrCategoryNameRequired
	}
	if len(c.Name) > 100 {
		return ErrCategoryNameTooLong
	}
	return nil
}

// TableName returns the table name for Category
func (c *Category) TableName() string {
	return "categories"
}
