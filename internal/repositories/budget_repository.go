package repositories

import (
	"errors"
	"fmt"

	"github.com/allknee486/Impulse/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrBudgetNotFound = errors.New("budget not found")

// budgetRepository implements BudgetRepositoryInterface
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepositoryInterface {
	return &budgetRepository{
		db: db,
	}
}

// Create creates a new budget
func (r *budgetRepository) Create(budget *models.Budget) error {
	if err := r.db.Create(budget).Error; err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// GetByID retrieves a budget by ID
func (r *budgetRepository) GetByID(id uuid.UUID) (*models.Budget, error) {
	var budget models.Budget
	if err := r.db.Where("id = ?", id).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}

// GetByUserID retrieves all budgets for a user, newest first
func (r *budgetRepository) GetByUserID(userID uuid.UUID) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}
	return budgets, nil
}

// GetActiveByUserID retrieves a user's active budgets, newest first. The first
// element is the one budget surfaced as "the" active budget.
func (r *budgetRepository) GetActiveByUserID(userID uuid.UUID) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to get active budgets: %w", err)
	}
	return budgets, nil
}

// ExistsForUser reports whether the user has any budget at all
func (r *budgetRepository) ExistsForUser(userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Budget{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check budget existence: %w", err)
	}
	return count > 0, nil
}

// Update saves changes to an existing budget
func (r *budgetRepository) Update(budget *models.Budget) error {
	result := r.db.Model(&models.Budget{}).
		Where("id = ?", budget.ID).
		Select("name", "amount", "is_active", "start_date", "end_date", "updated_at").
		Updates(budget)

	if result.Error != nil {
		return fmt.Errorf("failed to update budget: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

// Delete removes a budget and its allocations
func (r *budgetRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", id).Delete(&models.BudgetCategoryAllocation{}).Error; err != nil {
			return fmt.Errorf("failed to delete budget allocations: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.Budget{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete budget: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrBudgetNotFound
		}
		return nil
	})
}

// GetAllocations retrieves a budget's category allocations with categories
// preloaded
func (r *budgetRepository) GetAllocations(budgetID uuid.UUID) ([]models.BudgetCategoryAllocation, error) {
	var allocations []models.BudgetCategoryAllocation
	if err := r.db.Where("budget_id = ?", budgetID).
		Preload("Category").
		Find(&allocations).Error; err != nil {
		return nil, fmt.Errorf("failed to get budget allocations: %w", err)
	}
	return allocations, nil
}

// UpsertAllocation creates or replaces the allocated amount for one
// (budget, category) pair.
func (r *budgetRepository) UpsertAllocation(budgetID, categoryID uuid.UUID, amount decimal.Decimal) (*models.BudgetCategoryAllocation, error) {
	var allocation models.BudgetCategoryAllocation
	err := r.db.Where("budget_id = ? AND category_id = ?", budgetID, categoryID).First(&allocation).Error

	switch {
	case err == nil:
		allocation.AllocatedAmount = amount
		if err := r.db.Model(&allocation).Update("allocated_amount", amount).Error; err != nil {
			return nil, fmt.Errorf("failed to update allocation: %w", err)
		}
		return &allocation, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		allocation = models.BudgetCategoryAllocation{
			BudgetID:        budgetID,
			CategoryID:      categoryID,
			AllocatedAmount: amount,
		}
		if err := r.db.Create(&allocation).Error; err != nil {
			return nil, fmt.Errorf("failed to create allocation: %w", err)
		}
		return &allocation, nil
	default:
		return nil, fmt.Errorf("failed to look up allocation: %w", err)
	}
}
