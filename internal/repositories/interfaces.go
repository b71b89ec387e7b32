package repositories

import (
	"time"

	"github.com/allknee486/Impulse/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
}

// CategoryRepositoryInterface defines the contract for category repository operations
type CategoryRepositoryInterface interface {
	Create(category *models.Category) error
	GetByID(id uuid.UUID) (*models.Category, error)
	GetByUserID(userID uuid.UUID) ([]models.Category, error)
	GetByName(userID uuid.UUID, name string) (*models.Category, error)
	Update(category *models.Category) error
	Delete(id uuid.UUID) error
}

// BudgetRepositoryInterface defines the contract for budget repository operations
type BudgetRepositoryInterface interface {
	Create(budget *models.Budget) error
	GetByID(id uuid.UUID) (*models.Budget, error)
	GetByUserID(userID uuid.UUID) ([]models.Budget, error)
	GetActiveByUserID(userID uuid.UUID) ([]models.Budget, error)
	ExistsForUser(userID uuid.UUID) (bool, error)
	Update(budget *models.Budget) error
	Delete(id uuid.UUID) error
	GetAllocations(budgetID uuid.UUID) ([]models.BudgetCategoryAllocation, error)
	UpsertAllocation(budgetID, categoryID uuid.UUID, amount decimal.Decimal) (*models.BudgetCategoryAllocation, error)
}

// TransactionRepositoryInterface is the ledger read/write interface. Every
// query is scoped by the owning user through TransactionFilters.
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	Update(transaction *models.Transaction) error
	Delete(id uuid.UUID) error
	GetWithFilters(filters models.TransactionFilters) ([]models.Transaction, int64, error)
	GetRecent(userID uuid.UUID, limit int) ([]models.Transaction, error)

	// Aggregation queries used by the analytics engine.
	Sum(filters models.TransactionFilters) (decimal.Decimal, error)
	Count(filters models.TransactionFilters) (int64, error)
	Exists(filters models.TransactionFilters) (bool, error)
	SumByCategory(filters models.TransactionFilters) ([]models.CategorySum, error)
	SumByMonth(userID uuid.UUID, start, end time.Time) ([]models.MonthSum, error)
}

// SavingsGoalRepositoryInterface defines the contract for savings goal repository operations
type SavingsGoalRepositoryInterface interface {
	Create(goal *models.SavingsGoal) error
	GetByID(id uuid.UUID) (*models.SavingsGoal, error)
	GetByUserID(userID uuid.UUID) ([]models.SavingsGoal, error)
	GetActiveByUserID(userID uuid.UUID) ([]models.SavingsGoal, error)
	CountActive(userID uuid.UUID) (int64, error)
	Update(goal *models.SavingsGoal) error
	Delete(id uuid.UUID) error
	GetSummary(userID uuid.UUID) (*models.GoalsSummary, error)
}
