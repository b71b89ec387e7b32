package services

import (
	"time"

	"github.com/allknee486/Impulse/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuthServiceInterface defines the contract for authentication operations
type AuthServiceInterface interface {
	Register(email, password, firstName, lastName string) (*models.User, error)
	Login(email, password string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	GetUser(userID uuid.UUID) (*models.User, error)
}

// CategoryServiceInterface defines the contract for category operations
type CategoryServiceInterface interface {
	CreateCategory(userID uuid.UUID, name, description, color string) (*models.Category, error)
	BulkCreateCategories(userID uuid.UUID, names []string) ([]models.Category, error)
	GetCategories(userID uuid.UUID) ([]models.Category, error)
	GetCategory(userID, categoryID uuid.UUID) (*models.Category, error)
	UpdateCategory(userID, categoryID uuid.UUID, name, description, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID uuid.UUID) error
	GetCategoryStatistics(userID uuid.UUID) ([]models.CategoryStat, error)
}

// BudgetServiceInterface defines the contract for budget operations
type BudgetServiceInterface interface {
	CreateBudget(userID uuid.UUID, name string, amount decimal.Decimal, startDate, endDate time.Time) (*models.Budget, error)
	GetBudgets(userID uuid.UUID) ([]models.Budget, error)
	GetBudget(userID, budgetID uuid.UUID) (*models.Budget, error)
	GetActiveBudget(userID uuid.UUID) (*models.Budget, error)
	HasBudget(userID uuid.UUID) (bool, error)
	UpdateBudget(userID, budgetID uuid.UUID, name string, amount decimal.Decimal, isActive bool, startDate, endDate time.Time) (*models.Budget, error)
	DeleteBudget(userID, budgetID uuid.UUID) error
	GetBalance(budgetID uuid.UUID) (*models.BudgetBalance, error)
	GetSummary(userID uuid.UUID) (*models.BudgetSummary, error)
	GetAllocations(userID, budgetID uuid.UUID) ([]models.BudgetCategoryAllocation, error)
	UpdateAllocations(userID, budgetID uuid.UUID, allocations map[uuid.UUID]decimal.Decimal) ([]models.BudgetCategoryAllocation, error)
	GetBudgetVsActual(userID uuid.UUID) (*models.BudgetVsActual, error)
}

// TransactionServiceInterface defines the contract for ledger mutations and reads
type TransactionServiceInterface interface {
	CreateTransaction(userID uuid.UUID, input TransactionInput) (*models.Transaction, error)
	GetTransactions(filters models.TransactionFilters) ([]models.Transaction, int64, error)
	GetTransaction(userID, transactionID uuid.UUID) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uuid.UUID, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uuid.UUID) error
	SetImpulse(userID, transactionID uuid.UUID, isImpulse bool) (*models.Transaction, error)
	GetRecent(userID uuid.UUID, limit int) ([]models.Transaction, error)
	GetImpulseTransactions(userID uuid.UUID) ([]models.Transaction, error)
	GetMonthlyTotal(userID uuid.UUID) (decimal.Decimal, error)
}

// SavingsGoalServiceInterface defines the contract for savings goal operations
type SavingsGoalServiceInterface interface {
	CreateGoal(userID uuid.UUID, name string, targetAmount decimal.Decimal, targetDate *time.Time) (*models.SavingsGoal, error)
	GetGoals(userID uuid.UUID) ([]models.SavingsGoal, error)
	GetActiveGoals(userID uuid.UUID) ([]models.SavingsGoal, error)
	GetGoal(userID, goalID uuid.UUID) (*models.SavingsGoal, error)
	UpdateGoal(userID, goalID uuid.UUID, name string, targetAmount decimal.Decimal, targetDate *time.Time) (*models.SavingsGoal, error)
	DeleteGoal(userID, goalID uuid.UUID) error
	AddProgress(userID, goalID uuid.UUID, amount decimal.Decimal) (*models.SavingsGoal, error)
	GetSummary(userID uuid.UUID) (*models.GoalsSummary, error)
}

// AnalyticsServiceInterface is the aggregation engine: read-only derived
// metrics over the transaction ledger. Safe for concurrent callers.
type AnalyticsServiceInterface interface {
	GetSummary(userID uuid.UUID) (*models.AnalyticsSummary, error)
	GetSpendingByCategory(userID uuid.UUID, start, end *time.Time) ([]models.CategoryAmount, error)
	GetSpendingTrend(userID uuid.UUID, days int) ([]models.DailyAmount, error)
	GetImpulseAnalysis(userID uuid.UUID) (*models.ImpulseAnalysis, error)
	GetMonthlySummary(userID uuid.UUID) (*models.MonthlySummary, error)
	GetStreak(userID uuid.UUID) (int, error)
	GetWeeklySpending(userID uuid.UUID, weeks int) ([]models.WeeklySpending, error)
	GetMonthlyComparison(userID uuid.UUID, months int) ([]models.MonthlyComparison, error)
	GetYearlyBreakdown(userID uuid.UUID, years int) ([]models.YearlyBreakdown, error)
	GetCategoryTrends(userID uuid.UUID, months int) (*models.CategoryTrends, error)
	GetHeatmap(userID uuid.UUID, year, days int) (*models.Heatmap, error)
	GetTimeRange(userID uuid.UUID, start, end *time.Time, groupBy string) ([]models.TimeRangeBucket, error)
}

// DashboardServiceInterface computes the heuristic-driven dashboard metrics
type DashboardServiceInterface interface {
	GetMetrics(userID uuid.UUID) (*models.DashboardMetrics, error)
}

// EventPublisherInterface is the mutation hook fired after every committed
// ledger write. Publishing never fails the triggering mutation.
type EventPublisherInterface interface {
	TransactionWritten(transaction *models.Transaction, action string)
}
