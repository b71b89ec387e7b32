package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/allknee486/Impulse/internal/models"
	"github.com/allknee486/Impulse/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBudgetNotFound     = errors.New("budget not found")
	ErrNoActiveBudget     = errors.New("no active budget")
	ErrBudgetUnauthorized = errors.New("unauthorized access to budget")
)

// budgetService implements BudgetServiceInterface. Spent and remaining
// balances are always derived from the ledger at read time.
type budgetService struct {
	budgetRepo      repositories.BudgetRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	logger          *slog.Logger

	now func() time.Time
}

// NewBudgetService creates a new budget service
func NewBudgetService(
	budgetRepo repositories.BudgetRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	logger *slog.Logger,
) BudgetServiceInterface {
	return &budgetService{
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
		now:             time.Now,
	}
}

// CreateBudget creates a new budget for a user
func (s *budgetService) CreateBudget(userID uuid.UUID, name string, amount decimal.Decimal, startDate, endDate time.Time) (*models.Budget, error) {
	budget := &models.Budget{
		UserID:    userID,
		Name:      name,
		Amount:    amount,
		IsActive:  true,
		StartDate: startDate,
		EndDate:   endDate,
	}

	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Create(budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	s.logger.Info("budget created",
		slog.String("budget_id", budget.ID.String()),
		slog.String("user_id", userID.String()))

	return budget, nil
}

// GetBudgets retrieves all budgets for a user
func (s *budgetService) GetBudgets(userID uuid.UUID) ([]models.Budget, error) {
	return s.budgetRepo.GetByUserID(userID)
}

// GetBudget retrieves a single budget, enforcing ownership
func (s *budgetService) GetBudget(userID, budgetID uuid.UUID) (*models.Budget, error) {
	return s.getOwnedBudget(userID, budgetID)
}

// GetActiveBudget returns the user's active budget: the most recently created
// budget still flagged active.
func (s *budgetService) GetActiveBudget(userID uuid.UUID) (*models.Budget, error) {
	budgets, err := s.budgetRepo.GetActiveByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active budgets: %w", err)
	}
	if len(budgets) == 0 {
		return nil, ErrNoActiveBudget
	}
	return &budgets[0], nil
}

// HasBudget reports whether the user has created any budget
func (s *budgetService) HasBudget(userID uuid.UUID) (bool, error) {
	return s.budgetRepo.ExistsForUser(userID)
}

// UpdateBudget saves changes to an existing budget
func (s *budgetService) UpdateBudget(userID, budgetID uuid.UUID, name string, amount decimal.Decimal, isActive bool, startDate, endDate time.Time) (*models.Budget, error) {
	budget, err := s.getOwnedBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	budget.Name = name
	budget.Amount = amount
	budget.IsActive = isActive
	budget.StartDate = startDate
	budget.EndDate = endDate

	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Update(budget); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return budget, nil
}

// DeleteBudget removes a budget and its allocations
func (s *budgetService) DeleteBudget(userID, budgetID uuid.UUID) error {
	if _, err := s.getOwnedBudget(userID, budgetID); err != nil {
		return err
	}
	if err := s.budgetRepo.Delete(budgetID); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	s.logger.Info("budget deleted",
		slog.String("budget_id", budgetID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// GetBalance recomputes a budget's spent and remaining amounts from the ledger
func (s *budgetService) GetBalance(budgetID uuid.UUID) (*models.BudgetBalance, error) {
	budget, err := s.budgetRepo.GetByID(budgetID)
	if err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	totalSpent, err := s.transactionRepo.Sum(models.TransactionFilters{
		UserID:   budget.UserID,
		BudgetID: &budget.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sum budget spending: %w", err)
	}

	return &models.BudgetBalance{
		ID:         budget.ID,
		TotalSpent: totalSpent,
		Remaining:  budget.Amount.Sub(totalSpent),
	}, nil
}

// GetSummary builds the dashboard budget state: the active budget with
// month-to-date spend broken down by category. Without an active budget the
// summary carries zero totals and a nil budget.
func (s *budgetService) GetSummary(userID uuid.UUID) (*models.BudgetSummary, error) {
	summary := &models.BudgetSummary{Categories: []models.BudgetSummaryCategory{}}

	budgets, err := s.budgetRepo.GetActiveByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active budgets: %w", err)
	}
	if len(budgets) == 0 {
		return summary, nil
	}
	budget := budgets[0]

	summary.ActiveBudget = &models.ActiveBudgetInfo{
		ID:        budget.ID,
		Name:      budget.Name,
		StartDate: budget.StartDate.Format("2006-01-02"),
		EndDate:   budget.EndDate.Format("2006-01-02"),
	}
	summary.TotalIncome, _ = budget.Amount.Float64()

	monthStart := startOfMonth(s.now())
	totalSpent, err := s.transactionRepo.Sum(models.TransactionFilters{
		UserID:    userID,
		StartDate: &monthStart,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sum monthly spending: %w", err)
	}
	summary.TotalSpent, _ = totalSpent.Float64()
	summary.Remaining, _ = budget.Amount.Sub(totalSpent).Float64()

	categories, err := s.categoryRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	for _, category := range categories {
		categoryID := category.ID
		filters := models.TransactionFilters{
			UserID:     userID,
			CategoryID: &categoryID,
			StartDate:  &monthStart,
		}

		spent, err := s.transactionRepo.Sum(filters)
		if err != nil {
			return nil, fmt.Errorf("failed to sum category spending: %w", err)
		}
		count, err := s.transactionRepo.Count(filters)
		if err != nil {
			return nil, fmt.Errorf("failed to count category transactions: %w", err)
		}
		// Only categories with month-to-date transactions appear in the
		// summary.
		if count == 0 {
			continue
		}

		spentF, _ := spent.Float64()
		summary.Categories = append(summary.Categories, models.BudgetSummaryCategory{
			ID:               category.ID,
			Name:             category.Name,
			Spent:            spentF,
			TransactionCount: count,
		})
	}

	return summary, nil
}

// GetAllocations retrieves a budget's category allocations
func (s *budgetService) GetAllocations(userID, budgetID uuid.UUID) ([]models.BudgetCategoryAllocation, error) {
	if _, err := s.getOwnedBudget(userID, budgetID); err != nil {
		return nil, err
	}
	return s.budgetRepo.GetAllocations(budgetID)
}

// UpdateAllocations upserts the allocated amount for each given category
func (s *budgetService) UpdateAllocations(userID, budgetID uuid.UUID, allocations map[uuid.UUID]decimal.Decimal) ([]models.BudgetCategoryAllocation, error) {
	if _, err := s.getOwnedBudget(userID, budgetID); err != nil {
		return nil, err
	}

	for categoryID, amount := range allocations {
		category, err := s.categoryRepo.GetByID(categoryID)
		if err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to verify category: %w", err)
		}
		if category.UserID != userID {
			return nil, ErrCategoryUnauthorized
		}
		if amount.IsNegative() {
			return nil, models.ErrAllocationAmountInvalid
		}

		if _, err := s.budgetRepo.UpsertAllocation(budgetID, categoryID, amount); err != nil {
			return nil, fmt.Errorf("failed to upsert allocation: %w", err)
		}
	}

	return s.budgetRepo.GetAllocations(budgetID)
}

// GetBudgetVsActual joins the active budget's allocations against actual
// spend per category inside the budget's date range, with the end clipped to
// today. Categories with spend but no allocation are appended with zero
// allocated and flagged over budget.
func (s *budgetService) GetBudgetVsActual(userID uuid.UUID) (*models.BudgetVsActual, error) {
	budgets, err := s.budgetRepo.GetActiveByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active budgets: %w", err)
	}
	if len(budgets) == 0 {
		return nil, ErrNoActiveBudget
	}
	budget := budgets[0]

	rangeStart := budget.StartDate
	rangeEnd := budget.EndDate
	if today := startOfDay(s.now()); today.Before(rangeEnd) {
		rangeEnd = today
	}
	endBefore := startOfDay(rangeEnd).AddDate(0, 0, 1)

	allocations, err := s.budgetRepo.GetAllocations(budget.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get allocations: %w", err)
	}

	result := &models.BudgetVsActual{
		BudgetID:   budget.ID,
		BudgetName: budget.Name,
		StartDate:  budget.StartDate.Format("2006-01-02"),
		EndDate:    budget.EndDate.Format("2006-01-02"),
		Rows:       []models.BudgetVsActualRow{},
	}

	allocated := make(map[uuid.UUID]struct{}, len(allocations))
	for _, allocation := range allocations {
		categoryID := allocation.CategoryID
		allocated[categoryID] = struct{}{}

		actual, err := s.transactionRepo.Sum(models.TransactionFilters{
			UserID:     userID,
			BudgetID:   &budget.ID,
			CategoryID: &categoryID,
			StartDate:  &rangeStart,
			EndBefore:  &endBefore,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to sum category spend: %w", err)
		}

		percentUsed := 0.0
		if allocation.AllocatedAmount.GreaterThan(decimal.Zero) {
			percentUsed, _ = actual.Div(allocation.AllocatedAmount).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		}

		allocatedF, _ := allocation.AllocatedAmount.Float64()
		actualF, _ := actual.Float64()
		remainingF, _ := allocation.AllocatedAmount.Sub(actual).Float64()

		result.Rows = append(result.Rows, models.BudgetVsActualRow{
			CategoryID:   categoryID,
			CategoryName: allocation.Category.Name,
			Allocated:    allocatedF,
			Actual:       actualF,
			Remaining:    remainingF,
			PercentUsed:  percentUsed,
			OverBudget:   actual.GreaterThan(allocation.AllocatedAmount),
		})
	}

	// Spend in the budget with no allocation still shows up, unconditionally
	// over budget.
	categories, err := s.categoryRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	for _, category := range categories {
		if _, ok := allocated[category.ID]; ok {
			continue
		}
		categoryID := category.ID

		actual, err := s.transactionRepo.Sum(models.TransactionFilters{
			UserID:     userID,
			BudgetID:   &budget.ID,
			CategoryID: &categoryID,
			StartDate:  &rangeStart,
			EndBefore:  &endBefore,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to sum unallocated spend: %w", err)
		}
		if actual.LessThanOrEqual(decimal.Zero) {
			continue
		}

		actualF, _ := actual.Float64()
		result.Rows = append(result.Rows, models.BudgetVsActualRow{
			CategoryID:   categoryID,
			CategoryName: category.Name,
			Allocated:    0,
			Actual:       actualF,
			Remaining:    -actualF,
			PercentUsed:  0,
			OverBudget:   true,
		})
	}

	return result, nil
}

// getOwnedBudget fetches a budget and enforces that userID owns it
func (s *budgetService) getOwnedBudget(userID, budgetID uuid.UUID) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetByID(budgetID)
	if err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	if budget.UserID != userID {
		return nil, ErrBudgetUnauthorized
	}
	return budget, nil
}
