package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/allknee486/Impulse/internal/models"
	"github.com/allknee486/Impulse/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dashboardService computes the heuristic-driven dashboard metrics. Abandoned
// and resisted purchases are not a stored flag; they are inferred from the
// transaction text.
type dashboardService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	analytics       AnalyticsServiceInterface
	logger          *slog.Logger

	now func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	transactionRepo repositories.TransactionRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	analytics AnalyticsServiceInterface,
	logger *slog.Logger,
) DashboardServiceInterface {
	return &dashboardService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		analytics:       analytics,
		logger:          logger,
		now:             time.Now,
	}
}

// matchesSavingsHeuristic reports whether a transaction reads as an abandoned
// or resisted purchase: a case-insensitive substring match for "abandon" or
// "resist" in either description or notes.
func matchesSavingsHeuristic(tx *models.Transaction) bool {
	haystack := strings.ToLower(tx.Description + " " + tx.Notes)
	return strings.Contains(haystack, "abandon") || strings.Contains(haystack, "resist")
}

// GetMetrics computes the dashboard numbers in one pass over the user's
// ledger:
//
//   - totalSavedFromAbandoned sums heuristic-matched amounts, all time.
//   - impulsesResistedThisMonth counts impulse transactions this month that
//     also match the heuristic; when that count is zero it falls back to all
//     impulse transactions this month. The fallback is deliberate, kept for
//     compatibility with existing dashboards.
//   - spendingByCategory excludes heuristic-matched transactions entirely,
//     which makes it narrower than the plain spending-by-category metric.
func (s *dashboardService) GetMetrics(userID uuid.UUID) (*models.DashboardMetrics, error) {
	transactions, _, err := s.transactionRepo.GetWithFilters(models.TransactionFilters{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	categories, err := s.categoryRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	categoryNames := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	monthStart := startOfMonth(s.now())

	totalSaved := decimal.Zero
	var resistedThisMonth, impulsesThisMonth int64
	spending := make(map[string]decimal.Decimal)

	for i := range transactions {
		tx := &transactions[i]
		matched := matchesSavingsHeuristic(tx)
		inMonth := !tx.TransactionDate.Before(monthStart)

		if matched {
			totalSaved = totalSaved.Add(tx.Amount)
		} else {
			name := models.UncategorizedLabel
			if tx.CategoryID != nil {
				if n, ok := categoryNames[*tx.CategoryID]; ok {
					name = n
				}
			}
			spending[name] = spending[name].Add(tx.Amount)
		}

		if tx.IsImpulse && inMonth {
			impulsesThisMonth++
			if matched {
				resistedThisMonth++
			}
		}
	}

	if resistedThisMonth == 0 {
		resistedThisMonth = impulsesThisMonth
	}

	streak, err := s.analytics.GetStreak(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute streak: %w", err)
	}

	spendingByCategory := make(map[string]float64, len(spending))
	for name, total := range spending {
		spendingByCategory[name], _ = total.Float64()
	}

	totalSavedF, _ := totalSaved.Float64()
	return &models.DashboardMetrics{
		TotalSavedFromAbandoned:   totalSavedF,
		ImpulsesResistedThisMonth: resistedThisMonth,
		SpendingByCategory:        spendingByCategory,
		StreakDaysWithoutImpulse:  streak,
	}, nil
}
