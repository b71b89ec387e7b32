package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/allknee486/Impulse/internal/database"
	"github.com/allknee486/Impulse/internal/models"
	"github.com/allknee486/Impulse/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	db       *database.DB
	txRepo   repositories.TransactionRepositoryInterface
	service  *dashboardService
	testUser *models.User
	shopping *models.Category
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}

func (s *DashboardServiceTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.txRepo = repositories.NewTransactionRepository(s.db.DB)
	categoryRepo := repositories.NewCategoryRepository(s.db.DB)
	budgetRepo := repositories.NewBudgetRepository(s.db.DB)
	goalRepo := repositories.NewSavingsGoalRepository(s.db.DB)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	analytics := NewAnalyticsService(s.txRepo, budgetRepo, goalRepo, logger).(*analyticsService)
	analytics.now = func() time.Time { return fixedNow }

	s.service = NewDashboardService(s.txRepo, categoryRepo, analytics, logger).(*dashboardService)
	s.service.now = func() time.Time { return fixedNow }

	s.testUser = database.CreateTestUser(s.T(), s.db, "dashboard@example.com")
	s.shopping = database.CreateTestCategory(s.T(), s.db, s.testUser, "Shopping")
}

func (s *DashboardServiceTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *DashboardServiceTestSuite) createTransaction(amount, description, notes string, daysAgo int, isImpulse bool) {
	tx := &models.Transaction{
		UserID:          s.testUser.ID,
		CategoryID:      &s.shopping.ID,
		Amount:          decimal.RequireFromString(amount),
		Description:     description,
		Notes:           notes,
		TransactionDate: fixedNow.AddDate(0, 0, -daysAgo),
		IsImpulse:       isImpulse,
	}
	s.Require().NoError(s.txRepo.Create(tx))
}

func (s *DashboardServiceTestSuite) TestGetMetrics_HeuristicMatchesExcludedFromSpending() {
	s.createTransaction("120.00", "Resisted buying shoes", "", 3, true)
	s.createTransaction("40.00", "Groceries", "", 2, false)

	metrics, err := s.service.GetMetrics(s.testUser.ID)
	s.Require().NoError(err)

	// The resisted purchase counts as savings, not as spending.
	s.InDelta(120.0, metrics.TotalSavedFromAbandoned, 0.001)
	s.Equal(map[string]float64{"Shopping": 40.0}, metrics.SpendingByCategory)
	s.Equal(int64(1), metrics.ImpulsesResistedThisMonth)
}

func (s *DashboardServiceTestSuite) TestGetMetrics_MatchesInNotes() {
	s.createTransaction("75.00", "Online cart", "abandoned checkout at the last minute", 1, false)

	metrics, err := s.service.GetMetrics(s.testUser.ID)
	s.Require().NoError(err)

	s.InDelta(75.0, metrics.TotalSavedFromAbandoned, 0.001)
	s.Empty(metrics.SpendingByCategory)
}

func (s *DashboardServiceTestSuite) TestGetMetrics_MatchIsCaseInsensitive() {
	s.createTransaction("30.00", "RESISTED impulse snack", "", 0, true)

	metrics, err := s.service.GetMetrics(s.testUser.ID)
	s.Require().NoError(err)

	s.InDelta(30.0, metrics.TotalSavedFromAbandoned, 0.001)
}

func (s *DashboardServiceTestSuite) TestGetMetrics_SavedSumsAllTime() {
	s.createTransaction("50.00", "Abandoned cart", "", 400, false)
	s.createTransaction("25.00", "Resisted gadget", "", 2, false)

	metrics, err := s.service.GetMetrics(s.testUser.ID)
	s.Require().NoError(err)

	s.InDelta(75.0, metrics.TotalSavedFromAbandoned, 0.001)
}

func (s *DashboardServiceTestSuite) TestGetMetrics_ResistedFallsBackToImpulseCount() {
	// Impulse purchases this month, none of them heuristic-matched.
	s.createTransaction("15.00", "Candy", "", 1, true)
	s.createTransaction("35.00", "Takeout", "", 2, true)

	metrics, err := s.service.GetMetrics(s.testUser.ID)
	s.Require().NoError(err)

	s.Equal(int64(2), metrics.ImpulsesResistedThisMonth)
}

func (s *DashboardServiceTestSuite) TestGetMetrics_UncategorizedSpending() {
	tx := &models.Transaction{
		UserID:          s.testUser.ID,
		Amount:          decimal.RequireFromString("10.00"),
		Description:     "Cash spend",
		TransactionDate: fixedNow.AddDate(0, 0, -1),
	}
	s.Require().NoError(s.txRepo.Create(tx))

	metrics, err := s.service.GetMetrics(s.testUser.ID)
	s.Require().NoError(err)

	s.Equal(map[string]float64{models.UncategorizedLabel: 10.0}, metrics.SpendingByCategory)
}

func (s *DashboardServiceTestSuite) TestGetMetrics_EmptyLedger() {
	metrics, err := s.service.GetMetrics(s.testUser.ID)
	s.Require().NoError(err)

	s.Zero(metrics.TotalSavedFromAbandoned)
	s.Zero(metrics.ImpulsesResistedThisMonth)
	s.Empty(metrics.SpendingByCategory)
	s.Equal(streakWalkCap, metrics.StreakDaysWithoutImpulse)
}

func (s *DashboardServiceTestSuite) TestGetMetrics_StreakZeroWithImpulseToday() {
	s.createTransaction("20.00", "Snack", "", 0, true)

	metrics, err := s.service.GetMetrics(s.testUser.ID)
	s.Require().NoError(err)

	s.Equal(0, metrics.StreakDaysWithoutImpulse)
}
