package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/allknee486/Impulse/internal/database"
	"github.com/allknee486/Impulse/internal/models"
	"github.com/allknee486/Impulse/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	db       *database.DB
	txRepo   repositories.TransactionRepositoryInterface
	service  *budgetService
	testUser *models.User
	food     *models.Category
	travel   *models.Category
}

func TestBudgetServiceSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}

func (s *BudgetServiceTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.txRepo = repositories.NewTransactionRepository(s.db.DB)
	budgetRepo := repositories.NewBudgetRepository(s.db.DB)
	categoryRepo := repositories.NewCategoryRepository(s.db.DB)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.service = NewBudgetService(budgetRepo, categoryRepo, s.txRepo, logger).(*budgetService)
	s.service.now = func() time.Time { return fixedNow }

	s.testUser = database.CreateTestUser(s.T(), s.db, "budget@example.com")
	s.food = database.CreateTestCategory(s.T(), s.db, s.testUser, "Food")
	s.travel = database.CreateTestCategory(s.T(), s.db, s.testUser, "Travel")
}

func (s *BudgetServiceTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *BudgetServiceTestSuite) createBudget(amount string) *models.Budget {
	budget, err := s.service.CreateBudget(
		s.testUser.ID,
		"Monthly budget",
		decimal.RequireFromString(amount),
		time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC),
	)
	s.Require().NoError(err)
	return budget
}

func (s *BudgetServiceTestSuite) createSpend(amount string, category *models.Category, budget *models.Budget, daysAgo int) {
	tx := &models.Transaction{
		UserID:          s.testUser.ID,
		Amount:          decimal.RequireFromString(amount),
		Description:     "budget spend",
		TransactionDate: fixedNow.AddDate(0, 0, -daysAgo),
	}
	if category != nil {
		tx.CategoryID = &category.ID
	}
	if budget != nil {
		tx.BudgetID = &budget.ID
	}
	s.Require().NoError(s.txRepo.Create(tx))
}

func (s *BudgetServiceTestSuite) TestCreateBudget_IsActiveByDefault() {
	budget := s.createBudget("1000.00")
	s.True(budget.IsActive)
	s.NotEqual(uuid.Nil, budget.ID)
}

func (s *BudgetServiceTestSuite) TestGetActiveBudget_NoneReturnsError() {
	_, err := s.service.GetActiveBudget(s.testUser.ID)
	s.ErrorIs(err, ErrNoActiveBudget)
}

func (s *BudgetServiceTestSuite) TestGetActiveBudget_ReturnsMostRecent() {
	s.createBudget("500.00")
	second := s.createBudget("800.00")

	active, err := s.service.GetActiveBudget(s.testUser.ID)
	s.Require().NoError(err)
	s.Equal(second.ID, active.ID)
}

func (s *BudgetServiceTestSuite) TestGetBudget_EnforcesOwnership() {
	budget := s.createBudget("1000.00")
	other := database.CreateTestUser(s.T(), s.db, "other@example.com")

	_, err := s.service.GetBudget(other.ID, budget.ID)
	s.ErrorIs(err, ErrBudgetUnauthorized)
}

func (s *BudgetServiceTestSuite) TestGetBalance_DerivedFromLedger() {
	budget := s.createBudget("1000.00")
	s.createSpend("200.00", s.food, budget, 2)
	s.createSpend("150.00", s.travel, budget, 5)

	balance, err := s.service.GetBalance(budget.ID)
	s.Require().NoError(err)

	s.True(balance.TotalSpent.Equal(decimal.RequireFromString("350.00")))
	s.True(balance.Remaining.Equal(decimal.RequireFromString("650.00")))
}

func (s *BudgetServiceTestSuite) TestUpdateAllocations_RejectsNegativeAmount() {
	budget := s.createBudget("1000.00")

	_, err := s.service.UpdateAllocations(s.testUser.ID, budget.ID, map[uuid.UUID]decimal.Decimal{
		s.food.ID: decimal.RequireFromString("-50.00"),
	})
	s.ErrorIs(err, models.ErrAllocationAmountInvalid)
}

func (s *BudgetServiceTestSuite) TestUpdateAllocations_RejectsForeignCategory() {
	budget := s.createBudget("1000.00")
	other := database.CreateTestUser(s.T(), s.db, "other@example.com")
	foreign := database.CreateTestCategory(s.T(), s.db, other, "Foreign")

	_, err := s.service.UpdateAllocations(s.testUser.ID, budget.ID, map[uuid.UUID]decimal.Decimal{
		foreign.ID: decimal.RequireFromString("100.00"),
	})
	s.ErrorIs(err, ErrCategoryUnauthorized)
}

func (s *BudgetServiceTestSuite) TestUpdateAllocations_Upserts() {
	budget := s.createBudget("1000.00")

	allocations, err := s.service.UpdateAllocations(s.testUser.ID, budget.ID, map[uuid.UUID]decimal.Decimal{
		s.food.ID: decimal.RequireFromString("300.00"),
	})
	s.Require().NoError(err)
	s.Len(allocations, 1)

	allocations, err = s.service.UpdateAllocations(s.testUser.ID, budget.ID, map[uuid.UUID]decimal.Decimal{
		s.food.ID: decimal.RequireFromString("450.00"),
	})
	s.Require().NoError(err)
	s.Len(allocations, 1)
	s.True(allocations[0].AllocatedAmount.Equal(decimal.RequireFromString("450.00")))
}

func (s *BudgetServiceTestSuite) TestGetBudgetVsActual_NoActiveBudget() {
	_, err := s.service.GetBudgetVsActual(s.testUser.ID)
	s.ErrorIs(err, ErrNoActiveBudget)
}

func (s *BudgetServiceTestSuite) TestGetBudgetVsActual_AllocationRows() {
	budget := s.createBudget("1000.00")
	_, err := s.service.UpdateAllocations(s.testUser.ID, budget.ID, map[uuid.UUID]decimal.Decimal{
		s.food.ID:   decimal.RequireFromString("400.00"),
		s.travel.ID: decimal.RequireFromString("100.00"),
	})
	s.Require().NoError(err)

	s.createSpend("100.00", s.food, budget, 2)
	s.createSpend("150.00", s.travel, budget, 3)

	result, err := s.service.GetBudgetVsActual(s.testUser.ID)
	s.Require().NoError(err)
	s.Equal(budget.ID, result.BudgetID)
	s.Len(result.Rows, 2)

	rows := make(map[string]models.BudgetVsActualRow, len(result.Rows))
	for _, row := range result.Rows {
		rows[row.CategoryName] = row
	}

	food := rows["Food"]
	s.InDelta(400.0, food.Allocated, 0.001)
	s.InDelta(100.0, food.Actual, 0.001)
	s.InDelta(300.0, food.Remaining, 0.001)
	s.InDelta(25.0, food.PercentUsed, 0.001)
	s.False(food.OverBudget)

	travel := rows["Travel"]
	s.InDelta(100.0, travel.Allocated, 0.001)
	s.InDelta(150.0, travel.Actual, 0.001)
	s.InDelta(-50.0, travel.Remaining, 0.001)
	s.InDelta(150.0, travel.PercentUsed, 0.001)
	s.True(travel.OverBudget)
}

func (s *BudgetServiceTestSuite) TestGetBudgetVsActual_UnallocatedSpendRow() {
	budget := s.createBudget("1000.00")
	_, err := s.service.UpdateAllocations(s.testUser.ID, budget.ID, map[uuid.UUID]decimal.Decimal{
		s.food.ID: decimal.RequireFromString("400.00"),
	})
	s.Require().NoError(err)

	// Travel has spend in the budget but no allocation.
	s.createSpend("60.00", s.travel, budget, 1)

	result, err := s.service.GetBudgetVsActual(s.testUser.ID)
	s.Require().NoError(err)
	s.Len(result.Rows, 2)

	var travel *models.BudgetVsActualRow
	for i := range result.Rows {
		if result.Rows[i].CategoryName == "Travel" {
			travel = &result.Rows[i]
		}
	}
	s.Require().NotNil(travel)

	s.Zero(travel.Allocated)
	s.InDelta(60.0, travel.Actual, 0.001)
	s.InDelta(-60.0, travel.Remaining, 0.001)
	s.Zero(travel.PercentUsed)
	// Unallocated spend is over budget regardless of amount.
	s.True(travel.OverBudget)
}

func (s *BudgetServiceTestSuite) TestGetBudgetVsActual_ZeroAllocationPercentIsZero() {
	budget := s.createBudget("1000.00")
	_, err := s.service.UpdateAllocations(s.testUser.ID, budget.ID, map[uuid.UUID]decimal.Decimal{
		s.food.ID: decimal.Zero,
	})
	s.Require().NoError(err)

	s.createSpend("40.00", s.food, budget, 1)

	result, err := s.service.GetBudgetVsActual(s.testUser.ID)
	s.Require().NoError(err)
	s.Require().Len(result.Rows, 1)

	row := result.Rows[0]
	s.Zero(row.PercentUsed)
	s.True(row.OverBudget)
}

func (s *BudgetServiceTestSuite) TestGetSummary_NoActiveBudget() {
	summary, err := s.service.GetSummary(s.testUser.ID)
	s.Require().NoError(err)

	s.Nil(summary.ActiveBudget)
	s.Zero(summary.TotalSpent)
	s.Zero(summary.Remaining)
}

func (s *BudgetServiceTestSuite) TestGetSummary_MonthToDateByCategory() {
	budget := s.createBudget("1000.00")
	s.createSpend("120.00", s.food, budget, 2)
	s.createSpend("80.00", s.travel, nil, 3)

	summary, err := s.service.GetSummary(s.testUser.ID)
	s.Require().NoError(err)

	s.Require().NotNil(summary.ActiveBudget)
	s.Equal(budget.ID, summary.ActiveBudget.ID)
	s.InDelta(200.0, summary.TotalSpent, 0.001)
	s.InDelta(800.0, summary.Remaining, 0.001)

	spent := make(map[string]float64, len(summary.Categories))
	for _, c := range summary.Categories {
		spent[c.Name] = c.Spent
	}
	s.InDelta(120.0, spent["Food"], 0.001)
	s.InDelta(80.0, spent["Travel"], 0.001)
}

// Categories with no transactions this month stay out of the summary.
func (s *BudgetServiceTestSuite) TestGetSummary_OmitsUnusedCategories() {
	budget := s.createBudget("1000.00")
	s.createSpend("40.00", s.food, budget, 1)

	summary, err := s.service.GetSummary(s.testUser.ID)
	s.Require().NoError(err)

	s.Require().Len(summary.Categories, 1)
	s.Equal("Food", summary.Categories[0].Name)
	s.InDelta(40.0, summary.Categories[0].Spent, 0.001)
	s.Equal(int64(1), summary.Categories[0].TransactionCount)
}
