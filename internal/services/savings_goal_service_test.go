package services

import (
	"log/slog"
	"testing"
	"time"

	"github.com/allknee486/Impulse/internal/database"
	"github.com/allknee486/Impulse/internal/models"
	"github.com/allknee486/Impulse/internal/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SavingsGoalServiceTestSuite struct {
	suite.Suite
	db       *database.DB
	service  SavingsGoalServiceInterface
	testUser *models.User
}

func (s *SavingsGoalServiceTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.service = NewSavingsGoalService(repositories.NewSavingsGoalRepository(s.db.DB), slog.Default())
	s.testUser = database.CreateTestUser(s.T(), s.db, gofakeit.Email())
}

func (s *SavingsGoalServiceTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestSavingsGoalServiceSuite(t *testing.T) {
	suite.Run(t, new(SavingsGoalServiceTestSuite))
}

func (s *SavingsGoalServiceTestSuite) TestCreateGoal() {
	targetDate := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	goal, err := s.service.CreateGoal(s.testUser.ID, "Emergency fund", decimal.RequireFromString("1000"), &targetDate)

	s.NoError(err)
	s.Require().NotNil(goal)
	s.Equal("Emergency fund", goal.Name)
	s.False(goal.IsCompleted)
	s.True(goal.CurrentAmount.IsZero())
}

func (s *SavingsGoalServiceTestSuite) TestCreateGoal_NegativeTarget() {
	goal, err := s.service.CreateGoal(s.testUser.ID, "Bad", decimal.RequireFromString("-10"), nil)
	s.ErrorIs(err, models.ErrGoalAmountInvalid)
	s.Nil(goal)
}

func (s *SavingsGoalServiceTestSuite) TestCreateGoal_EmptyName() {
	goal, err := s.service.CreateGoal(s.testUser.ID, "", decimal.RequireFromString("100"), nil)
	s.ErrorIs(err, models.ErrGoalNameRequired)
	s.Nil(goal)
}

func (s *SavingsGoalServiceTestSuite) TestGetGoal_EnforcesOwnership() {
	other := database.CreateTestUser(s.T(), s.db, gofakeit.Email())
	goal, err := s.service.CreateGoal(other.ID, "Vacation", decimal.RequireFromString("500"), nil)
	s.Require().NoError(err)

	found, err := s.service.GetGoal(s.testUser.ID, goal.ID)
	s.ErrorIs(err, ErrGoalUnauthorized)
	s.Nil(found)
}

func (s *SavingsGoalServiceTestSuite) TestGetGoal_NotFound() {
	found, err := s.service.GetGoal(s.testUser.ID, uuid.New())
	s.ErrorIs(err, ErrGoalNotFound)
	s.Nil(found)
}

func (s *SavingsGoalServiceTestSuite) TestAddProgress_AccumulatesTowardTarget() {
	goal, err := s.service.CreateGoal(s.testUser.ID, "Vacation", decimal.RequireFromString("500"), nil)
	s.Require().NoError(err)

	updated, err := s.service.AddProgress(s.testUser.ID, goal.ID, decimal.RequireFromString("150"))
	s.NoError(err)
	s.True(updated.CurrentAmount.Equal(decimal.RequireFromString("150")))
	s.False(updated.IsCompleted)
}

func (s *SavingsGoalServiceTestSuite) TestAddProgress_CompletesAtTarget() {
	goal, err := s.service.CreateGoal(s.testUser.ID, "Vacation", decimal.RequireFromString("500"), nil)
	s.Require().NoError(err)

	_, err = s.service.AddProgress(s.testUser.ID, goal.ID, decimal.RequireFromString("300"))
	s.Require().NoError(err)
	updated, err := s.service.AddProgress(s.testUser.ID, goal.ID, decimal.RequireFromString("200"))

	s.NoError(err)
	s.True(updated.IsCompleted)

	// Further progress on a completed goal is rejected.
	_, err = s.service.AddProgress(s.testUser.ID, goal.ID, decimal.RequireFromString("1"))
	s.ErrorIs(err, ErrGoalAlreadyDone)
}

func (s *SavingsGoalServiceTestSuite) TestAddProgress_RejectsNonPositiveAmount() {
	goal, err := s.service.CreateGoal(s.testUser.ID, "Vacation", decimal.RequireFromString("500"), nil)
	s.Require().NoError(err)

	_, err = s.service.AddProgress(s.testUser.ID, goal.ID, decimal.Zero)
	s.ErrorIs(err, models.ErrGoalProgressInvalid)
}

func (s *SavingsGoalServiceTestSuite) TestUpdateGoal_LoweredTargetCompletes() {
	goal, err := s.service.CreateGoal(s.testUser.ID, "Vacation", decimal.RequireFromString("500"), nil)
	s.Require().NoError(err)
	_, err = s.service.AddProgress(s.testUser.ID, goal.ID, decimal.RequireFromString("200"))
	s.Require().NoError(err)

	updated, err := s.service.UpdateGoal(s.testUser.ID, goal.ID, "Weekend trip", decimal.RequireFromString("150"), nil)

	s.NoError(err)
	s.Equal("Weekend trip", updated.Name)
	s.True(updated.IsCompleted)
}

func (s *SavingsGoalServiceTestSuite) TestDeleteGoal() {
	goal, err := s.service.CreateGoal(s.testUser.ID, "Vacation", decimal.RequireFromString("500"), nil)
	s.Require().NoError(err)

	s.NoError(s.service.DeleteGoal(s.testUser.ID, goal.ID))

	_, err = s.service.GetGoal(s.testUser.ID, goal.ID)
	s.ErrorIs(err, ErrGoalNotFound)
}

func (s *SavingsGoalServiceTestSuite) TestGetSummary() {
	goal, err := s.service.CreateGoal(s.testUser.ID, "Vacation", decimal.RequireFromString("500"), nil)
	s.Require().NoError(err)
	_, err = s.service.CreateGoal(s.testUser.ID, "Laptop", decimal.RequireFromString("1500"), nil)
	s.Require().NoError(err)
	_, err = s.service.AddProgress(s.testUser.ID, goal.ID, decimal.RequireFromString("500"))
	s.Require().NoError(err)

	summary, err := s.service.GetSummary(s.testUser.ID)

	s.NoError(err)
	s.Equal(int64(2), summary.TotalGoals)
	s.Equal(int64(1), summary.ActiveGoals)
	s.Equal(int64(1), summary.CompletedGoals)
	s.InDelta(2000.0, summary.TotalTarget, 0.001)
	s.InDelta(500.0, summary.TotalSaved, 0.001)
	s.InDelta(25.0, summary.PercentageComplete, 0.001)
}
