package repositories

import (
	"testing"
	"time"

	"github.com/allknee486/Impulse/internal/database"
	"github.com/allknee486/Impulse/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SavingsGoalRepositorySuite struct {
	suite.Suite
	db       *database.DB
	repo     SavingsGoalRepositoryInterface
	testUser *models.User
}

func TestSavingsGoalRepositorySuite(t *testing.T) {
	suite.Run(t, new(SavingsGoalRepositorySuite))
}

func (s *SavingsGoalRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewSavingsGoalRepository(s.db.DB)
	s.testUser = database.CreateTestUser(s.T(), s.db, "goals@example.com")
}

func (s *SavingsGoalRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *SavingsGoalRepositorySuite) createGoal(name string, target, current string, completed bool) *models.SavingsGoal {
	goal := &models.SavingsGoal{
		UserID:        s.testUser.ID,
		Name:          name,
		TargetAmount:  decimal.RequireFromString(target),
		CurrentAmount: decimal.RequireFromString(current),
		IsCompleted:   completed,
	}
	s.Require().NoError(s.repo.Create(goal))
	return goal
}

func (s *SavingsGoalRepositorySuite) TestCreateAndGetByID() {
	targetDate := time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC)
	goal := &models.SavingsGoal{
		UserID:       s.testUser.ID,
		Name:         "Emergency fund",
		TargetAmount: decimal.RequireFromString("1000"),
		TargetDate:   &targetDate,
	}
	s.Require().NoError(s.repo.Create(goal))

	found, err := s.repo.GetByID(goal.ID)
	s.NoError(err)
	s.Equal("Emergency fund", found.Name)
	s.True(found.TargetAmount.Equal(decimal.RequireFromString("1000")))
	s.Require().NotNil(found.TargetDate)
	s.True(found.TargetDate.Equal(targetDate))
}

func (s *SavingsGoalRepositorySuite) TestGetByID_NotFound() {
	found, err := s.repo.GetByID(uuid.New())
	s.ErrorIs(err, ErrSavingsGoalNotFound)
	s.Nil(found)
}

func (s *SavingsGoalRepositorySuite) TestGetActiveExcludesCompleted() {
	s.createGoal("Vacation", "500", "100", false)
	s.createGoal("Laptop", "1200", "1200", true)

	active, err := s.repo.GetActiveByUserID(s.testUser.ID)
	s.NoError(err)
	s.Require().Len(active, 1)
	s.Equal("Vacation", active[0].Name)

	count, err := s.repo.CountActive(s.testUser.ID)
	s.NoError(err)
	s.Equal(int64(1), count)
}

func (s *SavingsGoalRepositorySuite) TestUpdate() {
	goal := s.createGoal("Vacation", "500", "0", false)

	goal.CurrentAmount = decimal.RequireFromString("500")
	goal.IsCompleted = true
	s.Require().NoError(s.repo.Update(goal))

	found, err := s.repo.GetByID(goal.ID)
	s.NoError(err)
	s.True(found.CurrentAmount.Equal(decimal.RequireFromString("500")))
	s.True(found.IsCompleted)
}

func (s *SavingsGoalRepositorySuite) TestUpdate_NotFound() {
	goal := &models.SavingsGoal{UserID: s.testUser.ID, Name: "Ghost"}
	goal.ID = uuid.New()

	s.ErrorIs(s.repo.Update(goal), ErrSavingsGoalNotFound)
}

func (s *SavingsGoalRepositorySuite) TestDelete() {
	goal := s.createGoal("Vacation", "500", "0", false)

	s.NoError(s.repo.Delete(goal.ID))
	_, err := s.repo.GetByID(goal.ID)
	s.ErrorIs(err, ErrSavingsGoalNotFound)
}

func (s *SavingsGoalRepositorySuite) TestGetSummary() {
	s.createGoal("Vacation", "500", "250", false)
	s.createGoal("Laptop", "1500", "750", false)
	s.createGoal("Camera", "1000", "1000", true)

	summary, err := s.repo.GetSummary(s.testUser.ID)
	s.NoError(err)
	s.Equal(int64(3), summary.TotalGoals)
	s.Equal(int64(2), summary.ActiveGoals)
	s.Equal(int64(1), summary.CompletedGoals)
	s.InDelta(3000.0, summary.TotalTarget, 0.001)
	s.InDelta(2000.0, summary.TotalSaved, 0.001)
	s.InDelta(66.67, summary.PercentageComplete, 0.001)
}

func (s *SavingsGoalRepositorySuite) TestGetSummary_NoGoals() {
	summary, err := s.repo.GetSummary(s.testUser.ID)
	s.NoError(err)
	s.Equal(int64(0), summary.TotalGoals)
	s.Zero(summary.PercentageComplete)
}
