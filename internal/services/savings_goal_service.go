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
	ErrGoalNotFound     = errors.New("savings goal not found")
	ErrGoalUnauthorized = errors.New("unauthorized access to savings goal")
	ErrGoalAlreadyDone  = errors.New("savings goal is already completed")
)

// savingsGoalService implements SavingsGoalServiceInterface
type savingsGoalService struct {
	goalRepo repositories.SavingsGoalRepositoryInterface
	logger   *slog.Logger
}

// NewSavingsGoalService creates a new savings goal service
func NewSavingsGoalService(goalRepo repositories.SavingsGoalRepositoryInterface, logger *slog.Logger) SavingsGoalServiceInterface {
	return &savingsGoalService{
		goalRepo: goalRepo,
		logger:   logger,
	}
}

// CreateGoal creates a new savings goal
func (s *savingsGoalService) CreateGoal(userID uuid.UUID, name string, targetAmount decimal.Decimal, targetDate *time.Time) (*models.SavingsGoal, error) {
	goal := &models.SavingsGoal{
		UserID:       userID,
		Name:         name,
		TargetAmount: targetAmount,
		TargetDate:   targetDate,
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}
	if err := s.goalRepo.Create(goal); err != nil {
		return nil, fmt.Errorf("failed to create savings goal: %w", err)
	}
	return goal, nil
}

// GetGoals retrieves all savings goals for a user
func (s *savingsGoalService) GetGoals(userID uuid.UUID) ([]models.SavingsGoal, error) {
	return s.goalRepo.GetByUserID(userID)
}

// GetActiveGoals retrieves the user's incomplete goals
func (s *savingsGoalService) GetActiveGoals(userID uuid.UUID) ([]models.SavingsGoal, error) {
	return s.goalRepo.GetActiveByUserID(userID)
}

// GetGoal retrieves a single goal, enforcing ownership
func (s *savingsGoalService) GetGoal(userID, goalID uuid.UUID) (*models.SavingsGoal, error) {
	return s.getOwnedGoal(userID, goalID)
}

// UpdateGoal saves changes to an existing goal
func (s *savingsGoalService) UpdateGoal(userID, goalID uuid.UUID, name string, targetAmount decimal.Decimal, targetDate *time.Time) (*models.SavingsGoal, error) {
	goal, err := s.getOwnedGoal(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Name = name
	goal.TargetAmount = targetAmount
	goal.TargetDate = targetDate
	if goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) && goal.TargetAmount.GreaterThan(decimal.Zero) {
		goal.IsCompleted = true
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}
	if err := s.goalRepo.Update(goal); err != nil {
		return nil, fmt.Errorf("failed to update savings goal: %w", err)
	}
	return goal, nil
}

// DeleteGoal removes a savings goal
func (s *savingsGoalService) DeleteGoal(userID, goalID uuid.UUID) error {
	if _, err := s.getOwnedGoal(userID, goalID); err != nil {
		return err
	}
	if err := s.goalRepo.Delete(goalID); err != nil {
		return fmt.Errorf("failed to delete savings goal: %w", err)
	}
	return nil
}

// AddProgress adds saved money toward a goal, completing it when the target
// is reached.
func (s *savingsGoalService) AddProgress(userID, goalID uuid.UUID, amount decimal.Decimal) (*models.SavingsGoal, error) {
	goal, err := s.getOwnedGoal(userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.IsCompleted {
		return nil, ErrGoalAlreadyDone
	}

	if err := goal.AddProgress(amount); err != nil {
		return nil, err
	}
	if err := s.goalRepo.Update(goal); err != nil {
		return nil, fmt.Errorf("failed to update savings goal: %w", err)
	}

	if goal.IsCompleted {
		s.logger.Info("savings goal completed",
			slog.String("goal_id", goal.ID.String()),
			slog.String("user_id", userID.String()))
	}
	return goal, nil
}

// GetSummary aggregates all goals for a user
func (s *savingsGoalService) GetSummary(userID uuid.UUID) (*models.GoalsSummary, error) {
	return s.goalRepo.GetSummary(userID)
}

// getOwnedGoal fetches a goal and enforces that userID owns it
func (s *savingsGoalService) getOwnedGoal(userID, goalID uuid.UUID) (*models.SavingsGoal, error) {
	goal, err := s.goalRepo.GetByID(goalID)
	if err != nil {
		if errors.Is(err, repositories.ErrSavingsGoalNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get savings goal: %w", err)
	}
	if goal.UserID != userID {
		return nil, ErrGoalUnauthorized
	}
	return goal, nil
}
