package repositories

import (
	"errors"
	"fmt"

	"github.com/allknee486/Impulse/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrSavingsGoalNotFound = errors.New("savings goal not found")

// savingsGoalRepository implements SavingsGoalRepositoryInterface
type savingsGoalRepository struct {
	db *gorm.DB
}

// NewSavingsGoalRepository creates a new savings goal repository
func NewSavingsGoalRepository(db *gorm.DB) SavingsGoalRepositoryInterface {
	return &savingsGoalRepository{
		db: db,
	}
}

// Create creates a new savings goal
func (r *savingsGoalRepository) Create(goal *models.SavingsGoal) error {
	if err := r.db.Create(goal).Error; err != nil {
		return fmt.Errorf("failed to create savings goal: %w", err)
	}
	return nil
}

// GetByID retrieves a savings goal by ID
func (r *savingsGoalRepository) GetByID(id uuid.UUID) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := r.db.Where("id = ?", id).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSavingsGoalNotFound
		}
		return nil, fmt.Errorf("failed to get savings goal: %w", err)
	}
	return &goal, nil
}

// GetByUserID retrieves all savings goals for a user, newest first
func (r *savingsGoalRepository) GetByUserID(userID uuid.UUID) ([]models.SavingsGoal, error) {
	var goals []models.SavingsGoal
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("failed to get savings goals: %w", err)
	}
	return goals, nil
}

// GetActiveByUserID retrieves a user's incomplete goals, newest first
func (r *savingsGoalRepository) GetActiveByUserID(userID uuid.UUID) ([]models.SavingsGoal, error) {
	var goals []models.SavingsGoal
	if err := r.db.Where("user_id = ? AND is_completed = ?", userID, false).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("failed to get active savings goals: %w", err)
	}
	return goals, nil
}

// CountActive returns the number of incomplete goals for a user
func (r *savingsGoalRepository) CountActive(userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.SavingsGoal{}).
		Where("user_id = ? AND is_completed = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count active savings goals: %w", err)
	}
	return count, nil
}

// Update saves changes to an existing savings goal
func (r *savingsGoalRepository) Update(goal *models.SavingsGoal) error {
	result := r.db.Model(&models.SavingsGoal{}).
		Where("id = ?", goal.ID).
		Select("name", "target_amount", "current_amount", "target_date", "is_completed").
		Updates(goal)

	if result.Error != nil {
		return fmt.Errorf("failed to update savings goal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSavingsGoalNotFound
	}
	return nil
}

// Delete removes a savings goal
func (r *savingsGoalRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.SavingsGoal{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete savings goal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSavingsGoalNotFound
	}
	return nil
}

// GetSummary aggregates all goals for a user. The overall percentage is
// saved-over-target across every goal, 0 when nothing has a target yet.
func (r *savingsGoalRepository) GetSummary(userID uuid.UUID) (*models.GoalsSummary, error) {
	goals, err := r.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	summary := &models.GoalsSummary{}
	totalTarget := decimal.Zero
	totalSaved := decimal.Zero

	for _, goal := range goals {
		summary.TotalGoals++
		if goal.IsCompleted {
			summary.CompletedGoals++
		} else {
			summary.ActiveGoals++
		}
		totalTarget = totalTarget.Add(goal.TargetAmount)
		totalSaved = totalSaved.Add(goal.CurrentAmount)
	}

	summary.TotalTarget, _ = totalTarget.Float64()
	summary.TotalSaved, _ = totalSaved.Float64()
	if totalTarget.GreaterThan(decimal.Zero) {
		summary.PercentageComplete, _ = totalSaved.Div(totalTarget).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	}

	return summary, nil
}
