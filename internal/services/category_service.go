package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/allknee486/Impulse/internal/models"
	"github.com/allknee486/Impulse/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")
	ErrCategoryUnauthorized  = errors.New("unauthorized access to category")
)

// categoryService implements CategoryServiceInterface
type categoryService struct {
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	logger          *slog.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	logger *slog.Logger,
) CategoryServiceInterface {
	return &categoryService{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// CreateCategory creates a new category, unique by name per user
func (s *categoryService) CreateCategory(userID uuid.UUID, name, description, color string) (*models.Category, error) {
	if _, err := s.categoryRepo.GetByName(userID, name); err == nil {
		return nil, ErrCategoryAlreadyExists
	} else if !errors.Is(err, repositories.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}

	category := &models.Category{
		UserID:      userID,
		Name:        name,
		Description: description,
		Color:       color,
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// BulkCreateCategories creates several categories in one call, skipping names
// the user already has.
func (s *categoryService) BulkCreateCategories(userID uuid.UUID, names []string) ([]models.Category, error) {
	created := make([]models.Category, 0, len(names))
	for _, name := range names {
		category, err := s.CreateCategory(userID, name, "", "")
		if errors.Is(err, ErrCategoryAlreadyExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		created = append(created, *category)
	}
	return created, nil
}

// GetCategories retrieves all categories for a user
func (s *categoryService) GetCategories(userID uuid.UUID) ([]models.Category, error) {
	return s.categoryRepo.GetByUserID(userID)
}

// GetCategory retrieves a single category, enforcing ownership
func (s *categoryService) GetCategory(userID, categoryID uuid.UUID) (*models.Category, error) {
	return s.getOwnedCategory(userID, categoryID)
}

// UpdateCategory saves changes to an existing category
func (s *categoryService) UpdateCategory(userID, categoryID uuid.UUID, name, description, color string) (*models.Category, error) {
	category, err := s.getOwnedCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if name != category.Name {
		if _, err := s.categoryRepo.GetByName(userID, name); err == nil {
			return nil, ErrCategoryAlreadyExists
		} else if !errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, fmt.Errorf("failed to check category name: %w", err)
		}
	}

	category.Name = name
	category.Description = description
	if color != "" {
		category.Color = color
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category. Its transactions survive and become
// uncategorized.
func (s *categoryService) DeleteCategory(userID, categoryID uuid.UUID) error {
	if _, err := s.getOwnedCategory(userID, categoryID); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.logger.Info("category deleted",
		slog.String("category_id", categoryID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// GetCategoryStatistics returns per-category transaction counts and totals
func (s *categoryService) GetCategoryStatistics(userID uuid.UUID) ([]models.CategoryStat, error) {
	categories, err := s.categoryRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	stats := make([]models.CategoryStat, 0, len(categories))
	for _, category := range categories {
		categoryID := category.ID
		filters := models.TransactionFilters{UserID: userID, CategoryID: &categoryID}

		count, err := s.transactionRepo.Count(filters)
		if err != nil {
			return nil, fmt.Errorf("failed to count category transactions: %w", err)
		}
		total, err := s.transactionRepo.Sum(filters)
		if err != nil {
			return nil, fmt.Errorf("failed to sum category transactions: %w", err)
		}

		totalF, _ := total.Float64()
		stats = append(stats, models.CategoryStat{
			ID:               category.ID,
			Name:             category.Name,
			TransactionCount: count,
			TotalSpent:       totalF,
		})
	}

	return stats, nil
}

// getOwnedCategory fetches a category and enforces that userID owns it
func (s *categoryService) getOwnedCategory(userID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category.UserID != userID {
		return nil, ErrCategoryUnauthorized
	}
	return category, nil
}
