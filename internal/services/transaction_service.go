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
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrTransactionUnauthorized = errors.New("unauthorized access to transaction")
)

// TransactionInput carries the mutable transaction fields for create/update
type TransactionInput struct {
	BudgetID        *uuid.UUID
	CategoryID      *uuid.UUID
	Amount          decimal.Decimal
	Description     string
	Notes           string
	TransactionDate time.Time
	IsImpulse       bool
}

// transactionService implements TransactionServiceInterface. Every committed
// mutation is handed to the event publisher for realtime fan-out.
type transactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	budgetRepo      repositories.BudgetRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	publisher       EventPublisherInterface
	logger          *slog.Logger

	now func() time.Time
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	publisher EventPublisherInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &transactionService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		publisher:       publisher,
		logger:          logger,
		now:             time.Now,
	}
}

// CreateTransaction writes a new ledger entry and publishes a created event
func (s *transactionService) CreateTransaction(userID uuid.UUID, input TransactionInput) (*models.Transaction, error) {
	if err := s.verifyReferences(userID, input); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:          userID,
		BudgetID:        input.BudgetID,
		CategoryID:      input.CategoryID,
		Amount:          input.Amount,
		Description:     input.Description,
		Notes:           input.Notes,
		TransactionDate: input.TransactionDate,
		IsImpulse:       input.IsImpulse,
	}
	if transaction.TransactionDate.IsZero() {
		transaction.TransactionDate = s.now()
	}

	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Create(transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.publisher.TransactionWritten(transaction, ActionCreated)
	return transaction, nil
}

// GetTransactions retrieves transactions matching the filter set
func (s *transactionService) GetTransactions(filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	return s.transactionRepo.GetWithFilters(filters)
}

// GetTransaction retrieves a single transaction, enforcing ownership
func (s *transactionService) GetTransaction(userID, transactionID uuid.UUID) (*models.Transaction, error) {
	return s.getOwnedTransaction(userID, transactionID)
}

// UpdateTransaction saves changes to a ledger entry and publishes an updated
// event
func (s *transactionService) UpdateTransaction(userID, transactionID uuid.UUID, input TransactionInput) (*models.Transaction, error) {
	transaction, err := s.getOwnedTransaction(userID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyReferences(userID, input); err != nil {
		return nil, err
	}

	transaction.BudgetID = input.BudgetID
	transaction.CategoryID = input.CategoryID
	transaction.Amount = input.Amount
	transaction.Description = input.Description
	transaction.Notes = input.Notes
	transaction.IsImpulse = input.IsImpulse
	if !input.TransactionDate.IsZero() {
		transaction.TransactionDate = input.TransactionDate
	}

	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.Update(transaction); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.publisher.TransactionWritten(transaction, ActionUpdated)
	return transaction, nil
}

// DeleteTransaction removes a ledger entry and publishes a deleted event
// carrying only the transaction id.
func (s *transactionService) DeleteTransaction(userID, transactionID uuid.UUID) error {
	transaction, err := s.getOwnedTransaction(userID, transactionID)
	if err != nil {
		return err
	}
	if err := s.transactionRepo.Delete(transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.publisher.TransactionWritten(transaction, ActionDeleted)
	return nil
}

// SetImpulse flips the impulse flag on a transaction
func (s *transactionService) SetImpulse(userID, transactionID uuid.UUID, isImpulse bool) (*models.Transaction, error) {
	transaction, err := s.getOwnedTransaction(userID, transactionID)
	if err != nil {
		return nil, err
	}

	transaction.IsImpulse = isImpulse
	if err := s.transactionRepo.Update(transaction); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.publisher.TransactionWritten(transaction, ActionUpdated)
	return transaction, nil
}

// GetRecent retrieves the user's most recent transactions
func (s *transactionService) GetRecent(userID uuid.UUID, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.transactionRepo.GetRecent(userID, limit)
}

// GetImpulseTransactions retrieves all of the user's impulse purchases
func (s *transactionService) GetImpulseTransactions(userID uuid.UUID) ([]models.Transaction, error) {
	impulse := true
	transactions, _, err := s.transactionRepo.GetWithFilters(models.TransactionFilters{
		UserID:    userID,
		IsImpulse: &impulse,
	})
	return transactions, err
}

// GetMonthlyTotal sums the user's month-to-date spending
func (s *transactionService) GetMonthlyTotal(userID uuid.UUID) (decimal.Decimal, error) {
	monthStart := startOfMonth(s.now())
	return s.transactionRepo.Sum(models.TransactionFilters{
		UserID:    userID,
		StartDate: &monthStart,
	})
}

// verifyReferences checks that the referenced budget and category exist and
// belong to the given user.
func (s *transactionService) verifyReferences(userID uuid.UUID, input TransactionInput) error {
	if input.BudgetID != nil {
		budget, err := s.budgetRepo.GetByID(*input.BudgetID)
		if err != nil {
			if errors.Is(err, repositories.ErrBudgetNotFound) {
				return ErrBudgetNotFound
			}
			return fmt.Errorf("failed to verify budget: %w", err)
		}
		if budget.UserID != userID {
			return ErrBudgetUnauthorized
		}
	}
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(*input.CategoryID)
		if err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to verify category: %w", err)
		}
		if category.UserID != userID {
			return ErrCategoryUnauthorized
		}
	}
	return nil
}

// getOwnedTransaction fetches a transaction and enforces that userID owns it
func (s *transactionService) getOwnedTransaction(userID, transactionID uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if transaction.UserID != userID {
		return nil, ErrTransactionUnauthorized
	}
	return transaction, nil
}
