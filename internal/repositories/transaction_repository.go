package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/allknee486/Impulse/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction
func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if err := r.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by ID
func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// Update saves changes to an existing transaction
func (r *transactionRepository) Update(transaction *models.Transaction) error {
	result := r.db.Model(&models.Transaction{}).
		Where("id = ?", transaction.ID).
		Select("budget_id", "category_id", "amount", "description", "notes", "transaction_date", "is_impulse").
		Updates(transaction)

	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction
func (r *transactionRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// GetWithFilters retrieves transactions matching the filter set, newest first
func (r *transactionRepository) GetWithFilters(filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := r.applyFilters(r.db.Model(&models.Transaction{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count filtered transactions: %w", err)
	}

	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	if err := query.Order("transaction_date DESC").Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get filtered transactions: %w", err)
	}

	return transactions, total, nil
}

// GetRecent retrieves the most recent transactions for a user
func (r *transactionRepository) GetRecent(userID uuid.UUID, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("user_id = ?", userID).
		Order("transaction_date DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	return transactions, nil
}

// Sum returns the total amount over the filtered set. An empty set sums to
// zero, never null.
func (r *transactionRepository) Sum(filters models.TransactionFilters) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	query := r.applyFilters(r.db.Model(&models.Transaction{}), filters)
	if err := query.Select("COALESCE(SUM(amount), 0) as total").Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}

	return result.Total, nil
}

// Count returns the number of transactions matching the filter set
func (r *transactionRepository) Count(filters models.TransactionFilters) (int64, error) {
	var total int64
	query := r.applyFilters(r.db.Model(&models.Transaction{}), filters)
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return total, nil
}

// Exists reports whether any transaction matches the filter set
func (r *transactionRepository) Exists(filters models.TransactionFilters) (bool, error) {
	var count int64
	query := r.applyFilters(r.db.Model(&models.Transaction{}), filters)
	if err := query.Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check transaction existence: %w", err)
	}
	return count > 0, nil
}

// SumByCategory groups the filtered set by category name. Transactions with
// no category (or a deleted one) land in the reserved "Uncategorized" bucket.
func (r *transactionRepository) SumByCategory(filters models.TransactionFilters) ([]models.CategorySum, error) {
	var sums []models.CategorySum

	query := r.applyFilters(r.db.Model(&models.Transaction{}), filters)
	if err := query.
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Select(fmt.Sprintf("COALESCE(categories.name, '%s') as name, SUM(transactions.amount) as total", models.UncategorizedLabel)).
		Group("categories.name").
		Scan(&sums).Error; err != nil {
		return nil, fmt.Errorf("failed to sum transactions by category: %w", err)
	}

	return sums, nil
}

// SumByMonth buckets a user's transactions by calendar month of the
// transaction date. Dates and amounts are fetched and bucketed here rather
// than with SQL date functions, which differ between postgres and sqlite.
// Months with no transactions are omitted.
func (r *transactionRepository) SumByMonth(userID uuid.UUID, start, end time.Time) ([]models.MonthSum, error) {
	var rows []struct {
		TransactionDate time.Time
		Amount          decimal.Decimal
	}

	if err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND transaction_date >= ? AND transaction_date <= ?", userID, start, end).
		Select("transaction_date, amount").
		Order("transaction_date ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to sum transactions by month: %w", err)
	}

	type monthKey struct {
		year  int
		month time.Month
	}

	totals := make(map[monthKey]decimal.Decimal)
	var order []monthKey
	for _, row := range rows {
		key := monthKey{row.TransactionDate.Year(), row.TransactionDate.Month()}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] = totals[key].Add(row.Amount)
	}

	sums := make([]models.MonthSum, 0, len(order))
	for _, key := range order {
		sums = append(sums, models.MonthSum{
			Year:  key.year,
			Month: key.month,
			Total: totals[key],
		})
	}

	return sums, nil
}

// applyFilters translates the ledger filter vocabulary into a query
func (r *transactionRepository) applyFilters(query *gorm.DB, filters models.TransactionFilters) *gorm.DB {
	if filters.UserID != uuid.Nil {
		query = query.Where("transactions.user_id = ?", filters.UserID)
	}
	if filters.CategoryID != nil {
		query = query.Where("transactions.category_id = ?", *filters.CategoryID)
	}
	if filters.BudgetID != nil {
		query = query.Where("transactions.budget_id = ?", *filters.BudgetID)
	}
	if filters.IsImpulse != nil {
		query = query.Where("transactions.is_impulse = ?", *filters.IsImpulse)
	}
	if filters.StartDate != nil {
		query = query.Where("transactions.transaction_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("transactions.transaction_date <= ?", *filters.EndDate)
	}
	if filters.EndBefore != nil {
		query = query.Where("transactions.transaction_date < ?", *filters.EndBefore)
	}
	if filters.MinAmount != nil {
		query = query.Where("transactions.amount >= ?", *filters.MinAmount)
	}
	if filters.MaxAmount != nil {
		query = query.Where("transactions.amount <= ?", *filters.MaxAmount)
	}
	return query
}
