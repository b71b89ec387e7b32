package services

import (
	"fmt"
	"log/slog"

	"github.com/allknee486/Impulse/internal/metrics"
	"github.com/allknee486/Impulse/internal/models"
	"github.com/allknee486/Impulse/internal/realtime"
	"github.com/allknee486/Impulse/internal/repositories"

	"github.com/google/uuid"
)

// Action tags carried on transaction events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Broadcaster is the fan-out surface the publisher delivers to. A nil
// broadcaster means no realtime layer is running; events are dropped.
type Broadcaster interface {
	Publish(userID uuid.UUID, event any)
}

// eventPublisher builds transaction events after every committed ledger
// mutation and hands them to the fan-out layer. Publishing is fire and
// forget: no failure here may surface to the mutation that triggered it.
type eventPublisher struct {
	transactionRepo repositories.TransactionRepositoryInterface
	budgetRepo      repositories.BudgetRepositoryInterface
	broadcaster     Broadcaster
	metrics         metrics.RecorderInterface
	logger          *slog.Logger
}

// NewEventPublisher creates the post-commit event publisher
func NewEventPublisher(
	transactionRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	broadcaster Broadcaster,
	recorder metrics.RecorderInterface,
	logger *slog.Logger,
) EventPublisherInterface {
	return &eventPublisher{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		broadcaster:     broadcaster,
		metrics:         recorder,
		logger:          logger,
	}
}

// TransactionWritten emits a transaction_update event for the owning user.
// Deletes carry only the transaction id; when the transaction references a
// budget, the budget's balances are recomputed for the payload.
func (p *eventPublisher) TransactionWritten(transaction *models.Transaction, action string) {
	if transaction == nil {
		return
	}

	event := realtime.TransactionEvent{
		Type:   realtime.TypeTransactionUpdate,
		Action: action,
	}

	if action == ActionDeleted {
		event.Transaction = realtime.TransactionRef{ID: transaction.ID}
	} else {
		event.Transaction = transaction
	}

	if transaction.BudgetID != nil {
		update, err := p.budgetUpdate(transaction.UserID, *transaction.BudgetID)
		if err != nil {
			// Balance recomputation failing must not block the event, let
			// alone the mutation.
			p.logger.Warn("failed to recompute budget balance for event",
				slog.String("budget_id", transaction.BudgetID.String()),
				slog.String("error", err.Error()))
		} else {
			event.BudgetUpdate = update
		}
	}

	if p.broadcaster == nil {
		p.logger.Debug("no broadcaster attached, dropping event",
			slog.String("action", action),
			slog.String("transaction_id", transaction.ID.String()))
		return
	}

	p.broadcaster.Publish(transaction.UserID, event)
	p.metrics.RecordEventPublished(action)
}

// budgetUpdate recomputes a budget's spent and remaining amounts
func (p *eventPublisher) budgetUpdate(userID, budgetID uuid.UUID) (*realtime.BudgetUpdatePayload, error) {
	budget, err := p.budgetRepo.GetByID(budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	totalSpent, err := p.transactionRepo.Sum(models.TransactionFilters{
		UserID:   userID,
		BudgetID: &budgetID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sum budget spending: %w", err)
	}

	spentF, _ := totalSpent.Float64()
	remainingF, _ := budget.Amount.Sub(totalSpent).Float64()
	return &realtime.BudgetUpdatePayload{
		ID:         budget.ID,
		TotalSpent: spentF,
		Remaining:  remainingF,
	}, nil
}
