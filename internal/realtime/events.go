package realtime

import (
	"github.com/allknee486/Impulse/internal/models"

	"github.com/google/uuid"
)

// Wire-level event shapes delivered to connected clients. These are a stable
// contract; field names must not change.

const (
	// TypeTransactionUpdate tags events emitted after ledger mutations.
	TypeTransactionUpdate = "transaction_update"
	// TypeBudgetUpdate tags standalone budget refresh events.
	TypeBudgetUpdate = "budget_update"
	// TypeConnectionEstablished is the greeting sent once a session joins
	// its group.
	TypeConnectionEstablished = "connection_established"
)

// BudgetUpdatePayload carries the recomputed balances of the budget touched
// by a mutation. Null in the event when the transaction had no budget.
type BudgetUpdatePayload struct {
	ID         uuid.UUID `json:"id"`
	TotalSpent float64   `json:"total_spent"`
	Remaining  float64   `json:"remaining"`
}

// TransactionRef is the delete payload: the record is gone, so only its id
// travels.
type TransactionRef struct {
	ID uuid.UUID `json:"id"`
}

// TransactionEvent is the event emitted after every transaction mutation.
// Transaction holds the full record for creates/updates and a TransactionRef
// for deletes.
type TransactionEvent struct {
	Type         string               `json:"type"`
	Action       string               `json:"action"`
	Transaction  any                  `json:"transaction"`
	BudgetUpdate *BudgetUpdatePayload `json:"budget_update"`
}

// BudgetEvent pushes a budget's current summary fields.
type BudgetEvent struct {
	Type   string         `json:"type"`
	Budget *models.Budget `json:"budget"`
}

// Control messages of the heartbeat protocol.

type pongMessage struct {
	Type string `json:"type"`
}

type greetingMessage struct {
	Type string `json:"type"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
