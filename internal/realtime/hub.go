package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/allknee486/Impulse/internal/metrics"

	"github.com/google/uuid"
)

// Hub routes events to per-user broadcast groups. Each connected session
// joins exactly one group; membership changes are the only mutations to
// shared state and happen under the lock.
type Hub struct {
	mu      sync.RWMutex
	groups  map[uuid.UUID]map[*Client]struct{}
	metrics metrics.RecorderInterface
	logger  *slog.Logger
}

// NewHub creates an empty fan-out hub
func NewHub(recorder metrics.RecorderInterface, logger *slog.Logger) *Hub {
	return &Hub{
		groups:  make(map[uuid.UUID]map[*Client]struct{}),
		metrics: recorder,
		logger:  logger,
	}
}

// GroupName returns the logical broadcast group name for a user
func GroupName(userID uuid.UUID) string {
	return fmt.Sprintf("transactions_group_%s", userID)
}

// Join adds a session to its user's group
func (h *Hub) Join(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[client.userID]
	if !ok {
		group = make(map[*Client]struct{})
		h.groups[client.userID] = group
	}
	group[client] = struct{}{}
	h.metrics.ConnectionOpened()

	h.logger.Debug("client joined group",
		slog.String("group", GroupName(client.userID)),
		slog.Int("sessions", len(group)))
}

// Leave removes a session from its group and closes its send channel. Safe to
// call for a client that already left.
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[client.userID]
	if !ok {
		return
	}
	if _, member := group[client]; !member {
		return
	}

	delete(group, client)
	close(client.send)
	if len(group) == 0 {
		delete(h.groups, client.userID)
	}
	h.metrics.ConnectionClosed()
}

// Publish delivers an event to every session in the user's group. Delivery is
// at most once: sessions with a full send buffer are skipped, and events for
// users with no sessions are dropped.
func (h *Hub) Publish(userID uuid.UUID, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	group, ok := h.groups[userID]
	if !ok || len(group) == 0 {
		h.metrics.RecordEventDropped()
		return
	}

	for client := range group {
		select {
		case client.send <- payload:
		default:
			h.metrics.RecordEventDropped()
			h.logger.Warn("send buffer full, dropping event",
				slog.String("group", GroupName(userID)))
		}
	}
}

// ConnectionCount returns the number of sessions in a user's group
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[userID])
}
