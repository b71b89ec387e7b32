package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/allknee486/Impulse/internal/metrics"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHub(metrics.NewNoopRecorder(), logger)
}

func newTestClient(hub *Hub, userID uuid.UUID, buffer int) *Client {
	return &Client{
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, buffer),
	}
}

func TestGroupName(t *testing.T) {
	userID := uuid.MustParse("7f9c24e5-3f1a-4b0e-9c2d-8a6b5c4d3e2f")
	assert.Equal(t, "transactions_group_7f9c24e5-3f1a-4b0e-9c2d-8a6b5c4d3e2f", GroupName(userID))
}

func TestHub_JoinAndPublish(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	client := newTestClient(hub, userID, 4)

	hub.Join(client)
	assert.Equal(t, 1, hub.ConnectionCount(userID))

	hub.Publish(userID, map[string]string{"type": "transaction_update"})

	select {
	case payload := <-client.send:
		var decoded map[string]string
		require.NoError(t, json.Unmarshal(payload, &decoded))
		assert.Equal(t, "transaction_update", decoded["type"])
	default:
		t.Fatal("expected a delivered event")
	}
}

func TestHub_PublishReachesAllSessionsOfUser(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	first := newTestClient(hub, userID, 4)
	second := newTestClient(hub, userID, 4)

	hub.Join(first)
	hub.Join(second)
	assert.Equal(t, 2, hub.ConnectionCount(userID))

	hub.Publish(userID, map[string]string{"type": "budget_update"})

	assert.Len(t, first.send, 1)
	assert.Len(t, second.send, 1)
}

func TestHub_GroupsAreIsolatedPerUser(t *testing.T) {
	hub := newTestHub()
	alice := uuid.New()
	bob := uuid.New()
	aliceClient := newTestClient(hub, alice, 4)
	bobClient := newTestClient(hub, bob, 4)

	hub.Join(aliceClient)
	hub.Join(bobClient)

	hub.Publish(alice, map[string]string{"type": "transaction_update"})

	assert.Len(t, aliceClient.send, 1)
	assert.Empty(t, bobClient.send)
}

func TestHub_PublishWithNoSessionsDrops(t *testing.T) {
	hub := newTestHub()

	assert.NotPanics(t, func() {
		hub.Publish(uuid.New(), map[string]string{"type": "transaction_update"})
	})
}

func TestHub_FullBufferDropsEvent(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	client := newTestClient(hub, userID, 1)
	hub.Join(client)

	hub.Publish(userID, map[string]string{"seq": "1"})
	hub.Publish(userID, map[string]string{"seq": "2"})

	// At-most-once: the second event is dropped, never queued behind.
	assert.Len(t, client.send, 1)
}

func TestHub_LeaveClosesSendChannel(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	client := newTestClient(hub, userID, 4)

	hub.Join(client)
	hub.Leave(client)

	assert.Equal(t, 0, hub.ConnectionCount(userID))

	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_LeaveIsIdempotent(t *testing.T) {
	hub := newTestHub()
	client := newTestClient(hub, uuid.New(), 4)

	hub.Join(client)
	hub.Leave(client)

	assert.NotPanics(t, func() {
		hub.Leave(client)
	})
}

func TestHub_LeaveOnlyRemovesOneSession(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	first := newTestClient(hub, userID, 4)
	second := newTestClient(hub, userID, 4)

	hub.Join(first)
	hub.Join(second)
	hub.Leave(first)

	assert.Equal(t, 1, hub.ConnectionCount(userID))

	hub.Publish(userID, map[string]string{"type": "transaction_update"})
	assert.Len(t, second.send, 1)
}
