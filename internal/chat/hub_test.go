package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID uint, dbName string) *Client {
	return &Client{
		hub:    hub,
		send:   make(chan []byte, 4),
		userID: userID,
		dbName: dbName,
		joined: make(map[string]struct{}),
	}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.send:
		return payload
	default:
		t.Fatal("expected a relayed payload")
		return nil
	}
}

func TestBroadcastExcludesSender(t *testing.T) {
	hub := NewHub()
	sender := newTestClient(hub, 1, "tenant_a")
	peer := newTestClient(hub, 2, "tenant_a")
	hub.join(sender, 10)
	hub.join(peer, 10)

	hub.broadcast(sender, 10, []byte("hello"))

	assert.Equal(t, []byte("hello"), receive(t, peer))
	assert.Empty(t, sender.send, "sender must not receive its own message")
}

func TestBroadcastScopedToRoom(t *testing.T) {
	hub := NewHub()
	sender := newTestClient(hub, 1, "tenant_a")
	other := newTestClient(hub, 3, "tenant_a")
	hub.join(sender, 10)
	hub.join(other, 11)

	hub.broadcast(sender, 10, []byte("hello"))

	assert.Empty(t, other.send, "message leaked into another chat room")
}

func TestTenantIsolation(t *testing.T) {
	hub := NewHub()
	sender := newTestClient(hub, 1, "tenant_a")
	foreign := newTestClient(hub, 1, "tenant_b")
	hub.join(sender, 10)
	hub.join(foreign, 10)

	// Same chat id, different tenant databases: separate rooms.
	require.Equal(t, 1, hub.RoomSize("tenant_a", 10))
	require.Equal(t, 1, hub.RoomSize("tenant_b", 10))

	hub.broadcast(sender, 10, []byte("hello"))

	assert.Empty(t, foreign.send, "message crossed a tenant boundary")
}

func TestRemoveDropsEmptyRooms(t *testing.T) {
	hub := NewHub()
	a := newTestClient(hub, 1, "tenant_a")
	b := newTestClient(hub, 2, "tenant_a")
	hub.join(a, 10)
	hub.join(b, 10)
	hub.join(a, 11)

	assert.Equal(t, 2, hub.RoomSize("tenant_a", 10))

	hub.remove(a)
	assert.Equal(t, 1, hub.RoomSize("tenant_a", 10))
	assert.Equal(t, 0, hub.RoomSize("tenant_a", 11))

	hub.remove(b)
	assert.Equal(t, 0, hub.RoomSize("tenant_a", 10))
	assert.Empty(t, hub.rooms, "empty rooms should be garbage collected")
}

func TestJoinIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub, 1, "tenant_a")
	hub.join(c, 10)
	hub.join(c, 10)

	assert.Equal(t, 1, hub.RoomSize("tenant_a", 10))
}
