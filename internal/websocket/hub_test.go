package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string) *Client {
	return &Client{
		UserID:   userID,
		UserRole: "sub_vendor",
		send:     make(chan []byte, 16),
	}
}

func registerAndWait(t *testing.T, hub *Hub, c *Client) {
	t.Helper()
	hub.register <- c
	require.Eventually(t, func() bool {
		return hub.IsUserConnected(c.UserID)
	}, time.Second, 5*time.Millisecond)
}

func TestHub_BroadcastReachesEveryConnectionOfTheUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Two tabs of the same user, one of somebody else.
	a1 := newTestClient("u1")
	a2 := newTestClient("u1")
	b := newTestClient("u2")
	registerAndWait(t, hub, a1)
	registerAndWait(t, hub, a2)
	registerAndWait(t, hub, b)

	hub.BroadcastToUser("u1", map[string]string{"type": "session_signed_out"})

	for _, c := range []*Client{a1, a2} {
		select {
		case data := <-c.send:
			assert.Contains(t, string(data), "session_signed_out")
		case <-time.After(time.Second):
			t.Fatal("connection did not receive the event")
		}
	}

	select {
	case <-b.send:
		t.Fatal("event leaked to another user's connection")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSendAndDropsUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient("u1")
	registerAndWait(t, hub, c)
	assert.Equal(t, 1, hub.GetClientCount())

	hub.unregister <- c
	require.Eventually(t, func() bool {
		return !hub.IsUserConnected("u1")
	}, time.Second, 5*time.Millisecond)

	_, open := <-c.send
	assert.False(t, open, "send channel must be closed on unregister")
	assert.Equal(t, 0, hub.GetClientCount())
}

func TestHub_UserStaysConnectedWhileOneTabRemains(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a1 := newTestClient("u1")
	a2 := newTestClient("u1")
	registerAndWait(t, hub, a1)
	registerAndWait(t, hub, a2)

	hub.unregister <- a1
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	assert.True(t, hub.IsUserConnected("u1"))
}

func TestHub_BroadcastToOfflineUserIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Nothing to assert beyond "does not block or panic".
	hub.BroadcastToUser("nobody", map[string]string{"type": "session_signed_in"})
	assert.False(t, hub.IsUserConnected("nobody"))
}
