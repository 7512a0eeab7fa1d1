package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Registered clients use a nil websocket connection. The hub only touches the
// connection in Shutdown and the pumps, so plain channel delivery can be
// asserted without a live socket.

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub()

	alice, err := hub.Register("alice", nil)
	require.NoError(t, err)
	bob, err := hub.Register("bob", nil)
	require.NoError(t, err)

	assert.True(t, hub.IsOnline("alice"))
	assert.False(t, hub.IsOnline("carol"))

	hub.Broadcast("alice", "hello alice")
	select {
	case msg := <-alice.Send:
		assert.Equal(t, "hello alice", string(msg))
	default:
		t.Fatal("expected a message in alice's send buffer")
	}
	select {
	case <-bob.Send:
		t.Fatal("bob should not receive alice's message")
	default:
	}

	hub.BroadcastAll("everyone")
	assert.Equal(t, "everyone", string(<-alice.Send))
	assert.Equal(t, "everyone", string(<-bob.Send))
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()

	first, err := hub.Register("alice", nil)
	require.NoError(t, err)
	second, err := hub.Register("alice", nil)
	require.NoError(t, err)

	hub.UnregisterClient(first)
	assert.True(t, hub.IsOnline("alice"), "second connection keeps the user online")

	hub.UnregisterClient(second)
	assert.False(t, hub.IsOnline("alice"))

	// Unregistering twice is harmless.
	hub.UnregisterClient(second)
	assert.False(t, hub.IsOnline("alice"))
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register("alice", nil)
		require.NoError(t, err)
	}
	_, err := hub.Register("alice", nil)
	assert.Error(t, err)

	// Other users are unaffected.
	_, err = hub.Register("bob", nil)
	assert.NoError(t, err)
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register("alice", nil)
	require.NoError(t, err)

	for i := 0; i < cap(client.Send); i++ {
		client.TrySend([]byte("fill"))
	}
	// Buffer is full; the next send is dropped without blocking.
	client.TrySend([]byte("overflow"))
	assert.Len(t, client.Send, cap(client.Send))
}

func TestClient_TrySendSurvivesClosedChannel(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register("alice", nil)
	require.NoError(t, err)

	close(client.Send)
	assert.NotPanics(t, func() { client.TrySend([]byte("late")) })
}

func TestUserChannelRoundTrip(t *testing.T) {
	assert.Equal(t, "notifications:user:alice", UserChannel("alice"))
	assert.Equal(t, "alice", UserFromChannel(UserChannel("alice")))
	assert.Equal(t, "", UserFromChannel("notifications:broadcast"))
}

func TestNotifier_NilClientIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	ctx := context.Background()

	assert.NoError(t, n.PublishUser(ctx, "alice", map[string]string{"title": "hi"}))
	assert.NoError(t, n.PublishBroadcast(ctx, "hello"))
	assert.NoError(t, n.StartPatternSubscriber(ctx, func(string, string) {}))
}

func TestHub_WiringDeliversPublishedNotifications(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	notifier := NewNotifier(rdb)
	require.NoError(t, hub.StartWiring(ctx, notifier))

	client, err := hub.Register("alice", nil)
	require.NoError(t, err)

	// The subscriber goroutine needs to attach before a publish lands, so
	// republish until a message comes through.
	var raw []byte
	require.Eventually(t, func() bool {
		if err := notifier.PublishUser(ctx, "alice", map[string]string{"title": "ping"}); err != nil {
			return false
		}
		select {
		case raw = <-client.Send:
			return true
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "ping", payload["title"])
}
