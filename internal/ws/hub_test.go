package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHub() *Hub {
	return NewHub(zap.NewNop().Sugar())
}

func addClient(h *Hub, userID string) *Client {
	c := newClient(h, nil, userID)
	h.register(c)
	return c
}

func drain(c *Client) []Envelope {
	var out []Envelope
	for {
		select {
		case frame := <-c.send:
			var env Envelope
			if err := json.Unmarshal(frame, &env); err == nil {
				out = append(out, env)
			}
		default:
			return out
		}
	}
}

func TestBroadcastRoomOnlyReachesSubscribers(t *testing.T) {
	h := newTestHub()
	c1 := addClient(h, "u1")
	c2 := addClient(h, "u2")
	c3 := addClient(h, "u3")

	h.Join("room-1", c1)
	h.Join("room-1", c2)
	h.Join("room-2", c3)

	h.BroadcastRoom("room-1", "message:received", map[string]string{"text": "hello"})

	got1 := drain(c1)
	require.Len(t, got1, 1)
	assert.Equal(t, "message:received", got1[0].Event)
	assert.JSONEq(t, `{"text":"hello"}`, string(got1[0].Data))

	assert.Len(t, drain(c2), 1)
	assert.Empty(t, drain(c3), "non-subscriber must not receive room broadcasts")
}

func TestBroadcastAllReachesEveryone(t *testing.T) {
	h := newTestHub()
	c1 := addClient(h, "u1")
	c2 := addClient(h, "u2")
	h.Join("room-1", c1)

	h.BroadcastAll("room:created", map[string]string{"id": "room-2"})

	require.Len(t, drain(c1), 1)
	got := drain(c2)
	require.Len(t, got, 1)
	assert.Equal(t, "room:created", got[0].Event)
}

func TestJoinRequiresRegisteredClient(t *testing.T) {
	h := newTestHub()
	stranger := newClient(h, nil, "ghost")

	h.Join("room-1", stranger)
	h.BroadcastRoom("room-1", "message:received", map[string]string{})

	assert.Empty(t, drain(stranger))
}

func TestUnregisterRemovesRoomMembership(t *testing.T) {
	h := newTestHub()
	c1 := addClient(h, "u1")
	c2 := addClient(h, "u2")
	h.Join("room-1", c1)
	h.Join("room-1", c2)

	h.unregister(c1)
	h.BroadcastRoom("room-1", "message:received", map[string]string{})

	assert.Len(t, drain(c2), 1)

	_, open := <-c1.send
	assert.False(t, open, "send channel must be closed on unregister")
}

func TestBroadcastDuringDisconnect(t *testing.T) {
	h := newTestHub()
	frame := []byte("{}")

	// A client disconnecting mid-broadcast must never panic the hub with a
	// send on its closed channel.
	for i := 0; i < 5000; i++ {
		c := addClient(h, "u1")
		h.Join("room-1", c)

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			h.deliver(c, frame)
		}()
		go func() {
			defer wg.Done()
			h.BroadcastRoom("room-1", "message:received", map[string]string{})
		}()
		go func() {
			defer wg.Done()
			h.unregister(c)
		}()
		wg.Wait()
	}
}

func TestDeliverAfterUnregisterIsNoop(t *testing.T) {
	h := newTestHub()
	c := addClient(h, "u1")
	h.unregister(c)

	h.deliver(c, []byte("{}"))

	_, open := <-c.send
	assert.False(t, open)
}

func TestFullBufferEvictsClient(t *testing.T) {
	h := newTestHub()
	c := addClient(h, "slow")
	h.Join("room-1", c)

	for i := 0; i < sendBufferSize; i++ {
		c.send <- []byte("{}")
	}
	h.BroadcastRoom("room-1", "message:received", map[string]string{})

	h.mu.RLock()
	defer h.mu.RUnlock()
	assert.False(t, h.clients[c])
	assert.Empty(t, h.rooms["room-1"])
}
