package ws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mozhilabs/chat-server/internal/models"
)

type stubIngestor struct {
	err      error
	calls    int
	text     string
	senderID string
	roomID   string
}

func (s *stubIngestor) Ingest(_ context.Context, text, senderID, roomID string, _ time.Time) (*models.Message, error) {
	s.calls++
	s.text = text
	s.senderID = senderID
	s.roomID = roomID
	if s.err != nil {
		return nil, s.err
	}
	return &models.Message{ID: "m1", Text: text, SenderID: senderID, RoomID: roomID}, nil
}

func newDispatchFixture(ing *stubIngestor) (*Server, *Hub) {
	h := newTestHub()
	return NewServer(h, nil, ing, nil, zap.NewNop().Sugar()), h
}

func TestDispatchMessageSend(t *testing.T) {
	ing := &stubIngestor{}
	srv, h := newDispatchFixture(ing)
	c := addClient(h, "u1")

	srv.dispatch(c, []byte(`{"event":"message:send","data":{"text":"hello","roomId":"room-1"}}`))

	assert.Equal(t, 1, ing.calls)
	assert.Equal(t, "hello", ing.text)
	assert.Equal(t, "room-1", ing.roomID)
	assert.Equal(t, "u1", ing.senderID, "sender defaults to the connection's user")
	assert.Empty(t, drain(c), "successful send is not acknowledged")
}

func TestDispatchIngestFailureIsSilent(t *testing.T) {
	ing := &stubIngestor{err: errors.New("mongo down")}
	srv, h := newDispatchFixture(ing)
	c := addClient(h, "u1")

	srv.dispatch(c, []byte(`{"event":"message:send","data":{"text":"hello","roomId":"room-1"}}`))

	assert.Equal(t, 1, ing.calls)
	assert.Empty(t, drain(c), "pipeline failures are logged and dropped, never acked")
}

func TestDispatchMalformedFrame(t *testing.T) {
	ing := &stubIngestor{}
	srv, h := newDispatchFixture(ing)
	c := addClient(h, "u1")

	srv.dispatch(c, []byte("not json"))

	got := drain(c)
	require.Len(t, got, 1)
	assert.Equal(t, "error", got[0].Event)
	assert.JSONEq(t, `{"error":"malformed frame"}`, string(got[0].Data))
	assert.Zero(t, ing.calls)
}

func TestDispatchMessageSendValidation(t *testing.T) {
	ing := &stubIngestor{}
	srv, h := newDispatchFixture(ing)
	c := addClient(h, "u1")

	srv.dispatch(c, []byte(`{"event":"message:send","data":{"text":"","roomId":"room-1"}}`))
	srv.dispatch(c, []byte(`{"event":"message:send","data":{"text":"hello","roomId":""}}`))

	got := drain(c)
	require.Len(t, got, 2)
	for _, env := range got {
		assert.Equal(t, "error", env.Event)
	}
	assert.Zero(t, ing.calls)
}

func TestDispatchJoinRoom(t *testing.T) {
	srv, h := newDispatchFixture(&stubIngestor{})
	c := addClient(h, "u1")

	srv.dispatch(c, []byte(`{"event":"join:room","data":{"roomId":"room-1"}}`))
	h.BroadcastRoom("room-1", "message:received", map[string]string{})

	require.Len(t, drain(c), 1)

	srv.dispatch(c, []byte(`{"event":"join:room","data":{}}`))
	got := drain(c)
	require.Len(t, got, 1)
	assert.Equal(t, "error", got[0].Event)
}

func TestDispatchUnknownEvent(t *testing.T) {
	srv, h := newDispatchFixture(&stubIngestor{})
	c := addClient(h, "u1")

	srv.dispatch(c, []byte(`{"event":"message:edit","data":{}}`))

	got := drain(c)
	require.Len(t, got, 1)
	assert.Equal(t, "error", got[0].Event)
}
