package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/mozhilabs/chat-server/internal/auth"
	"github.com/mozhilabs/chat-server/internal/cache"
	"github.com/mozhilabs/chat-server/internal/metrics"
	"github.com/mozhilabs/chat-server/internal/models"
)

const ingestTimeout = 15 * time.Second

// Ingestor runs a sent message through the translation pipeline, persists
// it and broadcasts it back to the room.
type Ingestor interface {
	Ingest(ctx context.Context, text, senderID, roomID string, at time.Time) (*models.Message, error)
}

type joinRoomPayload struct {
	RoomID string `json:"roomId"`
}

type sendMessagePayload struct {
	Text      string `json:"text"`
	SenderID  string `json:"senderId"`
	RoomID    string `json:"roomId"`
	Timestamp int64  `json:"timestamp"`
}

// Server authenticates websocket upgrades and dispatches inbound frames.
type Server struct {
	hub      *Hub
	tokens   *auth.Manager
	ingest   Ingestor
	presence *cache.Presence
	log      *zap.SugaredLogger
}

func NewServer(hub *Hub, tokens *auth.Manager, ingest Ingestor, presence *cache.Presence, log *zap.SugaredLogger) *Server {
	return &Server{hub: hub, tokens: tokens, ingest: ingest, presence: presence, log: log}
}

// Upgrade guards the handshake. Tokens travel in the query string because
// browser websocket clients cannot set an Authorization header.
func (s *Server) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	userID, err := s.tokens.Validate(c.Query("token"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}
	c.Locals("user_id", userID)
	return c.Next()
}

// Handler runs the connection lifecycle for an authenticated client.
func (s *Server) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(string)
		if userID == "" {
			conn.Close()
			return
		}

		client := newClient(s.hub, conn, userID)
		s.hub.register(client)
		metrics.WebsocketConnections.Inc()
		if err := s.presence.SetOnline(context.Background(), userID); err != nil {
			s.log.Warnw("presence set online", "user", userID, "error", err)
		}
		s.log.Infow("websocket connected", "user", userID)

		defer func() {
			metrics.WebsocketConnections.Dec()
			if err := s.presence.SetOffline(context.Background(), userID); err != nil {
				s.log.Warnw("presence set offline", "user", userID, "error", err)
			}
			s.log.Infow("websocket disconnected", "user", userID)
		}()

		go client.writePump()
		client.readPump(s.dispatch)
	})
}

func (s *Server) dispatch(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.sendError(c, "malformed frame")
		return
	}

	switch env.Event {
	case "join:room":
		var p joinRoomPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.RoomID == "" {
			s.sendError(c, "join:room requires a roomId")
			return
		}
		s.hub.Join(p.RoomID, c)

	case "message:send":
		var p sendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			s.sendError(c, "malformed message:send payload")
			return
		}
		if p.Text == "" || p.RoomID == "" {
			s.sendError(c, "message:send requires text and roomId")
			return
		}
		senderID := p.SenderID
		if senderID == "" {
			senderID = c.UserID
		}
		at := time.Now().UTC()
		if p.Timestamp > 0 {
			at = time.UnixMilli(p.Timestamp).UTC()
		}

		ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
		defer cancel()
		// Pipeline failures are logged and the message is dropped without an
		// ack; only malformed frames get an error reply.
		if _, err := s.ingest.Ingest(ctx, p.Text, senderID, p.RoomID, at); err != nil {
			s.log.Errorw("message ingest failed", "user", c.UserID, "room", p.RoomID, "error", err)
		}

	default:
		s.sendError(c, fmt.Sprintf("unknown event %q", env.Event))
	}
}

func (s *Server) sendError(c *Client, msg string) {
	frame, err := marshalEnvelope("error", fiber.Map{"error": msg})
	if err != nil {
		return
	}
	s.hub.deliver(c, frame)
}
