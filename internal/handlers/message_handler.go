package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mozhilabs/chat-server/internal/models"
	"github.com/mozhilabs/chat-server/internal/repository"
	"github.com/mozhilabs/chat-server/internal/service"
)

type MessageHandler struct {
	svc *service.MessageService
	log *zap.SugaredLogger
}

func NewMessageHandler(svc *service.MessageService, log *zap.SugaredLogger) *MessageHandler {
	return &MessageHandler{svc: svc, log: log}
}

// History serves GET /api/messages/:roomId.
func (h *MessageHandler) History(c *fiber.Ctx) error {
	roomID := c.Params("roomId")
	if roomID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "roomId is required"})
	}
	callerID, _ := c.Locals("user_id").(string)

	msgs, err := h.svc.HistoryForRoom(c.Context(), roomID, callerID)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "room not found"})
	}
	if errors.Is(err, service.ErrRoomForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not a participant of this room"})
	}
	if err != nil {
		h.log.Errorw("message history failed", "room", roomID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load messages"})
	}
	if msgs == nil {
		msgs = []*models.Message{}
	}
	return c.JSON(msgs)
}
