package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mozhilabs/chat-server/internal/models"
	"github.com/mozhilabs/chat-server/internal/repository"
	"github.com/mozhilabs/chat-server/internal/service"
)

type createRoomRequest struct {
	InviteeEmail string `json:"inviteeEmail"`
}

type RoomHandler struct {
	svc *service.RoomService
	log *zap.SugaredLogger
}

func NewRoomHandler(svc *service.RoomService, log *zap.SugaredLogger) *RoomHandler {
	return &RoomHandler{svc: svc, log: log}
}

func (h *RoomHandler) Create(c *fiber.Ctx) error {
	var req createRoomRequest
	if err := c.BodyParser(&req); err != nil || req.InviteeEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "inviteeEmail is required"})
	}
	callerID, _ := c.Locals("user_id").(string)

	room, err := h.svc.CreateByInvite(c.Context(), callerID, req.InviteeEmail)
	if errors.Is(err, service.ErrInviteeNotFound) || errors.Is(err, repository.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "invitee not found"})
	}
	if err != nil {
		h.log.Errorw("create room failed", "caller", callerID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not create room"})
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

func (h *RoomHandler) List(c *fiber.Ctx) error {
	callerID, _ := c.Locals("user_id").(string)

	rooms, err := h.svc.ListForUser(c.Context(), callerID)
	if err != nil {
		h.log.Errorw("list rooms failed", "caller", callerID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list rooms"})
	}
	if rooms == nil {
		rooms = []*models.Room{}
	}
	return c.JSON(rooms)
}
