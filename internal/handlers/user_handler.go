package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mozhilabs/chat-server/internal/repository"
)

type updateProfileRequest struct {
	Name              string `json:"name"`
	PreferredLanguage string `json:"preferredLanguage"`
	Avatar            string `json:"avatar"`
}

// PresenceLister reports which users currently hold a realtime connection.
type PresenceLister interface {
	OnlineUsers(ctx context.Context) ([]string, error)
}

type UserHandler struct {
	users    repository.UserRepository
	presence PresenceLister
	log      *zap.SugaredLogger
}

func NewUserHandler(users repository.UserRepository, presence PresenceLister, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{users: users, presence: presence, log: log}
}

// UpdateMe serves PATCH /api/users/me with a partial profile update.
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	fields := map[string]any{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.PreferredLanguage != "" {
		fields["preferred_language"] = req.PreferredLanguage
	}
	if req.Avatar != "" {
		fields["avatar"] = req.Avatar
	}
	if len(fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nothing to update"})
	}

	callerID, _ := c.Locals("user_id").(string)
	user, err := h.users.UpdateProfile(c.Context(), callerID, fields)
	if errors.Is(err, repository.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	if err != nil {
		h.log.Errorw("profile update failed", "user", callerID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update profile"})
	}
	return c.JSON(user.Public())
}

// Online serves GET /api/users/online from the Redis presence set.
func (h *UserHandler) Online(c *fiber.Ctx) error {
	users, err := h.presence.OnlineUsers(c.Context())
	if err != nil {
		h.log.Errorw("online users lookup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load online users"})
	}
	if users == nil {
		users = []string{}
	}
	return c.JSON(fiber.Map{"userIds": users})
}
