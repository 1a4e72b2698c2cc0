package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/mozhilabs/chat-server/internal/auth"
	"github.com/mozhilabs/chat-server/internal/handlers"
	"github.com/mozhilabs/chat-server/internal/metrics"
	"github.com/mozhilabs/chat-server/internal/middleware"
	"github.com/mozhilabs/chat-server/internal/ws"
)

// Deps is everything the router needs wired.
type Deps struct {
	Tokens   *auth.Manager
	Auth     *handlers.AuthHandler
	Rooms    *handlers.RoomHandler
	Messages *handlers.MessageHandler
	Users    *handlers.UserHandler
	WS       *ws.Server
}

// Register mounts all HTTP and websocket routes on the app.
func Register(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", d.Auth.Register)
	authGroup.Post("/login", d.Auth.Login)

	protected := api.Use(middleware.JWTAuth(d.Tokens))
	protected.Post("/rooms/create", d.Rooms.Create)
	protected.Get("/rooms", d.Rooms.List)
	protected.Get("/messages/:roomId", d.Messages.History)
	protected.Patch("/users/me", d.Users.UpdateMe)
	protected.Get("/users/online", d.Users.Online)

	app.Get("/ws", d.WS.Upgrade, d.WS.Handler())
}
