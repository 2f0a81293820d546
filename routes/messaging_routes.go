package routes

import (
	"skillbridge/handlers"
	"skillbridge/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MessagingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	messaging := api.Group("/messaging", middleware.Protected())
	messaging.Get("/conversations", handlers.GetConversations)
	messaging.Get("/conversations/:counterpartId/messages", handlers.GetConversationMessages)
	messaging.Post("/messages", handlers.SendMessage)

	// The websocket endpoint authenticates via the first frame, not the
	// Authorization header, so it stays outside the Protected() group.
	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
