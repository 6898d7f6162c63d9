package router

import (
	"context"

	"pharmacy_delivery_service/internal/chat/app"
	"pharmacy_delivery_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes register messaging routes
// @title Pharmacy Delivery Messaging API
// @version 1.0
// @description Conversation, inbox and unread tracking for the storefront
// @host localhost:8082
// @BasePath /
func RegisterRoutes(r *fiber.App, chatHandler *app.ChatHandler, chatWebsocket *app.ChatWebsocketHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		chatWebsocket.HandleConnection(context.Background(), c)
	}))

	chatRoutes := r.Group("/chat")
	chatRoutes.Post("/start", chatHandler.StartChat)
	chatRoutes.Post("/messages", chatHandler.SendMessage)
	chatRoutes.Get("/inbox", chatHandler.GetInbox)
	chatRoutes.Post("/inbox/seen", chatHandler.MarkSeen)
	chatRoutes.Get("/thread/:partner_id", chatHandler.GetThread)
	chatRoutes.Get("/unread", chatHandler.GetUnreadTotal)
	chatRoutes.Post("/attachments", chatHandler.UploadAttachment)
}
