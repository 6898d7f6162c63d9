package router

import (
	"pharmacy_delivery_service/internal/identity/app"
	"pharmacy_delivery_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes register account routes
// @title Pharmacy Delivery Identity API
// @version 1.0
// @description Accounts, sessions and chat identity resolution
// @host localhost:8081
// @BasePath /
func RegisterRoutes(r *fiber.App, identityHandler *app.IdentityHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	identityRoutes := r.Group("/identity")
	identityRoutes.Post("/register", identityHandler.Register)
	identityRoutes.Post("/login", identityHandler.Login)

	identityRoutes.Use(middlewares.JWTMiddleware())
	identityRoutes.Post("/logout", identityHandler.Logout)
	identityRoutes.Get("/me", identityHandler.Me)
	identityRoutes.Post("/auth", identityHandler.LinkAuth)
	identityRoutes.Post("/vendor/link", identityHandler.LinkVendor)
}
