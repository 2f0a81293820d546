package routes

import (
	"skillbridge/handlers"
	"skillbridge/middleware"

	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments")
	payments.Post("/paypal/capture", middleware.Protected(), handlers.CapturePayPalOrder)
	payments.Post("/webhook", handlers.HandlePaymentWebhook)
}
