package routes

import (
	"skillbridge/handlers"
	"skillbridge/middleware"

	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/applications", handlers.ListPendingApplications)
	admin.Post("/applications/:userId", handlers.ManageApplication)
	admin.Post("/skills", handlers.CreateSkill)
	admin.Put("/skills/:skillId", handlers.UpdateSkill)
	admin.Delete("/skills/:skillId", handlers.DeleteSkill)
	admin.Get("/users", handlers.GetAllUsers)
	admin.Post("/users/:userId/toggle-status", handlers.ToggleUserStatus)
}
