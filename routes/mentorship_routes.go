package routes

import (
	"skillbridge/handlers"
	"skillbridge/middleware"

	"github.com/gofiber/fiber/v2"
)

func MentorshipRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	mentorships := api.Group("/mentorships", middleware.Protected())
	mentorships.Post("", handlers.RequestMentorship)
	mentorships.Get("", handlers.ListMyMentorships)
	mentorships.Post("/:mentorshipId/end", handlers.EndMentorship)
}
