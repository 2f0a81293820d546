package routes

import (
	"skillbridge/handlers"

	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/mentors", handlers.ListActiveMentors)
	api.Get("/mentors/:mentorId", handlers.GetMentorProfile)
	api.Get("/mentors/:mentorId/availability", handlers.GetMentorAvailability)
	api.Get("/skills", handlers.ListSkills)
}
