package routes

import (
	"skillbridge/handlers"
	"skillbridge/middleware"

	"github.com/gofiber/fiber/v2"
)

func MentorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/mentors/apply", middleware.Protected(), handlers.ApplyToBeAMentor)

	mentor := api.Group("/mentor", middleware.Protected(), middleware.MentorRequired())
	mentor.Get("/profile", handlers.GetMyMentorProfile)
	mentor.Put("/profile", handlers.UpdateMyMentorProfile)
	mentor.Post("/skills", handlers.AddSkillToProfile)
	mentor.Delete("/skills/:skillId", handlers.RemoveSkillFromProfile)
	mentor.Post("/availability", handlers.CreateAvailabilitySlot)
	mentor.Get("/availability", handlers.GetMyAvailability)
	mentor.Delete("/availability/:slotId", handlers.DeleteAvailabilitySlot)
	mentor.Get("/reviews", handlers.GetMyReviews)
	mentor.Get("/bookings", handlers.GetMyMentorBookings)
	mentor.Post("/bookings/:bookingId/complete", handlers.MarkSessionAsComplete)
}
