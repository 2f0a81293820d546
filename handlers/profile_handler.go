package handlers

import (
	"skillbridge/database"
	"skillbridge/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	FullName      *string `json:"full_name"`
	AvatarURL     *string `json:"avatar_url"`
	TimeZone      *string `json:"time_zone"`
	Bio           *string `json:"bio"`
	LearningGoals *string `json:"learning_goals"`
}

func GetProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.TimeZone != nil {
		user.TimeZone = req.TimeZone
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.LearningGoals != nil {
		user.LearningGoals = req.LearningGoals
	}

	database.DB.Save(&user)

	return c.JSON(user)
}

func GetMyProgress(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	learnerID, _ := uuid.Parse(claims["user_id"].(string))

	var totalSessions int64
	database.DB.Model(&models.Booking{}).
		Where("learner_id = ? AND status = ?", learnerID, "completed").
		Count(&totalSessions)

	var totalHours float64
	database.DB.Model(&models.Booking{}).
		Joins("JOIN availability_slots on bookings.availability_slot_id = availability_slots.id").
		Where("bookings.learner_id = ? AND bookings.status = ?", learnerID, "completed").
		Select("COALESCE(SUM(EXTRACT(EPOCH FROM (availability_slots.end_time - availability_slots.start_time))) / 3600, 0)").
		Row().Scan(&totalHours)

	var mentorships []models.Mentorship
	database.DB.Preload("Mentor").
		Where("learner_id = ?", learnerID).
		Order("created_at desc").
		Find(&mentorships)

	return c.JSON(fiber.Map{
		"total_sessions_completed": totalSessions,
		"total_hours_learned":      totalHours,
		"mentorships":              mentorships,
	})
}
