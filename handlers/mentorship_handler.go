package handlers

import (
	"skillbridge/database"
	"skillbridge/models"
	"skillbridge/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type RequestMentorshipRequest struct {
	MentorID string `json:"mentor_id" validate:"required,uuid"`
	Skill    string `json:"skill" validate:"required,min=2"`
}

// RequestMentorship opens an active mentorship between the learner and a
// mentor, which is what unlocks messaging between the two.
func RequestMentorship(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	learnerID, _ := uuid.Parse(claims["user_id"].(string))

	var req RequestMentorshipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	mentorID, _ := uuid.Parse(req.MentorID)

	if mentorID == learnerID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot mentor yourself"})
	}

	var mentorProfile models.MentorProfile
	if err := database.DB.Preload("User").First(&mentorProfile, "user_id = ? AND status = ?", mentorID, "active").Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor not found"})
	}

	var existing models.Mentorship
	err := database.DB.
		Where("mentor_id = ? AND learner_id = ? AND skill = ? AND status = ?", mentorID, learnerID, req.Skill, "active").
		First(&existing).Error
	if err == nil {
		return c.JSON(existing)
	}

	mentorship := models.Mentorship{
		MentorID:  mentorID,
		LearnerID: learnerID,
		Skill:     req.Skill,
		Status:    "active",
	}
	if err := database.DB.Create(&mentorship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create mentorship"})
	}

	var learner models.User
	if err := database.DB.First(&learner, "id = ?", learnerID).Error; err == nil {
		go notifications.SendEmail(
			mentorProfile.User.FullName,
			mentorProfile.User.Email,
			"You Have a New Mentee!",
			"<h1>New Mentorship</h1><p>"+learner.FullName+" started a mentorship with you for "+req.Skill+". Say hello in the chat!</p>",
		)
	}

	return c.Status(fiber.StatusCreated).JSON(mentorship)
}

func ListMyMentorships(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var mentorships []models.Mentorship
	err := database.DB.Preload("Mentor").Preload("Learner").
		Where("(mentor_id = ? OR learner_id = ?) AND status = ?", userID, userID, "active").
		Order("created_at desc").
		Find(&mentorships).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch mentorships"})
	}

	return c.JSON(mentorships)
}

// EndMentorship closes an active mentorship. Either participant may end it;
// messaging between the pair stops once no active mentorship remains.
func EndMentorship(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	mentorshipID := c.Params("mentorshipId")

	var mentorship models.Mentorship
	if err := database.DB.First(&mentorship, "id = ?", mentorshipID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentorship not found"})
	}
	if mentorship.MentorID != userID && mentorship.LearnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not part of this mentorship"})
	}
	if mentorship.Status != "active" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Mentorship is not active"})
	}

	mentorship.Status = "ended"
	if err := database.DB.Save(&mentorship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to end mentorship"})
	}

	return c.JSON(mentorship)
}
