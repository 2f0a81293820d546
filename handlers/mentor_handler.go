package handlers

import (
	"time"

	"skillbridge/database"
	"skillbridge/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type ApplyMentorRequest struct {
	Headline     string   `json:"headline" validate:"required,min=10"`
	Bio          string   `json:"bio" validate:"required,min=50"`
	Availability string   `json:"availability,omitempty"`
	SkillIDs     []string `json:"skill_ids" validate:"required,min=1"`
}

func ApplyToBeAMentor(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req ApplyMentorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.MentorProfile
	if err := database.DB.First(&existing, "user_id = ?", userID).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already applied"})
	}

	var skills []*models.Skill
	if err := database.DB.Where("id IN ?", req.SkillIDs).Find(&skills).Error; err != nil || len(skills) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid skill selection"})
	}

	profile := models.MentorProfile{
		UserID:       userID,
		Headline:     &req.Headline,
		Bio:          &req.Bio,
		Status:       "pending",
		Skills:       skills,
	}
	if req.Availability != "" {
		profile.Availability = &req.Availability
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit application"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Application submitted. You will be notified once it is reviewed."})
}

func ListActiveMentors(c *fiber.Ctx) error {
	skillName := c.Query("skill")

	query := database.DB.Preload("User").Preload("Skills").Where("status = ?", "active")
	if skillName != "" {
		query = query.
			Joins("JOIN mentor_skills ON mentor_skills.mentor_profile_user_id = mentor_profiles.user_id").
			Joins("JOIN skills ON skills.id = mentor_skills.skill_id").
			Where("skills.name ILIKE ?", "%"+skillName+"%")
	}

	var mentors []models.MentorProfile
	if err := query.Find(&mentors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch mentors"})
	}

	return c.JSON(mentors)
}

func GetMentorProfile(c *fiber.Ctx) error {
	mentorID := c.Params("mentorId")

	var profile models.MentorProfile
	err := database.DB.Preload("User").Preload("Skills").
		First(&profile, "user_id = ? AND status = ?", mentorID, "active").Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor not found"})
	}

	var reviews []models.Review
	database.DB.Preload("Learner").
		Where("mentor_id = ?", mentorID).
		Order("created_at desc").
		Limit(20).
		Find(&reviews)

	return c.JSON(fiber.Map{
		"mentor":  profile,
		"reviews": reviews,
	})
}

func GetMyMentorProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var profile models.MentorProfile
	if err := database.DB.Preload("User").Preload("Skills").First(&profile, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor profile not found"})
	}

	return c.JSON(profile)
}

func UpdateMyMentorProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var profile models.MentorProfile
	if err := database.DB.First(&profile, "user_id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor profile not found"})
	}

	type Request struct {
		Headline     *string `json:"headline"`
		Bio          *string `json:"bio"`
		Availability *string `json:"availability"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Headline != nil {
		profile.Headline = req.Headline
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.Availability != nil {
		profile.Availability = req.Availability
	}

	database.DB.Save(&profile)

	return c.JSON(profile)
}

func AddSkillToProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	type Request struct {
		SkillID string `json:"skill_id" validate:"required,uuid"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	skillID, _ := uuid.Parse(req.SkillID)

	var skill models.Skill
	if err := database.DB.First(&skill, "id = ?", skillID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
	}

	link := models.MentorSkill{MentorProfileUserID: userID, SkillID: skillID}
	if err := database.DB.Create(&link).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Skill already on profile"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Skill added to profile"})
}

func RemoveSkillFromProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	skillID := c.Params("skillId")

	result := database.DB.
		Where("mentor_profile_user_id = ? AND skill_id = ?", userID, skillID).
		Delete(&models.MentorSkill{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove skill"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not on profile"})
	}

	return c.JSON(fiber.Map{"message": "Skill removed from profile"})
}

type CreateSlotRequest struct {
	SkillID   string    `json:"skill_id" validate:"required,uuid"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

func CreateAvailabilitySlot(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !req.EndTime.After(req.StartTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End time must be after start time"})
	}
	if req.StartTime.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot create a slot in the past"})
	}
	skillID, _ := uuid.Parse(req.SkillID)

	slot := models.AvailabilitySlot{
		MentorID:  mentorID,
		SkillID:   &skillID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := database.DB.Create(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create availability slot"})
	}

	return c.Status(fiber.StatusCreated).JSON(slot)
}

func GetMyAvailability(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID := claims["user_id"].(string)

	var slots []models.AvailabilitySlot
	if err := database.DB.Preload("Skill").
		Where("mentor_id = ?", mentorID).
		Order("start_time asc").
		Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch availability"})
	}

	return c.JSON(slots)
}

func GetMentorAvailability(c *fiber.Ctx) error {
	mentorID := c.Params("mentorId")

	var slots []models.AvailabilitySlot
	if err := database.DB.Preload("Skill").
		Where("mentor_id = ? AND status = ? AND start_time > ?", mentorID, "available", time.Now()).
		Order("start_time asc").
		Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch availability"})
	}

	return c.JSON(slots)
}

func DeleteAvailabilitySlot(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID := claims["user_id"].(string)

	slotID := c.Params("slotId")

	var slot models.AvailabilitySlot
	if err := database.DB.First(&slot, "id = ? AND mentor_id = ?", slotID, mentorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Slot not found"})
	}
	if slot.Status != "available" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Cannot delete a booked slot"})
	}

	database.DB.Delete(&slot)

	return c.JSON(fiber.Map{"message": "Slot deleted"})
}

func GetMyReviews(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID := claims["user_id"].(string)

	var reviews []models.Review
	if err := database.DB.Preload("Learner").
		Where("mentor_id = ?", mentorID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch reviews"})
	}

	return c.JSON(reviews)
}
