package handlers

import (
	"strconv"

	"skillbridge/database"
	"skillbridge/models"
	"skillbridge/notifications"

	"github.com/gofiber/fiber/v2"
)

func ListPendingApplications(c *fiber.Ctx) error {
	var applications []models.MentorProfile
	if err := database.DB.Preload("User").Preload("Skills").
		Where("status = ?", "pending").
		Find(&applications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch applications"})
	}

	return c.JSON(applications)
}

type ManageApplicationRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

func ManageApplication(c *fiber.Ctx) error {
	mentorID := c.Params("mentorId")

	var req ManageApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var profile models.MentorProfile
	if err := database.DB.Preload("User").First(&profile, "user_id = ?", mentorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application not found"})
	}
	if profile.Status != "pending" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Application already processed"})
	}

	if req.Action == "approve" {
		profile.Status = "active"
		if err := database.DB.Save(&profile).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to approve application"})
		}
		if err := database.DB.Model(&models.User{}).Where("id = ?", mentorID).Update("role", "mentor").Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user role"})
		}
		go notifications.SendEmail(profile.User.FullName, profile.User.Email, "Your Mentor Application Was Approved!", "<h1>Welcome aboard!</h1><p>Your mentor application has been approved. Set up your availability to start taking sessions.</p>")
	} else {
		profile.Status = "rejected"
		if err := database.DB.Save(&profile).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reject application"})
		}
		go notifications.SendEmail(profile.User.FullName, profile.User.Email, "Update on Your Mentor Application", "<h1>Application Update</h1><p>Unfortunately your mentor application was not approved at this time.</p>")
	}

	return c.JSON(profile)
}

type SkillRequest struct {
	Name       string  `json:"name" validate:"required,min=2"`
	Category   string  `json:"category,omitempty"`
	SessionFee float64 `json:"session_fee" validate:"required,gt=0"`
	Currency   string  `json:"currency,omitempty" validate:"omitempty,len=3"`
}

func CreateSkill(c *fiber.Ctx) error {
	var req SkillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	skill := models.Skill{
		Name:       req.Name,
		Category:   req.Category,
		SessionFee: req.SessionFee,
	}
	if req.Currency != "" {
		skill.Currency = req.Currency
	}
	if err := database.DB.Create(&skill).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Skill already exists"})
	}

	return c.Status(fiber.StatusCreated).JSON(skill)
}

func ListSkills(c *fiber.Ctx) error {
	var skills []models.Skill
	if err := database.DB.Order("name asc").Find(&skills).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch skills"})
	}

	return c.JSON(skills)
}

func UpdateSkill(c *fiber.Ctx) error {
	skillID := c.Params("skillId")

	var skill models.Skill
	if err := database.DB.First(&skill, "id = ?", skillID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
	}

	var req SkillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	skill.Name = req.Name
	skill.Category = req.Category
	skill.SessionFee = req.SessionFee
	if req.Currency != "" {
		skill.Currency = req.Currency
	}
	if err := database.DB.Save(&skill).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update skill"})
	}

	return c.JSON(skill)
}

func DeleteSkill(c *fiber.Ctx) error {
	skillID := c.Params("skillId")

	var slotCount int64
	database.DB.Model(&models.AvailabilitySlot{}).Where("skill_id = ?", skillID).Count(&slotCount)
	if slotCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Skill is in use by availability slots"})
	}

	result := database.DB.Delete(&models.Skill{}, "id = ?", skillID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete skill"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Skill not found"})
	}

	return c.JSON(fiber.Map{"message": "Skill deleted"})
}

func GetAllUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	offset := (page - 1) * pageSize

	var users []models.User
	if err := database.DB.Order("created_at desc").Limit(pageSize).Offset(offset).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(users)
}

func ToggleUserStatus(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if user.Role == "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot suspend an admin"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{"id": user.ID, "is_active": user.IsActive})
}
