package handlers

import (
	"errors"
	"log"

	"skillbridge/database"
	"skillbridge/models"
	"skillbridge/notifications"
	"skillbridge/payments"
	"skillbridge/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateBookingRequest struct {
	AvailabilitySlotID string `json:"availability_slot_id" validate:"required,uuid"`
	UseCredit          bool   `json:"use_credit,omitempty"`
	PaymentProvider    string `json:"payment_provider,omitempty"`
}

func CreateBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	learnerID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	slotID, _ := uuid.Parse(req.AvailabilitySlotID)

	var slot models.AvailabilitySlot
	if err := database.DB.Preload("Skill").First(&slot, "id = ?", slotID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Availability slot not found"})
	}
	if slot.Skill.ID == uuid.Nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Availability slot has no skill attached"})
	}
	if slot.MentorID == learnerID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot book your own session"})
	}

	if req.UseCredit {
		var learner models.User
		if err := database.DB.First(&learner, "id = ?", learnerID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Learner not found"})
		}
		if learner.CreditBalance < slot.Skill.SessionFee {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Insufficient credit balance to book this session."})
		}

		var confirmedBooking models.Booking
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, "id = ?", slotID).Error; err != nil {
				return err
			}
			if slot.Status != "available" {
				return errors.New("this session is no longer available")
			}
			slot.Status = "booked"

			learner.CreditBalance -= slot.Skill.SessionFee
			if err := tx.Save(&learner).Error; err != nil {
				return err
			}
			if err := tx.Save(&slot).Error; err != nil {
				return err
			}

			meetingLink, err := utils.GenerateUniqueMeetingLink(tx)
			if err != nil {
				return err
			}

			confirmedBooking = models.Booking{
				LearnerID:          learnerID,
				MentorID:           slot.MentorID,
				AvailabilitySlotID: slot.ID,
				Price:              slot.Skill.SessionFee,
				Currency:           slot.Skill.Currency,
				Status:             "confirmed",
				MeetingLink:        &meetingLink,
			}
			if err := tx.Create(&confirmedBooking).Error; err != nil {
				return err
			}

			payment := models.Payment{
				BookingID: &confirmedBooking.ID,
				Amount:    confirmedBooking.Price,
				Currency:  slot.Skill.Currency,
				Provider:  "credit",
				Status:    "succeeded",
			}
			return tx.Create(&payment).Error
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process credit payment: " + err.Error()})
		}

		go func() {
			var booking models.Booking
			if err := database.DB.Preload("Learner").Preload("Mentor").First(&booking, "id = ?", confirmedBooking.ID).Error; err == nil {
				notifications.SendEmail(booking.Learner.FullName, booking.Learner.Email, "Your Session is Confirmed!", "<h1>Session Confirmed</h1><p>Your session has been booked using your credit balance.</p>")
				notifications.SendEmail(booking.Mentor.FullName, booking.Mentor.Email, "You Have a New Booking!", "<h1>New Booking</h1><p>A learner has booked a session with you.</p>")
			}
		}()

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Session booked successfully using your credit balance.",
			"booking": confirmedBooking,
		})
	}

	// Card path: hold the slot, create a PayPal order, confirm on capture.
	pendingBooking := models.Booking{
		LearnerID:          learnerID,
		MentorID:           slot.MentorID,
		AvailabilitySlotID: slot.ID,
		Price:              slot.Skill.SessionFee,
		Currency:           slot.Skill.Currency,
		Status:             "pending_payment",
	}
	if err := database.DB.Create(&pendingBooking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	order, err := payments.CreatePayPalOrder(pendingBooking.Price, pendingBooking.Currency)
	if err != nil {
		log.Printf("🔥 Failed to create PayPal order for booking %s: %v", pendingBooking.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start payment"})
	}

	payment := models.Payment{
		BookingID:       &pendingBooking.ID,
		ProviderOrderID: &order.ID,
		Amount:          pendingBooking.Price,
		Currency:        pendingBooking.Currency,
		Provider:        "paypal",
		Status:          "pending",
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"booking":  pendingBooking,
		"order_id": order.ID,
	})
}

func GetMyBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	learnerID := claims["user_id"].(string)

	var bookings []models.Booking
	err := database.DB.Preload("Mentor").Preload("AvailabilitySlot").Preload("AvailabilitySlot.Skill").
		Where("learner_id = ?", learnerID).
		Order("created_at desc").
		Find(&bookings).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bookings"})
	}

	return c.JSON(bookings)
}

func GetMyMentorBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID := claims["user_id"].(string)

	var bookings []models.Booking
	err := database.DB.Preload("Learner").Preload("AvailabilitySlot").Preload("AvailabilitySlot.Skill").
		Where("mentor_id = ?", mentorID).
		Order("created_at desc").
		Find(&bookings).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bookings"})
	}

	return c.JSON(bookings)
}

func MarkSessionAsComplete(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID, _ := uuid.Parse(claims["user_id"].(string))

	bookingID := c.Params("bookingId")

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ? AND mentor_id = ?", bookingID, mentorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.Status != "confirmed" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only confirmed sessions can be completed"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		booking.Status = "completed"
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		var profile models.MentorProfile
		if err := tx.First(&profile, "user_id = ?", mentorID).Error; err != nil {
			return err
		}
		profile.TotalSessions++
		profile.CurrentBalance += booking.Price
		return tx.Save(&profile).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete session"})
	}

	return c.JSON(booking)
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

func CreateReview(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	learnerID, _ := uuid.Parse(claims["user_id"].(string))

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ? AND learner_id = ?", bookingID, learnerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.Status != "completed" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You can only review completed sessions"})
	}

	review := models.Review{
		BookingID: booking.ID,
		LearnerID: learnerID,
		MentorID:  booking.MentorID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		var avg float64
		if err := tx.Model(&models.Review{}).
			Where("mentor_id = ?", booking.MentorID).
			Select("COALESCE(AVG(rating), 0)").
			Row().Scan(&avg); err != nil {
			return err
		}
		return tx.Model(&models.MentorProfile{}).
			Where("user_id = ?", booking.MentorID).
			Update("avg_rating", avg).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already reviewed this session"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit review"})
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}
