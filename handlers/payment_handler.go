package handlers

import (
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
)

type CapturePayPalOrderRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

// CapturePayPalOrder captures a previously created PayPal order and confirms
// the booking it paid for.
func CapturePayPalOrder(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	learnerID, _ := uuid.Parse(claims["user_id"].(string))

	var req CapturePayPalOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var payment models.Payment
	if err := database.DB.Preload("Booking").Where("provider_order_id = ?", req.OrderID).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}
	if payment.Booking.LearnerID != learnerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This payment does not belong to you"})
	}
	if payment.Status == "succeeded" {
		return c.JSON(fiber.Map{"message": "Payment already captured"})
	}

	order, err := payments.CapturePayPalOrder(req.OrderID)
	if err != nil {
		log.Printf("🔥 Failed to capture PayPal order %s: %v", req.OrderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to capture payment"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		payment.Status = "succeeded"
		payment.ProviderTxnID = &order.ID
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		var booking models.Booking
		if err := tx.First(&booking, "id = ?", payment.BookingID).Error; err != nil {
			return err
		}
		meetingLink, err := utils.GenerateUniqueMeetingLink(tx)
		if err != nil {
			return err
		}
		booking.Status = "confirmed"
		booking.MeetingLink = &meetingLink
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		return tx.Model(&models.AvailabilitySlot{}).
			Where("id = ?", booking.AvailabilitySlotID).
			Update("status", "booked").Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to confirm booking"})
	}

	go func() {
		var booking models.Booking
		if err := database.DB.Preload("Learner").Preload("Mentor").First(&booking, "id = ?", payment.BookingID).Error; err == nil {
			notifications.SendEmail(booking.Learner.FullName, booking.Learner.Email, "Your Session is Confirmed!", "<h1>Session Confirmed</h1><p>Your payment was received and your session is booked.</p>")
			notifications.SendEmail(booking.Mentor.FullName, booking.Mentor.Email, "You Have a New Booking!", "<h1>New Booking</h1><p>A learner has booked and paid for a session with you.</p>")
		}
	}()

	return c.JSON(fiber.Map{"message": "Payment captured and session confirmed", "status": order.Status})
}

// HandlePaymentWebhook marks a payment failed when the provider reports the
// order was cancelled or denied, releasing the held slot.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	type webhookEvent struct {
		EventType string `json:"event_type"`
		Resource  struct {
			ID string `json:"id"`
		} `json:"resource"`
	}

	var event webhookEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	if event.EventType != "CHECKOUT.ORDER.DECLINED" && event.EventType != "CHECKOUT.ORDER.VOIDED" {
		return c.SendStatus(fiber.StatusOK)
	}

	var payment models.Payment
	if err := database.DB.Where("provider_order_id = ?", event.Resource.ID).First(&payment).Error; err != nil {
		return c.SendStatus(fiber.StatusOK)
	}

	payment.Status = "failed"
	database.DB.Save(&payment)
	database.DB.Model(&models.Booking{}).
		Where("id = ?", payment.BookingID).
		Update("status", "payment_failed")

	log.Printf("Payment %s marked failed via webhook event %s", payment.ID, event.EventType)
	return c.SendStatus(fiber.StatusOK)
}
