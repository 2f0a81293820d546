package jobs

import (
	"log"
	"time"

	"skillbridge/database"
	"skillbridge/models"
)

func CheckForUnattendedSessions() {
	log.Println("Running job: CheckForUnattendedSessions...")

	now := time.Now()
	upperBound := now.Add(-5 * time.Minute)
	lowerBound := now.Add(-15 * time.Minute)

	var unattendedBookings []models.Booking

	err := database.DB.
		Joins("JOIN availability_slots on bookings.availability_slot_id = availability_slots.id").
		Where("bookings.status = ? AND availability_slots.end_time BETWEEN ? AND ?", "confirmed", lowerBound, upperBound).
		Find(&unattendedBookings).Error

	if err != nil {
		log.Printf("Error checking for unattended sessions: %v", err)
		return
	}

	if len(unattendedBookings) == 0 {
		log.Println("No unattended sessions found.")
		return
	}

	for _, booking := range unattendedBookings {
		booking.Status = "unattended"
		database.DB.Save(&booking)
	}

	log.Printf("Marked %d booking(s) as unattended.", len(unattendedBookings))
}
