package utils

import (
	"fmt"
	"math/rand"
	"time"

	"skillbridge/models"

	"gorm.io/gorm"
)

const meetingCodeLength = 10
const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomMeetingCode(seededRand *rand.Rand) string {
	b := make([]byte, meetingCodeLength)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}
	return string(b)
}

// GenerateUniqueMeetingLink produces a meeting room link no other booking
// uses yet.
func GenerateUniqueMeetingLink(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		link := fmt.Sprintf("https://meet.skillbridge.app/%s", randomMeetingCode(seededRand))

		var booking models.Booking
		err := tx.Where("meeting_link = ?", link).First(&booking).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return link, nil
			}
			return "", err
		}
	}
}
