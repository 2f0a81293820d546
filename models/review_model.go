package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID uuid.UUID `gorm:"not null;unique" json:"booking_id"`
	LearnerID uuid.UUID `gorm:"not null" json:"learner_id"`
	MentorID  uuid.UUID `gorm:"not null" json:"mentor_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`

	Booking Booking `gorm:"foreignkey:BookingID" json:"-"`
	Learner User    `gorm:"foreignkey:LearnerID" json:"learner,omitempty"`
	Mentor  User    `gorm:"foreignkey:MentorID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
