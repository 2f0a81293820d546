package models

import (
	"time"

	"github.com/google/uuid"
)

// Mentorship links a mentor and a learner for one skill. Messaging between
// two users is only allowed while an active mentorship exists between them.
type Mentorship struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MentorID  uuid.UUID `gorm:"not null;index" json:"mentor_id"`
	LearnerID uuid.UUID `gorm:"not null;index" json:"learner_id"`
	Skill     string    `gorm:"size:100;not null" json:"skill"`
	Status    string    `gorm:"size:20;not null;default:'active'" json:"status"`

	Mentor  User `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`
	Learner User `gorm:"foreignkey:LearnerID" json:"learner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
