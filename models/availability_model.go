package models

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilitySlot struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MentorID uuid.UUID  `gorm:"not null" json:"-"`
	SkillID  *uuid.UUID `gorm:"" json:"skill_id"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	Status    string    `gorm:"size:20;not null;default:'available'" json:"status"`

	Mentor User  `gorm:"foreignkey:MentorID" json:"mentor,omitempty"`
	Skill  Skill `gorm:"foreignkey:SkillID" json:"skill,omitempty"`
}
