package models

import (
	"time"

	"github.com/google/uuid"
)

type MentorProfile struct {
	UserID         uuid.UUID `gorm:"primary_key" json:"user_id"`
	Headline       *string   `gorm:"size:255" json:"headline"`
	Bio            *string   `gorm:"type:text" json:"bio"`
	Availability   *string   `gorm:"size:255" json:"availability"`
	Status         string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	AvgRating      float32   `gorm:"default:0" json:"avg_rating"`
	TotalSessions  int       `gorm:"default:0" json:"total_sessions"`
	CurrentBalance float64   `gorm:"type:numeric(10,2);default:0.00" json:"-"`
	Skills         []*Skill  `gorm:"many2many:mentor_skills;" json:"skills"`
	User           User      `gorm:"foreignkey:UserID" json:"user"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}
