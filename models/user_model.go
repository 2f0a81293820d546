package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'learner'" json:"role"`

	CreditBalance float64 `gorm:"type:numeric(10,2);default:0.00" json:"credit_balance"`

	AvatarURL     *string `gorm:"size:255" json:"avatar_url"`
	TimeZone      *string `gorm:"size:100" json:"time_zone"`
	Bio           *string `gorm:"type:text" json:"bio"`
	LearningGoals *string `gorm:"type:text" json:"learning_goals"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
	IsActive                    bool       `gorm:"default:true" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
