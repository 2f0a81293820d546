package models

import "github.com/google/uuid"

type Skill struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name       string    `gorm:"size:100;not null;unique" json:"name"`
	Category   string    `gorm:"size:100" json:"category"`
	SessionFee float64   `gorm:"type:numeric(10,2);not null;default:0.00" json:"session_fee"`
	Currency   string    `gorm:"size:3;not null;default:'USD'" json:"currency"`
}
