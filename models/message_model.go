package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SenderID      uuid.UUID `gorm:"not null;index" json:"sender_id"`
	ReceiverID    uuid.UUID `gorm:"not null;index" json:"receiver_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	AttachmentURL *string   `gorm:"size:255" json:"attachment_url,omitempty"`
	IsRead        bool      `gorm:"not null;default:false" json:"is_read"`

	Sender   User `gorm:"foreignkey:SenderID" json:"-"`
	Receiver User `gorm:"foreignkey:ReceiverID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
