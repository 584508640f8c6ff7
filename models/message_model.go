package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	ReceiverID  uuid.UUID `gorm:"type:uuid;not null" json:"receiver_id"`
	MessageText string    `gorm:"type:text;not null" json:"message_text"`
	IsRead      bool      `gorm:"not null" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
