package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;unique" json:"order_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null" json:"student_id"`
	TutorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tutor_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   *string   `gorm:"type:text" json:"comment"`

	Student *Profile `gorm:"foreignkey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
