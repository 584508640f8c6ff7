package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderPending    = "pending"
	OrderInProgress = "in_progress"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

type Order struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Reference    string          `gorm:"size:20;not null;unique" json:"reference"`
	StudentID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"student_id"`
	ServiceID    uuid.UUID       `gorm:"type:uuid;not null" json:"service_id"`
	TutorID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"tutor_id"`
	Title        string          `gorm:"size:255;not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Status       string          `gorm:"size:20;not null;default:'pending'" json:"status"`
	DeliveryDate time.Time       `gorm:"not null" json:"delivery_date"`

	Service *Service `gorm:"foreignkey:ServiceID" json:"service,omitempty"`
	Student *Profile `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Tutor   *Profile `gorm:"foreignkey:TutorID" json:"tutor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsParticipant reports whether userID is the order's student or tutor.
func (o Order) IsParticipant(userID uuid.UUID) bool {
	return o.StudentID == userID || o.TutorID == userID
}

// Counterpart returns the other participant of the conversation attached to the order.
func (o Order) Counterpart(userID uuid.UUID) uuid.UUID {
	if o.StudentID == userID {
		return o.TutorID
	}
	return o.StudentID
}
