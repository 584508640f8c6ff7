package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

type Payment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;unique" json:"order_id"`
	StudentID      uuid.UUID       `gorm:"type:uuid;not null" json:"student_id"`
	Amount         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	PaymentMethod  string          `gorm:"size:50;not null" json:"payment_method"`
	Status         string          `gorm:"size:20;not null" json:"status"`
	TransactionRef *string         `gorm:"size:255;unique" json:"transaction_ref"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
