package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var Categories = []string{"essay_writing", "research_papers", "homework", "tutoring", "exam_prep", "editing"}

// Service is a listing offered by a tutor. Rating and TotalReviews are
// derived from the tutor's reviews and rewritten on every new review.
type Service struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TutorID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"tutor_id"`
	Title        string          `gorm:"size:255;not null" json:"title"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	Category     string          `gorm:"size:50;not null;index" json:"category"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	DeliveryDays int             `gorm:"not null" json:"delivery_days"`
	Rating       float64         `gorm:"not null;default:0" json:"rating"`
	TotalReviews int             `gorm:"not null;default:0" json:"total_reviews"`
	ImageURL     *string         `gorm:"type:text" json:"image_url"`
	IsActive     bool            `gorm:"not null" json:"is_active"`

	Tutor *Profile `gorm:"foreignkey:TutorID" json:"tutor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
