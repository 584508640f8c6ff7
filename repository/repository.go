package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrConflict means the row no longer holds the state a conditional
	// write expected.
	ErrConflict = errors.New("record changed concurrently")
)

const (
	SortNewest = "newest"
	SortRating = "rating"
)

type ServiceFilter struct {
	TutorID    *uuid.UUID
	ExcludeID  *uuid.UUID
	Category   string
	Query      string
	ActiveOnly bool
	SortBy     string
	Limit      int
}

type OrderFilter struct {
	StudentID *uuid.UUID
	TutorID   *uuid.UUID
	Status    string
	DueAfter  *time.Time
	DueBefore *time.Time
}

// Store is the persistence boundary for every entity of the marketplace.
// Implementations must run fn of Transaction atomically: when fn returns an
// error nothing it wrote is visible afterwards.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetProfileByResetToken(ctx context.Context, token string) (*models.Profile, error)
	SaveProfile(ctx context.Context, profile *models.Profile) error
	ListProfiles(ctx context.Context) ([]models.Profile, error)

	CreateService(ctx context.Context, service *models.Service) error
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	ListServices(ctx context.Context, filter ServiceFilter) ([]models.Service, error)
	SetServiceActive(ctx context.Context, id uuid.UUID, active bool) error
	UpdateTutorRating(ctx context.Context, tutorID uuid.UUID, rating float64, totalReviews int) error
	// LockTutorServices holds the tutor's service rows until the surrounding
	// transaction ends, serializing rating recomputes for one tutor.
	LockTutorServices(ctx context.Context, tutorID uuid.UUID) error

	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateOrderStatus moves the order from one status to another and fails
	// with ErrConflict when the order is no longer in from.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string) error
	OrderReferenceExists(ctx context.Context, reference string) (bool, error)
	ListPendingOrdersWithCompletedPayment(ctx context.Context) ([]models.Order, error)

	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string, transactionRef *string) error

	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, orderID uuid.UUID, after *time.Time) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, orderID, receiverID uuid.UUID) (int64, error)

	CreateReview(ctx context.Context, review *models.Review) error
	ReviewExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	ListTutorRatings(ctx context.Context, tutorID uuid.UUID) ([]int, error)
	ListServiceReviews(ctx context.Context, serviceID uuid.UUID) ([]models.Review, error)
}
