package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return translate(s.db.WithContext(ctx).Create(profile).Error)
}

func (s *GormStore) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *GormStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *GormStore) GetProfileByResetToken(ctx context.Context, token string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("reset_password_token = ?", token).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *GormStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	return translate(s.db.WithContext(ctx).Save(profile).Error)
}

func (s *GormStore) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&profiles).Error
	return profiles, translate(err)
}

func (s *GormStore) CreateService(ctx context.Context, service *models.Service) error {
	return translate(s.db.WithContext(ctx).Create(service).Error)
}

func (s *GormStore) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := s.db.WithContext(ctx).Preload("Tutor").First(&service, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &service, nil
}

func (s *GormStore) ListServices(ctx context.Context, filter ServiceFilter) ([]models.Service, error) {
	q := s.db.WithContext(ctx).Model(&models.Service{}).Preload("Tutor")
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.TutorID != nil {
		q = q.Where("tutor_id = ?", *filter.TutorID)
	}
	if filter.ExcludeID != nil {
		q = q.Where("id <> ?", *filter.ExcludeID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	if filter.SortBy == SortRating {
		q = q.Order("rating desc")
	}
	q = q.Order("created_at desc")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var services []models.Service
	err := q.Find(&services).Error
	return services, translate(err)
}

func (s *GormStore) SetServiceActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.Service{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) UpdateTutorRating(ctx context.Context, tutorID uuid.UUID, rating float64, totalReviews int) error {
	return translate(s.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("tutor_id = ?", tutorID).
		Updates(map[string]interface{}{"rating": rating, "total_reviews": totalReviews}).Error)
}

func (s *GormStore) LockTutorServices(ctx context.Context, tutorID uuid.UUID) error {
	var ids []uuid.UUID
	return translate(s.db.WithContext(ctx).
		Model(&models.Service{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tutor_id = ?", tutorID).
		Pluck("id", &ids).Error)
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(s.db.WithContext(ctx).Omit("Service", "Student", "Tutor").Create(order).Error)
}

func (s *GormStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Service").
		Preload("Student").
		Preload("Tutor").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *GormStore) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Preload("Service").Preload("Student").Preload("Tutor")
	if filter.StudentID != nil {
		q = q.Where("student_id = ?", *filter.StudentID)
	}
	if filter.TutorID != nil {
		q = q.Where("tutor_id = ?", *filter.TutorID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DueAfter != nil {
		q = q.Where("delivery_date > ?", *filter.DueAfter)
	}
	if filter.DueBefore != nil {
		q = q.Where("delivery_date <= ?", *filter.DueBefore)
	}

	var orders []models.Order
	err := q.Order("created_at desc").Find(&orders).Error
	return orders, translate(err)
}

func (s *GormStore) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func (s *GormStore) OrderReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).Where("reference = ?", reference).Count(&count).Error
	return count > 0, translate(err)
}

func (s *GormStore) ListPendingOrdersWithCompletedPayment(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Joins("JOIN payments ON payments.order_id = orders.id").
		Where("orders.status = ? AND payments.status = ?", models.OrderPending, models.PaymentCompleted).
		Find(&orders).Error
	return orders, translate(err)
}

func (s *GormStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return translate(s.db.WithContext(ctx).Create(payment).Error)
}

func (s *GormStore) GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (s *GormStore) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string, transactionRef *string) error {
	updates := map[string]interface{}{"status": status}
	if transactionRef != nil {
		updates["transaction_ref"] = *transactionRef
	}
	res := s.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateMessage(ctx context.Context, message *models.Message) error {
	return translate(s.db.WithContext(ctx).Create(message).Error)
}

func (s *GormStore) ListMessages(ctx context.Context, orderID uuid.UUID, after *time.Time) ([]models.Message, error) {
	q := s.db.WithContext(ctx).Where("order_id = ?", orderID)
	if after != nil {
		q = q.Where("created_at > ?", *after)
	}
	var messages []models.Message
	err := q.Order("created_at asc").Find(&messages).Error
	return messages, translate(err)
}

func (s *GormStore) MarkMessagesRead(ctx context.Context, orderID, receiverID uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("order_id = ? AND receiver_id = ? AND is_read = ?", orderID, receiverID, false).
		Update("is_read", true)
	return res.RowsAffected, translate(res.Error)
}

func (s *GormStore) CreateReview(ctx context.Context, review *models.Review) error {
	return translate(s.db.WithContext(ctx).Omit("Student").Create(review).Error)
}

func (s *GormStore) ReviewExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Review{}).Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, translate(err)
}

func (s *GormStore) ListTutorRatings(ctx context.Context, tutorID uuid.UUID) ([]int, error) {
	var ratings []int
	err := s.db.WithContext(ctx).Model(&models.Review{}).Where("tutor_id = ?", tutorID).Pluck("rating", &ratings).Error
	return ratings, translate(err)
}

func (s *GormStore) ListServiceReviews(ctx context.Context, serviceID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Preload("Student").
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.service_id = ?", serviceID).
		Order("reviews.created_at desc").
		Find(&reviews).Error
	return reviews, translate(err)
}
