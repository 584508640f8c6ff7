package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/payments"
	"github.com/anjiri1684/tutor_market/realtime"
	"github.com/anjiri1684/tutor_market/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentEmail struct {
	ToEmail string
	Subject string
	HTML    string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (m *recordingMailer) SendEmail(toName, toEmail, subject, htmlContent string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{ToEmail: toEmail, Subject: subject, HTML: htmlContent})
}

func (m *recordingMailer) To(email string) []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentEmail
	for _, e := range m.sent {
		if e.ToEmail == email {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	ctx    context.Context
	store  *repository.MemoryStore
	mailer *recordingMailer
	hub    *realtime.Hub
	now    time.Time

	orders    *OrderService
	reviews   *ReviewService
	listings  *ListingService
	messaging *MessagingService
	auth      *AuthService
	profiles  *ProfileService
	admin     *AdminService
}

func synchronous(f func()) { f() }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	f := &fixture{
		ctx:    context.Background(),
		store:  repository.NewMemoryStore(),
		mailer: &recordingMailer{},
		hub:    realtime.NewHub(logger, realtime.DefaultBuffer),
		now:    time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
	}

	f.orders = NewOrderService(f.store, payments.InstantProcessor{}, f.mailer, logger)
	f.orders.now = func() time.Time { return f.now }
	f.orders.notifier.async = synchronous

	f.reviews = NewReviewService(f.store, f.mailer, logger)
	f.reviews.notifier.async = synchronous

	f.listings = NewListingService(f.store, logger)
	f.messaging = NewMessagingService(f.store, f.hub, logger)

	f.auth = NewAuthService(f.store, f.mailer, logger, "test-secret", "https://app.example.com/")
	f.auth.notifier.async = synchronous
	f.auth.now = func() time.Time { return f.now }

	f.profiles = NewProfileService(f.store)
	f.admin = NewAdminService(f.store)
	return f
}

func (f *fixture) profile(t *testing.T, role string) models.Profile {
	t.Helper()
	id := uuid.New()
	p := models.Profile{
		ID:       id,
		FullName: role + " " + id.String()[:4],
		Email:    id.String()[:8] + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, f.store.CreateProfile(f.ctx, &p))
	return p
}

func (f *fixture) service(t *testing.T, tutorID uuid.UUID, category, price string, days int) models.Service {
	t.Helper()
	svc, err := f.listings.Create(f.ctx, tutorID, ServiceInput{
		Title:        "Service " + uuid.NewString()[:6],
		Description:  "A tutoring service",
		Category:     category,
		Price:        decimal.RequireFromString(price),
		DeliveryDays: days,
	})
	require.NoError(t, err)
	return *svc
}

func (f *fixture) placeOrder(t *testing.T, studentID uuid.UUID, svc models.Service) models.Order {
	t.Helper()
	res, err := f.orders.Checkout(f.ctx, CheckoutInput{StudentID: studentID, ServiceID: svc.ID, PaymentMethod: payments.MethodCard})
	require.NoError(t, err)
	return *res.Order
}

func (f *fixture) completedOrder(t *testing.T, studentID uuid.UUID, svc models.Service) models.Order {
	t.Helper()
	order := f.placeOrder(t, studentID, svc)
	updated, err := f.orders.UpdateStatus(f.ctx, svc.TutorID, models.RoleTutor, order.ID, models.OrderCompleted)
	require.NoError(t, err)
	return *updated
}
