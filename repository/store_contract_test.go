package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreContract runs the behaviour every Store implementation must share.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("profiles", func(t *testing.T) { testProfiles(t, newStore(t)) })
	t.Run("services", func(t *testing.T) { testServices(t, newStore(t)) })
	t.Run("orders and payments", func(t *testing.T) { testOrdersAndPayments(t, newStore(t)) })
	t.Run("transaction rollback", func(t *testing.T) { testTransactionRollback(t, newStore(t)) })
	t.Run("messages", func(t *testing.T) { testMessages(t, newStore(t)) })
	t.Run("reviews", func(t *testing.T) { testReviews(t, newStore(t)) })
}

func mustProfile(t *testing.T, s Store, role string) models.Profile {
	t.Helper()
	p := models.Profile{FullName: "User " + role, Email: uuid.NewString()[:8] + "@example.com", Password: "x", Role: role}
	require.NoError(t, s.CreateProfile(context.Background(), &p))
	require.NotEqual(t, uuid.Nil, p.ID)
	return p
}

func mustService(t *testing.T, s Store, tutorID uuid.UUID, category string, active bool) models.Service {
	t.Helper()
	svc := models.Service{
		TutorID:      tutorID,
		Title:        "Service " + category,
		Description:  "desc",
		Category:     category,
		Price:        decimal.NewFromInt(50),
		DeliveryDays: 2,
		IsActive:     active,
	}
	require.NoError(t, s.CreateService(context.Background(), &svc))
	return svc
}

func mustOrder(t *testing.T, s Store, student models.Profile, svc models.Service) models.Order {
	t.Helper()
	o := models.Order{
		Reference:    "ORD-" + uuid.NewString()[:8],
		StudentID:    student.ID,
		ServiceID:    svc.ID,
		TutorID:      svc.TutorID,
		Title:        "Order",
		Price:        svc.Price,
		Status:       models.OrderPending,
		DeliveryDate: time.Now().Add(48 * time.Hour),
	}
	require.NoError(t, s.CreateOrder(context.Background(), &o))
	return o
}

func testProfiles(t *testing.T, s Store) {
	ctx := context.Background()
	p := mustProfile(t, s, models.RoleStudent)

	dup := models.Profile{FullName: "Dup", Email: p.Email, Password: "x", Role: models.RoleStudent}
	assert.True(t, errors.Is(s.CreateProfile(ctx, &dup), ErrDuplicate))

	got, err := s.GetProfileByEmail(ctx, p.Email)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	token := "reset-" + uuid.NewString()
	got.ResetPasswordToken = &token
	require.NoError(t, s.SaveProfile(ctx, got))
	byToken, err := s.GetProfileByResetToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, byToken.ID)

	_, err = s.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetProfileByResetToken(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testServices(t *testing.T, s Store) {
	ctx := context.Background()
	tutor := mustProfile(t, s, models.RoleTutor)
	other := mustProfile(t, s, models.RoleTutor)

	active := mustService(t, s, tutor.ID, "homework", true)
	inactive := mustService(t, s, tutor.ID, "homework", false)
	rated := mustService(t, s, other.ID, "editing", true)
	require.NoError(t, s.Transaction(ctx, func(tx Store) error {
		if err := tx.LockTutorServices(ctx, other.ID); err != nil {
			return err
		}
		return tx.UpdateTutorRating(ctx, other.ID, 4.5, 2)
	}))

	got, err := s.GetService(ctx, inactive.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive, "a listing created inactive stays inactive")
	require.NotNil(t, got.Tutor)
	assert.Equal(t, tutor.ID, got.Tutor.ID)

	browse, err := s.ListServices(ctx, ServiceFilter{ActiveOnly: true, SortBy: SortRating})
	require.NoError(t, err)
	require.Len(t, browse, 2)
	assert.Equal(t, rated.ID, browse[0].ID)
	assert.Equal(t, active.ID, browse[1].ID)

	filtered, err := s.ListServices(ctx, ServiceFilter{TutorID: &tutor.ID, ExcludeID: &active.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, inactive.ID, filtered[0].ID)

	limited, err := s.ListServices(ctx, ServiceFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, s.SetServiceActive(ctx, inactive.ID, true))
	got, err = s.GetService(ctx, inactive.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.ErrorIs(t, s.SetServiceActive(ctx, uuid.New(), true), ErrNotFound)

	got, err = s.GetService(ctx, rated.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, got.Rating, 1e-9)
	assert.Equal(t, 2, got.TotalReviews)
}

func testOrdersAndPayments(t *testing.T, s Store) {
	ctx := context.Background()
	tutor := mustProfile(t, s, models.RoleTutor)
	student := mustProfile(t, s, models.RoleStudent)
	svc := mustService(t, s, tutor.ID, "tutoring", true)
	order := mustOrder(t, s, student, svc)

	exists, err := s.OrderReferenceExists(ctx, order.Reference)
	require.NoError(t, err)
	assert.True(t, exists)

	dup := order
	dup.ID = uuid.Nil
	assert.ErrorIs(t, s.CreateOrder(ctx, &dup), ErrDuplicate)

	payment := models.Payment{OrderID: order.ID, StudentID: student.ID, Amount: order.Price, PaymentMethod: "card", Status: models.PaymentPending}
	require.NoError(t, s.CreatePayment(ctx, &payment))
	ref := "TXN-" + uuid.NewString()[:8]
	require.NoError(t, s.UpdatePaymentStatus(ctx, payment.ID, models.PaymentCompleted, &ref))

	pending, err := s.ListPendingOrdersWithCompletedPayment(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, order.ID, pending[0].ID)

	require.NoError(t, s.UpdateOrderStatus(ctx, order.ID, models.OrderPending, models.OrderInProgress))
	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, order.ID, models.OrderPending, models.OrderCancelled), ErrConflict)
	got, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderInProgress, got.Status)
	require.NotNil(t, got.Service)
	require.NotNil(t, got.Student)
	require.NotNil(t, got.Tutor)
	assert.Equal(t, svc.Title, got.Service.Title)

	stored, err := s.GetPaymentByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, stored.Status)
	require.NotNil(t, stored.TransactionRef)
	assert.Equal(t, ref, *stored.TransactionRef)

	byStudent, err := s.ListOrders(ctx, OrderFilter{StudentID: &student.ID, Status: models.OrderInProgress})
	require.NoError(t, err)
	assert.Len(t, byStudent, 1)

	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, uuid.New(), models.OrderInProgress, models.OrderCompleted), ErrNotFound)
	assert.ErrorIs(t, s.UpdatePaymentStatus(ctx, uuid.New(), models.PaymentCompleted, nil), ErrNotFound)
}

func testTransactionRollback(t *testing.T, s Store) {
	ctx := context.Background()
	tutor := mustProfile(t, s, models.RoleTutor)
	student := mustProfile(t, s, models.RoleStudent)
	svc := mustService(t, s, tutor.ID, "tutoring", true)

	boom := errors.New("boom")
	var created models.Order
	err := s.Transaction(ctx, func(tx Store) error {
		created = mustOrder(t, tx, student, svc)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetOrder(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Transaction(ctx, func(tx Store) error {
		created = mustOrder(t, tx, student, svc)
		return nil
	})
	require.NoError(t, err)
	_, err = s.GetOrder(ctx, created.ID)
	assert.NoError(t, err)
}

func testMessages(t *testing.T, s Store) {
	ctx := context.Background()
	tutor := mustProfile(t, s, models.RoleTutor)
	student := mustProfile(t, s, models.RoleStudent)
	order := mustOrder(t, s, student, mustService(t, s, tutor.ID, "tutoring", true))

	var sent []models.Message
	for i, text := range []string{"a", "b", "c"} {
		sender, receiver := student.ID, tutor.ID
		if i == 1 {
			sender, receiver = tutor.ID, student.ID
		}
		m := models.Message{OrderID: order.ID, SenderID: sender, ReceiverID: receiver, MessageText: text}
		require.NoError(t, s.CreateMessage(ctx, &m))
		sent = append(sent, m)
		time.Sleep(2 * time.Millisecond)
	}

	all, err := s.ListMessages(ctx, order.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].MessageText)
	assert.Equal(t, "c", all[2].MessageText)

	after, err := s.ListMessages(ctx, order.ID, &all[0].CreatedAt)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, sent[1].ID, after[0].ID)

	n, err := s.MarkMessagesRead(ctx, order.ID, tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = s.MarkMessagesRead(ctx, order.ID, tutor.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testReviews(t *testing.T, s Store) {
	ctx := context.Background()
	tutor := mustProfile(t, s, models.RoleTutor)
	student := mustProfile(t, s, models.RoleStudent)
	svc := mustService(t, s, tutor.ID, "editing", true)
	first := mustOrder(t, s, student, svc)
	second := mustOrder(t, s, student, svc)

	for i, order := range []models.Order{first, second} {
		r := models.Review{OrderID: order.ID, StudentID: student.ID, TutorID: tutor.ID, Rating: 3 + i}
		require.NoError(t, s.CreateReview(ctx, &r))
	}
	dup := models.Review{OrderID: first.ID, StudentID: student.ID, TutorID: tutor.ID, Rating: 1}
	assert.ErrorIs(t, s.CreateReview(ctx, &dup), ErrDuplicate)

	exists, err := s.ReviewExistsForOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	ratings, err := s.ListTutorRatings(ctx, tutor.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{3, 4}, ratings)

	reviews, err := s.ListServiceReviews(ctx, svc.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.NotNil(t, reviews[0].Student)
	assert.Equal(t, student.FullName, reviews[0].Student.FullName)
}
