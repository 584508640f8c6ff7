package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/notifications"
	"github.com/anjiri1684/tutor_market/payments"
	"github.com/anjiri1684/tutor_market/repository"
	"github.com/anjiri1684/tutor_market/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const referenceAttempts = 3

var errReferenceTaken = errors.New("order reference taken")

type CheckoutInput struct {
	StudentID     uuid.UUID
	ServiceID     uuid.UUID
	Title         string
	Description   string
	PaymentMethod string
}

type CheckoutResult struct {
	Order   *models.Order   `json:"order"`
	Payment *models.Payment `json:"payment"`
	Success bool            `json:"success"`
}

type OrderService struct {
	store     repository.Store
	processor payments.Processor
	notifier  notifier
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(store repository.Store, processor payments.Processor, mailer notifications.Mailer, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:     store,
		processor: processor,
		notifier:  newNotifier(store, mailer, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// Checkout places an order for a service and pays for it. The order, its
// payment and both status advances are written in one transaction, so a
// failure at any step leaves nothing behind.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	service, err := s.store.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("load service: %w", err)
	}
	if !service.IsActive {
		return nil, ErrServiceInactive
	}
	if service.TutorID == in.StudentID {
		return nil, fmt.Errorf("%w: cannot order your own service", ErrForbidden)
	}

	method := in.PaymentMethod
	if method == "" {
		method = payments.MethodCard
	}
	if !payments.IsSupportedMethod(method) {
		return nil, fmt.Errorf("%w: %s", payments.ErrUnsupportedMethod, method)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = service.Title
	}

	var order models.Order
	var payment models.Payment
	place := func(tx repository.Store) error {
		reference, err := utils.GenerateOrderReference(ctx, tx.OrderReferenceExists)
		if err != nil {
			return fmt.Errorf("generate reference: %w", err)
		}

		order = models.Order{
			Reference:    reference,
			StudentID:    in.StudentID,
			ServiceID:    service.ID,
			TutorID:      service.TutorID,
			Title:        title,
			Description:  strings.TrimSpace(in.Description),
			Price:        service.Price,
			Status:       models.OrderPending,
			DeliveryDate: s.now().Add(time.Duration(service.DeliveryDays) * 24 * time.Hour),
		}
		if err := tx.CreateOrder(ctx, &order); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return errReferenceTaken
			}
			return fmt.Errorf("create order: %w", err)
		}

		payment = models.Payment{
			OrderID:       order.ID,
			StudentID:     in.StudentID,
			Amount:        order.Price,
			PaymentMethod: method,
			Status:        models.PaymentPending,
		}
		if err := tx.CreatePayment(ctx, &payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		settlement, err := s.processor.Settle(ctx, payment)
		if err != nil {
			return fmt.Errorf("settle payment: %w", err)
		}
		if settlement.Status != models.PaymentCompleted {
			return ErrPaymentDeclined
		}
		ref := settlement.TransactionRef
		if err := tx.UpdatePaymentStatus(ctx, payment.ID, models.PaymentCompleted, &ref); err != nil {
			return fmt.Errorf("complete payment: %w", err)
		}
		payment.Status = models.PaymentCompleted
		payment.TransactionRef = &ref

		if err := tx.UpdateOrderStatus(ctx, order.ID, models.OrderPending, models.OrderInProgress); err != nil {
			return fmt.Errorf("advance order: %w", err)
		}
		order.Status = models.OrderInProgress
		return nil
	}
	// A concurrent checkout can commit the same reference between the
	// existence check and the insert; draw a new one and start over.
	for attempt := 1; ; attempt++ {
		err = s.store.Transaction(ctx, place)
		if !errors.Is(err, errReferenceTaken) || attempt == referenceAttempts {
			break
		}
		s.logger.Warn("order reference collided, retrying", zap.Int("attempt", attempt))
	}
	if err != nil {
		s.logger.Error("checkout failed",
			zap.String("service_id", service.ID.String()),
			zap.String("student_id", in.StudentID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("reference", order.Reference),
		zap.String("tutor_id", order.TutorID.String()),
		zap.String("amount", order.Price.StringFixed(2)))

	placed := order
	s.notifier.emailProfile(order.StudentID, func() notifications.Email {
		return notifications.OrderPlacedForStudent(placed.Title, placed.Reference, placed.DeliveryDate)
	})
	s.notifier.emailProfile(order.TutorID, func() notifications.Email {
		studentName := "A student"
		if student, err := s.store.GetProfile(context.Background(), placed.StudentID); err == nil {
			studentName = student.FullName
		}
		return notifications.OrderPlacedForTutor(placed.Title, placed.Reference, studentName, placed.DeliveryDate)
	})

	return &CheckoutResult{Order: &order, Payment: &payment, Success: true}, nil
}

func (s *OrderService) Get(ctx context.Context, viewerID uuid.UUID, role string, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && !order.IsParticipant(viewerID) {
		return nil, ErrForbidden
	}
	return order, nil
}

// Payment returns the payment of an order the viewer may see.
func (s *OrderService) Payment(ctx context.Context, viewerID uuid.UUID, role string, orderID uuid.UUID) (*models.Payment, error) {
	if _, err := s.Get(ctx, viewerID, role, orderID); err != nil {
		return nil, err
	}
	return s.store.GetPaymentByOrder(ctx, orderID)
}

func (s *OrderService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]models.Order, error) {
	return s.store.ListOrders(ctx, repository.OrderFilter{StudentID: &studentID})
}

func (s *OrderService) ListForTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Order, error) {
	return s.store.ListOrders(ctx, repository.OrderFilter{TutorID: &tutorID})
}

// UpdateStatus moves an order along its lifecycle. Only the tutor (or an
// admin) completes work that is in progress; either participant may cancel
// an order that has not been completed.
func (s *OrderService) UpdateStatus(ctx context.Context, actorID uuid.UUID, role string, orderID uuid.UUID, status string) (*models.Order, error) {
	order, err := s.Get(ctx, actorID, role, orderID)
	if err != nil {
		return nil, err
	}
	isAdmin := role == models.RoleAdmin

	switch status {
	case models.OrderCompleted:
		if !isAdmin && order.TutorID != actorID {
			return nil, ErrForbidden
		}
		if order.Status != models.OrderInProgress {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
		}
	case models.OrderCancelled:
		if order.Status != models.OrderPending && order.Status != models.OrderInProgress {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
		}
	default:
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.store.UpdateOrderStatus(ctx, order.ID, order.Status, status); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: order changed while updating", ErrInvalidTransition)
		}
		return nil, err
	}
	order.Status = status

	s.logger.Info("order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", status),
		zap.String("actor_id", actorID.String()))

	updated := *order
	for _, recipient := range []uuid.UUID{order.StudentID, order.TutorID} {
		if recipient == actorID {
			continue
		}
		s.notifier.emailProfile(recipient, func() notifications.Email {
			return notifications.OrderStatusChanged(updated.Title, updated.Reference, updated.Status)
		})
	}
	return order, nil
}
