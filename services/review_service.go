package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/notifications"
	"github.com/anjiri1684/tutor_market/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService struct {
	store    repository.Store
	notifier notifier
	logger   *zap.Logger
}

func NewReviewService(store repository.Store, mailer notifications.Mailer, logger *zap.Logger) *ReviewService {
	return &ReviewService{store: store, notifier: newNotifier(store, mailer, logger), logger: logger}
}

func RoundToTenth(x float64) float64 {
	return math.Round(x*10) / 10
}

// Submit records the student's review of a completed order and rewrites the
// tutor's aggregate rating on all of the tutor's services.
func (s *ReviewService) Submit(ctx context.Context, studentID, orderID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	var review models.Review
	var average float64
	var total int
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.StudentID != studentID {
			return ErrForbidden
		}
		if order.Status != models.OrderCompleted {
			return ErrOrderNotCompleted
		}
		if err := tx.LockTutorServices(ctx, order.TutorID); err != nil {
			return fmt.Errorf("lock tutor services: %w", err)
		}
		reviewed, err := tx.ReviewExistsForOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if reviewed {
			return ErrAlreadyReviewed
		}

		review = models.Review{
			OrderID:   order.ID,
			StudentID: studentID,
			TutorID:   order.TutorID,
			Rating:    rating,
		}
		if text := strings.TrimSpace(comment); text != "" {
			review.Comment = &text
		}
		if err := tx.CreateReview(ctx, &review); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyReviewed
			}
			return fmt.Errorf("create review: %w", err)
		}

		ratings, err := tx.ListTutorRatings(ctx, order.TutorID)
		if err != nil {
			return fmt.Errorf("load tutor ratings: %w", err)
		}
		total = len(ratings)
		if total == 0 {
			return nil
		}
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		average = RoundToTenth(float64(sum) / float64(total))
		return tx.UpdateTutorRating(ctx, order.TutorID, average, total)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("review submitted",
		zap.String("order_id", orderID.String()),
		zap.String("tutor_id", review.TutorID.String()),
		zap.Float64("rating", average),
		zap.Int("total_reviews", total))

	submitted := review
	s.notifier.emailProfile(review.TutorID, func() notifications.Email {
		comment := ""
		if submitted.Comment != nil {
			comment = *submitted.Comment
		}
		return notifications.NewReview(submitted.Rating, comment)
	})
	return &review, nil
}

func (s *ReviewService) ListForService(ctx context.Context, serviceID uuid.UUID) ([]models.Review, error) {
	if _, err := s.store.GetService(ctx, serviceID); err != nil {
		return nil, err
	}
	return s.store.ListServiceReviews(ctx, serviceID)
}
