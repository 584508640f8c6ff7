package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const RelatedLimit = 3

type ServiceInput struct {
	Title        string
	Description  string
	Category     string
	Price        decimal.Decimal
	DeliveryDays int
	ImageURL     *string
}

type BrowseFilter struct {
	Category string
	Query    string
	SortBy   string
}

type ListingService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewListingService(store repository.Store, logger *zap.Logger) *ListingService {
	return &ListingService{store: store, logger: logger}
}

func (s *ListingService) Create(ctx context.Context, tutorID uuid.UUID, in ServiceInput) (*models.Service, error) {
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	case !models.IsCategory(in.Category):
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	case !in.Price.IsPositive():
		return nil, fmt.Errorf("%w: price must be greater than zero", ErrInvalidInput)
	case in.DeliveryDays < 1:
		return nil, fmt.Errorf("%w: delivery days must be at least 1", ErrInvalidInput)
	}

	service := models.Service{
		TutorID:      tutorID,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Category:     in.Category,
		Price:        in.Price.Round(2),
		DeliveryDays: in.DeliveryDays,
		ImageURL:     in.ImageURL,
		IsActive:     true,
	}
	if err := s.store.CreateService(ctx, &service); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.logger.Info("service created", zap.String("service_id", service.ID.String()), zap.String("tutor_id", tutorID.String()))
	return &service, nil
}

// Browse lists the services students can order.
func (s *ListingService) Browse(ctx context.Context, filter BrowseFilter) ([]models.Service, error) {
	sortBy := filter.SortBy
	if sortBy != repository.SortNewest {
		sortBy = repository.SortRating
	}
	return s.store.ListServices(ctx, repository.ServiceFilter{
		Category:   filter.Category,
		Query:      strings.TrimSpace(filter.Query),
		ActiveOnly: true,
		SortBy:     sortBy,
	})
}

func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return s.store.GetService(ctx, id)
}

func (s *ListingService) Related(ctx context.Context, service *models.Service, limit int) ([]models.Service, error) {
	return s.store.ListServices(ctx, repository.ServiceFilter{
		Category:   service.Category,
		ExcludeID:  &service.ID,
		ActiveOnly: true,
		SortBy:     repository.SortRating,
		Limit:      limit,
	})
}

func (s *ListingService) ListForTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Service, error) {
	return s.store.ListServices(ctx, repository.ServiceFilter{TutorID: &tutorID, SortBy: repository.SortNewest})
}

// ToggleActive flips the listing's visibility and returns the stored row so
// callers mirror what was actually written.
func (s *ListingService) ToggleActive(ctx context.Context, actorID uuid.UUID, role string, serviceID uuid.UUID) (*models.Service, error) {
	service, err := s.store.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && service.TutorID != actorID {
		return nil, ErrForbidden
	}

	if err := s.store.SetServiceActive(ctx, serviceID, !service.IsActive); err != nil {
		return nil, fmt.Errorf("toggle service: %w", err)
	}

	stored, err := s.store.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("service visibility changed",
		zap.String("service_id", serviceID.String()),
		zap.Bool("is_active", stored.IsActive),
		zap.String("actor_id", actorID.String()))
	return stored, nil
}
