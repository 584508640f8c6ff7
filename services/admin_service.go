package services

import (
	"context"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/repository"
)

// AdminService backs the read-only admin tables.
type AdminService struct {
	store repository.Store
}

func NewAdminService(store repository.Store) *AdminService {
	return &AdminService{store: store}
}

func (s *AdminService) Users(ctx context.Context) ([]models.Profile, error) {
	return s.store.ListProfiles(ctx)
}

func (s *AdminService) Services(ctx context.Context) ([]models.Service, error) {
	return s.store.ListServices(ctx, repository.ServiceFilter{SortBy: repository.SortNewest})
}

func (s *AdminService) Orders(ctx context.Context) ([]models.Order, error) {
	return s.store.ListOrders(ctx, repository.OrderFilter{})
}
