package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MonthlyEarning struct {
	Month    string          `json:"month"`
	Earnings decimal.Decimal `json:"earnings"`
}

// TutorStats backs the tutor dashboard. Earnings count completed orders only.
type TutorStats struct {
	TotalOrders     int              `json:"total_orders"`
	ActiveOrders    int              `json:"active_orders"`
	CompletedOrders int              `json:"completed_orders"`
	TotalEarnings   decimal.Decimal  `json:"total_earnings"`
	ActiveServices  int              `json:"active_services"`
	MonthlyEarnings []MonthlyEarning `json:"monthly_earnings"`
}

// StudentStats backs the student dashboard. Active orders are the pending
// and in-progress ones.
type StudentStats struct {
	TotalOrders     int             `json:"total_orders"`
	ActiveOrders    int             `json:"active_orders"`
	CompletedOrders int             `json:"completed_orders"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
}

func isActiveOrder(status string) bool {
	return status == models.OrderPending || status == models.OrderInProgress
}

func (s *OrderService) TutorStats(ctx context.Context, tutorID uuid.UUID) (*TutorStats, error) {
	orders, err := s.store.ListOrders(ctx, repository.OrderFilter{TutorID: &tutorID})
	if err != nil {
		return nil, fmt.Errorf("list tutor orders: %w", err)
	}
	listings, err := s.store.ListServices(ctx, repository.ServiceFilter{TutorID: &tutorID})
	if err != nil {
		return nil, fmt.Errorf("list tutor services: %w", err)
	}

	stats := &TutorStats{TotalOrders: len(orders), TotalEarnings: decimal.Zero, MonthlyEarnings: []MonthlyEarning{}}
	byMonth := map[string]decimal.Decimal{}
	for _, o := range orders {
		switch {
		case o.Status == models.OrderCompleted:
			stats.CompletedOrders++
			stats.TotalEarnings = stats.TotalEarnings.Add(o.Price)
			month := o.CreatedAt.Format("2006-01")
			byMonth[month] = byMonth[month].Add(o.Price)
		case isActiveOrder(o.Status):
			stats.ActiveOrders++
		}
	}
	for month, earnings := range byMonth {
		stats.MonthlyEarnings = append(stats.MonthlyEarnings, MonthlyEarning{Month: month, Earnings: earnings})
	}
	sort.Slice(stats.MonthlyEarnings, func(i, j int) bool {
		return stats.MonthlyEarnings[i].Month < stats.MonthlyEarnings[j].Month
	})

	for _, l := range listings {
		if l.IsActive {
			stats.ActiveServices++
		}
	}
	return stats, nil
}

func (s *OrderService) StudentStats(ctx context.Context, studentID uuid.UUID) (*StudentStats, error) {
	orders, err := s.store.ListOrders(ctx, repository.OrderFilter{StudentID: &studentID})
	if err != nil {
		return nil, fmt.Errorf("list student orders: %w", err)
	}

	stats := &StudentStats{TotalOrders: len(orders), TotalSpent: decimal.Zero}
	for _, o := range orders {
		switch {
		case o.Status == models.OrderCompleted:
			stats.CompletedOrders++
		case isActiveOrder(o.Status):
			stats.ActiveOrders++
		}
		if o.Status != models.OrderCancelled {
			stats.TotalSpent = stats.TotalSpent.Add(o.Price)
		}
	}
	return stats, nil
}
