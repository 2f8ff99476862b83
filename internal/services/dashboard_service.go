package services

import (
	"context"
	"time"

	resp "orgaclients/internal/models/response_models"
	"orgaclients/internal/repositories"
)

type DashboardService interface {
	Overview(ctx context.Context) (*resp.RevenueSummary, error)
	Stats(ctx context.Context) (*resp.StatsReport, error)
	Notifications(ctx context.Context) ([]resp.Notification, error)
	Clients(ctx context.Context) ([]resp.ClientEntry, error)
}

type dashboardService struct {
	repo repositories.DashboardRepository
	loc  *time.Location
}

// NewDashboardService buckets months in loc; nil means UTC.
func NewDashboardService(repo repositories.DashboardRepository, loc *time.Location) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{repo: repo, loc: loc}
}

func (s *dashboardService) Overview(ctx context.Context) (*resp.RevenueSummary, error) {
	orders, err := s.repo.ListOrdersWithReferences(ctx)
	if err != nil {
		return nil, dbFailure("list orders", err)
	}
	sum := SummarizeRevenue(orders)
	return &sum, nil
}

func (s *dashboardService) Stats(ctx context.Context) (*resp.StatsReport, error) {
	orders, err := s.repo.ListOrdersWithReferences(ctx)
	if err != nil {
		return nil, dbFailure("list orders", err)
	}
	progress, paid, total := PaymentProgress(orders)
	return &resp.StatsReport{
		MonthlyData:       MonthlyRevenue(orders, s.loc),
		PaymentProgress:   progress,
		PaidInstallments:  paid,
		TotalInstallments: total,
		TotalOrders:       len(orders),
		AverageOrderValue: AverageOrderValue(orders),
		Timezone:          s.loc.String(),
	}, nil
}

func (s *dashboardService) Notifications(ctx context.Context) ([]resp.Notification, error) {
	orders, err := s.repo.ListOrdersWithReferences(ctx)
	if err != nil {
		return nil, dbFailure("list orders", err)
	}
	return NotificationFeed(orders, NotificationLimit), nil
}

func (s *dashboardService) Clients(ctx context.Context) ([]resp.ClientEntry, error) {
	users, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, dbFailure("list clients", err)
	}
	orders, err := s.repo.ListOrdersWithReferences(ctx)
	if err != nil {
		return nil, dbFailure("list orders", err)
	}
	return ClientDirectory(users, orders), nil
}
