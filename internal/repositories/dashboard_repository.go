package repositories

import (
	"context"

	"gorm.io/gorm"

	dbm "orgaclients/internal/models/db_models"
)

// DashboardRepository feeds the admin reporting views. Aggregation happens in
// the service layer over the full order set, so every read is fresh.
type DashboardRepository interface {
	ListOrdersWithReferences(ctx context.Context) ([]dbm.Order, error)
	ListClients(ctx context.Context) ([]dbm.User, error)
	CountOrders(ctx context.Context) (int64, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ListOrdersWithReferences returns every order newest first, references in
// position order.
func (r *dashboardRepository) ListOrdersWithReferences(ctx context.Context) ([]dbm.Order, error) {
	var orders []dbm.Order
	err := r.db.WithContext(ctx).
		Preload("References", referencesByPosition).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *dashboardRepository) ListClients(ctx context.Context) ([]dbm.User, error) {
	var users []dbm.User
	err := r.db.WithContext(ctx).
		Where("role = ?", dbm.RoleClient).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *dashboardRepository) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Order{}).Count(&n).Error
	return n, err
}
