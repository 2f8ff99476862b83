package payment_service_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"orgaclients/internal/config"
	"orgaclients/internal/repositories"
	"orgaclients/internal/services"
	"orgaclients/pkg/storage"
)

var Module = fx.Provide(
	provideOrderRepo, provideOrderService, provideProofService, provideMaintenanceService,
)

func provideOrderRepo(db *gorm.DB) repositories.OrderRepository {
	return repositories.NewOrderRepository(db)
}

func provideOrderService(orders repositories.OrderRepository, users repositories.UserRepository, clock services.Clock) services.OrderService {
	return services.NewOrderService(orders, users, clock)
}

func provideProofService(orders repositories.OrderRepository, disk storage.Disk, cfg config.StorageConfig, clock services.Clock) services.ProofService {
	return services.NewProofService(orders, disk, cfg.MaxProofBytes, clock)
}

func provideMaintenanceService(users repositories.UserRepository, orders repositories.OrderRepository, clock services.Clock) services.MaintenanceService {
	return services.NewMaintenanceService(users, orders, clock)
}
