package dashboard

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"orgaclients/internal/config"
	"orgaclients/internal/repositories"
	"orgaclients/internal/services"
	"orgaclients/pkg/utils"
)

var Module = fx.Provide(
	provideDashboardRepo, provideDashboardService,
)

func provideDashboardRepo(db *gorm.DB) repositories.DashboardRepository {
	return repositories.NewDashboardRepository(db)
}

func provideDashboardService(dashboardRepo repositories.DashboardRepository, cfg *config.Config) services.DashboardService {
	return services.NewDashboardService(dashboardRepo, utils.LoadLocation(cfg.Timezone))
}
