package controllers_fx

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"orgaclients/internal/api"
	"orgaclients/internal/api/controllers"
	"orgaclients/internal/config"
	mem "orgaclients/pkg/memcache"
	"orgaclients/pkg/storage"
	"orgaclients/pkg/utils"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewOrderController),
	fx.Provide(controllers.NewPaymentController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(provideRouter))

func provideRouter(
	cfg *config.Config,
	tokens *utils.TokenManager,
	denylist mem.TokenDenylist,
	disk storage.Disk,
	account *controllers.AccountController,
	order *controllers.OrderController,
	payment *controllers.PaymentController,
	dashboard *controllers.DashboardController,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(api.RouterOptions{
		CORSOrigins:   cfg.CORS,
		MaxProofBytes: cfg.Storage.MaxProofBytes,
		StorageURL:    cfg.Storage.URL,
	}, tokens, denylist, disk, api.Controllers{
		Account:   account,
		Order:     order,
		Payment:   payment,
		Dashboard: dashboard,
	})
}
