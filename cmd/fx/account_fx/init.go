package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"orgaclients/internal/config"
	"orgaclients/internal/repositories"
	"orgaclients/internal/services"
	mem "orgaclients/pkg/memcache"
	"orgaclients/pkg/utils"
)

var Module = fx.Provide(
	provideAuthService, provideUserRepo, provideTokenManager)

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

func provideTokenManager(cfg config.AuthConfig) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
}

func provideAuthService(
	userRepo repositories.UserRepository,
	orderRepo repositories.OrderRepository,
	tokens *utils.TokenManager,
	denylist mem.TokenDenylist,
) services.AuthServiceInterface {
	return services.NewAuthService(userRepo, orderRepo, tokens, denylist)
}
