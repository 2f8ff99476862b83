package memcache_fx

import (
	"context"

	"go.uber.org/fx"
	log "github.com/sirupsen/logrus"

	"orgaclients/internal/config"
	"orgaclients/internal/infra"
	mem "orgaclients/pkg/memcache"
)

var Module = fx.Provide(provideTokenDenylist)

// provideTokenDenylist shares revocations through redis when it is
// configured, otherwise keeps them in process.
func provideTokenDenylist(lc fx.Lifecycle, cfg config.RedisConfig) (mem.TokenDenylist, error) {
	rdb, err := infra.OpenRedis(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		log.Info("redis not configured, using in-memory token denylist")
		return mem.NewRevokedTokens(), nil
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	return mem.NewRedisRevokedTokens(rdb), nil
}
