package config_fx

import (
	"go.uber.org/fx"

	"orgaclients/internal/config"
)

// Module exposes the sections of an already loaded config.
func Module(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			func(c *config.Config) config.DatabaseConfig { return c.Database },
			func(c *config.Config) config.AuthConfig { return c.Auth },
			func(c *config.Config) config.StorageConfig { return c.Storage },
			func(c *config.Config) config.RedisConfig { return c.Redis },
		),
	)
}
