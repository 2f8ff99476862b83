package storage_fx

import (
	"context"

	"go.uber.org/fx"

	"orgaclients/internal/config"
	"orgaclients/pkg/storage"
)

var Module = fx.Provide(provideDisk)

func provideDisk(cfg config.StorageConfig) (storage.Disk, error) {
	return storage.New(context.Background(), cfg.DiskConfig())
}
