package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"orgaclients/cmd/fx/account_fx"
	"orgaclients/cmd/fx/config_fx"
	"orgaclients/cmd/fx/controllers_fx"
	"orgaclients/cmd/fx/dashboard"
	"orgaclients/cmd/fx/db_fx"
	"orgaclients/cmd/fx/memcache_fx"
	"orgaclients/cmd/fx/payment_service_fx"
	"orgaclients/cmd/fx/storage_fx"
	"orgaclients/internal/config"
	"orgaclients/internal/migrations"
	"orgaclients/internal/services"
	"orgaclients/pkg/logger"
	"orgaclients/pkg/migration"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "orgaclients",
		Short:         "Client order and installment tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", os.Getenv("CONFIG_FILE"), "optional YAML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd(), migrateStatusCmd(), migrateRollbackCmd())
	rootCmd.AddCommand(seedCmd(), purgeClientsCmd(), importLegacyCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("command failed")
		stop()
		os.Exit(1)
	}
}

// loadConfig loads configuration and sets up logging. The closer flushes
// the log file.
func loadConfig() (*config.Config, func(), error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	opts := cfg.Log.Options()
	if cfg.IsProduction() {
		opts.JSON = true
	}
	closer := logger.Setup(opts)
	return cfg, func() { _ = closer.Close() }, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done, err := loadConfig()
			if err != nil {
				return err
			}
			defer done()

			app := fx.New(
				fx.NopLogger,
				config_fx.Module(cfg),
				fx.Provide(func() services.Clock { return services.SystemClock() }),
				db_fx.Module,
				memcache_fx.Module,
				storage_fx.Module,
				account_fx.Module,
				payment_service_fx.Module,
				dashboard.Module,
				controllers_fx.Module,

				fx.Invoke(AutoMigrate),
				fx.Invoke(StartServer),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func AutoMigrate(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB) {
	if !cfg.Database.AutoMigrate {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_, err := migration.New(db, migrations.All()).Run(ctx)
			return err
		},
	})
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.WithField("addr", srv.Addr).Info("starting HTTP server")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.WithError(err).Fatal("failed to start server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
