package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"orgaclients/internal/config"
	"orgaclients/internal/infra"
	"orgaclients/internal/legacy"
	"orgaclients/internal/migrations"
	"orgaclients/internal/repositories"
	"orgaclients/internal/services"
	"orgaclients/pkg/migration"
)

// withDB runs fn against a freshly opened database and closes it after.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, db *gorm.DB) error) error {
	cfg, done, err := loadConfig()
	if err != nil {
		return err
	}
	defer done()

	ctx := cmd.Context()
	db, err := infra.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer infra.CloseDatabase(db)
	return fn(ctx, cfg, db)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, _ *config.Config, db *gorm.DB) error {
				ran, err := migration.New(db, migrations.All()).Run(ctx)
				if err != nil {
					return err
				}
				if len(ran) == 0 {
					fmt.Println("Nothing to migrate.")
				}
				for _, name := range ran {
					fmt.Println("Migrated:", name)
				}
				return nil
			})
		},
	}
}

func migrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Roll back the last batch of migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, _ *config.Config, db *gorm.DB) error {
				rolled, err := migration.New(db, migrations.All()).Rollback(ctx)
				if err != nil {
					return err
				}
				for _, name := range rolled {
					fmt.Println("Rolled back:", name)
				}
				return nil
			})
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show which migrations have run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, _ *config.Config, db *gorm.DB) error {
				status, err := migration.New(db, migrations.All()).Status(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
				for _, s := range status {
					fmt.Fprintf(w, "%s\t%t\t%d\n", s.Name, s.Ran, s.Batch)
				}
				return w.Flush()
			})
		},
	}
}

func seedCmd() *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and, with --demo, sample clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
				svc := services.NewMaintenanceService(repositories.NewUserRepository(db), repositories.NewOrderRepository(db), nil)

				if cfg.Seed.AdminPassword == "" {
					return errors.New("SEED_ADMIN_PASSWORD is required")
				}
				admin, err := svc.SeedAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
				if err != nil {
					return err
				}
				fmt.Printf("Admin %s: created=%t\n", cfg.Seed.AdminEmail, admin.AdminCreated)

				if demo {
					rep, err := svc.SeedDemo(ctx)
					if err != nil {
						return err
					}
					fmt.Printf("Demo: %d users, %d orders created, %d already existed\n",
						rep.UsersCreated, rep.OrdersCreated, rep.SkippedExisted)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "also create demo clients with orders")
	return cmd
}

func purgeClientsCmd() *cobra.Command {
	var withOrders bool
	cmd := &cobra.Command{
		Use:   "purge-clients",
		Short: "Delete every client account, keeping admins",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, _ *config.Config, db *gorm.DB) error {
				svc := services.NewMaintenanceService(repositories.NewUserRepository(db), repositories.NewOrderRepository(db), nil)
				rep, err := svc.PurgeClients(ctx, withOrders)
				if err != nil {
					return err
				}
				fmt.Printf("Before: %d clients, %d admins\n", rep.ClientsBefore, rep.AdminsBefore)
				fmt.Printf("Deleted: %d users, %d orders\n", rep.UsersDeleted, rep.OrdersDeleted)
				fmt.Printf("After: %d clients, %d admins\n", rep.ClientsAfter, rep.AdminsAfter)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&withOrders, "with-orders", false, "also delete the purged clients' orders")
	return cmd
}

func importLegacyCmd() *cobra.Command {
	var (
		uri, dbName, collection string
		dryRun                  bool
	)
	cmd := &cobra.Command{
		Use:   "import-legacy",
		Short: "Import orders from the legacy MongoDB collection",
		Long: `Reads every document of the legacy orders collection, detects its
schema version (v1 flat, v2 deposit70, v3 with references) and inserts it.
Clients that already have an order are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uri == "" {
				return errors.New("--mongo-uri is required")
			}
			return withDB(cmd, func(ctx context.Context, _ *config.Config, db *gorm.DB) error {
				client, cur, err := legacy.Open(ctx, uri, dbName, collection)
				if err != nil {
					return err
				}
				defer func() { _ = client.Disconnect(context.Background()) }()

				rep, err := legacy.NewImporter(repositories.NewOrderRepository(db), dryRun).Import(ctx, cur)
				if err != nil {
					return err
				}
				fmt.Printf("Seen %d, imported %d, skipped %d, failed %d\n", rep.Seen, rep.Imported, rep.Skipped, rep.Failed)
				for v, n := range rep.ByVersion {
					fmt.Printf("  %s: %d\n", v, n)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&uri, "mongo-uri", os.Getenv("LEGACY_MONGO_URI"), "legacy MongoDB connection string")
	cmd.Flags().StringVar(&dbName, "db", "orgaclients", "legacy database name")
	cmd.Flags().StringVar(&collection, "collection", "orders", "legacy collection name")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "convert and report without writing")
	return cmd
}
