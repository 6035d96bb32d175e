package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"barberbook/backend/internal/config"
	"barberbook/backend/internal/store"
	"barberbook/backend/internal/store/postgres"
)

func seedCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog (users, services, staff)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			db, err := openDatabase(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeDatabase(db, log)

			if migrate {
				if _, err := postgres.Migrate(cmd.Context(), db); err != nil {
					return err
				}
			}

			n, err := postgres.NewCatalogRepo(db).SeedCatalog(cmd.Context(), store.DemoCatalog())
			if err != nil {
				log.Error("seed failed", slog.Any("err", err))
				return err
			}
			log.Info("catalog seeded", slog.Int("inserted", n))
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before seeding")
	return cmd
}
