package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"barberbook/backend/internal/config"
	"barberbook/backend/internal/store/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
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

			applied, err := postgres.Migrate(cmd.Context(), db)
			if err != nil {
				log.Error("migration failed", slog.Any("err", err), slog.Any("applied", applied))
				return err
			}
			log.Info("migrations applied", slog.Int("count", len(applied)), slog.Any("versions", applied))
			return nil
		},
	}
}
