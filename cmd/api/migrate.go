package main

import (
	"errors"

	"pet-care-hub/internal/adapters/storage/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes de Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if a.db == nil {
			return errors.New("DB_DSN is required to migrate")
		}
		applied, err := postgres.Migrate(cmd.Context(), a.db)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			a.log.Info("schema up to date", nil)
			return nil
		}
		a.log.Info("migrations applied", map[string]any{"versions": applied})
		return nil
	},
}
