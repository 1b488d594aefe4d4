package main

import (
	"fmt"

	"affwp-generate/internal/config"
	"affwp-generate/internal/migrations"

	"github.com/spf13/cobra"
)

func (a *app) newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Управление схемой базы данных",
	}

	actions := []struct {
		use   string
		short string
		run   func(cfg *config.Config) error
	}{
		{"up", "Применить все миграции", func(cfg *config.Config) error { return migrations.RunMigrations(cfg, a.logger) }},
		{"down", "Откатить последнюю миграцию", func(cfg *config.Config) error { return migrations.RollbackMigration(cfg, a.logger) }},
		{"status", "Показать статус миграций", func(cfg *config.Config) error { return migrations.GetMigrationStatus(cfg, a.logger) }},
	}

	for _, action := range actions {
		action := action
		migrateCmd.AddCommand(&cobra.Command{
			Use:   action.use,
			Short: action.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if a.cfg.Store.Driver != config.DriverPostgres {
					return fmt.Errorf("миграции доступны только для STORE_DRIVER=postgres")
				}
				return action.run(a.cfg)
			},
		})
	}

	return migrateCmd
}
