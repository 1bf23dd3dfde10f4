package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/techvibe/backoffice/internal/container"
	"github.com/techvibe/backoffice/pkg/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Example: `  backofficectl migrate
  backofficectl migrate --config configs/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(database.Config{
				Path:            a.cfg.Database.Path,
				MaxOpenConns:    1,
				MaxIdleConns:    1,
				ConnMaxLifetime: a.cfg.Database.ConnMaxLifetime,
			}, a.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.NewMigrator(db, a.logger).Run(container.MigrationSource(&a.cfg.Database))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s) to %s\n", applied, a.cfg.Database.Path)
			return nil
		},
	}
}
