package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"faceid/internal/platform/postgres"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	cmd.AddCommand(
		migrateDirectionCmd("up", "Create the claims, contests and participants tables", postgres.Up),
		migrateDirectionCmd("down", "Drop every table owned by the service", postgres.Down),
	)
	return cmd
}

func migrateDirectionCmd(use, short string, dir postgres.Direction) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.openDB(ctx); err != nil {
				return err
			}
			applied, err := postgres.Migrate(ctx, a.db, dir)
			if err != nil {
				return err
			}
			for _, name := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", name)
			}
			a.logger.InfoContext(ctx, "migrations applied", "direction", use, "count", len(applied))
			return nil
		},
	}
}
