package main

import (
	"fmt"

	"myblog/config"
	pgstore "myblog/internal/adapter/out/storage/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the postgres schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigration(cmd, "up", pgstore.MigrateUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigration(cmd, "down", pgstore.MigrateDown)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func runMigration(cmd *cobra.Command, direction string, run func(dsn string) error) error {
	if err := loadEnvFiles(cmd); err != nil {
		return err
	}

	pc, err := config.LoadPostgresConfig()
	if err != nil {
		return err
	}
	if err := run(pc.GetDSN()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: done\n", direction)
	return nil
}
