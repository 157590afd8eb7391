package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/wealth-manager-backend/internal/database"
	"github.com/ndewijer/wealth-manager-backend/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the SQLite schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		current, _, err := database.SchemaVersion(db)
		if err != nil {
			return err
		}
		logger.Get().Infow("Database migrated", "path", cfg.Database.Path, "version", current)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		return database.MigrationStatus(db)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
}
