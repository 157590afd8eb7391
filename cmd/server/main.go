package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndewijer/wealth-manager-backend/internal/config"
	"github.com/ndewijer/wealth-manager-backend/internal/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "wealth-manager",
	Short: "Wealth manager backend",
	Long: `Serves the customer wealth API: patrimony aggregation, asset detail,
ownership editing, asset search and the LCB-FT questionnaire.

Data comes from the local SQLite database or from the upstream GraphQL API
(BACKEND=sqlite|graphql). Running without a subcommand starts the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Init(cfg.Env)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
