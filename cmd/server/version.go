package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/wealth-manager-backend/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the application version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Version)
		return err
	},
}
