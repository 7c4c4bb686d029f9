package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediai/backend/internal/config"
	"mediai/backend/internal/database"
	"mediai/backend/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Setup(cfg.LogLevel, cfg.LogFormat)

		db, err := database.InitDB(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date\n", cfg.DatabasePath)
		return nil
	},
}
