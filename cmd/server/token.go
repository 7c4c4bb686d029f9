package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mediai/backend/internal/auth"
	"mediai/backend/internal/config"
)

var (
	tokenUserID string
	tokenTTL    time.Duration
)

// tokenCmd mints a session token for local development. Login is handled by
// the frontend deployment, not by this service.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a session token for a user (development only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserID == "" {
			return errors.New("--user is required")
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		token, err := auth.NewTokens(cfg.JWTSecret).Issue(tokenUserID, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenUserID, "user", "u", "", "user ID to put in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.DefaultTokenTTL, "token lifetime")
}
