package cmd

import (
	"fmt"

	"github.com/friendfinder/userstore/internal/service"
	"github.com/friendfinder/userstore/pkg/logger"
	"github.com/spf13/cobra"
)

// cleanupCmd removes expired sessions and stale reset/verification tokens.
// Intended to run periodically from cron or a scheduler.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove expired sessions and tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()

		audit := service.NewAuditService(db)
		sessions := service.NewSessionService(db, audit, cfg.JWTSecret, cfg.JWTExpiry)
		tokens := service.NewTokenService(db, audit)

		removedSessions, err := sessions.CleanupExpired(ctx)
		if err != nil {
			return err
		}
		removedTokens, err := tokens.CleanupExpired(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Removed %d expired sessions and %d expired tokens\n",
			removedSessions, removedTokens)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
