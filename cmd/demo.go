package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/friendfinder/userstore/internal/repository"
	"github.com/friendfinder/userstore/internal/service"
	"github.com/friendfinder/userstore/pkg/logger"
	"github.com/spf13/cobra"
)

// demoCmd walks the store through its whole surface: sample accounts,
// sessions, authentication, a role assignment and per-table row counts.
// It is a harness, not part of the store's contract.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Seed two sample users and exercise the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()

		audit := service.NewAuditService(db)
		auth := service.NewAuthService(db, audit, nil)
		sessions := service.NewSessionService(db, audit, cfg.JWTSecret, cfg.JWTExpiry)
		stats := repository.NewStatsRepository(db)

		fmt.Println("=== Creating Sample Users ===")
		john, err := auth.CreateUser(ctx, "johndoe", "john@example.com", "password123", "John", "Doe")
		if err != nil && !errors.Is(err, service.ErrUserExists) {
			return err
		}
		jane, err := auth.CreateUser(ctx, "janedoe", "jane@example.com", "securepass456", "Jane", "Doe")
		if err != nil && !errors.Is(err, service.ErrUserExists) {
			return err
		}

		if john != 0 && jane != 0 {
			fmt.Println("\n=== Creating Sessions ===")
			s1, err := sessions.Create(ctx, john, "Chrome/Windows", "192.168.1.100", cfg.SessionDuration)
			if err != nil {
				return err
			}
			s2, err := sessions.Create(ctx, jane, "Safari/macOS", "192.168.1.101", cfg.SessionDuration)
			if err != nil {
				return err
			}
			fmt.Printf("Session created for user %d: %s\n", john, s1)
			fmt.Printf("Session created for user %d: %s\n", jane, s2)

			fmt.Println("\n=== Testing Authentication ===")
			user, err := auth.Authenticate(ctx, "john@example.com", "password123", "192.168.1.100")
			if err != nil {
				return err
			}
			fmt.Printf("Authentication successful for user: %s\n", user.Username)

			fmt.Println("\n=== Assigning Roles ===")
			ok, err := auth.AssignRole(ctx, john, "admin", john)
			if err != nil {
				return err
			}
			if ok {
				fmt.Printf("Admin role assigned to user %d\n", john)
			}
		}

		fmt.Println("\n=== Database Statistics ===")
		counts, err := stats.Counts(ctx)
		if err != nil {
			return err
		}
		tables := stats.Tables()
		sort.Strings(tables)
		for _, table := range tables {
			fmt.Printf("%s: %d records\n", table, counts[table])
		}

		fmt.Println("\n=== Cleaning Up ===")
		removed, err := sessions.CleanupExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Cleaned up %d expired sessions\n", removed)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
