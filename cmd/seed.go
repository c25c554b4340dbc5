package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/friendfinder/userstore/internal/models"
	"github.com/friendfinder/userstore/internal/service"
	"github.com/friendfinder/userstore/pkg/logger"
	"github.com/spf13/cobra"
)

// seedCmd applies the schema and default roles/permissions, and optionally
// creates an admin account from ADMIN_USERNAME/ADMIN_EMAIL/ADMIN_PASSWORD.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create schema, default roles/permissions and an optional admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openStore()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()

		adminUsername := os.Getenv("ADMIN_USERNAME")
		adminEmail := os.Getenv("ADMIN_EMAIL")
		adminPassword := os.Getenv("ADMIN_PASSWORD")

		if adminUsername == "" || adminEmail == "" || adminPassword == "" {
			fmt.Println("Schema and defaults seeded (set ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD to also create an admin)")
			return nil
		}

		audit := service.NewAuditService(db)
		auth := service.NewAuthService(db, audit, nil)

		adminID, err := auth.CreateUser(ctx, adminUsername, adminEmail, adminPassword, "", "")
		if err != nil {
			if errors.Is(err, service.ErrUserExists) {
				fmt.Println("Admin user already exists:", adminUsername)
				return nil
			}
			return err
		}

		if _, err := auth.AssignRole(ctx, adminID, string(models.RoleAdmin), adminID); err != nil {
			return err
		}

		fmt.Println("Admin user created successfully!")
		fmt.Println("   Username:", adminUsername)
		fmt.Println("   Email:", adminEmail)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
