package cmd

import (
	"fmt"
	"os"

	"github.com/friendfinder/userstore/internal/config"
	"github.com/friendfinder/userstore/internal/database"
	"github.com/friendfinder/userstore/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "userstore",
	Short: "Friend Finder user store",
	Long: `Relational user store for the Friend Finder application: accounts,
credentials, sessions, roles and the security audit trail.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"path to the SQLite database file (overrides DATABASE_PATH)")
}

// openStore loads configuration, initializes logging and returns a migrated,
// seeded store handle.
func openStore() (*gorm.DB, *config.Config, error) {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	if err := logger.Init(cfg.Environment != "production"); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}
	if err := database.Seed(db); err != nil {
		return nil, nil, err
	}

	return db, cfg, nil
}
