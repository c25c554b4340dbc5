package database

import (
	"fmt"

	"github.com/friendfinder/userstore/internal/config"
	"github.com/friendfinder/userstore/internal/models"
	"github.com/friendfinder/userstore/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the store and returns an explicit handle. Callers own the
// handle and inject it into repositories; there is no package-level state.
// Postgres is used when DATABASE_URL is set, SQLite otherwise.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabasePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if db.Dialector.Name() == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	logger.Log.Info("Database connected",
		zap.String("dialect", db.Dialector.Name()),
	)

	return db, nil
}

// Migrate creates all tables, indexes and the current-result trigger.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.Session{},
		&models.PasswordResetToken{},
		&models.EmailVerificationToken{},
		&models.RolePermission{},
		&models.UserRole{},
		&models.SecurityLog{},
		&models.Friend{},
		&models.Result{},
		&models.Post{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	if err := createCurrentResultTrigger(db); err != nil {
		return err
	}

	logger.Log.Info("Database migration completed")
	return nil
}

// createCurrentResultTrigger rejects updates of users.current_result_id that
// point at a nonexistent results row. SQLite cannot express this as a plain
// foreign key here without a table cycle, so a trigger stands in for it.
func createCurrentResultTrigger(db *gorm.DB) error {
	if db.Dialector.Name() != "sqlite" {
		return nil
	}

	const trigger = `
		CREATE TRIGGER IF NOT EXISTS fk_users_current_result
		BEFORE UPDATE OF current_result_id ON users
		FOR EACH ROW
		WHEN NEW.current_result_id IS NOT NULL
		BEGIN
			SELECT CASE
				WHEN (SELECT id FROM results WHERE id = NEW.current_result_id) IS NULL
				THEN RAISE(ABORT, 'foreign key constraint failed: current_result_id')
			END;
		END`

	if err := db.Exec(trigger).Error; err != nil {
		return fmt.Errorf("create current_result trigger: %w", err)
	}
	return nil
}
