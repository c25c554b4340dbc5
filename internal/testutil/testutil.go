package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/friendfinder/userstore/internal/database"
	"github.com/friendfinder/userstore/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestDatabase holds a test store connection (in-memory SQLite)
type TestDatabase struct {
	DB  *gorm.DB
	DSN string
}

// TestRedis holds a Redis mock (miniredis) and a client bound to it
type TestRedis struct {
	Server *miniredis.Miniredis
	Client *redis.Client
}

var testDBCounter atomic.Int64

// SetupTestDatabase creates an in-memory SQLite store with the full schema,
// trigger and default role/permission seed applied. No Docker required.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	if logger.Log == nil {
		if err := logger.Init(false); err != nil {
			t.Fatalf("Failed to init logger: %v", err)
		}
	}

	// Unique name per database so parallel suites in one process don't share
	// state through SQLite's shared cache.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("Failed to seed default roles: %v", err)
	}

	return &TestDatabase{
		DB:  db,
		DSN: dsn,
	}
}

// Teardown closes the test database connection.
func (td *TestDatabase) Teardown(t *testing.T) {
	sqlDB, err := td.DB.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}

// SetupTestRedis starts an in-memory Redis mock and a client for it.
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	return &TestRedis{
		Server: server,
		Client: client,
	}
}

// Teardown stops the Redis mock.
func (tr *TestRedis) Teardown(t *testing.T) {
	_ = tr.Client.Close()
	tr.Server.Close()
}

// CleanDatabase deletes user-derived rows for test isolation. Seeded roles
// and permissions are kept so account creation keeps working.
func CleanDatabase(t *testing.T, db *gorm.DB) {
	tables := []string{
		"user_security_logs",
		"user_roles",
		"user_sessions",
		"password_reset_tokens",
		"email_verification_tokens",
		"friends",
		"posts",
		"results",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("Warning: Failed to clean table %s: %v", table, err)
		}
	}
}
