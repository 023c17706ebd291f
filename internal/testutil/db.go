// Package testutil holds helpers shared by package tests and the dev container tool
package testutil

import (
	"testing"

	puresqlite "github.com/glebarez/sqlite"
	"github.com/localnerve/viverodb/internal/database"
	"github.com/localnerve/viverodb/internal/logger"
	"gorm.io/gorm"
)

// OpenMemoryDB creates a migrated in-memory SQLite database that lives until the test ends
func OpenMemoryDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(
		puresqlite.Open(":memory:?_pragma=foreign_keys(1)"),
		logger.NewGormLogger(logger.Discard(), "silent", 0),
	)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
