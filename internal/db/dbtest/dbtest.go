// Package dbtest provides an in-memory database for store-level tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/plumeblog/plume/internal/db"
	"github.com/plumeblog/plume/internal/models"
)

// New opens an isolated in-memory database with the full schema migrated
func New(t *testing.T) *db.Repository {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	// A fresh connection would see an empty in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Follow{},
		&models.Post{},
		&models.PostImage{},
		&models.PostTag{},
		&models.PostLike{},
		&models.Review{},
	); err != nil {
		t.Fatalf("migrate test schema: %v", err)
	}

	return db.NewRepository(gdb)
}
