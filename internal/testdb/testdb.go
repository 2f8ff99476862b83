// Package testdb opens throwaway SQLite databases for package tests.
package testdb

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"orgaclients/internal/migrations"
	"orgaclients/pkg/migration"
)

// Open returns an empty in-memory database private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps one database per test across pooled conns.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("testdb: sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Migrated returns a database with every schema migration applied.
func Migrated(t testing.TB) *gorm.DB {
	t.Helper()
	db := Open(t)
	if _, err := migration.New(db, migrations.All()).Run(context.Background()); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}
	return db
}
