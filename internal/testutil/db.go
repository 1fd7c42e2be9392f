// Package testutil builds migrated sqlite databases for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"property-desk/internal/config"
	"property-desk/internal/migration"
)

// OpenDB returns an empty in-memory sqlite database
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openSQLite(t, ":memory:")
}

// NewDB returns an in-memory sqlite database with the application schema applied
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	return migrate(t, OpenDB(t))
}

// NewFileDB returns a sqlite database in a temporary file with the
// application schema applied
func NewFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	return migrate(t, openSQLite(t, filepath.Join(t.TempDir(), "property_desk.db")))
}

func openSQLite(t *testing.T, path string) *gorm.DB {
	t.Helper()

	db, err := config.OpenDB(&config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: path,
		LogLevel:   "error",
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func migrate(t *testing.T, db *gorm.DB) *gorm.DB {
	t.Helper()

	_, err := migration.NewSchemaMigrator(db).Up(context.Background())
	require.NoError(t, err)
	return db
}
