package migration

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// VersionLayout is the time layout migration versions are written in
const VersionLayout = "20060102150405"

// ErrNoMigrations is returned by Down when nothing has been applied
var ErrNoMigrations = errors.New("no migrations to revert")

// Migration represents a single database migration
type Migration struct {
	Version string // Unique version identifier (e.g., timestamp)
	Name    string // Human-readable name of the migration
	Up      func(*gorm.DB) error
	Down    func(*gorm.DB) error
}

// MigrationRecord represents a record of an applied migration
type MigrationRecord struct {
	Version   string    `gorm:"primaryKey;size:14"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// MigrationStatus pairs a known migration with its applied state
type MigrationStatus struct {
	Migration *Migration
	Applied   bool
	AppliedAt *time.Time
}

// dialectSQL holds the statements of one migration step keyed by gorm dialector name
type dialectSQL map[string][]string

// exec runs the statements registered for the dialect tx is connected to
func (d dialectSQL) exec(tx *gorm.DB) error {
	name := tx.Dialector.Name()
	statements, ok := d[name]
	if !ok {
		return fmt.Errorf("no migration statements for dialect %q", name)
	}
	for _, statement := range statements {
		if err := tx.Exec(statement).Error; err != nil {
			return fmt.Errorf("failed to execute SQL: %w", err)
		}
	}
	return nil
}

// sqlMigration builds a Migration whose steps are plain SQL per dialect
func sqlMigration(version, name string, up, down dialectSQL) *Migration {
	return &Migration{
		Version: version,
		Name:    name,
		Up:      up.exec,
		Down:    down.exec,
	}
}
