package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Migrator handles the execution of migrations
type Migrator struct {
	db         *gorm.DB
	migrations []*Migration
}

// NewMigrator creates a new Migrator instance
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: make([]*Migration, 0),
	}
}

// Register adds a migration to the migrator
func (m *Migrator) Register(migration *Migration) {
	m.migrations = append(m.migrations, migration)
}

// Migrations returns the registered migrations ordered by version
func (m *Migrator) Migrations() []*Migration {
	migrations := make([]*Migration, len(m.migrations))
	copy(migrations, m.migrations)
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations
}

// EnsureVersionTable creates the version tracking table if it doesn't exist
func (m *Migrator) EnsureVersionTable(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migration_records table: %w", err)
	}
	return nil
}

// GetAppliedVersions returns the applied migration records keyed by version
func (m *Migrator) GetAppliedVersions(ctx context.Context) (map[string]MigrationRecord, error) {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return nil, err
	}

	var records []MigrationRecord
	if err := m.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	versions := make(map[string]MigrationRecord, len(records))
	for _, record := range records {
		versions[record.Version] = record
	}
	return versions, nil
}

// Pending returns the registered migrations that have not been applied
func (m *Migrator) Pending(ctx context.Context) ([]*Migration, error) {
	applied, err := m.GetAppliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var pending []*Migration
	for _, mr := range m.Migrations() {
		if _, ok := applied[mr.Version]; !ok {
			pending = append(pending, mr)
		}
	}
	return pending, nil
}

// Up applies all pending migrations, each in its own transaction, and
// returns the ones it applied
func (m *Migrator) Up(ctx context.Context) ([]*Migration, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	var applied []*Migration
	for _, mr := range pending {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mr.Up(tx); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", mr.Name, err)
			}

			record := MigrationRecord{
				Version:   mr.Version,
				Name:      mr.Name,
				AppliedAt: time.Now().UTC(),
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", mr.Name, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, mr)
	}
	return applied, nil
}

// Down rolls back the most recent applied migration
func (m *Migrator) Down(ctx context.Context) (*Migration, error) {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return nil, err
	}

	var lastRecord MigrationRecord
	if err := m.db.WithContext(ctx).Order("version DESC").First(&lastRecord).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMigrations
		}
		return nil, fmt.Errorf("failed to find last migration: %w", err)
	}

	var target *Migration
	for _, mr := range m.migrations {
		if mr.Version == lastRecord.Version {
			target = mr
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("migration for version %s not found", lastRecord.Version)
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", target.Name, err)
		}
		if err := tx.Delete(&lastRecord).Error; err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// Status reports every registered migration with its applied state
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	applied, err := m.GetAppliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	migrations := m.Migrations()
	statuses := make([]MigrationStatus, 0, len(migrations))
	for _, mr := range migrations {
		status := MigrationStatus{Migration: mr}
		if record, ok := applied[mr.Version]; ok {
			appliedAt := record.AppliedAt
			status.Applied = true
			status.AppliedAt = &appliedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// History returns the applied migration records, newest first
func (m *Migrator) History(ctx context.Context) ([]MigrationRecord, error) {
	if err := m.EnsureVersionTable(ctx); err != nil {
		return nil, err
	}

	var records []MigrationRecord
	if err := m.db.WithContext(ctx).Order("version DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get migration history: %w", err)
	}
	return records, nil
}
