package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"property-desk/internal/schema"
)

// ValidateMigrations checks that every migration is well formed and that
// no version is registered twice
func ValidateMigrations(migrations []*Migration) error {
	var errs []error
	seen := make(map[string]string, len(migrations))

	for _, mr := range migrations {
		if mr.Name == "" {
			errs = append(errs, fmt.Errorf("migration %s has no name", mr.Version))
		}
		if _, err := time.Parse(VersionLayout, mr.Version); err != nil || len(mr.Version) != len(VersionLayout) {
			errs = append(errs, fmt.Errorf("migration %s: invalid version %q", mr.Name, mr.Version))
		}
		if mr.Up == nil || mr.Down == nil {
			errs = append(errs, fmt.Errorf("migration %s must define both Up and Down", mr.Version))
		}
		if other, ok := seen[mr.Version]; ok {
			errs = append(errs, fmt.Errorf("duplicate version %s used by %s and %s", mr.Version, other, mr.Name))
		}
		seen[mr.Version] = mr.Name
	}

	return errors.Join(errs...)
}

// Validate checks the migrations registered on m
func (m *Migrator) Validate() error {
	return ValidateMigrations(m.migrations)
}

// VerifySchema compares the given models with the live database and
// returns one line per missing table or column
func (m *Migrator) VerifySchema(ctx context.Context, models map[string]interface{}) ([]string, error) {
	db := m.db.WithContext(ctx)
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)

	var drift []string
	for _, name := range names {
		model := models[name]

		table, err := schema.FromModel(model)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %s: %w", name, err)
		}

		if !db.Migrator().HasTable(table.Name) {
			drift = append(drift, fmt.Sprintf("%s: table %s is missing", name, table.Name))
			continue
		}

		for _, column := range table.Columns {
			if !db.Migrator().HasColumn(table.Name, column.Name) {
				drift = append(drift, fmt.Sprintf("%s: column %s.%s is missing", name, table.Name, column.Name))
			}
		}
	}
	return drift, nil
}
