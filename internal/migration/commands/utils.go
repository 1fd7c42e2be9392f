package commands

import (
	"gorm.io/gorm"

	"property-desk/internal/migration"
)

// DBOpener opens the database the migrate commands operate on
type DBOpener func() (*gorm.DB, error)

func getMigrator(open DBOpener) (*migration.Migrator, error) {
	db, err := open()
	if err != nil {
		return nil, err
	}
	return migration.NewSchemaMigrator(db), nil
}
