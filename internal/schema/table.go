// Package schema describes how persisted models map onto tables.
package schema

import (
	"sync"

	gormschema "gorm.io/gorm/schema"
)

var cache sync.Map

// Column is a persisted field of a model
type Column struct {
	Field    string
	Name     string
	DataType string
	Nullable bool
}

// Table is the table a model is stored in
type Table struct {
	Model   string
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in field order
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// FromModel parses a gorm model. Relationship fields have no column and are skipped.
func FromModel(model interface{}) (*Table, error) {
	parsed, err := gormschema.Parse(model, &cache, gormschema.NamingStrategy{})
	if err != nil {
		return nil, err
	}

	table := &Table{
		Model: parsed.Name,
		Name:  parsed.Table,
	}
	for _, field := range parsed.Fields {
		if field.DBName == "" {
			continue
		}
		table.Columns = append(table.Columns, Column{
			Field:    field.Name,
			Name:     field.DBName,
			DataType: string(field.DataType),
			Nullable: !field.NotNull && !field.PrimaryKey,
		})
	}
	return table, nil
}
