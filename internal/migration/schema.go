package migration

import "gorm.io/gorm"

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite"
)

// Schema returns the migrations that build the tenants and maintenance_requests tables
func Schema() []*Migration {
	return []*Migration{
		sqlMigration("20240101000001", "create_tenants",
			dialectSQL{
				dialectPostgres: {
					`CREATE TABLE tenants (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	phone VARCHAR(20) NOT NULL,
	email VARCHAR(100) NOT NULL,
	apartment_number VARCHAR(10) NOT NULL,
	check_in_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	check_out_date TIMESTAMPTZ NULL
)`,
					`CREATE UNIQUE INDEX uni_tenants_email ON tenants (lower(email))`,
				},
				dialectSQLite: {
					`CREATE TABLE tenants (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name VARCHAR(100) NOT NULL,
	phone VARCHAR(20) NOT NULL,
	email VARCHAR(100) NOT NULL,
	apartment_number VARCHAR(10) NOT NULL,
	check_in_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	check_out_date DATETIME NULL
)`,
					`CREATE UNIQUE INDEX uni_tenants_email ON tenants (lower(email))`,
				},
			},
			dialectSQL{
				dialectPostgres: {`DROP TABLE IF EXISTS tenants`},
				dialectSQLite:   {`DROP TABLE IF EXISTS tenants`},
			},
		),
		sqlMigration("20240101000002", "create_maintenance_requests",
			dialectSQL{
				dialectPostgres: {
					`CREATE TABLE maintenance_requests (
	id BIGSERIAL PRIMARY KEY,
	tenant_id BIGINT NOT NULL,
	apartment_number VARCHAR(10) NOT NULL,
	problem_area VARCHAR(50) NOT NULL,
	description TEXT NOT NULL,
	date_time TIMESTAMPTZ NOT NULL DEFAULT now(),
	photo VARCHAR(255) NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	CONSTRAINT fk_maintenance_requests_tenant FOREIGN KEY (tenant_id)
		REFERENCES tenants (id) ON DELETE CASCADE,
	CONSTRAINT chk_maintenance_requests_status CHECK (status IN ('pending', 'completed'))
)`,
					`CREATE INDEX idx_maintenance_requests_tenant_id ON maintenance_requests (tenant_id)`,
					`CREATE INDEX idx_maintenance_requests_apartment_number ON maintenance_requests (apartment_number)`,
					`CREATE INDEX idx_maintenance_requests_status ON maintenance_requests (status)`,
				},
				dialectSQLite: {
					`CREATE TABLE maintenance_requests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tenant_id INTEGER NOT NULL,
	apartment_number VARCHAR(10) NOT NULL,
	problem_area VARCHAR(50) NOT NULL,
	description TEXT NOT NULL,
	date_time DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	photo VARCHAR(255) NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	CONSTRAINT fk_maintenance_requests_tenant FOREIGN KEY (tenant_id)
		REFERENCES tenants (id) ON DELETE CASCADE,
	CONSTRAINT chk_maintenance_requests_status CHECK (status IN ('pending', 'completed'))
)`,
					`CREATE INDEX idx_maintenance_requests_tenant_id ON maintenance_requests (tenant_id)`,
					`CREATE INDEX idx_maintenance_requests_apartment_number ON maintenance_requests (apartment_number)`,
					`CREATE INDEX idx_maintenance_requests_status ON maintenance_requests (status)`,
				},
			},
			dialectSQL{
				dialectPostgres: {`DROP TABLE IF EXISTS maintenance_requests`},
				dialectSQLite:   {`DROP TABLE IF EXISTS maintenance_requests`},
			},
		),
	}
}

// NewSchemaMigrator returns a Migrator loaded with the application schema
func NewSchemaMigrator(db *gorm.DB) *Migrator {
	m := NewMigrator(db)
	for _, mr := range Schema() {
		m.Register(mr)
	}
	return m
}
