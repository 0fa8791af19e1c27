package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// SchemaVersion is the migration the KV tables must be at: 1 creates kv,
// 2 adds kv_history.
const SchemaVersion uint = 2

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrSchemaDirty means an earlier migration stopped half way and the
// database needs manual repair before the KV can open it.
var ErrSchemaDirty = errors.New("kv schema is dirty")

// RunMigrations applies pending KV migrations at dbPath and returns the
// resulting schema version.
func RunMigrations(dbPath string) (uint, error) {
	// migrate closes its driver, so it gets its own handle.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open migration database: %w", err)
	}
	defer db.Close()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: "kv_schema_migrations"})
	if err != nil {
		return 0, fmt.Errorf("kv migration driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("kv migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("kv migrator: %w", err)
	}
	defer m.Close()

	if _, dirty, err := m.Version(); err == nil && dirty {
		return 0, ErrSchemaDirty
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate kv schema: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read kv schema version: %w", err)
	}
	if dirty {
		return version, ErrSchemaDirty
	}
	if version < SchemaVersion {
		return version, fmt.Errorf("kv schema at version %d, need %d", version, SchemaVersion)
	}
	return version, nil
}
