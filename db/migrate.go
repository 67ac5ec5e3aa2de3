// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"embed"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending migrations. Already up to date is
// not an error. The migrator opens its own short-lived connection so
// the caller's pool is untouched.
func RunMigrations(databaseType, dsn string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, MigrateURL(databaseType, dsn))
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// MigrateURL converts a driver DSN into the scheme-prefixed URL
// golang-migrate uses to pick its database driver. Postgres URLs pass
// through; sqlite DSNs ("file:path?opts" or a bare path) become
// "sqlite://path?opts".
func MigrateURL(databaseType, dsn string) string {
	if databaseType != "sqlite" {
		return dsn
	}
	return "sqlite://" + strings.TrimPrefix(dsn, "file:")
}
