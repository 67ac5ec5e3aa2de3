// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database connection and manages schema migrations.

Two drivers are supported behind the same SQL surface:

  - postgres (github.com/lib/pq) for production
  - sqlite (modernc.org/sqlite, pure Go) for development and tests

All application SQL is written in the dialect both engines share: $N
placeholders (each used once, in ascending order), explicitly bound
timestamps, and INSERT ... ON CONFLICT.

Migrations are plain SQL files embedded from db/migrations and applied
with golang-migrate:

	if err := db.RunMigrations(cfg.DatabaseType, cfg.DatabaseURL); err != nil { ... }
*/
package db
