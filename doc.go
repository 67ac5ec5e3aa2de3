// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Assembleia vote server.

The server runs elections for residential assemblies: an admin schedules
a vote session, registers candidates, opens it, members each cast one
ballot, and the admin closes it to freeze the results.

# Starting the Server

The server runs against SQLite by default and needs only an admin salt:

	ADMIN_KEY_SALT=... go run main.go

Or against PostgreSQL:

	go run main.go -t postgres -d "postgres://..." -admin-salt "..."

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - DATABASE_URL (-d): Connection string (required for postgres)

Optional settings:

  - PORT (-p): Server port (default: 4017)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - MEMBER_DIRECTORY_URL (-directory-url): Eligibility service; when
    unset, every member is treated as active

# Architecture

The server uses a handler-based architecture with dependency injection:

  - voting: Session lifecycle, ballot casting, tallies
  - directory: Member eligibility lookups
  - handlers: HTTP request handlers (sessions, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: Admin key generation and validation
  - db: Connection setup and embedded migrations
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
