// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags, environment
variables, and an optional .env file (loaded via godotenv).

Precedence: CLI flag > environment variable > default.

Settings:

  - PORT (-p): server port (default 4017)
  - DATABASE_URL (-d): connection string; defaults to a local sqlite
    file when the type is sqlite, required for postgres
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - MEMBER_DIRECTORY_URL (-directory-url): member service base URL;
    when empty the server runs with an open dev directory
  - ADMIN_KEY_SALT (-admin-salt): secret for admin key HMAC, required
*/
package cliparse
