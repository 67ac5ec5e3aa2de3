// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP plumbing shared by all handlers.

# Helpers

  - JSONResponse / ErrorResponse: JSON envelope writing
  - ParseJSONBody: request body decoding
  - CORS: cross-origin support for the portal frontend
  - WithLogging: structured request logging via slog
  - WithMetrics: response status recording

# Rate Limiting

RateLimiter keeps a token bucket per member ID, used on the cast
endpoint. Entries idle longer than MaxIdle are dropped by a background
cleanup loop; call Stop on shutdown.
*/
package middleware
