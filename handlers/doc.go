// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers contains the HTTP handlers for the voting API.
//
// Handlers are grouped by audience: SessionHandler serves the admin
// lifecycle surface (create, update, open, close, cancel) gated by the
// X-Admin-Key header, VotingHandler serves member ballot casting gated
// by X-Member-ID, and ResultsHandler serves the public read surface.
// Each handler holds its dependencies (engine, config) as struct fields
// and translates engine errors to HTTP statuses via writeEngineError.
package handlers
