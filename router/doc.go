// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Assembleia vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(engine, cfg, collector)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Session lifecycle (admin, requires X-Admin-Key):

	POST  /sessions                  - Create session
	PATCH /sessions/{id}             - Update details while scheduled
	POST  /sessions/{id}/candidates  - Add candidate
	POST  /sessions/{id}/open        - Open for voting
	POST  /sessions/{id}/close       - Close and freeze results
	POST  /sessions/{id}/cancel      - Cancel a scheduled session

Ballot casting (members, requires X-Member-ID):

	POST /sessions/{id}/ballots   - Cast a ballot
	GET  /sessions/{id}/my-ballot - Look up own ballot

Reads (public, audit requires X-Admin-Key):

	GET /sessions              - List sessions
	GET /sessions/{id}         - Session info and candidates
	GET /sessions/{id}/results - Current or frozen tallies
	GET /sessions/{id}/audit   - Counter vs. ballot-table audit

# Handler Initialization

The router creates handler instances with dependency injection:

	sessionHandler := handlers.NewSessionHandler(engine, cfg)
	votingHandler := handlers.NewVotingHandler(engine, cfg, limiter)
	resultsHandler := handlers.NewResultsHandler(engine, cfg)

Every route is wrapped with request logging and HTTP status metrics.
The ballot-casting route additionally passes through a per-member rate
limiter created here.
*/
package router
