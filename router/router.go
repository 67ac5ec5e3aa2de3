// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/assembleia/vote-server/cliparse"
	"github.com/assembleia/vote-server/handlers"
	"github.com/assembleia/vote-server/metrics"
	"github.com/assembleia/vote-server/middleware"
	"github.com/assembleia/vote-server/voting"
)

func NewRouter(engine *voting.Engine, cfg cliparse.Config, collector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(engine, cfg)
	votingHandler := handlers.NewVotingHandler(engine, cfg, limiter)
	resultsHandler := handlers.NewResultsHandler(engine, cfg)

	wrap := func(fn http.HandlerFunc) http.HandlerFunc {
		return middleware.WithMetrics(collector, middleware.WithLogging(fn))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", collector.Handler())

	// Session lifecycle (admin operations)
	mux.HandleFunc("POST /sessions", wrap(sessionHandler.CreateSession))
	mux.HandleFunc("PATCH /sessions/{id}", wrap(sessionHandler.UpdateSession))
	mux.HandleFunc("POST /sessions/{id}/candidates", wrap(sessionHandler.AddCandidate))
	mux.HandleFunc("POST /sessions/{id}/open", wrap(sessionHandler.OpenSession))
	mux.HandleFunc("POST /sessions/{id}/close", wrap(sessionHandler.CloseSession))
	mux.HandleFunc("POST /sessions/{id}/cancel", wrap(sessionHandler.CancelSession))

	// Ballot casting (members)
	mux.HandleFunc("POST /sessions/{id}/ballots", wrap(votingHandler.Cast))
	mux.HandleFunc("GET /sessions/{id}/my-ballot", wrap(votingHandler.GetMyBallot))

	// Reads (public, plus the admin-only audit)
	mux.HandleFunc("GET /sessions", wrap(resultsHandler.ListSessions))
	mux.HandleFunc("GET /sessions/{id}", wrap(resultsHandler.GetSession))
	mux.HandleFunc("GET /sessions/{id}/results", wrap(resultsHandler.GetResults))
	mux.HandleFunc("GET /sessions/{id}/audit", wrap(resultsHandler.AuditTallies))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("assembleia vote API v1"))
	})

	return mux
}
