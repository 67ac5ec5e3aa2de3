// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/assembleia/vote-server/auth"
	"github.com/assembleia/vote-server/cliparse"
	"github.com/assembleia/vote-server/middleware"
	"github.com/assembleia/vote-server/models"
	"github.com/assembleia/vote-server/voting"
)

type ResultsHandler struct {
	engine *voting.Engine
	cfg    cliparse.Config
}

func NewResultsHandler(engine *voting.Engine, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{engine: engine, cfg: cfg}
}

// ListSessions handles GET /sessions
func (h *ResultsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.engine.ListSessions(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sessions)
}

// GetSession handles GET /sessions/{id}
func (h *ResultsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	session, candidates, err := h.engine.GetSession(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := models.SessionWithCandidates{
		Session:    *session,
		Candidates: candidates,
	}
	if session.Status == models.StatusScheduled && session.ScheduledAt.After(time.Now()) {
		resp.ScheduledRelative = humanize.Time(session.ScheduledAt)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetResults handles GET /sessions/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	session, tallies, err := h.engine.Results(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		SessionID:    session.ID,
		Status:       session.Status,
		TotalBallots: voting.TotalBallots(session, tallies),
		Results:      tallies,
	})
}

// AuditTallies handles GET /sessions/{id}/audit
func (h *ResultsHandler) AuditTallies(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(sessionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	audit, err := h.engine.VerifyTallies(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, audit)
}
