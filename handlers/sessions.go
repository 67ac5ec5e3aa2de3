// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/assembleia/vote-server/auth"
	"github.com/assembleia/vote-server/cliparse"
	"github.com/assembleia/vote-server/middleware"
	"github.com/assembleia/vote-server/models"
	"github.com/assembleia/vote-server/voting"
)

type SessionHandler struct {
	engine *voting.Engine
	cfg    cliparse.Config
}

func NewSessionHandler(engine *voting.Engine, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{engine: engine, cfg: cfg}
}

// requireAdminKey validates the X-Admin-Key capability for lifecycle
// operations. Returns false after writing the response.
func (h *SessionHandler) requireAdminKey(w http.ResponseWriter, r *http.Request, sessionID string) bool {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(sessionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	session, err := h.engine.CreateSession(r.Context(), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	adminKey := auth.GenerateAdminKey(session.ID, h.cfg.AdminKeySalt)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: session.ID,
		AdminKey:  adminKey,
	})
}

// UpdateSession handles PATCH /sessions/{id}
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}
	if !h.requireAdminKey(w, r, sessionID) {
		return
	}

	var req models.UpdateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	session, err := h.engine.UpdateSession(r.Context(), sessionID, req)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, session)
}

// AddCandidate handles POST /sessions/{id}/candidates
func (h *SessionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}
	if !h.requireAdminKey(w, r, sessionID) {
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	candidate, err := h.engine.AddCandidate(r.Context(), sessionID, req.Name, req.Role)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{
		CandidateID: candidate.ID,
	})
}

// OpenSession handles POST /sessions/{id}/open
func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}
	if !h.requireAdminKey(w, r, sessionID) {
		return
	}

	session, err := h.engine.OpenSession(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, session)
}

// CloseSession handles POST /sessions/{id}/close
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}
	if !h.requireAdminKey(w, r, sessionID) {
		return
	}

	session, err := h.engine.CloseSession(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	_, tallies, err := h.engine.Results(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	total := voting.TotalBallots(session, tallies)
	slog.Info("session closed by admin",
		"session_id", sessionID,
		"total_ballots", humanize.Comma(total),
	)

	middleware.JSONResponse(w, http.StatusOK, models.CloseSessionResponse{
		ClosedAt:     *session.ClosedAt,
		TotalBallots: total,
		Results:      tallies,
	})
}

// CancelSession handles POST /sessions/{id}/cancel
func (h *SessionHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}
	if !h.requireAdminKey(w, r, sessionID) {
		return
	}

	if err := h.engine.CancelSession(r.Context(), sessionID); err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": string(models.StatusCancelled)})
}
