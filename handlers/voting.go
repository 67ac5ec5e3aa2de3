// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/assembleia/vote-server/cliparse"
	"github.com/assembleia/vote-server/middleware"
	"github.com/assembleia/vote-server/models"
	"github.com/assembleia/vote-server/voting"
)

type VotingHandler struct {
	engine  *voting.Engine
	cfg     cliparse.Config
	limiter *middleware.RateLimiter
}

func NewVotingHandler(engine *voting.Engine, cfg cliparse.Config, limiter *middleware.RateLimiter) *VotingHandler {
	return &VotingHandler{engine: engine, cfg: cfg, limiter: limiter}
}

// Cast handles POST /sessions/{id}/ballots
func (h *VotingHandler) Cast(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	memberID := r.Header.Get("X-Member-ID")
	if memberID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Member-ID header is required")
		return
	}

	if h.limiter != nil && !h.limiter.Allow(memberID) {
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "Too many ballot attempts, slow down")
		return
	}

	var req models.CastRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := h.engine.Cast(r.Context(), sessionID, memberID, req.CandidateID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastResponse{
		Accepted: result.Accepted,
		CastAt:   result.Ballot.CastAt,
	})
}

// GetMyBallot handles GET /sessions/{id}/my-ballot
func (h *VotingHandler) GetMyBallot(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	memberID := r.Header.Get("X-Member-ID")
	if memberID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Member-ID header is required")
		return
	}

	ballot, err := h.engine.MyBallot(r.Context(), sessionID, memberID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ballot)
}
