// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/assembleia/vote-server/directory"
	"github.com/assembleia/vote-server/middleware"
	"github.com/assembleia/vote-server/models"
	"github.com/assembleia/vote-server/testutil"
	"github.com/assembleia/vote-server/voting"

	"golang.org/x/time/rate"
)

func newTestVotingHandler(t *testing.T, dir directory.Directory) (*VotingHandler, *sql.DB) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	engine := voting.NewEngine(conn, dir, nil)
	return NewVotingHandler(engine, cfg, nil), conn
}

func castRequest(sessionID, memberID, candidateID string) *http.Request {
	body, _ := json.Marshal(models.CastRequest{CandidateID: candidateID})
	req := httptest.NewRequest("POST", "/sessions/"+sessionID+"/ballots", bytes.NewReader(body))
	req.SetPathValue("id", sessionID)
	req.Header.Set("Content-Type", "application/json")
	if memberID != "" {
		req.Header.Set("X-Member-ID", memberID)
	}
	return req
}

func TestCastBallot(t *testing.T) {
	handler, conn := newTestVotingHandler(t, directory.NewOpenDirectory())
	cfg := testutil.GetTestConfig()

	sessionID, _ := testutil.CreateTestSession(t, conn, cfg, models.StatusOpen)
	candidateID := testutil.AddTestCandidate(t, conn, sessionID, "Alice")

	w := httptest.NewRecorder()
	handler.Cast(w, castRequest(sessionID, "member-1", candidateID))

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CastResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Accepted {
		t.Error("Expected accepted ballot")
	}
	if resp.CastAt.IsZero() {
		t.Error("Expected cast_at to be set")
	}

	var count int64
	if err := conn.QueryRow("SELECT vote_count FROM candidate WHERE id = $1", candidateID).Scan(&count); err != nil {
		t.Fatalf("Failed to query candidate: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected vote_count 1, got %d", count)
	}
}

func TestCastBallotRejections(t *testing.T) {
	handler, conn := newTestVotingHandler(t, directory.NewOpenDirectory())
	cfg := testutil.GetTestConfig()

	openID, _ := testutil.CreateTestSession(t, conn, cfg, models.StatusOpen)
	candidateID := testutil.AddTestCandidate(t, conn, openID, "Alice")

	scheduledID, _ := testutil.CreateTestSession(t, conn, cfg, models.StatusScheduled)
	scheduledCandidate := testutil.AddTestCandidate(t, conn, scheduledID, "Bob")

	// Seed a first ballot so the duplicate case fires.
	w := httptest.NewRecorder()
	handler.Cast(w, castRequest(openID, "repeat-member", candidateID))
	testutil.AssertStatus(t, w, http.StatusCreated)

	tests := []struct {
		name           string
		sessionID      string
		memberID       string
		candidateID    string
		expectedStatus int
	}{
		{"duplicate ballot", openID, "repeat-member", candidateID, http.StatusConflict},
		{"session not open", scheduledID, "member-1", scheduledCandidate, http.StatusConflict},
		{"missing member header", openID, "", candidateID, http.StatusUnauthorized},
		{"unknown session", "nonexistent", "member-1", candidateID, http.StatusNotFound},
		{"unknown candidate", openID, "member-2", "nonexistent", http.StatusNotFound},
		{"candidate from another session", openID, "member-3", scheduledCandidate, http.StatusNotFound},
		{"missing candidate id", openID, "member-4", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Cast(w, castRequest(tt.sessionID, tt.memberID, tt.candidateID))
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestCastBallotIneligibleMember(t *testing.T) {
	dir := directory.NewStaticDirectory()
	dir.SetActive("active-member", true)
	dir.SetActive("suspended-member", false)

	handler, conn := newTestVotingHandler(t, dir)
	cfg := testutil.GetTestConfig()

	sessionID, _ := testutil.CreateTestSession(t, conn, cfg, models.StatusOpen)
	candidateID := testutil.AddTestCandidate(t, conn, sessionID, "Alice")

	w := httptest.NewRecorder()
	handler.Cast(w, castRequest(sessionID, "suspended-member", candidateID))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = httptest.NewRecorder()
	handler.Cast(w, castRequest(sessionID, "active-member", candidateID))
	testutil.AssertStatus(t, w, http.StatusCreated)
}

func TestCastBallotRateLimited(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	engine := voting.NewEngine(conn, directory.NewOpenDirectory(), nil)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:            rate.Every(time.Hour),
		Burst:           1,
		CleanupInterval: time.Hour,
		MaxIdle:         time.Hour,
	})
	defer limiter.Stop()

	handler := NewVotingHandler(engine, cfg, limiter)

	sessionID, _ := testutil.CreateTestSession(t, conn, cfg, models.StatusOpen)
	candidateID := testutil.AddTestCandidate(t, conn, sessionID, "Alice")

	w := httptest.NewRecorder()
	handler.Cast(w, castRequest(sessionID, "member-1", candidateID))
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Burst exhausted; the second attempt is throttled before it
	// reaches the engine.
	w = httptest.NewRecorder()
	handler.Cast(w, castRequest(sessionID, "member-1", candidateID))
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)

	// Other members are unaffected.
	w = httptest.NewRecorder()
	handler.Cast(w, castRequest(sessionID, "member-2", candidateID))
	testutil.AssertStatus(t, w, http.StatusCreated)
}

func TestGetMyBallot(t *testing.T) {
	handler, conn := newTestVotingHandler(t, directory.NewOpenDirectory())
	cfg := testutil.GetTestConfig()

	sessionID, _ := testutil.CreateTestSession(t, conn, cfg, models.StatusOpen)
	candidateID := testutil.AddTestCandidate(t, conn, sessionID, "Alice")
	testutil.CastTestBallot(t, conn, sessionID, "member-1", candidateID)

	req := httptest.NewRequest("GET", "/sessions/"+sessionID+"/my-ballot", nil)
	req.SetPathValue("id", sessionID)
	req.Header.Set("X-Member-ID", "member-1")
	w := httptest.NewRecorder()

	handler.GetMyBallot(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var ballot models.Ballot
	testutil.AssertJSON(t, w, &ballot)
	if ballot.CandidateID != candidateID {
		t.Errorf("Expected candidate_id '%s', got '%s'", candidateID, ballot.CandidateID)
	}

	// A member without a ballot gets 404.
	req = httptest.NewRequest("GET", "/sessions/"+sessionID+"/my-ballot", nil)
	req.SetPathValue("id", sessionID)
	req.Header.Set("X-Member-ID", "member-2")
	w = httptest.NewRecorder()

	handler.GetMyBallot(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}
