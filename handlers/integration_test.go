// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/assembleia/vote-server/directory"
	"github.com/assembleia/vote-server/models"
	"github.com/assembleia/vote-server/testutil"
	"github.com/assembleia/vote-server/voting"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. Create session
// 2. Add candidates
// 3. Open session
// 4. Members cast ballots
// 5. A duplicate cast is rejected
// 6. Close session
// 7. Verify frozen results and the tally audit
func TestFullVotingWorkflow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	engine := voting.NewEngine(conn, directory.NewOpenDirectory(), nil)

	sessionHandler := NewSessionHandler(engine, cfg)
	votingHandler := NewVotingHandler(engine, cfg, nil)
	resultsHandler := NewResultsHandler(engine, cfg)

	// Step 1: Create a session
	createReq := models.CreateSessionRequest{
		Title:       "Annual General Assembly",
		Kind:        "ordinary",
		ScheduledAt: time.Now().Add(time.Hour),
		Location:    "Main Hall",
	}
	body, _ := json.Marshal(createReq)
	req := httptest.NewRequest("POST", "/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	sessionHandler.CreateSession(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create session failed: %d - %s", w.Code, w.Body.String())
	}

	var createResp models.CreateSessionResponse
	json.NewDecoder(w.Body).Decode(&createResp)
	sessionID := createResp.SessionID
	adminKey := createResp.AdminKey

	if sessionID == "" || adminKey == "" {
		t.Fatal("Step 1 - Missing session_id or admin_key")
	}
	t.Logf("Step 1 - Created session: %s", sessionID)

	// Step 2: Add 3 candidates
	candidates := []string{"Alice", "Bob", "Carol"}
	candidateIDs := make([]string, 0, len(candidates))

	for _, name := range candidates {
		candidateReq := models.AddCandidateRequest{Name: name, Role: "director"}
		body, _ := json.Marshal(candidateReq)
		req := httptest.NewRequest("POST", "/sessions/"+sessionID+"/candidates", bytes.NewReader(body))
		req.SetPathValue("id", sessionID)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Admin-Key", adminKey)
		w := httptest.NewRecorder()
		sessionHandler.AddCandidate(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Add candidate '%s' failed: %d - %s", name, w.Code, w.Body.String())
		}

		var candidateResp models.AddCandidateResponse
		json.NewDecoder(w.Body).Decode(&candidateResp)
		candidateIDs = append(candidateIDs, candidateResp.CandidateID)
	}
	t.Logf("Step 2 - Added %d candidates", len(candidateIDs))

	// Step 3: Open the session
	req = httptest.NewRequest("POST", "/sessions/"+sessionID+"/open", nil)
	req.SetPathValue("id", sessionID)
	req.Header.Set("X-Admin-Key", adminKey)
	w = httptest.NewRecorder()
	sessionHandler.OpenSession(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Open session failed: %d - %s", w.Code, w.Body.String())
	}
	t.Log("Step 3 - Session opened")

	// Step 4: Five members cast ballots (3 Alice, 1 Bob, 1 Carol)
	votes := map[string]string{
		"member-1": candidateIDs[0],
		"member-2": candidateIDs[0],
		"member-3": candidateIDs[0],
		"member-4": candidateIDs[1],
		"member-5": candidateIDs[2],
	}
	for memberID, candidateID := range votes {
		w := httptest.NewRecorder()
		votingHandler.Cast(w, castRequest(sessionID, memberID, candidateID))
		if w.Code != http.StatusCreated {
			t.Fatalf("Step 4 - Cast by %s failed: %d - %s", memberID, w.Code, w.Body.String())
		}
	}
	t.Logf("Step 4 - Cast %d ballots", len(votes))

	// Step 5: A second ballot from member-1 is rejected
	w = httptest.NewRecorder()
	votingHandler.Cast(w, castRequest(sessionID, "member-1", candidateIDs[1]))
	if w.Code != http.StatusConflict {
		t.Fatalf("Step 5 - Expected duplicate cast to conflict, got %d - %s", w.Code, w.Body.String())
	}
	t.Log("Step 5 - Duplicate cast rejected")

	// Step 6: Close the session
	req = httptest.NewRequest("POST", "/sessions/"+sessionID+"/close", nil)
	req.SetPathValue("id", sessionID)
	req.Header.Set("X-Admin-Key", adminKey)
	w = httptest.NewRecorder()
	sessionHandler.CloseSession(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Close session failed: %d - %s", w.Code, w.Body.String())
	}

	var closeResp models.CloseSessionResponse
	json.NewDecoder(w.Body).Decode(&closeResp)
	if closeResp.TotalBallots != 5 {
		t.Errorf("Step 6 - Expected total_ballots 5, got %d", closeResp.TotalBallots)
	}
	t.Logf("Step 6 - Session closed with %d ballots", closeResp.TotalBallots)

	// Step 7a: Casting after close is rejected and changes nothing
	w = httptest.NewRecorder()
	votingHandler.Cast(w, castRequest(sessionID, "member-6", candidateIDs[0]))
	if w.Code != http.StatusConflict {
		t.Fatalf("Step 7 - Expected cast after close to conflict, got %d", w.Code)
	}

	// Step 7b: Results are frozen
	req = httptest.NewRequest("GET", "/sessions/"+sessionID+"/results", nil)
	req.SetPathValue("id", sessionID)
	w = httptest.NewRecorder()
	resultsHandler.GetResults(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Get results failed: %d - %s", w.Code, w.Body.String())
	}

	var results models.ResultsResponse
	json.NewDecoder(w.Body).Decode(&results)
	if results.TotalBallots != 5 {
		t.Errorf("Step 7 - Expected total_ballots 5, got %d", results.TotalBallots)
	}
	if results.Results[0].Name != "Alice" || results.Results[0].VoteCount != 3 {
		t.Errorf("Step 7 - Expected Alice leading with 3 votes, got %s with %d",
			results.Results[0].Name, results.Results[0].VoteCount)
	}

	// Step 7c: The tally audit is consistent
	req = httptest.NewRequest("GET", "/sessions/"+sessionID+"/audit", nil)
	req.SetPathValue("id", sessionID)
	req.Header.Set("X-Admin-Key", adminKey)
	w = httptest.NewRecorder()
	resultsHandler.AuditTallies(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Audit failed: %d - %s", w.Code, w.Body.String())
	}

	var audit models.TallyAudit
	json.NewDecoder(w.Body).Decode(&audit)
	if !audit.Consistent {
		t.Errorf("Step 7 - Expected consistent audit, got mismatches: %+v", audit.Mismatches)
	}
	t.Log("Step 7 - Results frozen and audit consistent")
}

// TestCancelledSessionWorkflow verifies that a cancelled session never
// accepts ballots and stays cancelled.
func TestCancelledSessionWorkflow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	engine := voting.NewEngine(conn, directory.NewOpenDirectory(), nil)

	sessionHandler := NewSessionHandler(engine, cfg)
	votingHandler := NewVotingHandler(engine, cfg, nil)

	sessionID, adminKey := testutil.CreateTestSession(t, conn, cfg, models.StatusScheduled)
	candidateID := testutil.AddTestCandidate(t, conn, sessionID, "Alice")

	req := httptest.NewRequest("POST", "/sessions/"+sessionID+"/cancel", nil)
	req.SetPathValue("id", sessionID)
	req.Header.Set("X-Admin-Key", adminKey)
	w := httptest.NewRecorder()
	sessionHandler.CancelSession(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	// No ballots against a cancelled session.
	w = httptest.NewRecorder()
	votingHandler.Cast(w, castRequest(sessionID, "member-1", candidateID))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Cancelled is terminal; it cannot be opened.
	req = httptest.NewRequest("POST", "/sessions/"+sessionID+"/open", nil)
	req.SetPathValue("id", sessionID)
	req.Header.Set("X-Admin-Key", adminKey)
	w = httptest.NewRecorder()
	sessionHandler.OpenSession(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)
}
