// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/assembleia/vote-server/auth"
	"github.com/assembleia/vote-server/cliparse"
	"github.com/assembleia/vote-server/db"
	"github.com/assembleia/vote-server/models"
)

// SetupTestDB creates a fresh per-test sqlite database with the full
// migrated schema. No external services are needed to run the suite.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "vote_test.db") + "?_pragma=busy_timeout(10000)"

	if err := db.RunMigrations("sqlite", dsn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	conn, err := db.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         4017,
		DatabaseType: "sqlite",
		AdminKeySalt: "test-admin-salt",
	}
}

// CreateTestSession inserts a session in the given status and returns
// its ID and admin key. status should be "scheduled", "open", "closed",
// or "cancelled".
func CreateTestSession(t *testing.T, conn *sql.DB, cfg cliparse.Config, status models.SessionStatus) (sessionID, adminKey string) {
	t.Helper()

	sessionID = uuid.NewString()
	adminKey = auth.GenerateAdminKey(sessionID, cfg.AdminKeySalt)

	now := time.Now()
	var openedAt, closedAt, cancelledAt *time.Time
	switch status {
	case models.StatusOpen:
		openedAt = &now
	case models.StatusClosed:
		openedAt = &now
		closedAt = &now
	case models.StatusCancelled:
		cancelledAt = &now
	}

	_, err := conn.Exec(`
		INSERT INTO vote_session (id, title, kind, scheduled_at, location, description, status, opened_at, closed_at, cancelled_at, created_at)
		VALUES ($1, 'Test Assembly', 'ordinary', $2, 'HQ', 'A test session', $3, $4, $5, $6, $7)
	`, sessionID, now.Add(24*time.Hour), status, openedAt, closedAt, cancelledAt, now)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return sessionID, adminKey
}

// AddTestCandidate adds a candidate to a session and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, sessionID, name string) string {
	t.Helper()

	candidateID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO candidate (id, session_id, name, role, vote_count)
		VALUES ($1, $2, $3, 'director', 0)
	`, candidateID, sessionID, name)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// CastTestBallot records a ballot and its tally increment directly,
// bypassing the engine. Used to seed state for read-path tests.
func CastTestBallot(t *testing.T, conn *sql.DB, sessionID, memberID, candidateID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO ballot (session_id, member_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4)
	`, sessionID, memberID, candidateID, time.Now())
	if err != nil {
		t.Fatalf("Failed to insert test ballot: %v", err)
	}

	_, err = conn.Exec(`
		UPDATE candidate SET vote_count = vote_count + 1 WHERE id = $1
	`, candidateID)
	if err != nil {
		t.Fatalf("Failed to increment test tally: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
