// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollectorExposition(t *testing.T) {
	c := NewCollector()

	c.RecordCastAccepted()
	c.RecordCastAccepted()
	c.RecordCastRejected("duplicate_vote")
	c.ObserveCastLatency(25 * time.Millisecond)
	c.RecordSessionTransition("open")
	c.RecordTallyDivergence()
	c.RecordHTTPStatus(201)
	c.RecordHTTPStatus(409)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"vote_ballots_accepted_total 2",
		`vote_ballots_rejected_total{reason="duplicate_vote"} 1`,
		`vote_session_transitions_total{to="open"} 1`,
		"vote_tally_divergence_total 1",
		`vote_http_status_total{status_code="201"} 1`,
		`vote_http_status_total{status_code="409"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestCollectorsAreIndependent(t *testing.T) {
	// Each collector owns its registry, so tests never collide on
	// duplicate registration.
	a := NewCollector()
	b := NewCollector()

	a.RecordCastAccepted()

	w := httptest.NewRecorder()
	b.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if strings.Contains(w.Body.String(), "vote_ballots_accepted_total 1") {
		t.Error("collectors should not share state")
	}
}
