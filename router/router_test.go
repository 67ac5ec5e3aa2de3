// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/assembleia/vote-server/directory"
	"github.com/assembleia/vote-server/metrics"
	"github.com/assembleia/vote-server/testutil"
	"github.com/assembleia/vote-server/voting"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	engine := voting.NewEngine(conn, directory.NewOpenDirectory(), nil)
	return NewRouter(engine, cfg, metrics.NewCollector())
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "assembleia vote API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "vote_ballots_accepted_total") {
		t.Error("Expected metrics output to include vote_ballots_accepted_total")
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)

	// Routes respond with something other than 404/405 for the
	// registered method, even when the request itself is bad.
	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/sessions"},
		{"GET", "/sessions"},
		{"PATCH", "/sessions/some-id"},
		{"GET", "/sessions/some-id"},
		{"POST", "/sessions/some-id/candidates"},
		{"POST", "/sessions/some-id/open"},
		{"POST", "/sessions/some-id/close"},
		{"POST", "/sessions/some-id/cancel"},
		{"POST", "/sessions/some-id/ballots"},
		{"GET", "/sessions/some-id/my-ballot"},
		{"GET", "/sessions/some-id/results"},
		{"GET", "/sessions/some-id/audit"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusNotFound && route.path == "/sessions" {
				t.Errorf("Route %s %s not registered", route.method, route.path)
			}
			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s rejected its own method", route.method, route.path)
			}
		})
	}
}
