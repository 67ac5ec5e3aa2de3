// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// MemberStatus is the point-in-time standing of a member. Eligibility
// is evaluated at cast time, never cached by the engine.
type MemberStatus struct {
	MemberID string `json:"member_id"`
	Active   bool   `json:"active"`
}

// Directory resolves a member identifier to its standing. The voting
// engine treats it as a read-only oracle and never writes to it.
type Directory interface {
	Status(ctx context.Context, memberID string) (MemberStatus, error)
}

// HTTPDirectory queries the member service over HTTP:
// GET {base}/members/{id}/status -> {"member_id": ..., "active": bool}.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDirectory creates a directory client for the given base URL.
func NewHTTPDirectory(baseURL string) *HTTPDirectory {
	return &HTTPDirectory{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Status looks up the member's standing. An unknown member (404) is
// reported as inactive, not as an error: the engine rejects it as
// ineligible either way.
func (d *HTTPDirectory) Status(ctx context.Context, memberID string) (MemberStatus, error) {
	endpoint := d.baseURL + "/members/" + url.PathEscape(memberID) + "/status"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return MemberStatus{}, fmt.Errorf("failed to build directory request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return MemberStatus{}, fmt.Errorf("member directory unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return MemberStatus{MemberID: memberID, Active: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return MemberStatus{}, fmt.Errorf("member directory returned status %d", resp.StatusCode)
	}

	var status MemberStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return MemberStatus{}, fmt.Errorf("failed to decode directory response: %w", err)
	}
	if status.MemberID == "" {
		status.MemberID = memberID
	}

	return status, nil
}

// StaticDirectory is an in-memory directory for tests and for running
// without a member service (every listed member is active unless marked
// otherwise).
type StaticDirectory struct {
	mu        sync.RWMutex
	members   map[string]bool
	openWorld bool
}

// NewStaticDirectory creates an empty static directory.
func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{members: make(map[string]bool)}
}

// NewOpenDirectory creates a directory that reports every member as
// active. Used in dev mode when no member service is configured.
func NewOpenDirectory() *StaticDirectory {
	return &StaticDirectory{members: make(map[string]bool), openWorld: true}
}

// SetActive records a member's standing.
func (d *StaticDirectory) SetActive(memberID string, active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[memberID] = active
}

// Status reports the recorded standing; unknown members are inactive
// unless the directory is open-world.
func (d *StaticDirectory) Status(ctx context.Context, memberID string) (MemberStatus, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	active, known := d.members[memberID]
	if !known {
		active = d.openWorld
	}
	return MemberStatus{MemberID: memberID, Active: active}, nil
}
