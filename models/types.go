// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// SessionStatus is the lifecycle state of a vote session.
// All legality checks go through CanTransitionTo; handlers and the
// engine never compare ad-hoc strings.
type SessionStatus string

const (
	StatusScheduled SessionStatus = "scheduled"
	StatusOpen      SessionStatus = "open"
	StatusClosed    SessionStatus = "closed"
	StatusCancelled SessionStatus = "cancelled"
)

// transitions is the complete set of legal status moves:
// scheduled -> open -> closed, with a side branch scheduled -> cancelled.
var transitions = map[SessionStatus][]SessionStatus{
	StatusScheduled: {StatusOpen, StatusCancelled},
	StatusOpen:      {StatusClosed},
	StatusClosed:    {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s SessionStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Valid reports whether s is one of the four known statuses.
func (s SessionStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// SessionKind distinguishes ordinary from extraordinary assemblies.
type SessionKind string

const (
	KindOrdinary      SessionKind = "ordinary"
	KindExtraordinary SessionKind = "extraordinary"
)

// Valid reports whether k is a known session kind.
func (k SessionKind) Valid() bool {
	return k == KindOrdinary || k == KindExtraordinary
}

// Request types

type CreateSessionRequest struct {
	Title       string    `json:"title"`
	Kind        string    `json:"kind"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

type UpdateSessionRequest struct {
	Title       *string    `json:"title,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Description *string    `json:"description,omitempty"`
}

type AddCandidateRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type CastRequest struct {
	CandidateID string `json:"candidate_id"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	AdminKey  string `json:"admin_key"`
}

type AddCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
}

type CastResponse struct {
	Accepted bool      `json:"accepted"`
	CastAt   time.Time `json:"cast_at"`
}

type CloseSessionResponse struct {
	ClosedAt     time.Time        `json:"closed_at"`
	TotalBallots int64            `json:"total_ballots"`
	Results      []CandidateTally `json:"results"`
}

type ResultsResponse struct {
	SessionID    string           `json:"session_id"`
	Status       SessionStatus    `json:"status"`
	TotalBallots int64            `json:"total_ballots"`
	Results      []CandidateTally `json:"results"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Domain types

type VoteSession struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Kind         SessionKind   `json:"kind"`
	ScheduledAt  time.Time     `json:"scheduled_at"`
	Location     string        `json:"location"`
	Description  string        `json:"description"`
	Status       SessionStatus `json:"status"`
	TotalBallots *int64        `json:"total_ballots,omitempty"` // frozen at close
	OpenedAt     *time.Time    `json:"opened_at,omitempty"`
	ClosedAt     *time.Time    `json:"closed_at,omitempty"`
	CancelledAt  *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

type Candidate struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	VoteCount int64  `json:"vote_count"`
}

type Ballot struct {
	SessionID   string    `json:"session_id"`
	MemberID    string    `json:"-"` // Never expose in JSON
	CandidateID string    `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
}

type SessionWithCandidates struct {
	Session           VoteSession `json:"session"`
	Candidates        []Candidate `json:"candidates"`
	ScheduledRelative string      `json:"scheduled_relative,omitempty"`
}

// CandidateTally is one row of a results read.
type CandidateTally struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	VoteCount   int64  `json:"vote_count"`
}

// CastResult is the outcome of a successful cast.
type CastResult struct {
	Accepted bool
	Ballot   Ballot
}

// TallyAudit reports whether the incremental counters still match the
// ballot table. Mismatches is empty when Consistent is true.
type TallyAudit struct {
	SessionID    string          `json:"session_id"`
	Consistent   bool            `json:"consistent"`
	BallotCount  int64           `json:"ballot_count"`
	TalliedCount int64           `json:"tallied_count"`
	Mismatches   []TallyMismatch `json:"mismatches,omitempty"`
}

type TallyMismatch struct {
	CandidateID string `json:"candidate_id"`
	VoteCount   int64  `json:"vote_count"`
	BallotCount int64  `json:"ballot_count"`
}
