// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - VoteSession: one scheduled assembly vote with lifecycle state
  - Candidate: a votable candidate with its running tally
  - Ballot: a member's immutable choice for one session
  - CandidateTally: one row of a results read
  - TallyAudit: reconciliation report of counters vs. ballot rows

# Session Lifecycle

Sessions progress scheduled -> open -> closed, with a side branch
scheduled -> cancelled. The transition table lives here so every
component asks the same question the same way:

	if !session.Status.CanTransitionTo(models.StatusOpen) { ... }

StatusClosed and StatusCancelled are terminal.

# Constants

Status values:

	StatusScheduled = "scheduled"
	StatusOpen      = "open"
	StatusClosed    = "closed"
	StatusCancelled = "cancelled"

Session kinds:

	KindOrdinary      = "ordinary"
	KindExtraordinary = "extraordinary"
*/
package models
