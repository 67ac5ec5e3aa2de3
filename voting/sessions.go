// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/assembleia/vote-server/models"
)

// CreateSession creates a new session in the scheduled state.
func (e *Engine) CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.VoteSession, error) {
	if req.Title == "" {
		return nil, Validation("title is required")
	}
	kind := models.SessionKind(req.Kind)
	if !kind.Valid() {
		return nil, Validation("kind must be ordinary or extraordinary")
	}
	if req.ScheduledAt.IsZero() {
		return nil, Validation("scheduled_at is required")
	}

	s := models.VoteSession{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Kind:        kind,
		ScheduledAt: req.ScheduledAt,
		Location:    req.Location,
		Description: req.Description,
		Status:      models.StatusScheduled,
		CreatedAt:   e.now(),
	}

	_, err := e.db.ExecContext(ctx, `
		INSERT INTO vote_session (id, title, kind, scheduled_at, location, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.Title, s.Kind, s.ScheduledAt, s.Location, s.Description, s.Status, s.CreatedAt)
	if err != nil {
		return nil, StorageUnavailable(err)
	}

	slog.Info("session created", "session_id", s.ID, "kind", s.Kind, "title", s.Title)

	return &s, nil
}

// UpdateSession changes descriptive fields. Legal only while the
// session is still scheduled; everything about an open or finished
// session is frozen.
func (e *Engine) UpdateSession(ctx context.Context, sessionID string, req models.UpdateSessionRequest) (*models.VoteSession, error) {
	s, err := e.getSession(ctx, e.db, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Status != models.StatusScheduled {
		return nil, InvalidState("session details can only change while scheduled (status: " + string(s.Status) + ")")
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, Validation("title cannot be empty")
		}
		s.Title = *req.Title
	}
	if req.ScheduledAt != nil {
		if req.ScheduledAt.IsZero() {
			return nil, Validation("scheduled_at cannot be zero")
		}
		s.ScheduledAt = *req.ScheduledAt
	}
	if req.Location != nil {
		s.Location = *req.Location
	}
	if req.Description != nil {
		s.Description = *req.Description
	}

	// The status guard repeats in the WHERE clause so a concurrent
	// open cannot slip a late edit through.
	res, err := e.db.ExecContext(ctx, `
		UPDATE vote_session
		SET title = $1, scheduled_at = $2, location = $3, description = $4
		WHERE id = $5 AND status = 'scheduled'
	`, s.Title, s.ScheduledAt, s.Location, s.Description, sessionID)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, InvalidState("session is no longer scheduled")
	}

	return s, nil
}

// AddCandidate adds a candidate to a scheduled session. The candidate
// set freezes the moment the session opens.
func (e *Engine) AddCandidate(ctx context.Context, sessionID, name, role string) (*models.Candidate, error) {
	if name == "" {
		return nil, Validation("name is required")
	}

	s, err := e.getSession(ctx, e.db, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Status != models.StatusScheduled {
		return nil, InvalidState("candidates can only be added while the session is scheduled (status: " + string(s.Status) + ")")
	}

	c := models.Candidate{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Name:      name,
		Role:      role,
	}

	// Conditional insert: if the session opened between the read above
	// and this write, zero rows land.
	res, err := e.db.ExecContext(ctx, `
		INSERT INTO candidate (id, session_id, name, role, vote_count)
		SELECT $1, $2, $3, $4, 0
		WHERE EXISTS (SELECT 1 FROM vote_session WHERE id = $5 AND status = 'scheduled')
	`, c.ID, c.SessionID, c.Name, c.Role, sessionID)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, InvalidState("session is no longer scheduled")
	}

	slog.Info("candidate added", "session_id", sessionID, "candidate_id", c.ID, "name", name)

	return &c, nil
}

// OpenSession transitions scheduled -> open. A second call fails with
// InvalidState rather than silently succeeding, so racing
// administrators notice each other.
func (e *Engine) OpenSession(ctx context.Context, sessionID string) (*models.VoteSession, error) {
	s, err := e.getSession(ctx, e.db, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.Status.CanTransitionTo(models.StatusOpen) {
		return nil, InvalidState("cannot open a session in status " + string(s.Status))
	}

	var candidates int64
	err = e.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM candidate WHERE session_id = $1
	`, sessionID).Scan(&candidates)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	if candidates == 0 {
		return nil, Validation("cannot open a session with no candidates")
	}

	openedAt := e.now()
	res, err := e.db.ExecContext(ctx, `
		UPDATE vote_session
		SET status = 'open', opened_at = $1
		WHERE id = $2 AND status = 'scheduled'
	`, openedAt, sessionID)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Lost a race against a competing transition.
		return nil, InvalidState("session was transitioned concurrently")
	}

	e.rec.RecordSessionTransition(string(models.StatusOpen))
	slog.Info("session opened", "session_id", sessionID, "candidates", candidates)

	s.Status = models.StatusOpen
	s.OpenedAt = &openedAt
	return s, nil
}

// CloseSession transitions open -> closed and freezes total_ballots as
// the sum of candidate tallies at that instant. The frozen value is a
// reporting snapshot; the candidate counters stay authoritative.
func (e *Engine) CloseSession(ctx context.Context, sessionID string) (*models.VoteSession, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	defer tx.Rollback()

	closedAt := e.now()
	res, err := tx.ExecContext(ctx, `
		UPDATE vote_session
		SET status = 'closed', closed_at = $1
		WHERE id = $2 AND status = 'open'
	`, closedAt, sessionID)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s, err := e.getSession(ctx, tx, sessionID)
		if err != nil {
			return nil, err
		}
		return nil, InvalidState("cannot close a session in status " + string(s.Status))
	}

	var total int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(vote_count), 0) FROM candidate WHERE session_id = $1
	`, sessionID).Scan(&total)
	if err != nil {
		return nil, StorageUnavailable(err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE vote_session SET total_ballots = $1 WHERE id = $2
	`, total, sessionID)
	if err != nil {
		return nil, StorageUnavailable(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, StorageUnavailable(err)
	}

	e.rec.RecordSessionTransition(string(models.StatusClosed))
	slog.Info("session closed", "session_id", sessionID, "total_ballots", total)

	return e.getSession(ctx, e.db, sessionID)
}

// CancelSession transitions scheduled -> cancelled. An open session
// cannot be cancelled; it must be closed.
func (e *Engine) CancelSession(ctx context.Context, sessionID string) error {
	cancelledAt := e.now()
	res, err := e.db.ExecContext(ctx, `
		UPDATE vote_session
		SET status = 'cancelled', cancelled_at = $1
		WHERE id = $2 AND status = 'scheduled'
	`, cancelledAt, sessionID)
	if err != nil {
		return StorageUnavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s, err := e.getSession(ctx, e.db, sessionID)
		if err != nil {
			return err
		}
		return InvalidState("cannot cancel a session in status " + string(s.Status))
	}

	e.rec.RecordSessionTransition(string(models.StatusCancelled))
	slog.Info("session cancelled", "session_id", sessionID)

	return nil
}
