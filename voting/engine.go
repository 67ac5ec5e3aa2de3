// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"time"

	"github.com/assembleia/vote-server/directory"
	"github.com/assembleia/vote-server/models"
)

// Recorder receives engine events for metrics. Implementations must be
// safe for concurrent use.
type Recorder interface {
	RecordCastAccepted()
	RecordCastRejected(reason string)
	ObserveCastLatency(d time.Duration)
	RecordSessionTransition(to string)
	RecordTallyDivergence()
}

type nopRecorder struct{}

func (nopRecorder) RecordCastAccepted()              {}
func (nopRecorder) RecordCastRejected(string)        {}
func (nopRecorder) ObserveCastLatency(time.Duration) {}
func (nopRecorder) RecordSessionTransition(string)   {}
func (nopRecorder) RecordTallyDivergence()           {}

// Engine orchestrates the vote session lifecycle and the cast path.
// Correctness under concurrent and replicated callers comes from the
// data layer (conditional writes against constraints), never from
// in-process locking, so any number of Engine instances may share one
// database.
type Engine struct {
	db  *sql.DB
	dir directory.Directory
	rec Recorder
	now func() time.Time
}

// NewEngine creates an engine over the given database and member
// directory. rec may be nil.
func NewEngine(db *sql.DB, dir directory.Directory, rec Recorder) *Engine {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Engine{db: db, dir: dir, rec: rec, now: time.Now}
}

const sessionColumns = `id, title, kind, scheduled_at, location, description, status,
	       total_ballots, opened_at, closed_at, cancelled_at, created_at`

// rowQuerier is satisfied by both *sql.DB and *sql.Tx so session reads
// work inside and outside transactions.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (e *Engine) getSession(ctx context.Context, q rowQuerier, sessionID string) (*models.VoteSession, error) {
	var s models.VoteSession
	err := q.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM vote_session
		WHERE id = $1
	`, sessionID).Scan(
		&s.ID, &s.Title, &s.Kind, &s.ScheduledAt, &s.Location, &s.Description,
		&s.Status, &s.TotalBallots, &s.OpenedAt, &s.ClosedAt, &s.CancelledAt, &s.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, NotFound("session")
	}
	if err != nil {
		return nil, StorageUnavailable(err)
	}

	return &s, nil
}

// GetSession returns a session and its candidate set.
func (e *Engine) GetSession(ctx context.Context, sessionID string) (*models.VoteSession, []models.Candidate, error) {
	s, err := e.getSession(ctx, e.db, sessionID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := e.db.QueryContext(ctx, `
		SELECT id, session_id, name, role, vote_count
		FROM candidate
		WHERE session_id = $1
		ORDER BY name, id
	`, sessionID)
	if err != nil {
		return nil, nil, StorageUnavailable(err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Name, &c.Role, &c.VoteCount); err != nil {
			return nil, nil, StorageUnavailable(err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, StorageUnavailable(err)
	}

	return s, candidates, nil
}

// ListSessions returns all sessions, most recently created first.
func (e *Engine) ListSessions(ctx context.Context) ([]models.VoteSession, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM vote_session
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	defer rows.Close()

	sessions := []models.VoteSession{}
	for rows.Next() {
		var s models.VoteSession
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Kind, &s.ScheduledAt, &s.Location, &s.Description,
			&s.Status, &s.TotalBallots, &s.OpenedAt, &s.ClosedAt, &s.CancelledAt, &s.CreatedAt,
		); err != nil {
			return nil, StorageUnavailable(err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, StorageUnavailable(err)
	}

	return sessions, nil
}
