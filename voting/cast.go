// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/assembleia/vote-server/models"
)

// Cast records one member's ballot for one candidate. Preconditions are
// checked in a fixed order with no side effects on failure; the ballot
// insert and the tally increment commit together or not at all.
func (e *Engine) Cast(ctx context.Context, sessionID, memberID, candidateID string) (*models.CastResult, error) {
	start := time.Now()
	result, err := e.cast(ctx, sessionID, memberID, candidateID)
	e.rec.ObserveCastLatency(time.Since(start))

	if err != nil {
		e.rec.RecordCastRejected(string(KindOf(err)))
		return nil, err
	}
	e.rec.RecordCastAccepted()
	return result, nil
}

func (e *Engine) cast(ctx context.Context, sessionID, memberID, candidateID string) (*models.CastResult, error) {
	if memberID == "" {
		return nil, Validation("member id is required")
	}
	if candidateID == "" {
		return nil, Validation("candidate_id is required")
	}

	// 1. Session exists.
	s, err := e.getSession(ctx, e.db, sessionID)
	if err != nil {
		return nil, err
	}

	// 2. Session is open.
	if s.Status != models.StatusOpen {
		return nil, VotingClosed(string(s.Status))
	}

	// 3. Candidate belongs to this session.
	var candidateExists bool
	err = e.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM candidate WHERE id = $1 AND session_id = $2)
	`, candidateID, sessionID).Scan(&candidateExists)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	if !candidateExists {
		return nil, NotFound("candidate")
	}

	// 4. Member is in active standing right now. Eligibility is a
	// cast-time fact; a previously eligible member who lapsed is out.
	status, err := e.dir.Status(ctx, memberID)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	if !status.Active {
		return nil, Ineligible(memberID)
	}

	// 5. The duplicate check IS the insert: a single conditional
	// statement against the (session_id, member_id) primary key, in the
	// same transaction as the tally increment. A separate
	// read-then-insert would leave a race window here.
	castAt := e.now()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO ballot (session_id, member_id, candidate_id, cast_at)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (SELECT 1 FROM vote_session WHERE id = $5 AND status = 'open')
		ON CONFLICT (session_id, member_id) DO NOTHING
	`, sessionID, memberID, candidateID, castAt, sessionID)
	if err != nil {
		return nil, StorageUnavailable(err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		// Either the member already voted or the session closed under
		// us. Distinguish by reading inside the transaction.
		var alreadyVoted bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM ballot WHERE session_id = $1 AND member_id = $2)
		`, sessionID, memberID).Scan(&alreadyVoted)
		if err != nil {
			return nil, StorageUnavailable(err)
		}
		if alreadyVoted {
			return nil, DuplicateVote()
		}

		current, err := e.getSession(ctx, tx, sessionID)
		if err != nil {
			return nil, err
		}
		return nil, VotingClosed(string(current.Status))
	}

	// Atomic add; never read-modify-write.
	inc, err := tx.ExecContext(ctx, `
		UPDATE candidate SET vote_count = vote_count + 1 WHERE id = $1
	`, candidateID)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	if n, _ := inc.RowsAffected(); n == 0 {
		return nil, NotFound("candidate")
	}

	if err := tx.Commit(); err != nil {
		return nil, StorageUnavailable(err)
	}

	slog.Info("ballot cast", "session_id", sessionID, "candidate_id", candidateID)

	return &models.CastResult{
		Accepted: true,
		Ballot: models.Ballot{
			SessionID:   sessionID,
			MemberID:    memberID,
			CandidateID: candidateID,
			CastAt:      castAt,
		},
	}, nil
}

// MyBallot returns the member's ballot for a session, or
// NotFound("ballot") when none was cast. Idempotent read used by
// clients to render "you already voted".
func (e *Engine) MyBallot(ctx context.Context, sessionID, memberID string) (*models.Ballot, error) {
	if _, err := e.getSession(ctx, e.db, sessionID); err != nil {
		return nil, err
	}

	b := models.Ballot{SessionID: sessionID, MemberID: memberID}
	err := e.db.QueryRowContext(ctx, `
		SELECT candidate_id, cast_at FROM ballot WHERE session_id = $1 AND member_id = $2
	`, sessionID, memberID).Scan(&b.CandidateID, &b.CastAt)

	if err == sql.ErrNoRows {
		return nil, NotFound("ballot")
	}
	if err != nil {
		return nil, StorageUnavailable(err)
	}

	return &b, nil
}
