// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"log/slog"

	"github.com/assembleia/vote-server/models"
)

// Results returns the per-candidate tallies for a session. Valid in any
// state: live while open (every increment commits with its ballot, so
// reads are exact), immutable once closed or cancelled.
func (e *Engine) Results(ctx context.Context, sessionID string) (*models.VoteSession, []models.CandidateTally, error) {
	s, err := e.getSession(ctx, e.db, sessionID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := e.db.QueryContext(ctx, `
		SELECT id, name, role, vote_count
		FROM candidate
		WHERE session_id = $1
		ORDER BY vote_count DESC, name, id
	`, sessionID)
	if err != nil {
		return nil, nil, StorageUnavailable(err)
	}
	defer rows.Close()

	tallies := []models.CandidateTally{}
	for rows.Next() {
		var t models.CandidateTally
		if err := rows.Scan(&t.CandidateID, &t.Name, &t.Role, &t.VoteCount); err != nil {
			return nil, nil, StorageUnavailable(err)
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, StorageUnavailable(err)
	}

	return s, tallies, nil
}

// TotalBallots derives the session total. The frozen close-time
// snapshot wins when present; otherwise the tallies are summed.
func TotalBallots(s *models.VoteSession, tallies []models.CandidateTally) int64 {
	if s.TotalBallots != nil {
		return *s.TotalBallots
	}
	var total int64
	for _, t := range tallies {
		total += t.VoteCount
	}
	return total
}

// VerifyTallies recomputes every candidate's ballot count and compares
// it against the incremental counter. The counters are a transactional
// cache of the ballot table; any divergence means a past write broke
// atomicity and is reported, never repaired silently.
func (e *Engine) VerifyTallies(ctx context.Context, sessionID string) (*models.TallyAudit, error) {
	if _, err := e.getSession(ctx, e.db, sessionID); err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, `
		SELECT c.id, c.vote_count, COUNT(b.member_id)
		FROM candidate c
		LEFT JOIN ballot b ON b.candidate_id = c.id
		WHERE c.session_id = $1
		GROUP BY c.id, c.vote_count
	`, sessionID)
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	defer rows.Close()

	audit := models.TallyAudit{SessionID: sessionID, Consistent: true}
	for rows.Next() {
		var candidateID string
		var voteCount, ballotCount int64
		if err := rows.Scan(&candidateID, &voteCount, &ballotCount); err != nil {
			return nil, StorageUnavailable(err)
		}

		audit.TalliedCount += voteCount
		audit.BallotCount += ballotCount

		if voteCount != ballotCount {
			audit.Consistent = false
			audit.Mismatches = append(audit.Mismatches, models.TallyMismatch{
				CandidateID: candidateID,
				VoteCount:   voteCount,
				BallotCount: ballotCount,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, StorageUnavailable(err)
	}

	if !audit.Consistent {
		e.rec.RecordTallyDivergence()
		slog.Warn("tally divergence detected",
			"session_id", sessionID,
			"tallied", audit.TalliedCount,
			"ballots", audit.BallotCount,
			"mismatches", len(audit.Mismatches),
		)
	}

	return &audit, nil
}
