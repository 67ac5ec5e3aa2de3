// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures so the HTTP layer can map each one to
// a status code without inspecting error strings.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindInvalidState       Kind = "invalid_state"
	KindVotingClosed       Kind = "voting_closed"
	KindIneligibleVoter    Kind = "ineligible_voter"
	KindDuplicateVote      Kind = "duplicate_vote"
	KindValidation         Kind = "validation"
	KindStorageUnavailable Kind = "storage_unavailable"
)

// Error is the typed result every engine operation returns on failure.
// StorageUnavailable is the only kind a caller may retry.
type Error struct {
	Kind    Kind
	Entity  string // set for KindNotFound
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Entity, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NotFound reports that a session, candidate, or ballot does not exist.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: entity + " not found"}
}

// InvalidState reports an operation attempted in a session state that
// disallows it (an open on an already-open session, a close on a
// scheduled one). Callers must re-read state, not retry.
func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// VotingClosed reports a cast against a session that is not open.
func VotingClosed(status string) *Error {
	return &Error{Kind: KindVotingClosed, Message: "session is not open for voting (status: " + status + ")"}
}

// Ineligible reports that the member is not in active standing at cast
// time.
func Ineligible(memberID string) *Error {
	return &Error{Kind: KindIneligibleVoter, Message: "member is not eligible to vote"}
}

// DuplicateVote reports that the member already holds a ballot in this
// session. Retrying is guaranteed to fail again.
func DuplicateVote() *Error {
	return &Error{Kind: KindDuplicateVote, Message: "member already voted in this session"}
}

// Validation reports a structurally invalid request.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// StorageUnavailable wraps a transport or storage failure. No partial
// state exists, so the caller may retry with backoff.
func StorageUnavailable(err error) *Error {
	return &Error{Kind: KindStorageUnavailable, Message: "storage unavailable", cause: err}
}

// KindOf extracts the Kind from err, or KindStorageUnavailable for
// anything that is not a *voting.Error (an unclassified failure is
// treated as infrastructure, never as caller fault).
func KindOf(err error) Kind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return KindStorageUnavailable
}
