// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/assembleia/vote-server/middleware"
	"github.com/assembleia/vote-server/voting"
)

// statusByKind is the one place engine error kinds become HTTP status
// codes. No handler inspects error strings.
var statusByKind = map[voting.Kind]int{
	voting.KindNotFound:           http.StatusNotFound,
	voting.KindValidation:         http.StatusBadRequest,
	voting.KindInvalidState:       http.StatusConflict,
	voting.KindVotingClosed:       http.StatusConflict,
	voting.KindDuplicateVote:      http.StatusConflict,
	voting.KindIneligibleVoter:    http.StatusForbidden,
	voting.KindStorageUnavailable: http.StatusServiceUnavailable,
}

// writeEngineError maps a typed engine error onto the response.
func writeEngineError(w http.ResponseWriter, err error) {
	var ve *voting.Error
	if !errors.As(err, &ve) {
		slog.Error("unclassified engine error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
		return
	}

	status, ok := statusByKind[ve.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	if ve.Kind == voting.KindStorageUnavailable {
		slog.Error("storage unavailable", "error", err)
	}

	middleware.ErrorResponse(w, status, ve.Message)
}
