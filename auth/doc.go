// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the admin-key capability for session lifecycle
operations.

The engine itself knows nothing about roles: whoever presents the
session's admin key may open, close, or cancel it. Keys are HMAC-SHA256
over the session ID with a server-side salt, so they can be verified
statelessly:

	key := auth.GenerateAdminKey(sessionID, cfg.AdminKeySalt)
	if err := auth.ValidateAdminKey(sessionID, presented, cfg.AdminKeySalt); err != nil { ... }

Voter identity is out of scope here: the HTTP layer receives an
already-verified member ID and passes it through as an opaque string.
*/
package auth
