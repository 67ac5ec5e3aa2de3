// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements the assembly voting engine: the session
lifecycle state machine, the cast path, and the tally protocol.

# Lifecycle

Sessions move scheduled -> open -> closed, with scheduled -> cancelled
as the only side branch. Transitions are optimistic single-statement
updates guarded on the expected prior status, so two racing
administrators cannot both win and the loser gets InvalidState.

# Casting

Cast checks its preconditions in a fixed order (session exists, session
open, candidate belongs, member eligible) and then performs the write
as one transaction: a conditional ballot insert against the
(session_id, member_id) primary key plus an atomic vote_count
increment. The duplicate check is the insert itself; there is no
read-then-write window anywhere on the path. Because correctness lives
in the data layer, any number of engine instances may serve casts
against the same database.

# Errors

Every operation returns a *voting.Error carrying a Kind. The HTTP layer
maps kinds to status codes without parsing messages; only
KindStorageUnavailable is retryable.

# Tallies

Candidate counters are a transactional cache of the ballot table: the
two are updated in one transaction and can never be observed diverging
after commit. VerifyTallies recomputes counts from ballots and reports
(never repairs) any mismatch. CloseSession freezes the summed total as
a reporting snapshot.
*/
package voting
