// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics collects and exposes Prometheus metrics.

Collector owns its own registry (no global state, so tests can create
as many as they like) and serves it via Handler on /metrics.

Exposed series:

	vote_ballots_accepted_total
	vote_ballots_rejected_total{reason}
	vote_cast_duration_seconds
	vote_session_transitions_total{to}
	vote_tally_divergence_total
	vote_http_status_total{status_code}
*/
package metrics
