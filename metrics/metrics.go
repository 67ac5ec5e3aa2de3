// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers the operational metrics of the voting engine and
// the HTTP layer. It implements voting.Recorder and
// middleware.StatusRecorder.
type Collector struct {
	registry *prometheus.Registry

	ballotsAccepted prometheus.Counter
	ballotsRejected *prometheus.CounterVec
	castLatency     prometheus.Histogram
	transitions     *prometheus.CounterVec
	tallyDivergence prometheus.Counter
	httpStatus      *prometheus.CounterVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		ballotsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vote_ballots_accepted_total",
			Help: "Ballots accepted and tallied",
		}),
		ballotsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vote_ballots_rejected_total",
			Help: "Cast attempts rejected, by reason",
		}, []string{"reason"}),
		castLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vote_cast_duration_seconds",
			Help:    "Latency of cast operations",
			Buckets: prometheus.DefBuckets,
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vote_session_transitions_total",
			Help: "Session lifecycle transitions, by target status",
		}, []string{"to"}),
		tallyDivergence: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vote_tally_divergence_total",
			Help: "Tally audits that found counters diverging from ballot rows",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vote_http_status_total",
			Help: "HTTP responses by status code",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.ballotsAccepted,
		c.ballotsRejected,
		c.castLatency,
		c.transitions,
		c.tallyDivergence,
		c.httpStatus,
	)

	return c
}

// Handler serves the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordCastAccepted counts an accepted ballot.
func (c *Collector) RecordCastAccepted() {
	c.ballotsAccepted.Inc()
}

// RecordCastRejected counts a rejected cast attempt by reason.
func (c *Collector) RecordCastRejected(reason string) {
	c.ballotsRejected.WithLabelValues(reason).Inc()
}

// ObserveCastLatency records the duration of one cast operation.
func (c *Collector) ObserveCastLatency(d time.Duration) {
	c.castLatency.Observe(d.Seconds())
}

// RecordSessionTransition counts a lifecycle transition.
func (c *Collector) RecordSessionTransition(to string) {
	c.transitions.WithLabelValues(to).Inc()
}

// RecordTallyDivergence counts an audit that found a mismatch.
func (c *Collector) RecordTallyDivergence() {
	c.tallyDivergence.Inc()
}

// RecordHTTPStatus counts a response by status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}
