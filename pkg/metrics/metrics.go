// Package metrics exposes Prometheus instrumentation for the maintenance
// orchestrator: counters for jobs discovered, jobs skipped, accepted
// schedule requests, host outcomes and audit appends, and histograms for
// pass and phase durations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// JobsDiscoveredTotal counts jobs produced by discovery, per pass.
	JobsDiscoveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "felix_jobs_discovered_total",
			Help: "Total number of jobs produced by discovery",
		},
	)

	// JobsSkippedTotal counts jobs dropped before or at dispatch, by reason.
	JobsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "felix_jobs_skipped_total",
			Help: "Total number of jobs skipped, by reason",
		},
		[]string{"reason"},
	)

	// ScheduleRequestsTotal counts maintenance-trigger requests the cloud
	// provider accepted: it is incremented when the
	// maintenance/schedule_accepted audit record is written, after the
	// work request reached SUCCEEDED. Bounded by DAILY_SCHEDULE_CAP within
	// a process.
	ScheduleRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "felix_schedule_requests_total",
			Help: "Total number of maintenance schedule requests accepted by the provider",
		},
	)

	// HostOutcomesTotal counts terminal per-host state-machine outcomes.
	HostOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "felix_host_outcomes_total",
			Help: "Total number of hosts reaching a terminal state, by state and kind",
		},
		[]string{"state", "kind"},
	)

	// PhaseDuration is a per-phase duration histogram. It is registered,
	// but no phase driver records into it, so it exports no samples.
	PhaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "felix_phase_duration_seconds",
			Help:    "Time taken by a phase driver to return, by phase",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600},
		},
		[]string{"phase"},
	)

	// PassDuration records the wall-clock time of a full orchestrator pass.
	PassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "felix_pass_duration_seconds",
			Help:    "Time taken for a full orchestrator pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	// AuditAppendsTotal counts audit records written, by phase/action.
	AuditAppendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "felix_audit_appends_total",
			Help: "Total number of audit records appended, by phase and action",
		},
		[]string{"phase", "action"},
	)
)

func init() {
	prometheus.MustRegister(JobsDiscoveredTotal)
	prometheus.MustRegister(JobsSkippedTotal)
	prometheus.MustRegister(ScheduleRequestsTotal)
	prometheus.MustRegister(HostOutcomesTotal)
	prometheus.MustRegister(PhaseDuration)
	prometheus.MustRegister(PassDuration)
	prometheus.MustRegister(AuditAppendsTotal)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
